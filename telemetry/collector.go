package telemetry

// Collector accumulates grid activity within iteration windows and produces
// WindowStats.
type Collector struct {
	windowIterations uint32

	// Current window tracking
	windowStart uint32
	lastIter    uint32
	lastToppled uint64

	// Counters for current window
	steps   int
	toppled uint64
}

// NewCollector creates a collector that flushes every windowIterations
// iterations, starting from the given iteration and lifetime topple count.
func NewCollector(windowIterations int, iteration uint32, toppled uint64) *Collector {
	if windowIterations < 1 {
		windowIterations = 1
	}
	c := &Collector{windowIterations: uint32(windowIterations)}
	c.Reset(iteration, toppled)
	return c
}

// Reset discards the current window and restarts counting from the given
// grid counters.
func (c *Collector) Reset(iteration uint32, toppled uint64) {
	c.windowStart = iteration
	c.lastIter = iteration
	c.lastToppled = toppled
	c.steps = 0
	c.toppled = 0
}

// Record takes the grid's iteration and lifetime topple counters after a
// batch of steps and adds the difference to the current window.
func (c *Collector) Record(iteration uint32, toppled uint64) {
	c.steps += int(iteration - c.lastIter)
	c.toppled += toppled - c.lastToppled
	c.lastIter = iteration
	c.lastToppled = toppled
}

// ShouldFlush returns true if enough iterations have passed to flush the window.
func (c *Collector) ShouldFlush(iteration uint32) bool {
	return iteration-c.windowStart >= c.windowIterations
}

// Pending reports whether the current window has recorded any step.
func (c *Collector) Pending() bool {
	return c.steps > 0
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the iteration, the dirty set size, whether the grid is
// stable, and the grain buffer to summarise.
func (c *Collector) Flush(iteration uint32, dirty int, stable bool, cells []uint32) WindowStats {
	var rate float64
	if c.steps > 0 {
		rate = float64(c.toppled) / float64(c.steps)
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   iteration,
		Steps:       c.steps,
		Toppled:     c.toppled,
		ToppleRate:  rate,
		Dirty:       dirty,
		Stable:      stable,
	}
	stats.SetGrains(ComputeGrainStats(cells))

	// Reset for next window
	c.windowStart = iteration
	c.steps = 0
	c.toppled = 0

	return stats
}

// WindowIterations returns the number of iterations per window.
func (c *Collector) WindowIterations() uint32 {
	return c.windowIterations
}
