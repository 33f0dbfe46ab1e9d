package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSurge        BookmarkType = "surge"
	BookmarkPeakActivity BookmarkType = "peak_activity"
	BookmarkFullCoverage BookmarkType = "full_coverage"
	BookmarkStable       BookmarkType = "stable"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Iteration   uint32       `csv:"iteration"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"iteration", b.Iteration,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments of a run.
type BookmarkDetector struct {
	declineFraction float64

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	peakRate     float64 // highest topple rate seen since the last reset
	peakWindow   uint32  // window end of peakRate
	peakReported bool
	covered      bool
	stable       bool
}

// NewBookmarkDetector creates a detector with the given history size.
// declineFraction is the share of the peak topple rate below which the peak
// is considered over.
func NewBookmarkDetector(historySize int, declineFraction float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling average
	}
	if declineFraction <= 0 || declineFraction >= 1 {
		declineFraction = 0.5
	}
	return &BookmarkDetector{
		declineFraction: declineFraction,
		history:         make([]WindowStats, historySize),
		historySize:     historySize,
	}
}

// Reset forgets all history, e.g. after the grid has been reseeded.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize, bd.declineFraction)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Surge: topple rate > 2x rolling average, e.g. after grains were dropped
	if b := bd.checkSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Peak activity: rate fell below declineFraction of the best window
	if b := bd.checkPeakActivity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Full coverage: the avalanche wrapped around the torus
	if b := bd.checkFullCoverage(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Stable {
		if b := bd.Stable(stats.WindowEnd); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	return bookmarks
}

// Stable returns a stable bookmark the first time it is called after a reset
// and nil afterwards.
func (bd *BookmarkDetector) Stable(iteration uint32) *Bookmark {
	if bd.stable {
		return nil
	}
	bd.stable = true
	return &Bookmark{
		Type:        BookmarkStable,
		Iteration:   iteration,
		Description: fmt.Sprintf("Grid stable after %d iterations", iteration),
	}
}

// ClearStable re-arms the stable bookmark after the grid was disturbed.
func (bd *BookmarkDetector) ClearStable() {
	bd.stable = false
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalToppled uint64
	var totalSteps int
	for _, h := range history {
		totalToppled += h.Toppled
		totalSteps += h.Steps
	}
	if totalSteps == 0 || totalToppled == 0 {
		return nil
	}

	avgRate := float64(totalToppled) / float64(totalSteps)
	if stats.ToppleRate > avgRate*2.0 {
		return &Bookmark{
			Type:        BookmarkSurge,
			Iteration:   stats.WindowEnd,
			Description: fmt.Sprintf("Topple rate %.1f is %.1fx average (%.1f)", stats.ToppleRate, stats.ToppleRate/avgRate, avgRate),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPeakActivity(stats WindowStats) *Bookmark {
	if stats.ToppleRate > bd.peakRate {
		bd.peakRate = stats.ToppleRate
		bd.peakWindow = stats.WindowEnd
		// A new maximum after a reported peak starts a new episode
		bd.peakReported = false
		return nil
	}

	if bd.peakReported || bd.peakRate == 0 {
		return nil
	}

	if stats.ToppleRate < bd.peakRate*bd.declineFraction {
		bd.peakReported = true
		return &Bookmark{
			Type:        BookmarkPeakActivity,
			Iteration:   bd.peakWindow,
			Description: fmt.Sprintf("Peak topple rate %.1f per step; now %.1f at iteration %d", bd.peakRate, stats.ToppleRate, stats.WindowEnd),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFullCoverage(stats WindowStats) *Bookmark {
	if bd.covered || stats.Coverage < 1 {
		return nil
	}
	bd.covered = true
	return &Bookmark{
		Type:        BookmarkFullCoverage,
		Iteration:   stats.WindowEnd,
		Description: fmt.Sprintf("Every cell holds grains (%d cells)", stats.Occupied),
	}
}
