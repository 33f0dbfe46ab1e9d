package sim

import (
	"log/slog"

	"github.com/pthm-cable/sandpiles/telemetry"
)

// flushTelemetry closes the current window, logs and writes it, and checks
// it for bookmarks.
func (r *Runner) flushTelemetry() {
	stats := r.collector.Flush(r.grid.Iteration(), len(r.grid.Dirty()), r.stable, r.grid.Cells())
	perfStats := r.perf.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	r.emitBookmarks(r.bookmarks.Check(stats))
}

func (r *Runner) emitBookmarks(bookmarks []telemetry.Bookmark) {
	for _, bm := range bookmarks {
		if r.logStats {
			bm.LogBookmark()
		}
		if err := r.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
