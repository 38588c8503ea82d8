package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the record
// out to the log, the CSV output and the HUD.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.grid)
	// Graphical ticks vary in length; report the clock's time.
	stats.SimTimeSec = g.clock.Time()
	perfStats := g.perf.Stats()
	g.lastStats = &stats

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// saveSnapshot writes the current swarm state to the snapshot directory.
func (g *Game) saveSnapshot() {
	if g.snapshotDir == "" {
		return
	}
	snap := telemetry.NewSnapshot(g.grid, g.seed, g.tick, g.clock.Time())
	snap.Reseeds = g.reseeds
	snap.LastReseedTick = g.lastReseedTick
	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}
