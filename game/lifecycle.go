package game

import "log/slog"

// Unload writes the final snapshot, closes output files and stops the
// grid's worker pool.
func (g *Game) Unload() {
	g.saveSnapshot()

	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.grid.Close()
}
