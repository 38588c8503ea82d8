// Command swarmstats summarizes a saved swarm snapshot.
//
// Usage: go run ./cmd/swarmstats snapshot_1200.json [more.json ...]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/flock/telemetry"
)

func main() {
	asJSON := flag.Bool("json", false, "Log summaries as JSON via slog instead of a table")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: swarmstats [-json] snapshot.json ...")
		os.Exit(2)
	}

	if *asJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	failed := false
	for _, path := range flag.Args() {
		snap, err := telemetry.LoadSnapshot(path)
		if err != nil {
			slog.Error("failed to load snapshot", "path", path, "error", err)
			failed = true
			continue
		}

		s := telemetry.Sample(snap.States(), snap.SwarmBounds(), nil, nil)
		if *asJSON {
			slog.Info("snapshot_stats",
				"path", path,
				"seed", snap.RNGSeed,
				"reseeds", snap.Reseeds,
				"tick", snap.Tick,
				"sim_time", snap.SimTimeSec,
				"agents", s.Agents,
				"speed_mean", s.SpeedMean,
				"speed_p90", s.SpeedP90,
				"saturated_frac", s.SaturatedFrac,
				"height_mean", s.HeightMean,
				"outside_frac", s.OutsideFrac,
			)
			continue
		}

		fmt.Printf("%s (seed %d, %dx%d, tick %d, t=%.1fs)\n",
			path, snap.RNGSeed, snap.GridWidth, snap.GridHeight, snap.Tick, snap.SimTimeSec)
		if snap.Reseeds > 0 {
			fmt.Printf("  reseeded:   %d times, last at tick %d\n", snap.Reseeds, snap.LastReseedTick)
		}
		fmt.Printf("  agents:     %d\n", s.Agents)
		fmt.Printf("  speed:      mean %.3f  std %.3f  p50 %.3f  p90 %.3f  max %.3f\n",
			s.SpeedMean, s.SpeedStd, s.SpeedP50, s.SpeedP90, s.SpeedMax)
		fmt.Printf("  saturated:  %.1f%%\n", s.SaturatedFrac*100)
		fmt.Printf("  height:     mean %.2f  std %.2f\n", s.HeightMean, s.HeightStd)
		fmt.Printf("  outside:    %.1f%%\n", s.OutsideFrac*100)
		fmt.Printf("  phase mean: %.2f\n", s.PhaseMean)
		fmt.Printf("  bounds:     x [%.1f, %.1f]  z [%.1f, %.1f]\n",
			snap.Bounds.MinX, snap.Bounds.MaxX, snap.Bounds.MinZ, snap.Bounds.MaxZ)
	}

	if failed {
		os.Exit(1)
	}
}
