package grbl

import (
	"context"
	"errors"
	"fmt"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/heightmap"
)

// ErrProbeFailed is returned when a probe stroke did not contact the workpiece or the controller
// reported a failed cycle. Probing stops immediately: a fabricated value would corrupt the map.
var ErrProbeFailed = errors.New("probe failed")

func (g *Grbl) command(ctx context.Context, format string, args ...any) ([]Message, error) {
	return g.SendCommand(ctx, fmt.Sprintf(format, args...))
}

// probeZ runs a single G38.2 probe stroke at the current XY and returns the reported Z.
func (g *Grbl) probeZ(ctx context.Context, cfg heightmap.Config) (float64, error) {
	pushed, err := g.command(ctx, "G38.2 Z%.4f F%.4f", -cfg.MaxProbeDepth, cfg.ProbeFeedRate)
	if err != nil {
		return 0, err
	}
	for _, message := range pushed {
		probe, ok := message.(*MessageProbe)
		if !ok {
			continue
		}
		if !probe.Successful {
			return 0, fmt.Errorf("%w: controller reported unsuccessful cycle", ErrProbeFailed)
		}
		return probe.Coordinates.Z, nil
	}
	return 0, fmt.Errorf("%w: no probe report received", ErrProbeFailed)
}

// ProbeGrid probes every target in order and returns one Z measurement per point. The tool
// travels at cfg.ZClearance between points and plunges at cfg.ProbeFeedRate down to at most
// cfg.MaxProbeDepth below zero. The first failed probe aborts the whole run.
func (g *Grbl) ProbeGrid(
	ctx context.Context,
	points []heightmap.GridPoint,
	cfg heightmap.Config,
) ([]float64, error) {
	logger := log.MustLogger(ctx)

	// Absolute positioning, millimeters.
	if _, err := g.SendCommand(ctx, "G21"); err != nil {
		return nil, err
	}
	if _, err := g.SendCommand(ctx, "G90"); err != nil {
		return nil, err
	}
	if _, err := g.command(ctx, "G0 Z%.4f", cfg.ZClearance); err != nil {
		return nil, err
	}

	zValues := make([]float64, 0, len(points))
	for i, point := range points {
		logger.Info("Probing", "point", i+1, "of", len(points), "x", point.X, "y", point.Y)

		if _, err := g.command(ctx, "G0 X%.4f Y%.4f", point.X, point.Y); err != nil {
			return nil, err
		}
		z, err := g.probeZ(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("point %d (%.3f, %.3f): %w", i+1, point.X, point.Y, err)
		}
		logger.Debug("Probed", "z", z)
		zValues = append(zValues, z)

		if _, err := g.command(ctx, "G0 Z%.4f", cfg.ZClearance); err != nil {
			return nil, err
		}
	}

	return zValues, nil
}
