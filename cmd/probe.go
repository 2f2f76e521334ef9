package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/grbl"
	"github.com/fornellas/cgl/heightmap"
)

var zClearance float64
var defaultZClearance float64 = 2.0

var probeFeedRate float64
var defaultProbeFeedRate float64 = 50.0

var maxProbeDepth float64
var defaultMaxProbeDepth float64 = 1.0

var probeNormalize bool
var defaultProbeNormalize = true

var ProbeCmd = &cobra.Command{
	Use:   "probe [map path]",
	Short: "Probe the workpiece surface and save the height map to the given path.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		mapPath := args[0]

		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "probe",
			"map", mapPath,
			"port-name", portName,
			"address", address,
		)
		cmd.SetContext(ctx)

		bounds, err := GetGridBounds()
		if err != nil {
			return err
		}
		opts, err := GetGridOptions()
		if err != nil {
			return err
		}
		if zClearance <= 0 {
			return fmt.Errorf("--z-clearance must be > 0")
		}
		if probeFeedRate <= 0 {
			return fmt.Errorf("--probe-feed-rate must be > 0")
		}
		if maxProbeDepth <= 0 {
			return fmt.Errorf("--max-probe-depth must be > 0")
		}

		cfg := &heightmap.Config{
			GridSpacing:   opts.Spacing,
			PointCountX:   opts.CountX,
			PointCountY:   opts.CountY,
			UseSpacing:    opts.UseSpacing,
			ZClearance:    zClearance,
			ProbeFeedRate: probeFeedRate,
			MaxProbeDepth: maxProbeDepth,
			SegmentLength: segmentLength,
		}

		points := heightmap.GenerateGrid(bounds, opts)
		logger.Info("Generated grid", "points", len(points))

		port, err := OpenPort(ctx)
		if err != nil {
			return err
		}
		machine := grbl.New(port)
		defer func() { err = errors.Join(err, machine.Close()) }()

		welcome, err := machine.Connect(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		logger.Info("Connected", "version", welcome.Version)

		zValues, err := machine.ProbeGrid(ctx, points, *cfg)
		if err != nil {
			return err
		}

		m, err := heightmap.Build(points, zValues, cfg)
		if err != nil {
			return err
		}
		if probeNormalize {
			m = m.Normalize()
		}

		summary := m.Summarize()
		logger.Info(
			"Probing done",
			"min-z", summary.MinZ,
			"max-z", summary.MaxZ,
			"mean-z", summary.MeanZ,
			"stddev-z", summary.StdDevZ,
		)

		if err := m.SaveFile(mapPath); err != nil {
			return err
		}
		logger.Info("Saved height map", "path", mapPath)

		return nil
	}),
}

func init() {
	ProbeCmd.PersistentFlags().Float64Var(&zClearance, "z-clearance", defaultZClearance, "Travel height between probe points")
	ProbeCmd.PersistentFlags().Float64Var(&probeFeedRate, "probe-feed-rate", defaultProbeFeedRate, "Plunge feed rate for the probe stroke")
	ProbeCmd.PersistentFlags().Float64Var(&maxProbeDepth, "max-probe-depth", defaultMaxProbeDepth, "Max distance below zero the probe may travel")
	ProbeCmd.PersistentFlags().BoolVar(&probeNormalize, "normalize", defaultProbeNormalize, "Shift all measurements so the lowest point reads zero")
	ProbeCmd.PersistentFlags().Float64Var(&segmentLength, "segment-length", defaultSegmentLength, "Segment length to embed in the map for levelling")

	AddGridFlags(ProbeCmd)
	AddPortFlags(ProbeCmd)
	RootCmd.AddCommand(ProbeCmd)

	resetFlagsFns = append(resetFlagsFns, func() {
		zClearance = defaultZClearance
		probeFeedRate = defaultProbeFeedRate
		maxProbeDepth = defaultMaxProbeDepth
		probeNormalize = defaultProbeNormalize
	})
}
