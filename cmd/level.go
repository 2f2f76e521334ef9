package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/gcode"
	"github.com/fornellas/cgl/heightmap"
	"github.com/fornellas/cgl/level"
)

var mapPath string
var defaultMapPath = ""

var segmentLength float64
var defaultSegmentLength float64 = 0

var disableBoundsWarning bool
var defaultDisableBoundsWarning = false

var LevelCmd = &cobra.Command{
	Use:   "level [path]",
	Short: "Rewrite a g-code program so cutting depth follows the probed surface.",
	Long:  "Reads g-code from the given path, offsets every Z coordinate by the surface height interpolated from the height map, and splits long moves into segments so the tool tracks the surface between probe points.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "level",
			"path", path,
			"map", mapPath,
			"output", outputValue,
		)
		cmd.SetContext(ctx)

		m, err := heightmap.LoadFile(mapPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, f.Close()) }()

		w, err := outputValue.WriterCloser()
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, w.Close()) }()

		leveler, err := level.NewLeveler(gcode.NewParser(f), m, level.Options{
			SegmentLength:        segmentLength,
			DisableBoundsWarning: disableBoundsWarning,
		})
		if err != nil {
			return err
		}

		for {
			line, err := leveler.Next()
			if err != nil {
				return err
			}
			if line == nil {
				break
			}
			if _, err := fmt.Fprintln(w, *line); err != nil {
				return err
			}
		}

		for _, warning := range leveler.Warnings() {
			logger.Warn(warning)
		}

		return nil
	}),
}

func init() {
	LevelCmd.PersistentFlags().StringVarP(&mapPath, "map", "m", defaultMapPath, "Path to the height map file")
	if err := LevelCmd.MarkPersistentFlagRequired("map"); err != nil {
		panic(err)
	}
	LevelCmd.PersistentFlags().Float64VarP(&segmentLength, "segment-length", "s", defaultSegmentLength, "Max motion length before subdivision, default comes from the map")
	LevelCmd.PersistentFlags().BoolVar(&disableBoundsWarning, "disable-bounds-warning", defaultDisableBoundsWarning, "Do not warn about motions outside the probed area")

	AddOutputFlags(LevelCmd)
	RootCmd.AddCommand(LevelCmd)

	resetFlagsFns = append(resetFlagsFns, func() {
		mapPath = defaultMapPath
		segmentLength = defaultSegmentLength
		disableBoundsWarning = defaultDisableBoundsWarning
	})
}
