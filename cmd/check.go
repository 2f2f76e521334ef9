package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/heightmap"
	"github.com/fornellas/cgl/level"
)

var CheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check whether a g-code program fits inside the probed area of a height map.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "check",
			"path", path,
			"map", mapPath,
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

		report, err := level.ValidateBounds(f, m)
		if err != nil {
			return err
		}

		logger.Info(
			"Program envelope",
			"min-x", report.GcodeMinX,
			"max-x", report.GcodeMaxX,
			"min-y", report.GcodeMinY,
			"max-y", report.GcodeMaxY,
		)
		logger.Info(
			"Map bounds",
			"min-x", m.Bounds.MinX,
			"max-x", m.Bounds.MaxX,
			"min-y", m.Bounds.MinY,
			"max-y", m.Bounds.MaxY,
		)

		if !report.Valid {
			return fmt.Errorf("program exceeds the probed area")
		}
		logger.Info("Program fits inside the probed area")

		return nil
	}),
}

func init() {
	CheckCmd.PersistentFlags().StringVarP(&mapPath, "map", "m", defaultMapPath, "Path to the height map file")
	if err := CheckCmd.MarkPersistentFlagRequired("map"); err != nil {
		panic(err)
	}

	RootCmd.AddCommand(CheckCmd)
}
