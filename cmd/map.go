package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/heightmap"
	iFmt "github.com/fornellas/cgl/internal/fmt"
)

var MapCmd = &cobra.Command{
	Use:   "map",
	Short: "Inspect and manipulate height map files.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			panic(err)
		}
		Exit(1)
	},
}

var MapInfoCmd = &cobra.Command{
	Use:   "info [path]",
	Short: "Print a summary of a height map file.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		ctx, _ := log.MustWithGroupAttrs(
			cmd.Context(), "info",
			"path", path,
		)
		cmd.SetContext(ctx)

		m, err := heightmap.LoadFile(path)
		if err != nil {
			return err
		}
		summary := m.Summarize()

		w, err := outputValue.WriterCloser()
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, w.Close()) }()

		_, err = fmt.Fprintf(
			w,
			"created: %s\n"+
				"units: %s\n"+
				"bounds: X [%s, %s] Y [%s, %s]\n"+
				"resolution: %dx%d (%d points)\n"+
				"z: min %s max %s mean %s stddev %s\n",
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.Units,
			iFmt.SprintFloat(m.Bounds.MinX, 3), iFmt.SprintFloat(m.Bounds.MaxX, 3),
			iFmt.SprintFloat(m.Bounds.MinY, 3), iFmt.SprintFloat(m.Bounds.MaxY, 3),
			m.Resolution.X, m.Resolution.Y, len(m.Points),
			iFmt.SprintFloat(summary.MinZ, 4), iFmt.SprintFloat(summary.MaxZ, 4),
			iFmt.SprintFloat(summary.MeanZ, 4), iFmt.SprintFloat(summary.StdDevZ, 4),
		)
		return err
	}),
}

var MapNormalizeCmd = &cobra.Command{
	Use:   "normalize [path]",
	Short: "Shift all map measurements so the lowest point reads zero.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) error {
		path := args[0]

		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "normalize",
			"path", path,
		)
		cmd.SetContext(ctx)

		m, err := heightmap.LoadFile(path)
		if err != nil {
			return err
		}

		nm := m.Normalize()
		if err := nm.SaveFile(path); err != nil {
			return err
		}

		summary := nm.Summarize()
		logger.Info("Normalized", "max-z", summary.MaxZ)

		return nil
	}),
}

var MapValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate the structure of a height map file.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) error {
		path := args[0]

		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "validate",
			"path", path,
		)
		cmd.SetContext(ctx)

		m, err := heightmap.LoadFile(path)
		if err != nil {
			return err
		}

		logger.Info("Height map is valid", "points", len(m.Points))

		return nil
	}),
}

func init() {
	AddOutputFlags(MapInfoCmd)

	MapCmd.AddCommand(MapInfoCmd)
	MapCmd.AddCommand(MapNormalizeCmd)
	MapCmd.AddCommand(MapValidateCmd)
	RootCmd.AddCommand(MapCmd)
}
