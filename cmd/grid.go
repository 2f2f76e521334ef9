package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/cgl/heightmap"
	iFmt "github.com/fornellas/cgl/internal/fmt"
)

var GridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the probe targets for a given area without touching the machine.",
	Args:  cobra.NoArgs,
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		ctx, logger := log.MustWithGroupAttrs(
			cmd.Context(), "grid",
			"output", outputValue,
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

		points := heightmap.GenerateGrid(bounds, opts)
		logger.Info("Generated grid", "points", len(points))

		w, err := outputValue.WriterCloser()
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, w.Close()) }()

		for i, point := range points {
			if _, err := fmt.Fprintf(
				w, "%d: X%s Y%s\n",
				i, iFmt.SprintFloat(point.X, 3), iFmt.SprintFloat(point.Y, 3),
			); err != nil {
				return err
			}
		}

		return nil
	}),
}

func init() {
	AddGridFlags(GridCmd)
	AddOutputFlags(GridCmd)
	RootCmd.AddCommand(GridCmd)
}
