package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fornellas/cgl/heightmap"
)

var minX float64
var defaultMinX float64 = 0

var maxX float64
var defaultMaxX float64 = 0

var minY float64
var defaultMinY float64 = 0

var maxY float64
var defaultMaxY float64 = 0

var gridSpacing float64
var defaultGridSpacing float64 = 0

var pointCountX int
var defaultPointCountX = 3

var pointCountY int
var defaultPointCountY = 3

func AddGridFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Float64Var(&minX, "min-x", defaultMinX, "Lower X bound of the probe area")
	cmd.PersistentFlags().Float64Var(&maxX, "max-x", defaultMaxX, "Upper X bound of the probe area")
	cmd.PersistentFlags().Float64Var(&minY, "min-y", defaultMinY, "Lower Y bound of the probe area")
	cmd.PersistentFlags().Float64Var(&maxY, "max-y", defaultMaxY, "Upper Y bound of the probe area")
	cmd.PersistentFlags().Float64Var(&gridSpacing, "spacing", defaultGridSpacing, "Max distance between probe points; overrides the point counts when set")
	cmd.PersistentFlags().IntVar(&pointCountX, "count-x", defaultPointCountX, "Number of probe points along X")
	cmd.PersistentFlags().IntVar(&pointCountY, "count-y", defaultPointCountY, "Number of probe points along Y")
}

// GetGridBounds returns the probe area from the bound flags. Inverted bounds are swapped rather
// than rejected, so --min-x 10 --max-x 0 means the same area as --min-x 0 --max-x 10.
func GetGridBounds() (heightmap.Bounds, error) {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	if minX == maxX || minY == maxY {
		return heightmap.Bounds{}, fmt.Errorf("probe area is empty: X [%v, %v] Y [%v, %v]", minX, maxX, minY, maxY)
	}
	return heightmap.Bounds{
		MinX: minX,
		MaxX: maxX,
		MinY: minY,
		MaxY: maxY,
	}, nil
}

func GetGridOptions() (heightmap.GridOptions, error) {
	if gridSpacing < 0 {
		return heightmap.GridOptions{}, fmt.Errorf("--spacing must be > 0")
	}
	if gridSpacing > 0 {
		return heightmap.GridOptions{
			Spacing:    gridSpacing,
			UseSpacing: true,
		}, nil
	}
	if pointCountX < 2 || pointCountY < 2 {
		return heightmap.GridOptions{}, fmt.Errorf("--count-x and --count-y must be >= 2")
	}
	return heightmap.GridOptions{
		CountX: pointCountX,
		CountY: pointCountY,
	}, nil
}

func init() {
	resetFlagsFns = append(resetFlagsFns, func() {
		minX = defaultMinX
		maxX = defaultMaxX
		minY = defaultMinY
		maxY = defaultMaxY
		gridSpacing = defaultGridSpacing
		pointCountX = defaultPointCountX
		pointCountY = defaultPointCountY
	})
}
