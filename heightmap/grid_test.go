package heightmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateGridCountMode(t *testing.T) {
	bounds := Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 20}

	t.Run("2x2 returns the rectangle corners", func(t *testing.T) {
		points := GenerateGrid(bounds, GridOptions{CountX: 2, CountY: 2})
		require.Equal(t, []GridPoint{
			{X: 0, Y: 0},
			{X: 10, Y: 0},
			{X: 10, Y: 20},
			{X: 0, Y: 20},
		}, points)
	})

	t.Run("exact count per axis", func(t *testing.T) {
		points := GenerateGrid(bounds, GridOptions{CountX: 3, CountY: 5})
		require.Len(t, points, 15)
	})

	t.Run("coordinates rounded to 3 decimals", func(t *testing.T) {
		// A thirds grid exercises the rounding.
		points := GenerateGrid(
			Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
			GridOptions{CountX: 4, CountY: 4},
		)
		require.Equal(t, 0.333, points[1].X)
		require.Equal(t, 0.667, points[2].X)
	})
}

func TestGenerateGridSpacingMode(t *testing.T) {
	t.Run("far edge always sampled", func(t *testing.T) {
		// 10 is not an integer multiple of 3: last step is clamped to the edge.
		points := GenerateGrid(
			Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
			GridOptions{Spacing: 3, UseSpacing: true},
		)
		var xs []float64
		for _, p := range points {
			if p.Y == 0 {
				xs = append(xs, p.X)
			}
		}
		require.Equal(t, []float64{0, 3, 6, 9, 10}, xs)
	})

	t.Run("exact multiple has no duplicate edge", func(t *testing.T) {
		points := GenerateGrid(
			Bounds{MinX: 0, MaxX: 9, MinY: 0, MaxY: 9},
			GridOptions{Spacing: 3, UseSpacing: true},
		)
		var xs []float64
		for _, p := range points {
			if p.Y == 0 {
				xs = append(xs, p.X)
			}
		}
		require.Equal(t, []float64{0, 3, 6, 9}, xs)
	})
}

func TestGenerateGridZigzag(t *testing.T) {
	testCases := []GridOptions{
		{CountX: 4, CountY: 5},
		{CountX: 2, CountY: 3},
		{Spacing: 2.5, UseSpacing: true},
	}

	bounds := Bounds{MinX: -5, MaxX: 5, MinY: 0, MaxY: 8}

	for _, opts := range testCases {
		t.Run(fmt.Sprintf("%+v", opts), func(t *testing.T) {
			points := GenerateGrid(bounds, opts)
			require.NotEmpty(t, points)

			// Split into rows by Y, preserving order.
			var rows [][]GridPoint
			for _, p := range points {
				if len(rows) == 0 || rows[len(rows)-1][0].Y != p.Y {
					rows = append(rows, nil)
				}
				rows[len(rows)-1] = append(rows[len(rows)-1], p)
			}

			lastY := bounds.MinY - 1
			for i, row := range rows {
				require.Greater(t, row[0].Y, lastY, "rows must have increasing Y")
				lastY = row[0].Y
				for j := 1; j < len(row); j++ {
					if i%2 == 0 {
						require.GreaterOrEqual(t, row[j].X, row[j-1].X,
							"even row %d must have non-decreasing X", i)
					} else {
						require.LessOrEqual(t, row[j].X, row[j-1].X,
							"odd row %d must have non-increasing X", i)
					}
				}
			}
		})
	}
}
