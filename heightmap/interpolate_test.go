package heightmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// unitSquareMap is the four corners of the unit square with Z = x + y.
func unitSquareMap() *HeightMap {
	return &HeightMap{
		Bounds: Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
		Points: []Point{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 2},
			{X: 0, Y: 1, Z: 1},
		},
	}
}

func TestInterpolateExactness(t *testing.T) {
	m := unitSquareMap()
	for _, p := range m.Points {
		t.Run(fmt.Sprintf("%.0f,%.0f", p.X, p.Y), func(t *testing.T) {
			z, ok := m.Interpolate(p.X, p.Y)
			require.True(t, ok)
			require.InDelta(t, p.Z, z, 1e-9)
		})
	}
}

func TestInterpolateLinearity(t *testing.T) {
	m := unitSquareMap()
	z, ok := m.Interpolate(0.5, 0.5)
	require.True(t, ok)
	require.InDelta(t, 1.0, z, 1e-9)
}

func TestInterpolateExtrapolation(t *testing.T) {
	m := unitSquareMap()

	// Z = x + y everywhere under linear extension, so a query past the far corner follows the
	// edge cell gradient rather than clamping to the corner sample.
	z, ok := m.Interpolate(2, 2)
	require.True(t, ok)
	require.InDelta(t, 4.0, z, 1e-9)

	z, ok = m.Interpolate(-1, 0)
	require.True(t, ok)
	require.InDelta(t, -1.0, z, 1e-9)
}

func TestInterpolateMultiCell(t *testing.T) {
	// 3x3 grid over [0,2]x[0,2] with Z = x*y.
	var points []Point
	for _, y := range []float64{0, 1, 2} {
		for _, x := range []float64{0, 1, 2} {
			points = append(points, Point{X: x, Y: y, Z: x * y})
		}
	}
	m := &HeightMap{
		Bounds: Bounds{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2},
		Points: points,
	}

	// Bilinear reproduces x*y exactly inside each unit cell.
	z, ok := m.Interpolate(1.5, 1.5)
	require.True(t, ok)
	require.InDelta(t, 2.25, z, 1e-9)

	z, ok = m.Interpolate(0.25, 1.75)
	require.True(t, ok)
	require.InDelta(t, 0.4375, z, 1e-9)
}

func TestInterpolateSparseMap(t *testing.T) {
	// 2 distinct values per axis, but the (1, 1) corner was never probed.
	m := &HeightMap{
		Bounds: Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
		Points: []Point{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 1},
			{X: 0, Y: 1, Z: 1},
		},
	}
	_, ok := m.Interpolate(0.5, 0.5)
	require.False(t, ok)
}

func TestZOffset(t *testing.T) {
	t.Run("nil map", func(t *testing.T) {
		var m *HeightMap
		require.Equal(t, 0.0, m.ZOffset(1, 2))
	})

	t.Run("empty points", func(t *testing.T) {
		m := &HeightMap{}
		require.Equal(t, 0.0, m.ZOffset(1, 2))
	})

	t.Run("unresolvable cell", func(t *testing.T) {
		m := &HeightMap{
			Bounds: Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
			Points: []Point{{X: 0, Y: 0, Z: 5}, {X: 1, Y: 0, Z: 5}},
		}
		require.Equal(t, 0.0, m.ZOffset(0.5, 0.5))
	})

	t.Run("resolvable", func(t *testing.T) {
		m := unitSquareMap()
		require.InDelta(t, 1.0, m.ZOffset(0.5, 0.5), 1e-9)
	})
}

func TestIsWithinBounds(t *testing.T) {
	m := unitSquareMap()
	require.True(t, m.IsWithinBounds(0.5, 0.5))
	require.True(t, m.IsWithinBounds(0, 0))
	require.True(t, m.IsWithinBounds(1, 1))
	require.False(t, m.IsWithinBounds(1.001, 0.5))
	require.False(t, m.IsWithinBounds(0.5, -0.001))
}
