package heightmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	points := []GridPoint{
		{X: 0, Y: 0}, {X: 10, Y: 0},
		{X: 10, Y: 5}, {X: 0, Y: 5},
	}

	t.Run("bounds and resolution derive from points", func(t *testing.T) {
		m, err := Build(points, []float64{0.1, 0.2, 0.3, 0.4}, nil)
		require.NoError(t, err)
		require.Equal(t, Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 5}, m.Bounds)
		require.Equal(t, Resolution{X: 2, Y: 2}, m.Resolution)
		require.Len(t, m.Points, 4)
		require.False(t, m.CreatedAt.IsZero())
	})

	t.Run("partial probe still yields usable bounds", func(t *testing.T) {
		m, err := Build(points[:3], []float64{0.1, 0.2, 0.3}, nil)
		require.NoError(t, err)
		require.Equal(t, Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 5}, m.Bounds)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := Build(points, []float64{0.1, 0.2}, nil)
		require.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestNormalize(t *testing.T) {
	m := &HeightMap{
		Points: []Point{
			{X: 0, Y: 0, Z: -2},
			{X: 1, Y: 0, Z: -1},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 1, Z: 1},
		},
	}

	nm := m.Normalize()
	zs := nm.zValues()
	require.Equal(t, []float64{0, 1, 2, 3}, zs)

	// The input map is left untouched.
	require.Equal(t, -2.0, m.Points[0].Z)

	// Normalizing twice is a no-op.
	require.Equal(t, zs, nm.Normalize().zValues())
}

func TestNormalizeEmpty(t *testing.T) {
	m := &HeightMap{}
	require.Same(t, m, m.Normalize())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		m      *HeightMap
		errStr string
	}{
		{
			name:   "nil map",
			m:      nil,
			errStr: "no height map",
		},
		{
			name:   "empty points",
			m:      &HeightMap{},
			errStr: "no probe points",
		},
		{
			name: "too few points",
			m: &HeightMap{Points: []Point{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
			}},
			errStr: "need at least 4",
		},
		{
			name: "single x coordinate",
			m: &HeightMap{Points: []Point{
				{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3},
			}},
			errStr: "single X coordinate",
		},
		{
			name: "single y coordinate",
			m: &HeightMap{Points: []Point{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
			}},
			errStr: "single Y coordinate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			require.ErrorIs(t, err, ErrInvalidMap)
			require.ErrorContains(t, err, tc.errStr)
		})
	}

	t.Run("valid map", func(t *testing.T) {
		m := &HeightMap{Points: []Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
		}}
		require.NoError(t, m.Validate())
	})
}

func TestSummarize(t *testing.T) {
	m := &HeightMap{Points: []Point{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 2},
		{X: 1, Y: 1, Z: 3},
	}}
	summary := m.Summarize()
	require.Equal(t, 0.0, summary.MinZ)
	require.Equal(t, 3.0, summary.MaxZ)
	require.Equal(t, 1.5, summary.MeanZ)
	require.InDelta(t, 1.29099, summary.StdDevZ, 0.0001)
}
