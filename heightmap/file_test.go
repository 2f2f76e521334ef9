package heightmap

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m := &HeightMap{
		Bounds:     Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 5},
		Resolution: Resolution{X: 2, Y: 2},
		Points: []Point{
			{X: 0, Y: 0, Z: 0.01},
			{X: 10, Y: 0, Z: 0.02},
			{X: 10, Y: 5, Z: 0.03},
			{X: 0, Y: 5, Z: 0.04},
		},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Units:     "mm",
		Config: &Config{
			GridSpacing:   5,
			UseSpacing:    true,
			ZClearance:    2,
			ProbeFeedRate: 50,
			MaxProbeDepth: 1,
			SegmentLength: 5,
		},
	}

	var buff bytes.Buffer
	require.NoError(t, m.Save(&buff))

	loaded, err := Load(&buff)
	require.NoError(t, err)
	require.Equal(t, m.Bounds, loaded.Bounds)
	require.Equal(t, m.Resolution, loaded.Resolution)
	require.Equal(t, m.Points, loaded.Points)
	require.True(t, m.CreatedAt.Equal(loaded.CreatedAt))
	require.Equal(t, m.Units, loaded.Units)
	require.Equal(t, m.Config, loaded.Config)
}

func TestSaveLoadFile(t *testing.T) {
	m := &HeightMap{
		Bounds:     Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
		Resolution: Resolution{X: 2, Y: 2},
		Points: []Point{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 2},
			{X: 0, Y: 1, Z: 1},
		},
	}

	path := filepath.Join(t.TempDir(), "surface.yaml")
	require.NoError(t, m.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, m.Points, loaded.Points)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(strings.NewReader("{not yaml: ["))
	require.ErrorIs(t, err, ErrMalformedFile)
}

func TestLoadInvalidMap(t *testing.T) {
	doc := `
bounds:
  min_x: 0
  max_x: 1
  min_y: 0
  max_y: 1
points:
  - {x: 0, y: 0, z: 0}
  - {x: 1, y: 0, z: 0}
`
	_, err := Load(strings.NewReader(doc))
	require.ErrorIs(t, err, ErrInvalidMap)
}
