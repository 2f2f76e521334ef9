package heightmap

import (
	"errors"
	"fmt"
	"time"
)

// ErrShapeMismatch is returned when probe points and measured Z values disagree in count.
var ErrShapeMismatch = errors.New("probe points and z values count mismatch")

// Build assembles raw probe results into a height map. Bounds are derived from the supplied
// points, not from cfg, so a partially completed probe still yields usable bounds. Resolution is
// the count of distinct X and Y coordinates actually present.
func Build(points []GridPoint, zValues []float64, cfg *Config) (*HeightMap, error) {
	if len(points) != len(zValues) {
		return nil, fmt.Errorf(
			"%w: %d points, %d z values", ErrShapeMismatch, len(points), len(zValues),
		)
	}

	m := &HeightMap{
		Points:    make([]Point, len(points)),
		CreatedAt: time.Now(),
		Config:    cfg,
	}

	distinctX := map[float64]bool{}
	distinctY := map[float64]bool{}
	for i, gp := range points {
		m.Points[i] = Point{X: gp.X, Y: gp.Y, Z: zValues[i]}
		if i == 0 {
			m.Bounds = Bounds{MinX: gp.X, MaxX: gp.X, MinY: gp.Y, MaxY: gp.Y}
		} else {
			m.Bounds.MinX = min(m.Bounds.MinX, gp.X)
			m.Bounds.MaxX = max(m.Bounds.MaxX, gp.X)
			m.Bounds.MinY = min(m.Bounds.MinY, gp.Y)
			m.Bounds.MaxY = max(m.Bounds.MaxY, gp.Y)
		}
		distinctX[gp.X] = true
		distinctY[gp.Y] = true
	}
	m.Resolution = Resolution{X: len(distinctX), Y: len(distinctY)}

	return m, nil
}
