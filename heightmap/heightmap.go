// Package heightmap measures and models the height of an uneven work surface, so that G-code
// programs can be adjusted to follow it.
package heightmap

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidMap is returned when a height map can not support bilinear interpolation.
var ErrInvalidMap = errors.New("invalid height map")

// Point is a single measured or interpolated sample.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Bounds is the rectangular envelope of the probed area.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// Contains returns true if (x, y) falls inside the bounds, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Resolution is the count of distinct sample columns / rows present in a height map.
type Resolution struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Config holds the probing and transform parameters. It is carried alongside a HeightMap so a
// saved map is self describing.
type Config struct {
	// GridSpacing is the max distance between neighbour probe points, used when UseSpacing is
	// true.
	GridSpacing float64 `yaml:"grid_spacing,omitempty"`
	// PointCountX / PointCountY are the probe counts per axis, used when UseSpacing is false.
	PointCountX int  `yaml:"point_count_x,omitempty"`
	PointCountY int  `yaml:"point_count_y,omitempty"`
	UseSpacing  bool `yaml:"use_spacing"`
	// ZClearance is the height the tool travels at between probes.
	ZClearance float64 `yaml:"z_clearance"`
	// ProbeFeedRate is the plunge feed rate for the probe stroke.
	ProbeFeedRate float64 `yaml:"probe_feed_rate"`
	// MaxProbeDepth is how far below zero the probe stroke may travel before giving up.
	MaxProbeDepth float64 `yaml:"max_probe_depth"`
	// SegmentLength is the max length of a motion segment when applying the map to a program:
	// longer moves are subdivided so each sub-segment gets its own Z offset.
	SegmentLength float64 `yaml:"segment_length"`
}

// HeightMap is a probed model of the work surface. Once built it is never mutated: Normalize
// returns a new map, and interpolation only reads it, so a single HeightMap may be shared by
// concurrent transforms.
type HeightMap struct {
	Bounds     Bounds     `yaml:"bounds"`
	Resolution Resolution `yaml:"resolution"`
	// Points are in probing order (zigzag). Interpolation treats them as an unordered point
	// cloud keyed by (x, y).
	Points    []Point   `yaml:"points"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
	Units     string    `yaml:"units,omitempty"`
	Config    *Config   `yaml:"config,omitempty"`
}

func distinctValues(points []Point, getFn func(Point) float64) []float64 {
	seen := map[float64]bool{}
	var values []float64
	for _, p := range points {
		v := getFn(p)
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// Validate returns a wrapped ErrInvalidMap when the map can not support bilinear interpolation:
// nil map, no points, fewer than 4 points, or all points on a single line.
func (m *HeightMap) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: no height map", ErrInvalidMap)
	}
	if len(m.Points) == 0 {
		return fmt.Errorf("%w: no probe points", ErrInvalidMap)
	}
	if len(m.Points) < 4 {
		return fmt.Errorf("%w: %d probe points, need at least 4", ErrInvalidMap, len(m.Points))
	}
	if len(distinctValues(m.Points, func(p Point) float64 { return p.X })) < 2 {
		return fmt.Errorf("%w: all probe points share a single X coordinate", ErrInvalidMap)
	}
	if len(distinctValues(m.Points, func(p Point) float64 { return p.Y })) < 2 {
		return fmt.Errorf("%w: all probe points share a single Y coordinate", ErrInvalidMap)
	}
	return nil
}

func (m *HeightMap) zValues() []float64 {
	zs := make([]float64, len(m.Points))
	for i, p := range m.Points {
		zs[i] = p.Z
	}
	return zs
}

// Normalize returns a copy of the map with every Z shifted so the lowest sampled point becomes
// the Z=0 reference. Normalizing an already normalized map is a no-op. An empty map is returned
// unchanged.
func (m *HeightMap) Normalize() *HeightMap {
	if len(m.Points) == 0 {
		return m
	}

	minZ := floats.Min(m.zValues())

	nm := *m
	nm.Points = make([]Point, len(m.Points))
	for i, p := range m.Points {
		p.Z -= minZ
		nm.Points[i] = p
	}
	return &nm
}

// Summary holds descriptive statistics of the sampled Z values.
type Summary struct {
	MinZ    float64
	MaxZ    float64
	MeanZ   float64
	StdDevZ float64
}

// Summarize computes descriptive statistics of the sampled Z values.
func (m *HeightMap) Summarize() Summary {
	zs := m.zValues()
	if len(zs) == 0 {
		return Summary{}
	}
	return Summary{
		MinZ:    floats.Min(zs),
		MaxZ:    floats.Max(zs),
		MeanZ:   stat.Mean(zs, nil),
		StdDevZ: stat.StdDev(zs, nil),
	}
}
