package heightmap

import (
	"slices"
	"sort"
)

type cell struct {
	p00, p10, p01, p11 Point
}

func sortedDistinct(points []Point, getFn func(Point) float64) []float64 {
	values := distinctValues(points, getFn)
	slices.Sort(values)
	return values
}

// intervalIndex returns i such that [values[i], values[i+1]] contains v, using the last interval
// when v reaches the top. values must be sorted and hold at least 2 entries.
func intervalIndex(values []float64, v float64) int {
	i := sort.SearchFloat64s(values, v)
	if i > 0 {
		if i == len(values) || values[i] != v {
			i--
		}
	}
	if i > len(values)-2 {
		i = len(values) - 2
	}
	return i
}

// findCell locates the grid cell surrounding (x, y). The query coordinate is clamped to the map
// bounds first, so queries outside the sampled rectangle resolve to the nearest edge cell rather
// than failing. The clamped value only selects the cell: interpolation weights are computed from
// the original coordinates (see Interpolate).
func (m *HeightMap) findCell(x, y float64) (cell, bool) {
	xs := sortedDistinct(m.Points, func(p Point) float64 { return p.X })
	ys := sortedDistinct(m.Points, func(p Point) float64 { return p.Y })
	if len(xs) < 2 || len(ys) < 2 {
		return cell{}, false
	}

	lookupX := min(max(x, m.Bounds.MinX), m.Bounds.MaxX)
	lookupY := min(max(y, m.Bounds.MinY), m.Bounds.MaxY)

	xi := intervalIndex(xs, lookupX)
	yi := intervalIndex(ys, lookupY)

	pointsByXY := make(map[[2]float64]Point, len(m.Points))
	for _, p := range m.Points {
		pointsByXY[[2]float64{p.X, p.Y}] = p
	}

	var c cell
	var ok bool
	if c.p00, ok = pointsByXY[[2]float64{xs[xi], ys[yi]}]; !ok {
		return cell{}, false
	}
	if c.p10, ok = pointsByXY[[2]float64{xs[xi+1], ys[yi]}]; !ok {
		return cell{}, false
	}
	if c.p01, ok = pointsByXY[[2]float64{xs[xi], ys[yi+1]}]; !ok {
		return cell{}, false
	}
	if c.p11, ok = pointsByXY[[2]float64{xs[xi+1], ys[yi+1]}]; !ok {
		return cell{}, false
	}
	return c, true
}

// Interpolate returns the bilinearly interpolated Z at (x, y), or false when no grid cell can be
// resolved (degenerate or sparse map). Weights are computed from the unclamped query coordinates:
// outside the sampled bounds they fall outside [0, 1], which turns the bilinear formula into a
// linear extrapolation along the gradient of the nearest edge cell. This is deliberate: toolpath
// segments slightly past the probed area get a smoothly extended offset instead of a
// discontinuous clamp to the edge value.
func (m *HeightMap) Interpolate(x, y float64) (float64, bool) {
	c, ok := m.findCell(x, y)
	if !ok {
		return 0, false
	}

	if c.p00.X == c.p10.X && c.p00.Y == c.p01.Y {
		return c.p00.Z, true
	}

	xWeight := 0.0
	if c.p10.X != c.p00.X {
		xWeight = (x - c.p00.X) / (c.p10.X - c.p00.X)
	}
	yWeight := 0.0
	if c.p01.Y != c.p00.Y {
		yWeight = (y - c.p00.Y) / (c.p01.Y - c.p00.Y)
	}

	z := c.p00.Z*(1-xWeight)*(1-yWeight) +
		c.p10.Z*xWeight*(1-yWeight) +
		c.p01.Z*(1-xWeight)*yWeight +
		c.p11.Z*xWeight*yWeight
	return z, true
}

// ZOffset returns the Z correction at (x, y). It never fails: a nil map, a map with no points or
// an unresolvable query all yield 0, so a missing or sparse map degrades to "no correction"
// rather than aborting a program rewrite.
func (m *HeightMap) ZOffset(x, y float64) float64 {
	if m == nil || len(m.Points) == 0 {
		return 0
	}
	z, ok := m.Interpolate(x, y)
	if !ok {
		return 0
	}
	return z
}

// IsWithinBounds returns true if (x, y) falls inside the sampled rectangle, edges included. It is
// used for advisory warnings only, never to gate correction.
func (m *HeightMap) IsWithinBounds(x, y float64) bool {
	return m.Bounds.Contains(x, y)
}
