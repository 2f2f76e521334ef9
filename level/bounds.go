package level

import (
	"io"

	"github.com/fornellas/cgl/gcode"
	"github.com/fornellas/cgl/heightmap"
)

// BoundsReport describes the coordinate envelope of a program against a height map.
type BoundsReport struct {
	// Valid is true when every X / Y coordinate in the program falls inside the map bounds.
	Valid bool
	// Program envelope. An axis with no occurrences in the whole program reports 0.
	GcodeMinX float64
	GcodeMaxX float64
	GcodeMinY float64
	GcodeMaxY float64
}

// ValidateBounds scans every line of the program independently for X / Y coordinates, with no
// positioning state tracking, and reports whether the program envelope is fully contained in the
// map bounds.
func ValidateBounds(r io.Reader, m *heightmap.HeightMap) (*BoundsReport, error) {
	parser := gcode.NewParser(r)

	report := &BoundsReport{Valid: true}
	var haveX, haveY bool

	for {
		eof, block, _, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if block != nil && block.IsCommand() {
			x, err := block.GetArgumentNumber('X')
			if err != nil {
				return nil, err
			}
			if x != nil {
				if !haveX {
					report.GcodeMinX, report.GcodeMaxX = *x, *x
					haveX = true
				} else {
					report.GcodeMinX = min(report.GcodeMinX, *x)
					report.GcodeMaxX = max(report.GcodeMaxX, *x)
				}
			}

			y, err := block.GetArgumentNumber('Y')
			if err != nil {
				return nil, err
			}
			if y != nil {
				if !haveY {
					report.GcodeMinY, report.GcodeMaxY = *y, *y
					haveY = true
				} else {
					report.GcodeMinY = min(report.GcodeMinY, *y)
					report.GcodeMaxY = max(report.GcodeMaxY, *y)
				}
			}
		}
		if eof {
			break
		}
	}

	if haveX {
		if report.GcodeMinX < m.Bounds.MinX || report.GcodeMaxX > m.Bounds.MaxX {
			report.Valid = false
		}
	}
	if haveY {
		if report.GcodeMinY < m.Bounds.MinY || report.GcodeMaxY > m.Bounds.MaxY {
			report.Valid = false
		}
	}

	return report, nil
}
