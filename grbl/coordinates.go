package grbl

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a machine or work position as reported by Grbl.
type Coordinates struct {
	X float64
	Y float64
	Z float64
}

// NewCoordinatesFromCSV creates Coordinates from a "x,y,z" string, as found inside Grbl report
// messages.
func NewCoordinatesFromCSV(s string) (*Coordinates, error) {
	values := strings.Split(s, ",")
	if len(values) != 3 {
		return nil, fmt.Errorf("coordinates malformed: %#v", s)
	}

	coordinates := &Coordinates{}
	for i, target := range []*float64{&coordinates.X, &coordinates.Y, &coordinates.Z} {
		value, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q invalid: %#v", "XYZ"[i], values[i])
		}
		*target = value
	}
	return coordinates, nil
}
