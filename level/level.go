// Package level rewrites G-code programs so that every motion follows the measured surface of an
// uneven workpiece: each move gets its Z adjusted by the locally interpolated height map offset,
// and moves longer than the configured segment length are subdivided so the toolpath tracks the
// surface between probe points too.
package level

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fornellas/cgl/gcode"
	"github.com/fornellas/cgl/heightmap"
)

// DefaultSegmentLength is used when neither Options nor the height map config give a segment
// length.
const DefaultSegmentLength = 5.0

// Options configure a Leveler.
type Options struct {
	// SegmentLength is the max motion length before subdivision. When <= 0, the height map's
	// embedded config value is used, falling back to DefaultSegmentLength.
	SegmentLength float64
	// DisableBoundsWarning suppresses the advisory warning for motions outside the probed area.
	DisableBoundsWarning bool
}

// Leveler is a single pass state machine over the lines of a G-code program. Each instance holds
// its own private state (current position, warnings), so independent programs can be leveled
// concurrently against the same HeightMap, which is only ever read.
type Leveler struct {
	parser        *gcode.Parser
	m             *heightmap.HeightMap
	segmentLength float64
	boundsWarning bool

	// initialUnits holds the units modal state at the first parsed block: a later change would
	// silently mismatch the height map, so it is an error.
	initialUnits *gcode.Word

	// The tracked position is the nominal toolpath position, independent of height map
	// correction.
	currentX, currentY, currentZ float64

	boundsWarningEmitted bool
	warnings             []string

	pending []string
	eof     bool
}

// NewLeveler creates a Leveler that reads the program from parser and applies m. The map must
// pass validation: no transform is attempted against a degenerate map.
func NewLeveler(parser *gcode.Parser, m *heightmap.HeightMap, opts Options) (*Leveler, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	segmentLength := opts.SegmentLength
	if segmentLength <= 0 && m.Config != nil {
		segmentLength = m.Config.SegmentLength
	}
	if segmentLength <= 0 {
		segmentLength = DefaultSegmentLength
	}

	return &Leveler{
		parser:        parser,
		m:             m,
		segmentLength: segmentLength,
		boundsWarning: !opts.DisableBoundsWarning,
		pending:       headerLines(m),
	}, nil
}

// headerLines gives the traceability header prepended to the output. Its first line doubles as
// the provenance marker callers can look for to avoid applying a height map twice.
func headerLines(m *heightmap.HeightMap) []string {
	return []string{
		fmt.Sprintf("; cgl: height map applied (%d probe points)", len(m.Points)),
		fmt.Sprintf(
			"; cgl: map bounds X [%.3f, %.3f] Y [%.3f, %.3f]",
			m.Bounds.MinX, m.Bounds.MaxX, m.Bounds.MinY, m.Bounds.MaxY,
		),
	}
}

// Warnings returns the advisory warnings collected so far.
func (l *Leveler) Warnings() []string {
	return append([]string{}, l.warnings...)
}

func (l *Leveler) emit(lines ...string) {
	l.pending = append(l.pending, lines...)
}

func (l *Leveler) warnIfOutOfBounds(x, y float64) {
	if !l.boundsWarning || l.boundsWarningEmitted {
		return
	}
	if l.m.IsWithinBounds(x, y) {
		return
	}
	l.boundsWarningEmitted = true
	l.warnings = append(l.warnings, fmt.Sprintf(
		"target (%.3f, %.3f) is outside the height map bounds: offsets there are extrapolated",
		x, y,
	))
}

// round4 rounds subdivision coordinates to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func argumentWord(block *gcode.Block, letter rune) *gcode.Word {
	for _, w := range block.Arguments() {
		if w.Letter() == letter {
			return w
		}
	}
	return nil
}

func motionWord(block *gcode.Block) *gcode.Word {
	for _, w := range block.Commands() {
		switch w.NormalizedString() {
		case "G0", "G1":
			return w
		}
	}
	return nil
}

// processZOnly handles a motion with no X / Y component: the offset applies at the current
// position and the line is re-emitted with the adjusted Z.
func (l *Leveler) processZOnly(block *gcode.Block, z float64) error {
	l.warnIfOutOfBounds(l.currentX, l.currentY)
	adjusted := z + l.m.ZOffset(l.currentX, l.currentY)
	if err := block.SetArgumentNumber('Z', adjusted); err != nil {
		return err
	}
	l.emit(block.String())
	l.currentZ = z
	return nil
}

// processShortMove adjusts Z once, at the target coordinate, and re-emits the line. Z is always
// present on the output since it is always adjusted; the remaining words are left as they were
// read.
func (l *Leveler) processShortMove(
	block *gcode.Block, targetX, targetY, targetZ float64, hasZ bool,
) error {
	adjusted := targetZ + l.m.ZOffset(targetX, targetY)
	if hasZ {
		if err := block.SetArgumentNumber('Z', adjusted); err != nil {
			return err
		}
	} else {
		block.AppendCommandWords(gcode.NewWord('Z', adjusted))
	}
	l.emit(block.String())
	return nil
}

// processLongMove subdivides the straight line path into equal sub-segments, each with its own
// interpolated Z offset. The feed word, if present, is emitted only on the first sub-segment:
// later ones rely on modal persistence.
func (l *Leveler) processLongMove(
	block *gcode.Block, motion *gcode.Word, distance, targetX, targetY, targetZ float64,
	hasX, hasY bool,
) {
	segments := int(math.Ceil(distance / l.segmentLength))
	feed := argumentWord(block, 'F')

	for i := 1; i <= segments; i++ {
		t := float64(i) / float64(segments)
		x := round4(l.currentX + (targetX-l.currentX)*t)
		y := round4(l.currentY + (targetY-l.currentY)*t)
		z := round4(l.currentZ + (targetZ-l.currentZ)*t)

		words := []*gcode.Word{motion}
		if hasX {
			words = append(words, gcode.NewWord('X', x))
		}
		if hasY {
			words = append(words, gcode.NewWord('Y', y))
		}
		words = append(words, gcode.NewWord('Z', z+l.m.ZOffset(x, y)))
		if i == 1 && feed != nil {
			words = append(words, feed)
		}
		l.emit(gcode.NewBlockCommand(words...).String())
	}
}

//gocyclo:ignore
func (l *Leveler) processBlock(block *gcode.Block, raw string) error {
	if block.IsSystem() || block.Empty() {
		l.emit(raw)
		return nil
	}

	if l.initialUnits == nil {
		l.initialUnits = l.parser.ModalGroup.Units
	} else if !l.parser.ModalGroup.Units.Equal(l.initialUnits) {
		return fmt.Errorf(
			"line %d: %s: unit change unsupported: the height map no longer matches the program",
			l.parser.Lexer.Line, block,
		)
	}

	// Positioning mode switches pass through unchanged, and so does everything while in
	// incremental mode: no relative offset math is attempted.
	if block.HasCommand("G90") || block.HasCommand("G91") {
		l.emit(raw)
		return nil
	}
	if !l.parser.ModalGroup.IsAbsolute() {
		l.emit(raw)
		return nil
	}

	motion := motionWord(block)
	if motion == nil {
		l.emit(raw)
		return nil
	}

	x, err := block.GetArgumentNumber('X')
	if err != nil {
		return err
	}
	y, err := block.GetArgumentNumber('Y')
	if err != nil {
		return err
	}
	z, err := block.GetArgumentNumber('Z')
	if err != nil {
		return err
	}
	if x == nil && y == nil && z == nil {
		l.emit(raw)
		return nil
	}

	if x == nil && y == nil {
		return l.processZOnly(block, *z)
	}

	// An axis absent from the line inherits the tracked current value.
	targetX, targetY, targetZ := l.currentX, l.currentY, l.currentZ
	if x != nil {
		targetX = *x
	}
	if y != nil {
		targetY = *y
	}
	if z != nil {
		targetZ = *z
	}

	l.warnIfOutOfBounds(targetX, targetY)

	distance := math.Hypot(targetX-l.currentX, targetY-l.currentY)
	if distance <= l.segmentLength {
		if err := l.processShortMove(block, targetX, targetY, targetZ, z != nil); err != nil {
			return err
		}
	} else {
		l.processLongMove(
			block, motion, distance, targetX, targetY, targetZ, x != nil, y != nil,
		)
	}

	l.currentX = targetX
	l.currentY = targetY
	l.currentZ = targetZ
	return nil
}

// Next returns the next line of the rewritten program, nil at the end of input. Lines are
// produced lazily: a caller wanting to abort a large transform simply stops calling Next.
func (l *Leveler) Next() (*string, error) {
	for {
		if len(l.pending) > 0 {
			line := l.pending[0]
			l.pending = l.pending[1:]
			return &line, nil
		}
		if l.eof {
			return nil, nil
		}

		eof, block, tokens, err := l.parser.Next()
		if err != nil {
			return nil, err
		}
		l.eof = eof

		if block == nil {
			// Blank or comment only line: pass through unchanged. At the end of input the
			// final empty read is not a line.
			if eof && len(tokens) == 1 {
				continue
			}
			l.emit(tokens.String())
			continue
		}

		if err := l.processBlock(block, tokens.String()); err != nil {
			return nil, err
		}
	}
}

// Result is the outcome of an eager whole-program transform.
type Result struct {
	// Program is the rewritten program, newline terminated lines.
	Program string
	// Warnings are advisory only: the program is still usable.
	Warnings []string
}

// Level reads a whole program from r and returns the rewritten program plus any advisory
// warnings. For very large programs prefer NewLeveler directly, which produces output line by
// line.
func Level(r io.Reader, m *heightmap.HeightMap, opts Options) (*Result, error) {
	leveler, err := NewLeveler(gcode.NewParser(r), m, opts)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for {
		line, err := leveler.Next()
		if err != nil {
			return nil, err
		}
		if line == nil {
			break
		}
		sb.WriteString(*line)
		sb.WriteByte('\n')
	}

	return &Result{
		Program:  sb.String(),
		Warnings: leveler.Warnings(),
	}, nil
}
