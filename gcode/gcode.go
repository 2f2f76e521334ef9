package gcode

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// Word is a single letter plus number pair. It may either give a command (G / M letters) or
// provide an argument to a command (any other letter).
type Word struct {
	letter rune
	number float64
	// The original string that declared this word. It is kept so that words that were not mutated
	// are written back exactly as they were read, preserving letter casing and float point
	// representation.
	originalStr *string
}

// NewWord creates a Word from given letter and number.
// letter must be capitalized, or it'll panic.
func NewWord(letter rune, number float64) *Word {
	if letter < 'A' || letter > 'Z' {
		panic(fmt.Sprintf("bug: attempting to create word with letter not between A-Z: %c", letter))
	}
	return &Word{letter: letter, number: number}
}

// NewWordParse creates a Word from given letter and a raw number string.
func NewWordParse(letter rune, number string) (*Word, error) {
	parsedNumber, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil, err
	}
	originalStr := string(letter) + number
	return &Word{
		letter:      unicode.ToUpper(letter),
		number:      parsedNumber,
		originalStr: &originalStr,
	}, nil
}

func (w *Word) Letter() rune {
	return w.letter
}

func (w *Word) Number() float64 {
	return w.number
}

func (w *Word) SetNumber(number float64) {
	w.number = number
	w.originalStr = nil
}

func (w *Word) Equal(ow *Word) bool {
	return w.NormalizedString() == ow.NormalizedString()
}

// IsCommand returns true if the word is a command (letter G or M).
func (w *Word) IsCommand() bool {
	return w.letter == 'G' || w.letter == 'M'
}

// String gives the representation of the word. If it has not been mutated, it returns the exact
// original string, otherwise a new representation is created.
func (w *Word) String() string {
	if w.originalStr != nil {
		return *w.originalStr
	}
	return w.NormalizedString()
}

// NormalizedString is similar to String(), but always returns a consistent representation:
// uppercase letter, minimal precision for commands and 4 decimal places for arguments.
func (w *Word) NormalizedString() string {
	if w.IsCommand() {
		integer, frac := math.Modf(w.number)
		if frac == 0 {
			return fmt.Sprintf("%c%.0f", w.letter, integer)
		}
		return fmt.Sprintf("%c%.1f", w.letter, w.number)
	}
	return fmt.Sprintf("%c%.4f", w.letter, w.number)
}

// Block is a line which may include commands to do several different things.
type Block struct {
	system *string
	words  []*Word
}

// NewBlockSystem creates a Block for a $ system command line.
func NewBlockSystem(system string) *Block {
	return &Block{system: &system}
}

// NewBlockCommand creates a Block from command / argument words.
func NewBlockCommand(words ...*Word) *Block {
	return &Block{words: words}
}

func (b *Block) IsSystem() bool {
	return b.system != nil
}

func (b *Block) IsCommand() bool {
	return len(b.words) > 0
}

func (b *Block) AppendCommandWords(words ...*Word) {
	if !b.IsCommand() {
		panic("bug: attempting to add word to a block that's not command")
	}
	b.words = append(b.words, words...)
}

func (b *Block) String() string {
	var buff bytes.Buffer
	if b.system != nil {
		buff.WriteString(*b.system)
	}
	for i, w := range b.words {
		if i > 0 {
			buff.WriteString(" ")
		}
		buff.WriteString(w.String())
	}
	return buff.String()
}

// Commands returns all G/M words in the block.
func (b *Block) Commands() []*Word {
	var cmds []*Word
	for _, w := range b.words {
		if w.IsCommand() {
			cmds = append(cmds, w)
		}
	}
	return cmds
}

// Arguments returns all non-command words in the block.
func (b *Block) Arguments() []*Word {
	var args []*Word
	for _, w := range b.words {
		if !w.IsCommand() {
			args = append(args, w)
		}
	}
	return args
}

// HasCommand returns true if the block has a command word whose normalized representation equals
// command (eg "G1").
func (b *Block) HasCommand(command string) bool {
	for _, w := range b.Commands() {
		if w.NormalizedString() == command {
			return true
		}
	}
	return false
}

// GetArgumentNumber returns the number of the argument with given letter, or nil if the letter is
// absent. It errors if the letter occurs more than once.
func (b *Block) GetArgumentNumber(letter rune) (*float64, error) {
	if !b.IsCommand() {
		panic("bug: can't fetch argument for system block")
	}
	var number *float64
	for _, w := range b.Arguments() {
		if w.Letter() == letter {
			if number != nil {
				return nil, fmt.Errorf("%s: multiple arguments for letter %c", b, letter)
			}
			n := w.Number()
			number = &n
		}
	}
	return number, nil
}

// SetArgumentNumber mutates the argument with given letter to the new number.
func (b *Block) SetArgumentNumber(letter rune, number float64) error {
	if !b.IsCommand() {
		return fmt.Errorf("%s: can't set argument for system block", b)
	}
	var set bool
	for _, w := range b.Arguments() {
		if w.Letter() == letter {
			if set {
				return fmt.Errorf("%s: duplicated letter %c", b, letter)
			}
			w.SetNumber(number)
			set = true
		}
	}
	return nil
}

// Empty returns true if no system or command is defined.
func (b *Block) Empty() bool {
	return b.system == nil && len(b.words) == 0
}
