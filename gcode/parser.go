package gcode

import (
	"fmt"
	"io"
)

// ModalGroup holds the modal state relevant to program transforms.
// See https://github.com/gnea/grbl/wiki/Grbl-v1.1-Commands for the full modal group list; only the
// groups that affect coordinate interpretation are tracked here.
type ModalGroup struct {
	// Motion (Group 1)
	Motion *Word

	// Distance Mode (Group 3): G90 absolute, G91 incremental.
	DistanceMode *Word

	// Units (Group 6): G20 inches, G21 millimeters.
	Units *Word

	// Feed Rate Mode (Group 5)
	FeedRateMode *Word
}

func (m *ModalGroup) Copy() *ModalGroup {
	nm := *m
	return &nm
}

// UpdateFromWord records word into the modal group it belongs to, if any.
func (m *ModalGroup) UpdateFromWord(word *Word) {
	switch word.NormalizedString() {
	case "G0", "G1", "G2", "G3", "G38.2", "G38.3", "G38.4", "G38.5", "G80":
		m.Motion = word
	case "G90", "G91":
		m.DistanceMode = word
	case "G20", "G21":
		m.Units = word
	case "G93", "G94":
		m.FeedRateMode = word
	}
}

func (m *ModalGroup) UpdateFromBlock(block *Block) {
	for _, word := range block.Commands() {
		m.UpdateFromWord(word)
	}
}

// IsAbsolute returns true when the distance mode is G90.
func (m *ModalGroup) IsAbsolute() bool {
	return m.DistanceMode.NormalizedString() == "G90"
}

// DefaultModalGroup holds Grbl default modal group states.
var DefaultModalGroup ModalGroup = ModalGroup{
	Motion:       NewWord('G', 0),
	DistanceMode: NewWord('G', 90),
	Units:        NewWord('G', 21),
	FeedRateMode: NewWord('G', 94),
}

// Parser parses Grbl flavour G-code one line at a time.
type Parser struct {
	// ModalGroup holds the state of each tracked modal group as parsing progresses by calling
	// Parser.Next(). DefaultModalGroup is used for the initial state.
	ModalGroup ModalGroup
	Lexer      *Lexer
	block      *Block
	words      []*Word
	letter     *rune
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		ModalGroup: DefaultModalGroup,
		Lexer:      NewLexer(r),
	}
}

func (p *Parser) handleTokenTypeEOF() (bool, error) {
	if p.letter != nil {
		return false, fmt.Errorf("line %d: unexpected word letter at end of file", p.Lexer.Line)
	}
	if p.block == nil && len(p.words) > 0 {
		p.block = NewBlockCommand(p.words...)
	}
	return true, nil
}

func (p *Parser) handleTokenTypeLetter(token *Token) (bool, error) {
	if p.letter != nil {
		return false, fmt.Errorf(
			"line %d: unexpected word letter %q after previous letter %q",
			p.Lexer.Line, token.Value, string(*p.letter),
		)
	}
	letter := rune(token.Value[0])
	p.letter = &letter
	return false, nil
}

func (p *Parser) handleTokenTypeNumber(token *Token) (bool, error) {
	if p.letter == nil {
		return false, fmt.Errorf(
			"line %d: unexpected word number %q without preceding letter",
			p.Lexer.Line, token.Value,
		)
	}
	word, err := NewWordParse(*p.letter, token.Value)
	if err != nil {
		return false, fmt.Errorf("line %d: bad number: %#v: %w", p.Lexer.Line, token.Value, err)
	}
	p.words = append(p.words, word)
	p.letter = nil
	return false, nil
}

func (p *Parser) handleTokenTypeNewLine() (bool, error) {
	if p.letter != nil {
		return false, fmt.Errorf("line %d: unexpected word letter at end of line", p.Lexer.Line-1)
	}
	if len(p.words) > 0 {
		if p.block != nil {
			panic(fmt.Sprintf("bug: pending words for system block: %#v, %#v", p.words, p.block))
		}
		p.block = NewBlockCommand(p.words...)
	}
	return true, nil
}

func (p *Parser) handleToken(token *Token) (bool, error) {
	switch token.Type {
	case TokenTypeEOF:
		return p.handleTokenTypeEOF()
	case TokenTypeSpace, TokenTypeComment:
		return false, nil
	case TokenTypeSystem:
		if len(p.words) > 0 || p.letter != nil {
			return false, fmt.Errorf("line %d: system command cannot follow command words", p.Lexer.Line)
		}
		p.block = NewBlockSystem(token.Value)
		return false, nil
	case TokenTypeWordLetter:
		return p.handleTokenTypeLetter(token)
	case TokenTypeWordNumber:
		return p.handleTokenTypeNumber(token)
	case TokenTypeNewLine:
		return p.handleTokenTypeNewLine()
	default:
		panic(fmt.Sprintf("unknown token type: %#v", token))
	}
}

// Next returns the next parsed line. The first returned bool indicates EOF: when true, parsing is
// complete. The returned Block is nil for lines holding no system command or words (blank or
// comment only lines). Tokens contains all tokens for the parsed line, enabling reconstruction of
// its exact original text.
func (p *Parser) Next() (bool, *Block, Tokens, error) {
	p.block = nil
	p.words = nil
	p.letter = nil
	var tokens Tokens
	for {
		token, err := p.Lexer.Next()
		if err != nil {
			return false, nil, nil, err
		}
		tokens = append(tokens, token)
		eol, err := p.handleToken(token)
		if err != nil {
			return false, nil, nil, err
		}
		if eol {
			if p.block != nil && p.block.IsCommand() {
				p.ModalGroup.UpdateFromBlock(p.block)
			}
			return token.Type == TokenTypeEOF, p.block, tokens, nil
		}
	}
}

// Blocks parses and returns all remaining blocks from the parser.
func (p *Parser) Blocks() ([]*Block, error) {
	blocks := []*Block{}
	for {
		eof, block, _, err := p.Next()
		if err != nil {
			return nil, err
		}
		if block != nil {
			blocks = append(blocks, block)
		}
		if eof {
			return blocks, nil
		}
	}
}
