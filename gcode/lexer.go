package gcode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeSpace
	TokenTypeComment
	TokenTypeSystem
	TokenTypeWordLetter
	TokenTypeWordNumber
	TokenTypeNewLine
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeEOF:        "EOF",
	TokenTypeSpace:      "Space",
	TokenTypeComment:    "Comment",
	TokenTypeSystem:     "System",
	TokenTypeWordLetter: "WordLetter",
	TokenTypeWordNumber: "WordNumber",
	TokenTypeNewLine:    "NewLine",
}

func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	panic(fmt.Sprintf("unexpected TokenType: %d", tt))
}

type Token struct {
	Value string
	Type  TokenType
}

// Tokens holds all tokens lexed from a single line.
type Tokens []*Token

// String reproduces the exact original bytes of the line, excluding any line terminator.
func (ts Tokens) String() string {
	var buff bytes.Buffer
	for _, token := range ts {
		if token.Type == TokenTypeNewLine || token.Type == TokenTypeEOF {
			continue
		}
		buff.WriteString(token.Value)
	}
	return buff.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isCommentStart(c byte) bool {
	return c == '(' || c == ';'
}

func isSystemStart(c byte) bool {
	return c == '$'
}

func isLetterStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func isNewLineStart(c byte) bool {
	return c == '\n' || c == '\r'
}

func scanSpace(data []byte) (int, []byte, error) {
	i := 0
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	return i, data[:i], nil
}

func scanParenthesisComment(data []byte, atEOF bool) (int, []byte, error) {
	for i := 1; i < len(data); i++ {
		if data[i] == ')' {
			return i + 1, data[:i+1], nil
		}
		if data[i] == '\n' {
			return 0, nil, errors.New("end of line reached without closing parenthesis")
		}
	}
	if atEOF {
		return 0, nil, errors.New("end of file reached without closing parenthesis")
	}
	return 0, nil, nil
}

// scanToLineEnd consumes everything up to, excluding, the line terminator. Semicolon comments and
// system commands both run to the end of the line.
func scanToLineEnd(data []byte, atEOF bool) (int, []byte, error) {
	for i := 1; i < len(data); i++ {
		if data[i] == '\n' {
			if data[i-1] == '\r' {
				i--
			}
			return i, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func scanNumber(data []byte) (int, []byte, error) {
	i := 0
	if data[i] == '-' || data[i] == '+' {
		i++
	}
	ndigit := 0
	isdecimal := false
	for i < len(data) {
		c := data[i]
		if c >= '0' && c <= '9' {
			ndigit++
			i++
		} else if c == '.' && !isdecimal {
			isdecimal = true
			i++
		} else {
			break
		}
	}
	if ndigit == 0 {
		return 0, nil, fmt.Errorf("invalid number: %s", data[:i])
	}
	return i, data[:i], nil
}

func scanNewLine(data []byte, atEOF bool) (int, []byte, error) {
	if data[0] == '\n' {
		return 1, data[:1], nil
	}
	// data[0] == '\r'
	if len(data) > 1 {
		if data[1] == '\n' {
			return 2, data[:2], nil
		}
		return 0, nil, errors.New("CR without LF")
	}
	if atEOF {
		return 0, nil, errors.New("CR before EOF")
	}
	return 0, nil, nil
}

func split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	switch {
	case isSpace(data[0]):
		return scanSpace(data)
	case data[0] == '(':
		return scanParenthesisComment(data, atEOF)
	case data[0] == ';', isSystemStart(data[0]):
		return scanToLineEnd(data, atEOF)
	case isLetterStart(data[0]):
		return 1, data[:1], nil
	case isNumberStart(data[0]):
		return scanNumber(data)
	case isNewLineStart(data[0]):
		return scanNewLine(data, atEOF)
	}

	return 0, nil, fmt.Errorf("unexpected char: %q", data[0])
}

// Lexer tokenizes G-code. The accepted character classes follow Grbl's own reader: words are a
// single letter followed by a number, comments are either parenthesis or semicolon style, and $
// lines are system commands.
type Lexer struct {
	// Line is the current line number, 1 based.
	Line    uint
	scanner *bufio.Scanner
}

// NewLexer creates a new Lexer reading G-code from rd.
func NewLexer(rd io.Reader) *Lexer {
	scanner := bufio.NewScanner(bufio.NewReader(rd))
	scanner.Split(split)
	return &Lexer{Line: 1, scanner: scanner}
}

// Next returns the next token. A token of TokenTypeEOF is returned at the end of input.
func (lx *Lexer) Next() (*Token, error) {
	if !lx.scanner.Scan() {
		if err := lx.scanner.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lx.Line, err)
		}
		return &Token{Type: TokenTypeEOF}, nil
	}

	value := lx.scanner.Text()
	if len(value) == 0 {
		panic(fmt.Sprintf("bug: empty token received at line %d", lx.Line))
	}

	var tokenType TokenType
	switch {
	case isSpace(value[0]):
		tokenType = TokenTypeSpace
	case isCommentStart(value[0]):
		tokenType = TokenTypeComment
	case isSystemStart(value[0]):
		tokenType = TokenTypeSystem
	case isLetterStart(value[0]):
		tokenType = TokenTypeWordLetter
	case isNumberStart(value[0]):
		tokenType = TokenTypeWordNumber
	case isNewLineStart(value[0]):
		lx.Line++
		tokenType = TokenTypeNewLine
	default:
		panic(fmt.Sprintf("bug: unexpected value at line %d: %v", lx.Line, value))
	}

	return &Token{Value: value, Type: tokenType}, nil
}
