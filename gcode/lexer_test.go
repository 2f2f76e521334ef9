package gcode

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.nc")
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no .nc files found in gcode/testdata")

	for _, path := range matches {
		t.Run(path, func(t *testing.T) {
			f, err := os.Open(path)
			require.NoError(t, err, "failed to open %s", path)
			defer func() { require.NoError(t, f.Close()) }()

			var buf bytes.Buffer
			lx := NewLexer(f)
			for {
				token, err := lx.Next()
				require.NoError(t, err)
				if token.Type == TokenTypeEOF {
					break
				}
				buf.WriteString(token.Value)
			}

			orig, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, string(orig), buf.String())
		})
	}
}

func TestLexerTokenTypes(t *testing.T) {
	lx := NewLexer(strings.NewReader("G1 X-1.5 (hole) ;tail\n$H\n"))

	expected := []TokenType{
		TokenTypeWordLetter,
		TokenTypeWordNumber,
		TokenTypeSpace,
		TokenTypeWordLetter,
		TokenTypeWordNumber,
		TokenTypeSpace,
		TokenTypeComment,
		TokenTypeSpace,
		TokenTypeComment,
		TokenTypeNewLine,
		TokenTypeSystem,
		TokenTypeNewLine,
		TokenTypeEOF,
	}

	for _, expectedType := range expected {
		token, err := lx.Next()
		require.NoError(t, err)
		require.Equal(t, expectedType, token.Type, "token %#v", token)
	}
}

func TestLexerErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"unterminated parenthesis comment", "G1 (oops\nG2\n"},
		{"unexpected char", "G1 X1 @\n"},
		{"letter without digits", "G1 X-.\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lx := NewLexer(strings.NewReader(tc.input))
			var err error
			for {
				var token *Token
				token, err = lx.Next()
				if err != nil || token.Type == TokenTypeEOF {
					break
				}
			}
			require.Error(t, err)
		})
	}
}

func TestTokensString(t *testing.T) {
	lx := NewLexer(strings.NewReader("G0  X1 Y2 ; rapid\n"))
	var tokens Tokens
	for {
		token, err := lx.Next()
		require.NoError(t, err)
		tokens = append(tokens, token)
		if token.Type == TokenTypeEOF {
			break
		}
	}
	require.Equal(t, "G0  X1 Y2 ; rapid", tokens.String())
}
