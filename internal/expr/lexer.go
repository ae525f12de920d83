package expr

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenPunct
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// tokenize splits src into significant tokens using the JavaScript lexer,
// dropping whitespace and comments. The returned slice always ends with a
// tokenEOF token positioned at len(src).
func tokenize(src string) ([]token, error) {
	l := js.NewLexer(parse.NewInputString(src))

	var tokens []token
	offset := 0
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, &SyntaxError{Pos: offset, Msg: err.Error()}
			}
			tokens = append(tokens, token{kind: tokenEOF, start: len(src), end: len(src)})
			return tokens, nil
		}

		start := offset
		offset += len(data)
		text := string(data)

		kind, err := classifyToken(text)
		if err != nil {
			return nil, &SyntaxError{Pos: start, Msg: err.Error()}
		}
		if kind < 0 {
			continue
		}
		tokens = append(tokens, token{kind: kind, text: text, start: start, end: offset})
	}
}

// classifyToken maps lexer output onto the few token kinds the parser cares
// about. Whitespace and comments yield -1.
func classifyToken(text string) (tokenKind, error) {
	switch {
	case strings.TrimSpace(text) == "":
		return -1, nil
	case strings.HasPrefix(text, "//"), strings.HasPrefix(text, "/*"):
		return -1, nil
	case text[0] == '\'' || text[0] == '"':
		return tokenString, nil
	case text[0] == '`':
		return 0, fmt.Errorf("template literals are not supported")
	case text[0] == '#':
		return 0, fmt.Errorf("private names are not supported")
	case text[0] >= '0' && text[0] <= '9':
		return tokenNumber, nil
	case text[0] == '.' && len(text) > 1 && text[1] >= '0' && text[1] <= '9':
		return tokenNumber, nil
	case identPattern.MatchString(text):
		return tokenIdent, nil
	}
	return tokenPunct, nil
}
