package script

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type token struct {
	text  string
	start int
	end   int
}

// keywords after which a slash starts a regular expression literal.
var regexpPrecedingKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// tokenize returns the significant tokens of a script with their byte
// offsets. Lexing stops at the first error; the tokens read so far are still
// returned, which is enough to find a declaration near the top of a script.
func tokenize(src string) []token {
	l := js.NewLexer(parse.NewInputString(src))

	var tokens []token
	offset := 0
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			return tokens
		}
		start := offset

		if text := string(data); (text == "/" || text == "/=") && regexpAllowed(tokens) {
			rt, re := l.RegExp()
			if rt == js.ErrorToken {
				return tokens
			}
			data = re
		}
		offset = start + len(data)

		text := string(data)
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "/*") {
			continue
		}
		tokens = append(tokens, token{text: text, start: start, end: offset})
	}
}

// regexpAllowed reports whether a slash following tokens begins a regular
// expression rather than a division.
func regexpAllowed(tokens []token) bool {
	if len(tokens) == 0 {
		return true
	}
	prev := tokens[len(tokens)-1].text
	switch {
	case regexpPrecedingKeywords[prev]:
		return true
	case isWord(prev), isLiteral(prev):
		return false
	}
	switch prev {
	case ")", "]", "}":
		return false
	}
	return true
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isLiteral matches number, string, template and regular expression tokens.
func isLiteral(s string) bool {
	if s == "" {
		return false
	}
	switch c := s[0]; {
	case c >= '0' && c <= '9', c == '\'', c == '"', c == '`':
		return true
	case c == '.' && len(s) > 1:
		return s[1] >= '0' && s[1] <= '9'
	case c == '/' && len(s) > 2:
		return true
	}
	return false
}

func isString(s string) bool {
	return len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0]
}

// unquote returns the value of a JavaScript string literal token.
func unquote(s string) (string, bool) {
	if !isString(s) {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, `\`) {
		return inner, true
	}
	if s[0] == '\'' {
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
	}
	v, err := strconv.Unquote(`"` + inner + `"`)
	if err != nil {
		return "", false
	}
	return v, true
}
