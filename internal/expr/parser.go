package expr

import (
	"fmt"
)

// maxDepth bounds recursion while parsing so pathological input fails with a
// syntax error instead of exhausting the stack.
const maxDepth = 128

// SyntaxError reports why a binding expression could not be parsed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// binaryLevels lists binary operators from lowest to highest precedence.
// Logical operators are handled separately since they produce LogicalExpr.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"==", "!=", "===", "!=="},
	{"<", ">", "<=", ">="},
	{"<<", ">>", ">>>"},
	{"+", "-"},
	{"*", "/", "%"},
}

var unaryOperators = map[string]bool{"!": true, "-": true, "+": true, "~": true}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "let": true, "new": true, "return": true, "super": true,
	"switch": true, "throw": true, "try": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true, "await": true,
}

// Parse parses src as a single binding expression. Node spans are byte
// offsets into src.
func Parse(src string) (Node, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	if p.peek().kind == tokenEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	n, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected(tok)
	}
	return n, nil
}

type parser struct {
	tokens []token
	index  int
	depth  int
}

func (p *parser) peek() token {
	return p.tokens[p.index]
}

func (p *parser) next() token {
	tok := p.tokens[p.index]
	if tok.kind != tokenEOF {
		p.index++
	}
	return tok
}

func (p *parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.kind == tokenPunct && tok.text == text
}

func (p *parser) consumePunct(text string) bool {
	if p.isPunct(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectPunct(text string) (token, error) {
	if !p.isPunct(text) {
		tok := p.peek()
		if tok.kind == tokenEOF {
			return tok, &SyntaxError{Pos: tok.start, Msg: fmt.Sprintf("expected %q, got end of expression", text)}
		}
		return tok, &SyntaxError{Pos: tok.start, Msg: fmt.Sprintf("expected %q, got %q", text, tok.text)}
	}
	return p.next(), nil
}

func (p *parser) unexpected(tok token) error {
	if tok.kind == tokenEOF {
		return &SyntaxError{Pos: tok.start, Msg: "unexpected end of expression"}
	}
	return &SyntaxError{Pos: tok.start, Msg: fmt.Sprintf("unexpected token %q", tok.text)}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: p.peek().start, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseConditional() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	test, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.consumePunct("?") {
		return test, nil
	}

	consequent, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	alternate, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	return &ConditionalExpr{
		Test:       test,
		Consequent: consequent,
		Alternate:  alternate,
		Pos:        Span{Start: test.Span().Start, End: alternate.Span().End},
	}, nil
}

func (p *parser) parseLogicalOr() (Node, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.consumePunct("||") {
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "||", Left: left, Right: right, Pos: Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

func (p *parser) parseLogicalAnd() (Node, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	for p.consumePunct("&&") {
		right, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "&&", Left: left, Right: right, Pos: Span{Start: left.Span().Start, End: right.Span().End}}
	}
	return left, nil
}

func (p *parser) parseBinary(level int) (Node, error) {
	if level == len(binaryLevels) {
		return p.parsePrefix()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenPunct || !contains(binaryLevels[level], tok.text) {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.text, Left: left, Right: right, Pos: Span{Start: left.Span().Start, End: right.Span().End}}
	}
}

func (p *parser) parsePrefix() (Node, error) {
	tok := p.peek()
	if tok.kind != tokenPunct || !unaryOperators[tok.text] {
		return p.parseCallChain()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.next()
	operand, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: tok.text, Operand: operand, Pos: Span{Start: tok.start, End: operand.Span().End}}, nil
}

// parseCallChain parses a primary expression and any member accesses and
// calls applied to it. Links of the chain start at the primary's first token,
// which for `(a).b` is the opening parenthesis.
func (p *parser) parseCallChain() (Node, error) {
	start := p.peek().start
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.consumePunct("."):
			name := p.next()
			if name.kind != tokenIdent {
				return nil, p.unexpected(name)
			}
			property := &Identifier{Name: name.text, Pos: Span{Start: name.start, End: name.end}}
			n = &MemberExpr{Object: n, Property: property, Pos: Span{Start: start, End: name.end}}

		case p.consumePunct("["):
			property, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			end, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			n = &MemberExpr{Object: n, Property: property, Computed: true, Pos: Span{Start: start, End: end.end}}

		case p.consumePunct("("):
			args, end, err := p.parseList(")")
			if err != nil {
				return nil, err
			}
			n = &CallExpr{Callee: n, Args: args, Pos: Span{Start: start, End: end.end}}

		default:
			return n, nil
		}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	pos := Span{Start: tok.start, End: tok.end}

	switch tok.kind {
	case tokenIdent:
		switch tok.text {
		case "this":
			return &ThisExpr{Pos: pos}, nil
		case "true", "false", "null":
			return &Literal{Raw: tok.text, Pos: pos}, nil
		}
		if reservedWords[tok.text] {
			return nil, &SyntaxError{Pos: tok.start, Msg: fmt.Sprintf("unexpected keyword %q", tok.text)}
		}
		return &Identifier{Name: tok.text, Pos: pos}, nil

	case tokenNumber, tokenString:
		return &Literal{Raw: tok.text, Pos: pos}, nil

	case tokenPunct:
		switch tok.text {
		case "(":
			inner, err := p.parseConditional()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			elements, end, err := p.parseList("]")
			if err != nil {
				return nil, err
			}
			return &ArrayExpr{Elements: elements, Pos: Span{Start: tok.start, End: end.end}}, nil
		}
	}
	return nil, p.unexpected(tok)
}

// parseList parses comma separated expressions up to and including close.
func (p *parser) parseList(close string) ([]Node, token, error) {
	var items []Node
	if p.isPunct(close) {
		return items, p.next(), nil
	}
	for {
		item, err := p.parseConditional()
		if err != nil {
			return nil, token{}, err
		}
		items = append(items, item)
		if p.consumePunct(",") {
			continue
		}
		end, err := p.expectPunct(close)
		if err != nil {
			return nil, token{}, err
		}
		return items, end, nil
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
