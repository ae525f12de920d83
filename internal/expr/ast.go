// Package expr parses the inner text of a data-binding annotation into a
// small expression AST.
//
// The grammar is the JavaScript expression subset accepted inside binding
// delimiters: identifiers, literals, this, member access, calls, unary,
// binary, logical and conditional operators, and array literals. Object
// literals, assignment, and the comma operator are rejected.
package expr

// Span is a half-open byte range [Start, End) in the parsed source text.
type Span struct {
	Start int
	End   int
}

// Node is an expression AST node.
//
// The set of node types is closed: Identifier, Literal, ThisExpr, MemberExpr,
// CallExpr, UnaryExpr, BinaryExpr, LogicalExpr, ConditionalExpr and ArrayExpr.
// Consumers switch over the concrete types and treat anything else as
// an unknown, complex expression.
type Node interface {
	Span() Span
	exprNode()
}

// Identifier is a bare name reference such as `user`.
type Identifier struct {
	Name string
	Pos  Span
}

// Literal is a string, number, boolean or null literal. Raw keeps the source
// text, quotes included.
type Literal struct {
	Raw string
	Pos Span
}

// ThisExpr is the `this` keyword.
type ThisExpr struct {
	Pos Span
}

// MemberExpr is `Object.Property` or, when Computed, `Object[Property]`.
// For non-computed access Property is always an *Identifier.
type MemberExpr struct {
	Object   Node
	Property Node
	Computed bool
	Pos      Span
}

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	Callee Node
	Args   []Node
	Pos    Span
}

// UnaryExpr is a prefix operator application: `!`, `-`, `+` or `~`.
type UnaryExpr struct {
	Op      string
	Operand Node
	Pos     Span
}

// BinaryExpr is an arithmetic, bitwise, relational or equality operation.
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
	Pos   Span
}

// LogicalExpr is `&&` or `||`.
type LogicalExpr struct {
	Op    string
	Left  Node
	Right Node
	Pos   Span
}

// ConditionalExpr is `Test ? Consequent : Alternate`.
type ConditionalExpr struct {
	Test       Node
	Consequent Node
	Alternate  Node
	Pos        Span
}

// ArrayExpr is an array literal.
type ArrayExpr struct {
	Elements []Node
	Pos      Span
}

func (n *Identifier) Span() Span      { return n.Pos }
func (n *Literal) Span() Span         { return n.Pos }
func (n *ThisExpr) Span() Span        { return n.Pos }
func (n *MemberExpr) Span() Span      { return n.Pos }
func (n *CallExpr) Span() Span        { return n.Pos }
func (n *UnaryExpr) Span() Span       { return n.Pos }
func (n *BinaryExpr) Span() Span      { return n.Pos }
func (n *LogicalExpr) Span() Span     { return n.Pos }
func (n *ConditionalExpr) Span() Span { return n.Pos }
func (n *ArrayExpr) Span() Span       { return n.Pos }

func (*Identifier) exprNode()      {}
func (*Literal) exprNode()         {}
func (*ThisExpr) exprNode()        {}
func (*MemberExpr) exprNode()      {}
func (*CallExpr) exprNode()        {}
func (*UnaryExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*LogicalExpr) exprNode()     {}
func (*ConditionalExpr) exprNode() {}
func (*ArrayExpr) exprNode()       {}
