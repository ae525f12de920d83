package binding

import (
	"fmt"
	"sort"
)

// DefaultPrefix is the name prefix of synthesized functions.
const DefaultPrefix = "__c_"

// Scope is the per-document state threaded through both walker passes: the
// module id, the synthesis counter, the set of identifiers known to be
// component state, and the functions synthesized so far.
type Scope struct {
	moduleID  string
	prefix    string
	globals   []string
	counter   int
	bindings  map[string]struct{}
	functions []FunctionDef
}

// Option configures a Scope.
type Option func(*Scope)

// WithPrefix sets the synthesized function name prefix.
func WithPrefix(prefix string) Option {
	return func(s *Scope) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithGlobals adds identifiers treated like sandbox globals.
func WithGlobals(names ...string) Option {
	return func(s *Scope) {
		s.globals = append(s.globals, names...)
	}
}

// NewScope creates the scope for one document.
func NewScope(moduleID string, opts ...Option) *Scope {
	s := &Scope{
		moduleID: moduleID,
		prefix:   DefaultPrefix,
		bindings: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModuleID returns the host component name.
func (s *Scope) ModuleID() string {
	return s.moduleID
}

// Bind records names as component state.
func (s *Scope) Bind(names ...string) {
	for _, name := range names {
		if name != "" {
			s.bindings[name] = struct{}{}
		}
	}
}

// IsBound reports whether name is component state.
func (s *Scope) IsBound(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

// Bindings returns the bound identifiers, sorted.
func (s *Scope) Bindings() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsGlobal reports whether name is a sandbox global or a configured extra
// global.
func (s *Scope) IsGlobal(name string) bool {
	return IsGlobal(name, s.globals)
}

// Counter returns the number that the next synthesized function will use.
func (s *Scope) Counter() int {
	return s.counter
}

// nextName allocates a function name. Names are never reused.
func (s *Scope) nextName() string {
	name := fmt.Sprintf("%s%d", s.prefix, s.counter)
	s.counter++
	return name
}

func (s *Scope) addFunction(f FunctionDef) {
	s.functions = append(s.functions, f)
}

// Functions returns the synthesized functions in creation order.
func (s *Scope) Functions() []FunctionDef {
	out := make([]FunctionDef, len(s.functions))
	copy(out, s.functions)
	return out
}

// Function looks up a synthesized function by name.
func (s *Scope) Function(name string) (FunctionDef, bool) {
	for _, f := range s.functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionDef{}, false
}
