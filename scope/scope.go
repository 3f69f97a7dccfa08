// scope/scope.go
package scope

import (
	"sort"

	"barebones/source"
)

// Function is a stored function body: the lines extracted at the definition
// site, keyed by name in the scope where the definition executed.
type Function struct {
	Name    string
	Body    []source.Line
	Defined source.Pos
}

// Scope is a named node in the hierarchical variable namespace. A scope's
// identity is its path: the chain of invocation names from the program root
// down. Children persist across invocations sharing the same path, so a loop
// body's scope accumulates state across iterations.
type Scope struct {
	name     string
	parent   *Scope
	children map[string]*Scope
	vars     map[string]Value
	funcs    map[string]*Function
}

// NewProgram creates the root scope for one program run. Parallel program
// runs must not share a root.
func NewProgram(name string) *Scope {
	return &Scope{
		name:     name,
		children: map[string]*Scope{},
		vars:     map[string]Value{},
		funcs:    map[string]*Function{},
	}
}

// Child returns the persistent child scope for invocation label, creating it
// on first visit and reusing it on every later one. The label names a
// function, a generated block, or a repeated iteration of the same loop; the
// semantics are identical.
func (s *Scope) Child(label string) *Scope {
	if c, ok := s.children[label]; ok {
		return c
	}
	c := &Scope{
		name:     label,
		parent:   s,
		children: map[string]*Scope{},
		vars:     map[string]Value{},
		funcs:    map[string]*Function{},
	}
	s.children[label] = c
	return c
}

// Path is the slash-joined invocation chain from the program root.
func (s *Scope) Path() string {
	if s.parent == nil {
		return s.name
	}
	return s.parent.Path() + "/" + s.name
}

func (s *Scope) Name() string { return s.name }

// Read walks the ancestor chain and returns the first binding found.
func (s *Scope) Read(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Defined is the non-fatal existence probe over the same chain Read uses.
func (s *Scope) Defined(name string) bool {
	_, ok := s.Read(name)
	return ok
}

// Write updates the nearest existing binding anywhere up the chain. Only when
// no ancestor defines the name does it create a new variable locally. An
// inner block mutating a name bound by an enclosing scope therefore writes
// through to the outer binding; first use always binds in the innermost
// scope.
func (s *Scope) Write(name string, v Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// DefineFunc registers a function body in this scope. Redefinition replaces
// the previous body, last-writer-wins like variables.
func (s *Scope) DefineFunc(fn *Function) {
	s.funcs[fn.Name] = fn
}

// LookupFunc searches this scope and its ancestors, so nested invocations can
// call functions defined by any enclosing one.
func (s *Scope) LookupFunc(name string) (*Function, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// PathNames returns the invocation chain root-first, for error stacks.
func (s *Scope) PathNames() []string {
	if s.parent == nil {
		return []string{s.name}
	}
	return append(s.parent.PathNames(), s.name)
}

// Vars returns a copy of this scope's own variables (ancestors excluded).
func (s *Scope) Vars() map[string]Value {
	out := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// FuncNames returns the sorted names of functions defined in this scope.
func (s *Scope) FuncNames() []string {
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits this scope and every descendant, parents before children.
func (s *Scope) Walk(visit func(*Scope)) {
	visit(s)
	labels := make([]string, 0, len(s.children))
	for l := range s.children {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		s.children[l].Walk(visit)
	}
}
