package interpreter

import (
	"sort"

	"barebones/scope"
)

// GlobalsSnapshot returns a copy of the program scope's variables (sorted
// usage is caller-side).
func (i *Interpreter) GlobalsSnapshot() map[string]scope.Value {
	return i.program.Vars()
}

// FuncNames returns sorted names of functions defined at program level.
func (i *Interpreter) FuncNames() []string {
	return i.program.FuncNames()
}

// ScopePaths returns the path of every scope the run has materialized,
// sorted. This is REPL-friendly and shows which invocation paths persist.
func (i *Interpreter) ScopePaths() []string {
	var paths []string
	i.program.Walk(func(s *scope.Scope) {
		paths = append(paths, s.Path())
	})
	sort.Strings(paths)
	return paths
}
