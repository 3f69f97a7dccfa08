// interpreter/errors.go
package interpreter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"barebones/source"
)

// Kind classifies a fatal condition. Every kind aborts the whole run: the
// error propagates from the deepest active invocation up through all
// enclosing ones without executing further statements at any level.
type Kind int

const (
	UndefinedVariable Kind = iota
	InvalidSyntax
	UnterminatedBlock
	UnsupportedOperator
	DivisionByZero
)

func (k Kind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case InvalidSyntax:
		return "InvalidSyntax"
	case UnterminatedBlock:
		return "UnterminatedBlock"
	case UnsupportedOperator:
		return "UnsupportedOperator"
	case DivisionByZero:
		return "DivisionByZero"
	default:
		return "Unknown"
	}
}

// RuntimeError reports the failing statement's source position, the offending
// line, and the invocation path active when it fired. Quiet errors drop the
// source-position prefix and excerpt (the verbose toggle of the CLI).
type RuntimeError struct {
	Kind  Kind
	Pos   source.Pos
	Msg   string
	Line  string
	Stack []string
	Quiet bool
}

func (e RuntimeError) Error() string {
	if e.Quiet {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Runtime error at %s\n", e.Pos))
	b.WriteString(fmt.Sprintf("  %s: %s\n", e.Kind, e.Msg))

	if e.Line != "" && e.Pos.Line > 0 {
		b.WriteString(fmt.Sprintf("  %d | %s\n", e.Pos.Line, e.Line))

		prefix := fmt.Sprintf("  %d | ", e.Pos.Line)
		span := runewidth.StringWidth(e.Line)
		if span < 1 {
			span = 1
		}
		b.WriteString(strings.Repeat(" ", len(prefix)))
		b.WriteString(strings.Repeat("^", span))
		b.WriteString("\n")
	}

	if len(e.Stack) > 0 {
		b.WriteString("Invocations:\n")
		for _, name := range e.Stack {
			b.WriteString(fmt.Sprintf("  in %s\n", name))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
