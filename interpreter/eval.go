// interpreter/eval.go
package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"barebones/scope"
	"barebones/source"
)

// Single-operation arithmetic. Operators are detected in this priority
// order; the priority governs detection only, there is no precedence in a
// language with one operator per expression.
var arithOps = [...]byte{'+', '-', '*', '/', '%'}

// findOperator locates the operator to split a token at. The search starts
// at offset 1 so a leading sign stays part of an integer literal.
func findOperator(tok string) (byte, int) {
	if len(tok) < 2 {
		return 0, -1
	}
	for _, op := range &arithOps {
		if idx := strings.IndexByte(tok[1:], op); idx >= 0 {
			return op, idx + 1
		}
	}
	return 0, -1
}

// resolveOperand turns a token into a value: a positional argument, a
// defined variable, a single arithmetic operation over two operands, or a
// literal (integer if it parses as one, opaque string otherwise).
func (x *invocation) resolveOperand(tok string, pos source.Pos) (scope.Value, error) {
	if strings.HasPrefix(tok, "#") {
		if n, err := strconv.Atoi(tok[1:]); err == nil {
			switch {
			case n == 0:
				// The invocation's own identity.
				return scope.StringValue(x.sc.Path()), nil
			case n >= 1 && n <= len(x.args):
				return scope.Classify(x.args[n-1]), nil
			default:
				// No arity checking: out of range is just empty.
				return scope.StringValue(""), nil
			}
		}
		// Not a plain index: tokens like #1-1 carry arithmetic and fall
		// through to operator detection below.
	}

	if v, ok := x.sc.Read(tok); ok {
		return v, nil
	}

	if op, idx := findOperator(tok); idx > 0 {
		left, err := x.resolveOperand(tok[:idx], pos)
		if err != nil {
			return scope.Value{}, err
		}
		right, err := x.resolveOperand(tok[idx+1:], pos)
		if err != nil {
			return scope.Value{}, err
		}
		if !left.IsInt() || !right.IsInt() {
			return scope.Value{}, x.fail(pos, UnsupportedOperator,
				fmt.Sprintf("operator %q requires integer operands in %q", string(op), tok))
		}
		switch op {
		case '+':
			return scope.IntValue(left.Int + right.Int), nil
		case '-':
			return scope.IntValue(left.Int - right.Int), nil
		case '*':
			return scope.IntValue(left.Int * right.Int), nil
		case '/':
			if right.Int == 0 {
				return scope.Value{}, x.fail(pos, DivisionByZero, fmt.Sprintf("division by zero in %q", tok))
			}
			return scope.IntValue(left.Int / right.Int), nil
		case '%':
			if right.Int == 0 {
				return scope.Value{}, x.fail(pos, DivisionByZero, fmt.Sprintf("modulo by zero in %q", tok))
			}
			return scope.IntValue(left.Int % right.Int), nil
		}
	}

	if strings.HasPrefix(tok, "#") {
		return scope.Value{}, x.fail(pos, InvalidSyntax, fmt.Sprintf("malformed argument reference %q", tok))
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return scope.IntValue(n), nil
	}
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return scope.StringValue(tok[1 : len(tok)-1]), nil
	}
	// The language has no "undefined" value: an unbound name is fatal.
	return scope.Value{}, x.fail(pos, UndefinedVariable, fmt.Sprintf("undefined variable %q", tok))
}

// canonicalOp maps word and symbol operator spellings to one form. An
// operator outside this table is always fatal.
var canonicalOp = map[string]string{
	"not": "!=", "!=": "!=",
	"is": "==", "==": "==",
	"gt": ">", ">": ">",
	"ge": ">=", ">=": ">=",
	"lt": "<", "<": "<",
	"le": "<=", "<=": "<=",
}

// evalPredicate evaluates a two-operand comparison. Integers compare
// numerically under every operator; if either side is a string only
// equality and inequality apply.
func (x *invocation) evalPredicate(lhs, op, rhs string, pos source.Pos) (bool, error) {
	canon, ok := canonicalOp[op]
	if !ok {
		return false, x.fail(pos, UnsupportedOperator, fmt.Sprintf("unknown comparison operator %q", op))
	}

	l, err := x.resolveOperand(lhs, pos)
	if err != nil {
		return false, err
	}
	r, err := x.resolveOperand(rhs, pos)
	if err != nil {
		return false, err
	}

	if l.IsInt() && r.IsInt() {
		switch canon {
		case "!=":
			return l.Int != r.Int, nil
		case "==":
			return l.Int == r.Int, nil
		case ">":
			return l.Int > r.Int, nil
		case ">=":
			return l.Int >= r.Int, nil
		case "<":
			return l.Int < r.Int, nil
		case "<=":
			return l.Int <= r.Int, nil
		}
	}

	switch canon {
	case "!=":
		return l.Text() != r.Text(), nil
	case "==":
		return l.Text() == r.Text(), nil
	}
	return false, x.fail(pos, UnsupportedOperator,
		fmt.Sprintf("operator %q requires integer operands, got %q and %q", op, l.Text(), r.Text()))
}

// evalFormat expands a format string: '\X' emits X verbatim (always, even
// for braces), '{...}' splices the resolved operand between the braces, and
// everything else passes through. Braces do not nest; the first '}' after an
// unescaped '{' closes the operand span.
func (x *invocation) evalFormat(text string, pos source.Pos) (string, error) {
	var b strings.Builder
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 < len(rs) {
				i++
				b.WriteRune(rs[i])
			} else {
				b.WriteRune('\\')
			}
		case '{':
			j := i + 1
			for j < len(rs) && rs[j] != '}' {
				j++
			}
			if j == len(rs) {
				return "", x.fail(pos, InvalidSyntax, fmt.Sprintf("unclosed '{' in format string %q", text))
			}
			v, err := x.resolveOperand(strings.TrimSpace(string(rs[i+1:j])), pos)
			if err != nil {
				return "", err
			}
			b.WriteString(v.Text())
			i = j
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String(), nil
}
