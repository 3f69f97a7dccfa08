// interpreter/interpreter.go
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"barebones/scope"
	"barebones/source"
)

// Interpreter executes Bare Bones programs. One interpreter owns one program
// scope tree; running more source against the same interpreter (as the REPL
// does) accumulates state in that tree.
type Interpreter struct {
	program *scope.Scope

	out io.Writer

	filename string
	src      string
	lines    []string

	args  []string
	quiet bool
}

// NewWithSource creates an interpreter for the given program text. The
// program scope is named after the file (base name without extension).
func NewWithSource(filename, src string) *Interpreter {
	i := &Interpreter{
		program: scope.NewProgram(programName(filename)),
		out:     os.Stdout,
	}
	i.SetSource(filename, src)
	return i
}

// New creates an empty interpreter; the REPL feeds it chunks via SetSource.
func New() *Interpreter { return NewWithSource("", "") }

func programName(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "main"
	}
	return base
}

// SetSource replaces the active source context. Runtime errors report this
// filename, and the program scope is kept, which is what makes a REPL
// session stateful across chunks.
func (i *Interpreter) SetSource(filename, src string) {
	i.filename = filename
	i.src = src
	i.lines = splitLines(src)
}

// SetArgs sets the program argument list, reachable as #1, #2, ... from any
// invocation that has not been handed different arguments.
func (i *Interpreter) SetArgs(args []string) { i.args = args }

// SetOutput redirects print/debug output (stdout by default). Diagnostics
// are not written here; they travel as returned errors.
func (i *Interpreter) SetOutput(w io.Writer) { i.out = w }

// SetQuiet controls whether diagnostics carry source-position prefixes and
// excerpts.
func (i *Interpreter) SetQuiet(q bool) { i.quiet = q }

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

// Run executes the current source as the root invocation. It returns nil
// when input is exhausted without a fatal condition; any fatal condition
// aborts the entire run and surfaces here.
func (i *Interpreter) Run() error {
	root := &invocation{
		itp:  i,
		sc:   i.program,
		args: i.args,
		cur:  source.NewCursor(i.filename, i.src),
	}
	return root.run()
}

// invocation is one execution of a statement sequence: the whole program, a
// loop body, a branch body, or a function body, against a specific scope and
// argument list. Nested invocations always run to completion before control
// returns.
type invocation struct {
	itp  *Interpreter
	sc   *scope.Scope
	args []string
	cur  *source.Cursor
}

func (x *invocation) run() error {
	for {
		line, pos, err := x.cur.Peek()
		if err != nil {
			if errors.Is(err, source.ErrEndOfInput) {
				return nil
			}
			return err
		}
		if err := x.cur.Advance(); err != nil {
			return err
		}
		if err := x.step(line, pos); err != nil {
			return err
		}
	}
}

// invoke runs a block body as a nested invocation.
func (x *invocation) invoke(body []source.Line, sc *scope.Scope, args []string) error {
	sub := &invocation{itp: x.itp, sc: sc, args: args, cur: source.FromLines(body)}
	return sub.run()
}

// step interprets a single statement line. Dispatch is first-match on the
// leading keyword; anything unrecognized must be a call to a defined
// function or it is invalid syntax.
func (x *invocation) step(line string, pos source.Pos) error {
	head, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch head {
	case "clear":
		name, err := x.oneName(head, rest, pos)
		if err != nil {
			return err
		}
		x.sc.Write(name, scope.IntValue(0))
		return nil

	case "incr", "decr":
		name, err := x.oneName(head, rest, pos)
		if err != nil {
			return err
		}
		v, ok := x.sc.Read(name)
		if !ok {
			return x.fail(pos, UndefinedVariable, fmt.Sprintf("undefined variable %q", name))
		}
		if !v.IsInt() {
			return x.fail(pos, UnsupportedOperator, fmt.Sprintf("%s expects an integer, %s is %q", head, name, v.Text()))
		}
		if head == "incr" {
			x.sc.Write(name, scope.IntValue(v.Int+1))
		} else {
			x.sc.Write(name, scope.IntValue(v.Int-1))
		}
		return nil

	case "debug":
		name, err := x.oneName(head, rest, pos)
		if err != nil {
			return err
		}
		v, ok := x.sc.Read(name)
		if !ok {
			return x.fail(pos, UndefinedVariable, fmt.Sprintf("undefined variable %q", name))
		}
		fmt.Fprintf(x.itp.out, "%s=%s\n", name, v.Text())
		return nil

	case "print":
		out, err := x.evalFormat(rest, pos)
		if err != nil {
			return err
		}
		fmt.Fprintln(x.itp.out, out)
		return nil

	case "set":
		name, format, _ := strings.Cut(rest, " ")
		if name == "" {
			return x.fail(pos, InvalidSyntax, "set expects a variable name")
		}
		out, err := x.evalFormat(strings.TrimSpace(format), pos)
		if err != nil {
			return err
		}
		x.sc.Write(name, scope.Classify(out))
		return nil

	case "append":
		name, format, _ := strings.Cut(rest, " ")
		if name == "" {
			return x.fail(pos, InvalidSyntax, "append expects a variable name")
		}
		v, ok := x.sc.Read(name)
		if !ok {
			return x.fail(pos, UndefinedVariable, fmt.Sprintf("undefined variable %q", name))
		}
		out, err := x.evalFormat(strings.TrimSpace(format), pos)
		if err != nil {
			return err
		}
		x.sc.Write(name, scope.Classify(v.Text()+out))
		return nil

	case "while":
		return x.execWhile(rest, pos)

	case "if":
		return x.execIf(rest, pos)

	case "function":
		return x.execFunction(rest, pos)

	case "else":
		return x.fail(pos, InvalidSyntax, "'else' outside an if chain")

	case "end":
		return x.fail(pos, InvalidSyntax, "'end' without an open block")

	default:
		return x.execCall(head, rest, pos)
	}
}

// oneName validates statements of the shape 'KEYWORD NAME'.
func (x *invocation) oneName(keyword, rest string, pos source.Pos) (string, error) {
	if rest == "" || strings.ContainsAny(rest, " \t") {
		return "", x.fail(pos, InvalidSyntax, fmt.Sprintf("%s expects exactly one variable name", keyword))
	}
	return rest, nil
}

// predicateHeader validates 'OPERAND OP OPERAND do' and returns the operand
// and operator tokens.
func (x *invocation) predicateHeader(keyword, rest string, pos source.Pos) (lhs, op, rhs string, err error) {
	toks := strings.Fields(rest)
	if len(toks) != 4 || toks[3] != "do" {
		return "", "", "", x.fail(pos, InvalidSyntax,
			fmt.Sprintf("expected '%s OPERAND OPERATOR OPERAND do'", keyword))
	}
	return toks[0], toks[1], toks[2], nil
}

func (x *invocation) execWhile(rest string, pos source.Pos) error {
	lhs, op, rhs, err := x.predicateHeader("while", rest, pos)
	if err != nil {
		return err
	}

	blk, _, err := x.itp.readBlock(x.cur, pos, false)
	if err != nil {
		return err
	}

	// One backing scope for every iteration: loop-local state persists
	// across iterations of the same construct.
	child := x.sc.Child(fmt.Sprintf("while@%d", pos.Line))

	for {
		hold, err := x.evalPredicate(lhs, op, rhs, pos)
		if err != nil {
			return err
		}
		if !hold {
			return nil
		}
		if err := x.invoke(blk.Body, child, x.args); err != nil {
			return err
		}
	}
}

func (x *invocation) execIf(rest string, pos source.Pos) error {
	lhs, op, rhs, err := x.predicateHeader("if", rest, pos)
	if err != nil {
		return err
	}

	take, err := x.evalPredicate(lhs, op, rhs, pos)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("if@%d", pos.Line)
	hdr := pos

	for {
		blk, stopped, err := x.itp.readBlock(x.cur, hdr, true)
		if err != nil {
			return err
		}

		if take {
			if err := x.invoke(blk.Body, x.sc.Child(label), x.args); err != nil {
				return err
			}
			if !stopped {
				return nil
			}
			// A branch ran: drop the rest of the chain unevaluated.
			return x.itp.discardChain(x.cur, hdr)
		}

		if !stopped {
			// Chain exhausted with no else: zero branches is valid.
			return nil
		}

		elseLine, elsePos, err := x.cur.Peek()
		if err != nil {
			return x.fail(hdr, UnterminatedBlock, "unexpected end of input in else chain")
		}
		if err := x.cur.Advance(); err != nil {
			return err
		}

		hdr = elsePos
		label = fmt.Sprintf("else@%d", elsePos.Line)

		if elseLine == "else" {
			take = true
			continue
		}

		toks := strings.Fields(elseLine)
		if len(toks) != 6 || toks[1] != "if" || toks[5] != "do" {
			return x.fail(elsePos, InvalidSyntax, "expected 'else', or 'else if OPERAND OPERATOR OPERAND do'")
		}
		take, err = x.evalPredicate(toks[2], toks[3], toks[4], elsePos)
		if err != nil {
			return err
		}
	}
}

func (x *invocation) execFunction(rest string, pos source.Pos) error {
	toks := strings.Fields(rest)
	if len(toks) != 2 || toks[1] != "do" {
		return x.fail(pos, InvalidSyntax, "expected 'function NAME do'")
	}

	blk, _, err := x.itp.readBlock(x.cur, pos, false)
	if err != nil {
		return err
	}

	x.sc.DefineFunc(&scope.Function{Name: toks[0], Body: blk.Body, Defined: pos})
	return nil
}

// execCall invokes a previously defined function. The function is searched
// up the enclosing scope chain; its invocation scope is a child of the
// calling scope, so recursive calls stack distinct paths.
func (x *invocation) execCall(name, rest string, pos source.Pos) error {
	fn, ok := x.sc.LookupFunc(name)
	if !ok {
		return x.fail(pos, InvalidSyntax, fmt.Sprintf("unknown statement or undefined function %q", name))
	}

	var args []string
	for _, tok := range strings.Fields(rest) {
		v, err := x.resolveOperand(tok, pos)
		if err != nil {
			return err
		}
		args = append(args, v.Text())
	}

	return x.invoke(fn.Body, x.sc.Child(fn.Name), args)
}

// fail builds a fatal RuntimeError at pos, attaching the offending source
// line when the position belongs to the active source, and the invocation
// path deepest-first.
func (x *invocation) fail(pos source.Pos, kind Kind, msg string) error {
	names := x.sc.PathNames()
	stack := make([]string, 0, len(names))
	for idx := len(names) - 1; idx >= 0; idx-- {
		stack = append(stack, names[idx])
	}

	return RuntimeError{
		Kind:  kind,
		Pos:   pos,
		Msg:   msg,
		Line:  x.itp.lineText(pos),
		Stack: stack,
		Quiet: x.itp.quiet,
	}
}

// errAt is the invocation-free variant used by the block reader.
func (i *Interpreter) errAt(pos source.Pos, kind Kind, msg string) error {
	return RuntimeError{
		Kind:  kind,
		Pos:   pos,
		Msg:   msg,
		Line:  i.lineText(pos),
		Quiet: i.quiet,
	}
}

func (i *Interpreter) lineText(pos source.Pos) string {
	if pos.File != i.filename {
		return ""
	}
	if pos.Line <= 0 || pos.Line > len(i.lines) {
		return ""
	}
	return strings.TrimRight(i.lines[pos.Line-1], " \t")
}
