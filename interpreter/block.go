// interpreter/block.go
package interpreter

import (
	"fmt"
	"strings"

	"barebones/source"
)

// Block is the extracted body of a while/if-branch/function construct. It is
// transient: built, used to spawn invocations, then dropped. Body lines keep
// their original positions so nested invocations report accurate locations.
type Block struct {
	Header source.Pos
	Body   []source.Line
}

// isOpener reports whether a (stripped) line introduces a nested block. This
// is shallow shape matching, not parsing: the grammar guarantees every opener
// is matched by exactly one 'end'. An 'else if' line continues an open chain
// and never changes depth.
func isOpener(line string) bool {
	if !strings.HasPrefix(line, "while ") &&
		!strings.HasPrefix(line, "if ") &&
		!strings.HasPrefix(line, "function ") {
		return false
	}
	return strings.HasSuffix(line, " do")
}

// isElse matches the custom terminator used when reading if/else chains.
func isElse(line string) bool {
	return line == "else" || strings.HasPrefix(line, "else ")
}

// readBlock consumes the body of a construct whose header line has already
// been advanced past. It tracks nested-construct depth: 'end' at depth zero
// is the construct's own terminator and is consumed. When stopAtElse is set
// and an else line appears at depth zero, reading stops without consuming it
// so the caller can inspect the chain; the second return value reports that
// case. End-of-input before a terminator is fatal.
func (i *Interpreter) readBlock(cur *source.Cursor, header source.Pos, stopAtElse bool) (*Block, bool, error) {
	blk := &Block{Header: header}
	depth := 0

	for {
		line, pos, err := cur.Peek()
		if err != nil {
			return nil, false, i.errAt(header, UnterminatedBlock,
				fmt.Sprintf("block opened at %s has no matching 'end'", header))
		}

		if depth == 0 && stopAtElse && isElse(line) {
			return blk, true, nil
		}

		if line == "end" {
			if err := cur.Advance(); err != nil {
				return nil, false, i.errAt(pos, UnterminatedBlock, "unexpected end of input")
			}
			if depth == 0 {
				return blk, false, nil
			}
			depth--
			blk.Body = append(blk.Body, source.Line{Text: line, Pos: pos})
			continue
		}

		if isOpener(line) {
			depth++
		}
		blk.Body = append(blk.Body, source.Line{Text: line, Pos: pos})
		if err := cur.Advance(); err != nil {
			return nil, false, i.errAt(pos, UnterminatedBlock, "unexpected end of input")
		}
	}
}

// discardChain consumes the remainder of an if/else chain once a branch has
// been taken. The cursor must be at an else line; each subsequent branch body
// is extracted and dropped, without evaluating any predicate, until the
// chain's final 'end' goes by.
func (i *Interpreter) discardChain(cur *source.Cursor, header source.Pos) error {
	for {
		if err := cur.Advance(); err != nil {
			return i.errAt(header, UnterminatedBlock, "unexpected end of input in else chain")
		}
		_, stopped, err := i.readBlock(cur, header, true)
		if err != nil {
			return err
		}
		if !stopped {
			return nil
		}
	}
}
