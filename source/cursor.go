// source/cursor.go
package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEndOfInput is returned by Peek/Advance when no lines remain. Reaching it
// at statement level is normal termination; inside a block it is fatal.
var ErrEndOfInput = errors.New("end of input")

// Pos is a source position: file identity plus 1-based line number.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Line is a single source line carrying its original position, so bodies
// extracted from the middle of a program keep accurate error locations.
type Line struct {
	Text string
	Pos  Pos
}

// Cursor walks a sequence of source lines. Peek returns the next statement
// line with comments stripped and whitespace trimmed; lines that become empty
// are skipped transparently (their positions are preserved by the skip, not
// re-numbered).
type Cursor struct {
	lines []Line
	idx   int
}

// NewCursor splits program text into lines for file (or chunk) identity file.
func NewCursor(file, text string) *Cursor {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for i, t := range raw {
		lines = append(lines, Line{Text: t, Pos: Pos{File: file, Line: i + 1}})
	}
	return &Cursor{lines: lines}
}

// FromLines builds a cursor over an extracted block body.
func FromLines(lines []Line) *Cursor {
	return &Cursor{lines: lines}
}

// Peek returns the next unconsumed statement line and its position, skipping
// lines that are blank after comment stripping.
func (c *Cursor) Peek() (string, Pos, error) {
	for c.idx < len(c.lines) {
		text := Strip(c.lines[c.idx].Text)
		if text == "" {
			c.idx++
			continue
		}
		return text, c.lines[c.idx].Pos, nil
	}
	return "", Pos{}, ErrEndOfInput
}

// Advance discards the line Peek would return.
func (c *Cursor) Advance() error {
	if _, _, err := c.Peek(); err != nil {
		return err
	}
	c.idx++
	return nil
}

// Strip removes the comment (first unescaped ';' to end of line) and trims
// surrounding whitespace. A backslash escapes the following character, so
// '\;' survives into the statement text for the format evaluator.
func Strip(line string) string {
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++ // escaped character is never a comment start
		case ';':
			return strings.TrimSpace(string(rs[:i]))
		}
	}
	return strings.TrimSpace(line)
}
