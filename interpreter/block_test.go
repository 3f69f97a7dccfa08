package interpreter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barebones/source"
)

// consumeHeader advances past the construct header line and returns its
// position, the way the executor does before delegating to readBlock.
func consumeHeader(t *testing.T, cur *source.Cursor) source.Pos {
	t.Helper()
	_, pos, err := cur.Peek()
	require.NoError(t, err)
	require.NoError(t, cur.Advance())
	return pos
}

func bodyText(blk *Block) []string {
	var out []string
	for _, ln := range blk.Body {
		out = append(out, ln.Text)
	}
	return out
}

func TestReadBlockTracksNesting(t *testing.T) {
	in := New()
	cur := source.NewCursor("t.bb", strings.Join([]string{
		"while X gt 0 do",
		"decr X",
		"if X is 0 do",
		"print done",
		"end",
		"end",
		"print after",
	}, "\n"))

	pos := consumeHeader(t, cur)
	blk, stopped, err := in.readBlock(cur, pos, false)
	require.NoError(t, err)
	assert.False(t, stopped)

	want := []string{"decr X", "if X is 0 do", "print done", "end"}
	if diff := cmp.Diff(want, bodyText(blk)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	// The construct's own 'end' was consumed; the cursor continues after it.
	line, _, err := cur.Peek()
	require.NoError(t, err)
	assert.Equal(t, "print after", line)
}

func TestReadBlockKeepsOriginalLineNumbers(t *testing.T) {
	in := New()
	cur := source.NewCursor("t.bb", "function f do\nincr X\nend\n")

	pos := consumeHeader(t, cur)
	blk, _, err := in.readBlock(cur, pos, false)
	require.NoError(t, err)

	require.Len(t, blk.Body, 1)
	assert.Equal(t, source.Pos{File: "t.bb", Line: 2}, blk.Body[0].Pos)
}

func TestReadBlockStopsAtElseWithoutConsuming(t *testing.T) {
	in := New()
	cur := source.NewCursor("t.bb", strings.Join([]string{
		"if X gt 0 do",
		"print pos",
		"else if X is 0 do",
		"print zero",
		"end",
	}, "\n"))

	pos := consumeHeader(t, cur)
	blk, stopped, err := in.readBlock(cur, pos, true)
	require.NoError(t, err)
	assert.True(t, stopped)
	assert.Equal(t, []string{"print pos"}, bodyText(blk))

	// The else line is left for the caller to inspect.
	line, _, err := cur.Peek()
	require.NoError(t, err)
	assert.Equal(t, "else if X is 0 do", line)
}

func TestReadBlockIgnoresElseInsideNestedConstruct(t *testing.T) {
	in := New()
	cur := source.NewCursor("t.bb", strings.Join([]string{
		"if A gt 0 do",
		"if B gt 0 do",
		"print b",
		"else",
		"print not-b",
		"end",
		"else",
		"print not-a",
		"end",
	}, "\n"))

	pos := consumeHeader(t, cur)
	blk, stopped, err := in.readBlock(cur, pos, true)
	require.NoError(t, err)
	assert.True(t, stopped)

	want := []string{"if B gt 0 do", "print b", "else", "print not-b", "end"}
	if diff := cmp.Diff(want, bodyText(blk)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	line, _, err := cur.Peek()
	require.NoError(t, err)
	assert.Equal(t, "else", line)
}

func TestReadBlockUnterminated(t *testing.T) {
	in := New()
	cur := source.NewCursor("t.bb", "while X gt 0 do\ndecr X\n")

	pos := consumeHeader(t, cur)
	_, _, err := in.readBlock(cur, pos, false)
	require.Error(t, err)

	var rte RuntimeError
	require.ErrorAs(t, err, &rte)
	assert.Equal(t, UnterminatedBlock, rte.Kind)
	assert.Equal(t, 1, rte.Pos.Line)
}
