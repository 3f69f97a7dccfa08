package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, IntValue(12), Classify("12"))
	assert.Equal(t, IntValue(-3), Classify("-3"))
	assert.Equal(t, StringValue("12a"), Classify("12a"))
	assert.Equal(t, StringValue(""), Classify(""))

	assert.Equal(t, "12", IntValue(12).Text())
	assert.Equal(t, "hi", StringValue("hi").Text())
	assert.True(t, IntValue(0).IsInt())
	assert.False(t, StringValue("0x").IsInt())
}

func TestWritePrefersExistingBindingUpTheChain(t *testing.T) {
	prog := NewProgram("main")
	loop := prog.Child("while@3")

	prog.Write("X", IntValue(1))
	loop.Write("X", IntValue(2))

	// The inner write mutated the outer binding in place.
	v, ok := prog.Read("X")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int)

	// First use of a fresh name binds in the innermost scope only.
	loop.Write("Y", IntValue(9))
	_, ok = prog.Read("Y")
	assert.False(t, ok)

	v, ok = loop.Read("Y")
	require.True(t, ok)
	assert.Equal(t, int64(9), v.Int)

	// Reads are idempotent.
	v2, ok := loop.Read("Y")
	require.True(t, ok)
	assert.Equal(t, v, v2)

	assert.True(t, loop.Defined("X"))
	assert.True(t, loop.Defined("Y"))
	assert.False(t, prog.Defined("Y"))
}

func TestChildReuseRetainsState(t *testing.T) {
	prog := NewProgram("main")

	first := prog.Child("while@7")
	first.Write("C", IntValue(41))

	// A later visit to the same invocation path reuses the backing scope:
	// loop-local variables keep their value between iterations.
	again := prog.Child("while@7")
	assert.Same(t, first, again)

	v, ok := again.Read("C")
	require.True(t, ok)
	assert.Equal(t, int64(41), v.Int)

	// The same label under a different call path is an independent scope.
	other := prog.Child("f").Child("while@7")
	assert.NotSame(t, first, other)
	_, ok = other.Read("C")
	assert.False(t, ok)
}

func TestPathAndFuncLookup(t *testing.T) {
	prog := NewProgram("main")
	f := prog.Child("f")
	inner := f.Child("while@2")

	assert.Equal(t, "main", prog.Path())
	assert.Equal(t, "main/f/while@2", inner.Path())
	assert.Equal(t, []string{"main", "f", "while@2"}, inner.PathNames())

	prog.DefineFunc(&Function{Name: "helper"})
	got, ok := inner.LookupFunc("helper")
	require.True(t, ok)
	assert.Equal(t, "helper", got.Name)

	_, ok = inner.LookupFunc("missing")
	assert.False(t, ok)

	// Shadowing: the nearest definition on the chain wins.
	f.DefineFunc(&Function{Name: "helper"})
	got, _ = inner.LookupFunc("helper")
	shadow, _ := f.LookupFunc("helper")
	assert.Same(t, shadow, got)
}

func TestSnapshots(t *testing.T) {
	prog := NewProgram("main")
	prog.Write("A", IntValue(1))
	prog.Write("B", StringValue("x"))
	prog.DefineFunc(&Function{Name: "g"})
	prog.DefineFunc(&Function{Name: "f"})

	vars := prog.Vars()
	assert.Len(t, vars, 2)
	assert.Equal(t, IntValue(1), vars["A"])

	// The snapshot is a copy.
	vars["A"] = IntValue(99)
	v, _ := prog.Read("A")
	assert.Equal(t, int64(1), v.Int)

	assert.Equal(t, []string{"f", "g"}, prog.FuncNames())

	prog.Child("f").Child("while@4")
	var paths []string
	prog.Walk(func(s *Scope) { paths = append(paths, s.Path()) })
	assert.Equal(t, []string{"main", "main/f", "main/f/while@4"}, paths)
}
