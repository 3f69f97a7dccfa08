package main

import "barebones/interpreter"

// runSource executes a file the way the CLI does: fresh interpreter, fresh
// program scope.
func runSource(filename, src string, quiet bool) error {
	in := interpreter.NewWithSource(filename, src)
	in.SetQuiet(quiet)
	return in.Run()
}

// runChunkWith runs code using an existing interpreter instance.
// This is what makes the REPL stateful across inputs.
func runChunkWith(in *interpreter.Interpreter, filename, src string) error {
	// Ensure runtime errors show the right filename + excerpt for this chunk.
	in.SetSource(filename, src)
	return in.Run()
}
