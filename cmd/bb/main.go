package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"barebones/interpreter"
)

const version = "0.1.0"

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  bb <file.bb> [args...]")
	fmt.Println("  bb run <file.bb> [args...]")
	fmt.Println("  bb repl")
	fmt.Println()
	fmt.Println("Flags (before the file):")
	fmt.Println("  -q        quiet diagnostics (no source positions)")
	fmt.Println("  -time     report elapsed wall time on stderr")
	fmt.Println("  -version  print version and exit")
	os.Exit(1)
}

func main() {
	args := os.Args[1:]

	quiet := false
	timed := false
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "-q":
			quiet = true
		case "-time":
			timed = true
		case "-version":
			fmt.Println("bb " + version)
			return
		default:
			usage()
		}
		args = args[1:]
	}

	if len(args) == 0 {
		usage()
	}

	if args[0] == "repl" {
		if err := runREPL(quiet); err != nil {
			fail(err)
		}
		return
	}

	// Allow: bb run file.bb
	if args[0] == "run" {
		args = args[1:]
		if len(args) == 0 {
			usage()
		}
	}

	filename := args[0]
	progArgs := args[1:]

	if !strings.HasSuffix(filename, ".bb") {
		fmt.Fprintf(os.Stderr, "Error: expected a .bb file, got %q\n", filename)
		os.Exit(1)
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
		os.Exit(1)
	}

	interp := interpreter.NewWithSource(filepath.Base(filename), string(src))
	interp.SetArgs(progArgs)
	interp.SetQuiet(quiet)

	start := time.Now()
	runErr := interp.Run()
	if timed {
		fmt.Fprintf(os.Stderr, "elapsed: %s\n", time.Since(start).Round(time.Microsecond))
	}
	if runErr != nil {
		fail(runErr)
	}
}

func fail(err error) {
	msg := err.Error()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = "\033[31m" + msg + "\033[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
