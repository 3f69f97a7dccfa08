package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"barebones/interpreter"
	"barebones/source"
)

func runREPL(quiet bool) error {
	home, _ := os.UserHomeDir()
	histPath := ""
	if home != "" {
		histPath = filepath.Join(home, ".bb_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "bb> ",
		HistoryFile:            histPath,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Bare Bones REPL. :help for commands, :quit to exit.")
	fmt.Println("Multi-line blocks supported (while/if/function ... do ... end).")
	fmt.Println("Paste Mode: type :paste, then end with '.' or :endpaste")
	fmt.Println("Introspection: :vars  :funcs  :scopes")
	fmt.Println()

	// Single interpreter for the whole REPL session (stateful).
	session := interpreter.New()
	session.SetQuiet(quiet)

	var buf strings.Builder
	depth := 0
	chunk := 0

	pasteMode := false
	var pasteBuf strings.Builder

	for {
		if pasteMode {
			rl.SetPrompt("paste> ")
		} else {
			rl.SetPrompt(replPrompt(depth))
		}

		line, err := rl.Readline()

		// Ctrl+C
		if err == readline.ErrInterrupt {
			if pasteMode {
				pasteMode = false
				pasteBuf.Reset()
				fmt.Println("^C (paste cancelled)")
				continue
			}
			if buf.Len() > 0 || depth > 0 {
				buf.Reset()
				depth = 0
				fmt.Println("^C (buffer cleared)")
			}
			continue
		}

		// Ctrl+D
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		trim := strings.TrimSpace(line)

		// ---- PASTE MODE ----
		if pasteMode {
			if trim == "." || trim == ":endpaste" {
				src := pasteBuf.String()
				pasteBuf.Reset()
				pasteMode = false

				if strings.TrimSpace(src) == "" {
					fmt.Println("(paste buffer empty)")
					continue
				}

				chunk++
				if err := runChunkWith(session, replChunkFilename(chunk), src); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				continue
			}

			if trim == ":cancel" {
				pasteBuf.Reset()
				pasteMode = false
				fmt.Println("(paste cancelled)")
				continue
			}

			pasteBuf.WriteString(line)
			pasteBuf.WriteString("\n")
			continue
		}

		// ---- NORMAL MODE ----

		// Commands only when not buffering a block.
		if depth == 0 && buf.Len() == 0 && strings.HasPrefix(trim, ":") {
			handled, cmdErr := handleREPLCommand(trim, &buf, &depth, &pasteMode, &pasteBuf, session, quiet)
			if handled {
				if cmdErr != nil {
					fmt.Fprintln(os.Stderr, cmdErr.Error())
				}
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		depth = updateDepth(depth, trim)

		if depth > 0 {
			continue
		}

		src := buf.String()
		if strings.TrimSpace(src) == "" {
			buf.Reset()
			continue
		}
		buf.Reset()

		chunk++
		if err := runChunkWith(session, replChunkFilename(chunk), src); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func replChunkFilename(chunk int) string {
	return fmt.Sprintf("<repl:%d>", chunk)
}

func replPrompt(depth int) string {
	if depth > 0 {
		return "..> "
	}
	return "bb> "
}

func handleREPLCommand(
	cmd string,
	buf *strings.Builder,
	depth *int,
	pasteMode *bool,
	pasteBuf *strings.Builder,
	session *interpreter.Interpreter,
	quiet bool,
) (bool, error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		os.Exit(0)
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :quit              Exit the REPL")
		fmt.Println("  :load <file>        Run a .bb file (fresh interpreter, like CLI)")
		fmt.Println("  :reset              Clear buffered multi-line input")
		fmt.Println("  :clear              Clear the screen")
		fmt.Println("  :paste              Start paste mode (end with '.' or :endpaste)")
		fmt.Println("  :vars               Show program-scope variables (REPL session)")
		fmt.Println("  :funcs              Show program-scope functions (REPL session)")
		fmt.Println("  :scopes             Show persisted invocation scope paths")
		fmt.Println()
		fmt.Println("Paste mode controls:")
		fmt.Println("  .                   End + run pasted program")
		fmt.Println("  :endpaste           End + run pasted program")
		fmt.Println("  :cancel             Cancel paste without running")
		fmt.Println()
		fmt.Println("Notes:")
		fmt.Println("  - Multi-line blocks: while/if/function ... do ... end")
		fmt.Println("  - REPL input shares state across runs (vars/functions persist).")
		return true, nil

	case strings.HasPrefix(cmd, ":load "):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load "))
		if path == "" {
			return true, fmt.Errorf("Usage: :load <file.bb>")
		}
		if !strings.HasSuffix(path, ".bb") {
			return true, fmt.Errorf("expected a .bb file, got %q", path)
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return true, fmt.Errorf("Failed to read %s: %s", path, err.Error())
		}

		// Load runs like the CLI: fresh interpreter for the file.
		return true, runSource(filepath.Base(path), string(b), quiet)

	case cmd == ":reset":
		buf.Reset()
		*depth = 0
		fmt.Println("(buffer cleared)")
		return true, nil

	case cmd == ":clear":
		fmt.Print("\033[2J\033[H")
		return true, nil

	case cmd == ":paste":
		buf.Reset()
		*depth = 0
		pasteBuf.Reset()
		*pasteMode = true
		fmt.Println("(paste mode: end with '.' or :endpaste, cancel with :cancel)")
		return true, nil

	case cmd == ":vars":
		vars := session.GlobalsSnapshot()
		if len(vars) == 0 {
			fmt.Println("(no variables)")
			return true, nil
		}
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, vars[k].Text())
		}
		return true, nil

	case cmd == ":funcs":
		names := session.FuncNames()
		if len(names) == 0 {
			fmt.Println("(no functions)")
			return true, nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return true, nil

	case cmd == ":scopes":
		for _, p := range session.ScopePaths() {
			fmt.Println(p)
		}
		return true, nil

	default:
		fmt.Println("Unknown command. Try :help")
		return true, nil
	}
}

// updateDepth tracks how many blocks the buffered input has opened but not
// yet closed, using the same line shapes the block reader matches.
func updateDepth(depth int, trimmed string) int {
	stmt := source.Strip(trimmed)
	if stmt == "" {
		return depth
	}

	if isBlockOpener(stmt) {
		return depth + 1
	}

	if stmt == "end" {
		if depth > 0 {
			return depth - 1
		}
		return 0
	}

	return depth
}

func isBlockOpener(stmt string) bool {
	if !strings.HasPrefix(stmt, "while ") &&
		!strings.HasPrefix(stmt, "if ") &&
		!strings.HasPrefix(stmt, "function ") {
		return false
	}
	return strings.HasSuffix(stmt, " do")
}
