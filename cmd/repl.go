package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"teslang/build"
	"teslang/syntax"
)

const (
	promptMain  = "tes> "
	promptCont  = "...> "
	historyFile = ".teslang_history"
)

// session holds the definitions accepted so far by the REPL.  Each new entry
// is compiled together with every accepted definition so that it can call
// them.
type session struct {
	compiler *build.Compiler
	defs     []string
}

// newSession creates a new empty REPL session.
func newSession(prof *build.Profile, out io.Writer) *session {
	return &session{compiler: build.NewCompiler(prof, out)}
}

// submit compiles an entry against the session's definitions.  The entry is
// only kept if it compiles without errors.
func (s *session) submit(entry string) (*build.Result, error) {
	src := strings.Join(append(s.defs[:len(s.defs):len(s.defs)], entry), "\n")

	res, err := s.compiler.Compile("<repl>", strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	if res.OK() {
		s.defs = append(s.defs, entry)
	}

	return res, nil
}

// reset discards every accepted definition.
func (s *session) reset() {
	s.defs = nil
}

// source returns the accepted definitions as a single source file.
func (s *session) source() string {
	return strings.Join(s.defs, "\n")
}

// isComplete returns whether an entry can be compiled: every block it opens is
// closed and it ends with the end of a statement.  Entries with lexical errors
// are considered complete so that the error is reported.
func isComplete(entry string) bool {
	toks, err := syntax.Tokenize(strings.NewReader(entry))
	if err != nil {
		return true
	}

	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case syntax.TOK_LBRACE:
			depth++
		case syntax.TOK_RBRACE:
			depth--
		}
	}

	// the last token is always EOF
	if depth > 0 || len(toks) < 2 {
		return false
	}

	last := toks[len(toks)-2].Kind
	return last == syntax.TOK_SEMI || last == syntax.TOK_RBRACE
}

// -----------------------------------------------------------------------------

// runREPL runs the interactive prompt until the input ends.
func runREPL(prof *build.Profile) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	s := newSession(prof, os.Stdout)

repl:
	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			break
		}

		switch strings.TrimSpace(entry) {
		case "":
			continue
		case ":quit":
			break repl
		case ":reset":
			s.reset()
			continue
		case ":show":
			fmt.Println(s.source())
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))

		res, err := s.submit(entry)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if res.OK() {
			fmt.Print(res.Bytecode())
		}
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}

	return 0
}

// readEntry reads lines until they form a complete entry.  It returns false
// once the input has ended.
func readEntry(ln *liner.State) (string, bool) {
	var sb strings.Builder

	for {
		prompt := promptMain
		if sb.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		} else if err != nil {
			// Ctrl+C abandons the current entry
			return "", true
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)

		entry := sb.String()
		if strings.HasPrefix(strings.TrimSpace(entry), ":") || isComplete(entry) {
			return entry, true
		}
	}
}
