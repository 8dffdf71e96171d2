package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dacharyc/wypal"
	"github.com/dacharyc/wypal/store"
)

const sessionHelp = `Type or paste text; a blank line cleans it.
Commands: :undo  :redo  :diff  :changes  :help  :quit`

// session is an interactive cleaning loop with undo and redo over outputs.
type session struct {
	cleaner *wypal.Cleaner
	rules   wypal.RuleConfig
	r       renderer
	store   store.Store // optional

	history    *wypal.History
	lastInput  string
	lastResult wypal.Result
}

func newSession(cleaner *wypal.Cleaner, rules wypal.RuleConfig, r renderer, st store.Store) *session {
	return &session{
		cleaner: cleaner,
		rules:   rules,
		r:       r,
		store:   st,
		history: wypal.NewHistory(),
	}
}

// run reads paragraphs and commands from in until :quit or EOF. A command
// is only recognized at the start of a paragraph.
func (s *session) run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, sessionHelp)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending []string
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case len(pending) == 0 && strings.HasPrefix(trimmed, ":"):
			if quit := s.command(out, trimmed); quit {
				return nil
			}
		case trimmed == "":
			if len(pending) > 0 {
				if err := s.submit(ctx, out, strings.Join(pending, "\n")); err != nil {
					return err
				}
				pending = pending[:0]
			}
		default:
			pending = append(pending, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if len(pending) > 0 {
		return s.submit(ctx, out, strings.Join(pending, "\n"))
	}
	return nil
}

// submit cleans one paragraph and records the output in the history.
func (s *session) submit(ctx context.Context, out io.Writer, source string) error {
	res := s.cleaner.Clean(source, s.rules)
	s.lastInput = source
	s.lastResult = res
	s.history.Snapshot(res.Text)
	fmt.Fprintln(out, res.Text)

	if s.store != nil {
		if err := s.store.Save(ctx, store.State{Input: source, Options: s.rules}); err != nil {
			return err
		}
	}
	return nil
}

// command runs a session command and reports whether the session should end.
func (s *session) command(out io.Writer, cmd string) bool {
	switch cmd {
	case ":undo", ":u":
		text, ok := s.history.Undo()
		if !ok {
			fmt.Fprintln(out, "Nothing to undo")
			return false
		}
		fmt.Fprintln(out, text)
	case ":redo", ":r":
		text, ok := s.history.Redo()
		if !ok {
			fmt.Fprintln(out, "Nothing to redo")
			return false
		}
		fmt.Fprintln(out, text)
	case ":diff", ":d":
		if s.lastInput == "" {
			fmt.Fprintln(out, "Nothing cleaned yet")
			return false
		}
		diffs := wypal.DiffStrings(s.lastInput, s.history.Current(), s.r.diffOpts)
		fmt.Fprintln(out, wypal.FormatDiff(diffs, s.r.fmtOpts))
	case ":changes", ":c":
		if s.lastInput == "" {
			fmt.Fprintln(out, "Nothing cleaned yet")
			return false
		}
		printChanges(out, s.lastResult.Changes)
	case ":help", ":h":
		fmt.Fprintln(out, sessionHelp)
	case ":quit", ":q":
		return true
	default:
		fmt.Fprintf(out, "Unknown command: %s\n", cmd)
	}
	return false
}
