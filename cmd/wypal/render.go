package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dacharyc/wypal"
)

// outputMode selects what is printed for a cleaned input.
type outputMode int

const (
	modeText outputMode = iota
	modeDiff
	modeLineDiff
	modeViews
	modePatch
)

// renderer prints a cleaning result in the selected output mode.
type renderer struct {
	mode        outputMode
	diffOpts    wypal.DiffOptions
	fmtOpts     wypal.FormatOptions
	context     int
	lineNumbers int // -1 hides line numbers, 0 picks the width
}

// newRenderer picks the output mode. Patch wins over views, views over
// diffs; context and line numbers imply a line mode diff.
func newRenderer(cfg config, diffOpts wypal.DiffOptions, fmtOpts wypal.FormatOptions) renderer {
	r := renderer{
		mode:        modeText,
		diffOpts:    diffOpts,
		fmtOpts:     fmtOpts,
		context:     cfg.context,
		lineNumbers: cfg.lineNumbers,
	}
	lineByLine := cfg.lineByLine || cfg.context > 0 || cfg.lineNumbers >= 0
	switch {
	case cfg.patch:
		r.mode = modePatch
	case cfg.views:
		r.mode = modeViews
	case lineByLine:
		r.mode = modeLineDiff
	case cfg.diff:
		r.mode = modeDiff
	}
	return r
}

func (r renderer) render(w io.Writer, source string, res wypal.Result) {
	switch r.mode {
	case modePatch:
		fmt.Fprint(w, wypal.Patch(source, res.Text))
	case modeViews:
		v := wypal.RenderViews(wypal.DiffStrings(source, res.Text, r.diffOpts), r.fmtOpts)
		printViews(w, v, r.fmtOpts.HTML)
	case modeLineDiff:
		out := wypal.DiffLineByLine(source, res.Text, r.fmtOpts)
		width := r.lineNumbers
		if width == 0 {
			maxLines := max(strings.Count(source, "\n"), strings.Count(res.Text, "\n")) + 1
			width = max(3, len(fmt.Sprintf("%d", maxLines)))
		}
		if r.context > 0 {
			printWithContext(w, wypal.FilterWithContext(out.Lines, r.context), width, r.fmtOpts.UseColor)
		} else {
			printLineResults(w, out.Lines, width, r.fmtOpts.UseColor)
		}
	case modeDiff:
		fmt.Fprintln(w, wypal.FormatDiff(wypal.DiffStrings(source, res.Text, r.diffOpts), r.fmtOpts))
	default:
		if res.Text != "" {
			fmt.Fprintln(w, res.Text)
		}
	}
}

// printViews prints the before and after views
func printViews(w io.Writer, v wypal.Views, html bool) {
	if html {
		fmt.Fprintf(w, "<div class=\"view-before\">%s</div>\n", v.Before)
		fmt.Fprintf(w, "<div class=\"view-after\">%s</div>\n", v.After)
		return
	}
	fmt.Fprintln(w, "--- before")
	fmt.Fprintln(w, v.Before)
	fmt.Fprintln(w, "+++ after")
	fmt.Fprintln(w, v.After)
}

// printLineResults prints all line diff results
func printLineResults(w io.Writer, results []wypal.LineDiffResult, width int, useColor bool) {
	for _, r := range results {
		printLineDiffResult(w, r, width, useColor)
	}
}

// printLineDiffResult prints a single line diff result. A negative width
// prints a change marker and one line number instead of both numbers.
func printLineDiffResult(w io.Writer, r wypal.LineDiffResult, width int, useColor bool) {
	if width >= 0 {
		oldWidth := width + 1
		newWidth := width + 2
		oldStr := fmt.Sprintf("%*d", oldWidth, r.OldLineNum)
		newStr := fmt.Sprintf("%-*d", newWidth, r.NewLineNum)
		if r.OldLineNum == 0 {
			oldStr = strings.Repeat(" ", oldWidth)
		}
		if r.NewLineNum == 0 {
			newStr = strings.Repeat(" ", newWidth)
		}
		fmt.Fprintf(w, "%s:%s%s\n", oldStr, newStr, r.Output)
		return
	}

	prefix := "  "
	if r.HasChanges {
		prefix = "| "
		if useColor {
			prefix = defaultChangeColor + "| " + wypal.ANSIReset
		}
	}
	lineNum := r.NewLineNum
	if lineNum == 0 {
		lineNum = r.OldLineNum
	}
	fmt.Fprintf(w, "%s%4d: %s\n", prefix, lineNum, r.Output)
}

// printWithContext prints filtered line results, separating gaps with "---".
// A gap is any jump in the old or new line numbers.
func printWithContext(w io.Writer, results []wypal.LineDiffResult, width int, useColor bool) {
	lastOld, lastNew := 0, 0 // 0 until a line on that side is printed
	for _, r := range results {
		gap := (lastOld > 0 && r.OldLineNum != 0 && r.OldLineNum != lastOld+1) ||
			(lastNew > 0 && r.NewLineNum != 0 && r.NewLineNum != lastNew+1)
		if gap {
			fmt.Fprintln(w, "---")
			lastOld, lastNew = 0, 0
		}
		if r.OldLineNum != 0 {
			lastOld = r.OldLineNum
		}
		if r.NewLineNum != 0 {
			lastNew = r.NewLineNum
		}
		printLineDiffResult(w, r, width, useColor)
	}
}
