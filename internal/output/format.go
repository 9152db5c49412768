// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"doitlist/internal/task"
)

const (
	// Separator is the separator line around the list header.
	Separator = "------------"

	// Title is the list header shown above the tasks.
	Title = "DoItList"
)

// FormatTask formats a task row.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces, checkbox, text)
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(t.Completed), NormalizeText(t.Text))
}

// FormatList formats the header followed by one row per task, numbered from 1.
func FormatList(w io.Writer, list task.List) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, Title)
	fmt.Fprintln(w, Separator)
	for i, t := range list {
		FormatTask(w, i+1, t)
	}
}

// FormatWarning formats a warning line for stderr.
func FormatWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "warning: %s\n", msg)
}

// Checkbox renders the completion state as "[x]" or "[ ]".
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// NormalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return norm.NFC.String(text)
}
