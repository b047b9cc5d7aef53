package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm shows a warning box with details and asks a yes/no question.
// Anything other than "y" or "yes" (case-insensitive), including EOF, is a no.
func Confirm(in io.Reader, out io.Writer, title string, details map[string]string, question string) bool {
	if len(details) > 0 || title != "" {
		box := NewWarningResult(title, details)
		_, _ = fmt.Fprintln(out, box.Render())
		_, _ = fmt.Fprintln(out)
	}

	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(question+" [y/N]: "))

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	_, _ = fmt.Fprintln(out, MutedStyle.Render("  Operation cancelled."))
	return false
}
