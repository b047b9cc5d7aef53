package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/gymlog/internal/pagination"
	"github.com/muurk/gymlog/internal/version"
)

// AppName is shown in the header of every screen
const AppName = "GYMLOG"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MinModalWidth    = 40 // Modals never shrink below this
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Status line under the table
	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Pagination buttons
	PageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	CurrentPageStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Bold(true).
				Padding(0, 1)

	DisabledPageStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	FormErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(0, 1)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderHelp renders help text
func RenderHelp(text string) string {
	return HelpStyle.Render(text)
}

// BuildHeaderContent creates the header line: app name, version and the
// server the session talks to
func BuildHeaderContent(server string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(server)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen in the header, the footer and
// the outer border, filling the terminal.
//
// Before the first tea.WindowSizeMsg the size is unknown; the sections are
// then stacked without the border.
func RenderApplicationContainer(content, footerText, server string, terminalWidth, terminalHeight int) string {
	header := BuildHeaderContent(server)
	footer := HelpStyle.Render(footerText)

	if terminalWidth <= 0 || terminalHeight <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", content, "", footer)
	}
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(1, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// SafeModalWidth returns requestedWidth capped to the terminal, leaving room
// for the border
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < MinModalWidth {
		maxWidth = MinModalWidth
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers modal content on a dimmed screen
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= 0 || terminalHeight <= 0 {
		return modalContent
	}
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// RenderPagination draws the page controls:
//
//	« ‹ … 3 [4] 5 … › »   Page 4 of 9
func RenderPagination(c pagination.Control) string {
	button := func(label string, a pagination.Action) string {
		if c.Disabled(a) {
			return DisabledPageStyle.Render(label)
		}
		return PageStyle.Render(label)
	}

	parts := []string{
		button("«", pagination.First),
		button("‹", pagination.Previous),
	}
	if c.LeadingEllipsis {
		parts = append(parts, DisabledPageStyle.Render("…"))
	}
	for _, p := range c.Pages {
		label := fmt.Sprintf("%d", p)
		if c.IsCurrent(p) {
			parts = append(parts, CurrentPageStyle.Render(label))
		} else {
			parts = append(parts, PageStyle.Render(label))
		}
	}
	if c.TrailingEllipsis {
		parts = append(parts, DisabledPageStyle.Render("…"))
	}
	parts = append(parts,
		button("›", pagination.Next),
		button("»", pagination.Last),
	)

	status := StatusStyle.Render(fmt.Sprintf("Page %d of %d", c.CurrentPage, c.TotalPages))
	return strings.Join(parts, "") + "   " + status
}
