package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/state"
)

// SearchFunc runs a search for query. The widget never decides the page or
// the page size.
type SearchFunc func(query string) tea.Cmd

// SearchWidget captures a free-text query. It fires only on enter and owns
// nothing but the input text.
type SearchWidget struct {
	input    textinput.Model
	onSearch SearchFunc
}

// NewSearchWidget creates the query input. onSearch is invoked on enter.
func NewSearchWidget(onSearch SearchFunc) SearchWidget {
	ti := textinput.New()
	ti.Placeholder = "exercise name"
	ti.Prompt = "Search: "
	ti.CharLimit = records.MaxExerciseLength
	ti.Width = 30
	ti.PromptStyle = FocusedInputStyle
	return SearchWidget{input: ti, onSearch: onSearch}
}

// Focus puts the cursor in the input
func (w *SearchWidget) Focus() tea.Cmd {
	return w.input.Focus()
}

// Blur removes the cursor
func (w *SearchWidget) Blur() {
	w.input.Blur()
}

// Focused reports whether the input has the cursor
func (w SearchWidget) Focused() bool {
	return w.input.Focused()
}

// Value returns the current text
func (w SearchWidget) Value() string {
	return w.input.Value()
}

// SetValue replaces the text
func (w *SearchWidget) SetValue(s string) {
	w.input.SetValue(s)
}

// Update handles a key. Typing only edits the text; enter hands the trimmed
// query to the search function.
func (w SearchWidget) Update(msg tea.Msg) (SearchWidget, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEnter {
		if w.onSearch == nil {
			return w, nil
		}
		return w, w.onSearch(strings.TrimSpace(w.input.Value()))
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// View renders the input
func (w SearchWidget) View() string {
	return w.input.View()
}

// renderSearchOverlay draws the result pane with its own pagination
func renderSearchOverlay(s state.Search, dateLayout string, width int) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Results for \"" + s.Query + "\""))
	b.WriteString("\n")

	if len(s.Results) == 0 {
		b.WriteString(SubtitleStyle.Render("No results"))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(s.Results))
		for _, r := range s.Results {
			rows = append(rows, recordRow(r, dateLayout))
		}
		b.WriteString(renderStaticTable(rows))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderPagination(s.Pagination()))

	style := OverlayStyle
	if width > 0 {
		style = style.Width(SafeModalWidth(width-4, width))
	}
	return style.Render(b.String())
}
