package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muurk/gymlog/internal/records"
	"golang.org/x/term"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way CLI commands should output styled content.
// When the writer is not a terminal, records are printed as plain text so
// output can be piped.
type Printer struct {
	out    io.Writer
	width  int
	styled bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		styled: styled,
	}
}

// SetStyled forces styled or plain output
func (p *Printer) SetStyled(styled bool) *Printer {
	p.styled = styled
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	if !p.styled {
		return
	}
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string, body string) {
	if !p.styled {
		p.Println(title)
		if len(details) > 0 {
			p.Println(renderPairs(details, lipgloss.NewStyle(), lipgloss.NewStyle(), "  "))
		}
		if body != "" {
			p.Println(body)
		}
		return
	}
	p.Println(NewSuccessResult(title, details).SetBody(body).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	if !p.styled {
		p.Println(fmt.Sprintf("%s: %v", title, err))
		for _, tip := range troubleshooting {
			p.Println("  - " + tip)
		}
		return
	}
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintRecords prints one page of records followed by a "Page x of y" footer
func (p *Printer) PrintRecords(recs []records.Record, currentPage, totalPages int) {
	if !p.styled {
		p.Print(records.FormatTable(recs))
		p.Println(records.FormatPageStatus(currentPage, totalPages))
		return
	}

	p.Println(RenderRecordTable(recs))
	p.Println(MutedStyle.Render("  " + records.FormatPageStatus(currentPage, totalPages)))
}

// RenderRecordTable renders records as a bordered table, or the empty
// message when there are none
func RenderRecordTable(recs []records.Record) string {
	if len(recs) == 0 {
		return MutedStyle.Render("  " + records.EmptyMessage)
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, append([]string{fmt.Sprintf("%d", r.ID)}, r.Row()...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(append([]string{"ID"}, records.Columns...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})

	return t.Render()
}
