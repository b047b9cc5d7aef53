package records

import (
	"fmt"
	"strconv"
	"strings"
)

// DateLayout is how record dates are shown in tables
const DateLayout = "2006/01/02"

// EmptyMessage is shown in place of rows when a page has no records
const EmptyMessage = "No records found."

// FormatDate returns the record date in local time as YYYY/MM/DD, or "-"
func (r Record) FormatDate() string {
	return r.FormatDateLayout(DateLayout)
}

// FormatDateLayout formats the date in local time with a Go time layout.
// An empty layout means DateLayout.
func (r Record) FormatDateLayout(layout string) string {
	if r.Date.IsZero() {
		return "-"
	}
	if layout == "" {
		layout = DateLayout
	}
	return r.Date.Local().Format(layout)
}

// Summary returns a one-line summary of the record
func (r Record) Summary() string {
	return fmt.Sprintf("#%d %s %d kg (%s)", r.ID, r.Exercise, r.Weight, r.FormatDate())
}

// Row returns the table cells for a record: No, Exercise, Weight (kg), Date.
// No is the display sequence number, not the server ID.
func (r Record) Row() []string {
	return []string{
		strconv.Itoa(r.SequenceNumber),
		r.Exercise,
		strconv.Itoa(r.Weight),
		r.FormatDate(),
	}
}

// Columns are the headers matching Row
var Columns = []string{"No", "Exercise", "Weight (kg)", "Date"}

// FormatPageStatus returns "Page x of y" with y normalized to at least 1
func FormatPageStatus(currentPage, totalPages int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("Page %d of %d", currentPage, totalPages)
}

// FormatTable renders records as a plain text table for non-interactive output
func FormatTable(recs []Record) string {
	if len(recs) == 0 {
		return EmptyMessage + "\n"
	}

	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, append([]string{"ID"}, Columns...))
	for _, r := range recs {
		rows = append(rows, append([]string{strconv.FormatInt(r.ID, 10)}, r.Row()...))
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for i, row := range rows {
		for j, cell := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if j < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[j]-len([]rune(cell))))
			}
		}
		b.WriteString("\n")
		if i == 0 {
			total := 0
			for _, w := range widths {
				total += w
			}
			b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatDiff returns the fields that differ between two versions of a record
func FormatDiff(old, updated Record) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== Record #%d ===\n", old.ID))

	hasChanges := false
	if old.Exercise != updated.Exercise {
		b.WriteString(fmt.Sprintf("  Exercise: %s → %s\n", old.Exercise, updated.Exercise))
		hasChanges = true
	}
	if old.Weight != updated.Weight {
		b.WriteString(fmt.Sprintf("  Weight:   %d → %d kg\n", old.Weight, updated.Weight))
		hasChanges = true
	}

	if !hasChanges {
		b.WriteString("(no differences detected)\n")
	}

	return b.String()
}
