package records

import (
	"strings"
	"testing"
	"time"
)

func TestRecord_FormatDate(t *testing.T) {
	rec := Record{Date: NewTimestamp(time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local))}
	if got := rec.FormatDate(); got != "2024/03/05" {
		t.Errorf("FormatDate() = %q, want 2024/03/05", got)
	}

	if got := (Record{}).FormatDate(); got != "-" {
		t.Errorf("zero FormatDate() = %q, want -", got)
	}

	if got := rec.FormatDateLayout("02 Jan 2006"); got != "05 Mar 2024" {
		t.Errorf("FormatDateLayout() = %q, want 05 Mar 2024", got)
	}
	if got := rec.FormatDateLayout(""); got != "2024/03/05" {
		t.Errorf("FormatDateLayout(\"\") = %q, want 2024/03/05", got)
	}
}

func TestRecord_Row(t *testing.T) {
	rec := Record{
		ID:             99,
		Exercise:       "Bench",
		Weight:         80,
		Date:           NewTimestamp(time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local)),
		SequenceNumber: 6,
	}

	row := rec.Row()
	want := []string{"6", "Bench", "80", "2024/01/02"}
	if len(row) != len(Columns) {
		t.Fatalf("len(Row()) = %d, want %d", len(row), len(Columns))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("Row()[%d] = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestFormatPageStatus(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 3, "Page 1 of 3"},
		{2, 2, "Page 2 of 2"},
		{1, 0, "Page 1 of 1"},
	}

	for _, tt := range tests {
		if got := FormatPageStatus(tt.current, tt.total); got != tt.want {
			t.Errorf("FormatPageStatus(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestFormatTable(t *testing.T) {
	if got := FormatTable(nil); got != EmptyMessage+"\n" {
		t.Errorf("FormatTable(nil) = %q", got)
	}

	recs := []Record{
		{ID: 1, Exercise: "Squat", Weight: 100, SequenceNumber: 1},
		{ID: 22, Exercise: "Overhead Press", Weight: 45, SequenceNumber: 2},
	}
	out := FormatTable(recs)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "Weight (kg)") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Trim(lines[1], "-") != "" {
		t.Errorf("separator = %q", lines[1])
	}
	if !strings.Contains(lines[3], "Overhead Press") {
		t.Errorf("row = %q", lines[3])
	}
}

func TestFormatDiff(t *testing.T) {
	old := Record{ID: 5, Exercise: "Squat", Weight: 100}

	diff := FormatDiff(old, Record{ID: 5, Exercise: "Squat", Weight: 105})
	if !strings.Contains(diff, "100 → 105 kg") {
		t.Errorf("FormatDiff() = %q", diff)
	}
	if strings.Contains(diff, "Exercise:") {
		t.Errorf("unchanged exercise listed: %q", diff)
	}

	if diff := FormatDiff(old, old); !strings.Contains(diff, "no differences") {
		t.Errorf("FormatDiff(same) = %q", diff)
	}
}
