package pagination

import (
	"reflect"
	"testing"
)

func TestNew_Window(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		total        int
		wantPages    []int
		wantLeading  bool
		wantTrailing bool
	}{
		{"single page", 1, 1, []int{1}, false, false},
		{"zero pages", 1, 0, []int{1}, false, false},
		{"start of many", 1, 10, []int{1, 2, 3}, false, true},
		{"second of many", 2, 10, []int{1, 2, 3, 4}, false, true},
		{"middle", 5, 10, []int{3, 4, 5, 6, 7}, true, true},
		{"end of many", 10, 10, []int{8, 9, 10}, true, false},
		{"exactly five", 3, 5, []int{1, 2, 3, 4, 5}, false, false},
		{"current beyond total", 2, 1, []int{1}, false, false},
		{"current below one", 0, 3, []int{1, 2, 3}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.current, tt.total)
			if !reflect.DeepEqual(c.Pages, tt.wantPages) {
				t.Errorf("Pages = %v, want %v", c.Pages, tt.wantPages)
			}
			if c.LeadingEllipsis != tt.wantLeading {
				t.Errorf("LeadingEllipsis = %v, want %v", c.LeadingEllipsis, tt.wantLeading)
			}
			if c.TrailingEllipsis != tt.wantTrailing {
				t.Errorf("TrailingEllipsis = %v, want %v", c.TrailingEllipsis, tt.wantTrailing)
			}
		})
	}
}

func TestNew_NormalizesTotal(t *testing.T) {
	if c := New(1, -3); c.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", c.TotalPages)
	}
}

func TestDisabled(t *testing.T) {
	tests := []struct {
		name                        string
		current, total              int
		first, previous, next, last bool
	}{
		{"only page", 1, 1, true, true, true, true},
		{"first of three", 1, 3, true, true, false, false},
		{"middle", 2, 3, false, false, false, false},
		{"last of three", 3, 3, false, false, true, true},
		{"stale page after empty result", 2, 0, false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.current, tt.total)
			got := []bool{c.Disabled(First), c.Disabled(Previous), c.Disabled(Next), c.Disabled(Last)}
			want := []bool{tt.first, tt.previous, tt.next, tt.last}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Disabled(first, previous, next, last) = %v, want %v", got, want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	c := New(4, 9)

	tests := []struct {
		action Action
		want   int
	}{
		{First, 1},
		{Previous, 3},
		{Next, 5},
		{Last, 9},
	}
	for _, tt := range tests {
		got, ok := c.Target(tt.action)
		if !ok || got != tt.want {
			t.Errorf("Target(%v) = %d, %v, want %d, true", tt.action, got, ok, tt.want)
		}
	}

	if _, ok := New(1, 9).Target(Previous); ok {
		t.Error("Previous on page 1 should be disabled")
	}
}

func TestRequest_IgnoresOutOfRange(t *testing.T) {
	c := New(2, 3)

	var got []int
	record := func(p int) { got = append(got, p) }

	for _, p := range []int{-1, 0, 1, 3, 4, 100} {
		c.Request(p, record)
	}

	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("callback pages = %v, want [1 3]", got)
	}

	if c.Request(1, nil) {
		t.Error("Request with nil callback should report false")
	}
}

func TestPress_DisabledDoesNothing(t *testing.T) {
	called := false
	if New(1, 1).Press(Next, func(int) { called = true }) {
		t.Error("Press(Next) on the only page should report false")
	}
	if called {
		t.Error("callback invoked for a disabled button")
	}
}

// The callback is only ever invoked with pages in [1, totalPages], whatever
// is requested or pressed.
func TestCallbackNeverOutOfRange(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			c := New(current, total)
			check := func(p int) {
				if p < 1 || p > total {
					t.Fatalf("callback got page %d with current=%d total=%d", p, current, total)
				}
			}

			for p := -2; p <= total+2; p++ {
				c.Request(p, check)
			}
			for _, a := range []Action{First, Previous, Next, Last} {
				c.Press(a, check)
			}
			for i := 0; i <= WindowSize+1; i++ {
				if p, ok := c.Slot(i); ok {
					c.Request(p, check)
				}
			}

			if len(c.Pages) > WindowSize {
				t.Errorf("window of %d pages for current=%d total=%d", len(c.Pages), current, total)
			}
			if !containsOrMarked(c, 1) || !containsOrMarked(c, total) {
				t.Errorf("boundary page unreachable for current=%d total=%d: %+v", current, total, c)
			}
		}
	}
}

func containsOrMarked(c Control, p int) bool {
	for _, q := range c.Pages {
		if q == p {
			return true
		}
	}
	if p == 1 {
		return c.LeadingEllipsis
	}
	return c.TrailingEllipsis
}

func TestSlot(t *testing.T) {
	c := New(5, 10)

	if p, ok := c.Slot(1); !ok || p != 3 {
		t.Errorf("Slot(1) = %d, %v, want 3, true", p, ok)
	}
	if p, ok := c.Slot(5); !ok || p != 7 {
		t.Errorf("Slot(5) = %d, %v, want 7, true", p, ok)
	}
	if _, ok := c.Slot(6); ok {
		t.Error("Slot(6) should not exist")
	}
	if _, ok := c.Slot(0); ok {
		t.Error("Slot(0) should not exist")
	}
}
