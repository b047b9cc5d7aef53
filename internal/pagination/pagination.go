// Package pagination computes the page controls shown under a record list.
//
// A Control is a pure value derived from the current page and the page count.
// It carries no state between renders: callers rebuild it whenever either
// number changes.
package pagination

// WindowSize is the maximum number of numbered page buttons
const WindowSize = 5

// Action is a navigation button
type Action int

const (
	First Action = iota
	Previous
	Next
	Last
)

// String returns the button label
func (a Action) String() string {
	switch a {
	case First:
		return "first"
	case Previous:
		return "previous"
	case Next:
		return "next"
	case Last:
		return "last"
	default:
		return "unknown"
	}
}

// Control describes the page controls for one (currentPage, totalPages) pair
type Control struct {
	// CurrentPage is the 1-based page being shown. It may lie outside
	// [1, TotalPages] while a clamp refetch is pending.
	CurrentPage int

	// TotalPages is normalized to at least 1
	TotalPages int

	// Pages is the window of numbered buttons, at most WindowSize long
	Pages []int

	// LeadingEllipsis is set when page 1 is not in the window
	LeadingEllipsis bool

	// TrailingEllipsis is set when the last page is not in the window
	TrailingEllipsis bool
}

// New builds the controls for currentPage out of totalPages.
// totalPages below 1 is treated as 1.
func New(currentPage, totalPages int) Control {
	if totalPages < 1 {
		totalPages = 1
	}

	start, end := window(currentPage, totalPages)
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Control{
		CurrentPage:      currentPage,
		TotalPages:       totalPages,
		Pages:            pages,
		LeadingEllipsis:  start > 1,
		TrailingEllipsis: end < totalPages,
	}
}

// window returns the first and last page of the numbered window: up to two
// pages either side of current, clipped to [1, total]. A current page outside
// that range is clamped first so the window is never empty.
func window(current, total int) (int, int) {
	half := WindowSize / 2

	c := current
	if c < 1 {
		c = 1
	}
	if c > total {
		c = total
	}

	start := c - half
	if start < 1 {
		start = 1
	}
	end := c + half
	if end > total {
		end = total
	}
	return start, end
}

// Disabled reports whether a navigation button is disabled
func (c Control) Disabled(a Action) bool {
	switch a {
	case First, Previous:
		return c.CurrentPage <= 1
	case Next, Last:
		return c.CurrentPage >= c.TotalPages
	default:
		return true
	}
}

// Target returns the page a navigation button leads to, and false when the
// button is disabled
func (c Control) Target(a Action) (int, bool) {
	if c.Disabled(a) {
		return 0, false
	}
	switch a {
	case First:
		return 1, true
	case Previous:
		return c.CurrentPage - 1, true
	case Next:
		return c.CurrentPage + 1, true
	case Last:
		return c.TotalPages, true
	}
	return 0, false
}

// InRange reports whether p is a page that exists
func (c Control) InRange(p int) bool {
	return p >= 1 && p <= c.TotalPages
}

// Request invokes onChange with p when p is in range.
// Out-of-range requests are ignored. Reports whether onChange was called.
func (c Control) Request(p int, onChange func(int)) bool {
	if !c.InRange(p) || onChange == nil {
		return false
	}
	onChange(p)
	return true
}

// Press requests the page behind a navigation button.
// Disabled buttons do nothing.
func (c Control) Press(a Action, onChange func(int)) bool {
	p, ok := c.Target(a)
	if !ok {
		return false
	}
	return c.Request(p, onChange)
}

// Slot returns the page shown in the i-th numbered button (1-based)
func (c Control) Slot(i int) (int, bool) {
	if i < 1 || i > len(c.Pages) {
		return 0, false
	}
	return c.Pages[i-1], true
}

// IsCurrent reports whether p is the active page
func (c Control) IsCurrent(p int) bool {
	return p == c.CurrentPage
}
