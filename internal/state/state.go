// Package state holds the canonical record list and the search overlay, and
// the transitions that keep their page numbers consistent with the server.
//
// Transitions never perform I/O. Each one updates the container and, where
// the server has to be asked again, returns the fetch the caller must issue.
// A failed call has no transition: the container simply stays as it was.
package state

import (
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/pagination"
	"github.com/muurk/gymlog/internal/records"
)

const (
	// DefaultRowsPerPage is the page size of the main list
	DefaultRowsPerPage = 5

	// DefaultSearchRowsPerPage is the page size of the search overlay
	DefaultSearchRowsPerPage = 10
)

// Fetch is a page request for the main list
type Fetch struct {
	// Page is 1-based
	Page int
	Size int
}

// Index returns the 0-based page index sent to the server
func (f Fetch) Index() int {
	return f.Page - 1
}

// SearchFetch is a page request for the search overlay
type SearchFetch struct {
	Query string
	// Page is 1-based
	Page int
	Size int
}

// Index returns the 0-based page index sent to the server
func (f SearchFetch) Index() int {
	return f.Page - 1
}

// State is the canonical view of the remote collection plus the search
// overlay. The zero value is not usable; call New.
type State struct {
	// Records is the server's page for (CurrentPage-1, RowsPerPage)
	Records []records.Record

	// CurrentPage is 1-based
	CurrentPage int

	// TotalPages is always at least 1
	TotalPages int

	// RowsPerPage is fixed for the session
	RowsPerPage int

	// TotalElements is the collection size from the last fetch, if the
	// server reported it
	TotalElements *int64

	// Search is the overlay state. It never touches the fields above.
	Search Search
}

// New returns a container for a session with the given page sizes.
// Sizes below 1 fall back to the defaults.
func New(rowsPerPage, searchRowsPerPage int) *State {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	if searchRowsPerPage < 1 {
		searchRowsPerPage = DefaultSearchRowsPerPage
	}
	return &State{
		CurrentPage: 1,
		TotalPages:  1,
		RowsPerPage: rowsPerPage,
		Search:      Search{RowsPerPage: searchRowsPerPage, TotalPages: 0, CurrentPage: 1},
	}
}

// Initial is the fetch issued on start-up
func (s *State) Initial() Fetch {
	return s.fetch(1)
}

// Refresh re-requests the page currently shown
func (s *State) Refresh() Fetch {
	return s.fetch(s.CurrentPage)
}

// Pagination returns the controls for the main list
func (s *State) Pagination() pagination.Control {
	return pagination.New(s.CurrentPage, s.TotalPages)
}

// RequestPage returns the fetch for page p, or false when p does not exist.
// The current page only changes once that fetch succeeds.
func (s *State) RequestPage(p int) (Fetch, bool) {
	var f Fetch
	ok := s.Pagination().Request(p, func(page int) {
		f = s.fetch(page)
	})
	return f, ok
}

// FetchSucceeded installs the server's answer for page. Whichever response
// arrives last wins.
//
// If page lies beyond the reported page count (the collection shrank under
// us) the current page is clamped to the last page and a refetch of that
// page is returned.
func (s *State) FetchSucceeded(page int, p *records.Page) *Fetch {
	totalPages := p.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	s.Records = p.Content
	s.TotalPages = totalPages
	s.TotalElements = p.TotalElements
	s.CurrentPage = page

	var next *Fetch
	switch {
	case page > totalPages:
		s.CurrentPage = totalPages
		f := s.fetch(totalPages)
		next = &f
	case page < 1:
		s.CurrentPage = 1
		f := s.fetch(1)
		next = &f
	}

	records.NumberRows(s.Records, s.CurrentPage, s.RowsPerPage)
	logging.LogTransition("fetch", s.CurrentPage, s.TotalPages, len(s.Records))
	return next
}

// CreateSucceeded returns the fetch for the page where the new record lands.
// The record itself is not inserted locally, and the current page only
// changes once that fetch succeeds.
func (s *State) CreateSucceeded(created records.Record) Fetch {
	count := s.countAfterInsert()
	target := ceilDiv(count, s.RowsPerPage)
	if target < 1 {
		target = 1
	}

	logging.LogTransition("create", target, s.TotalPages, len(s.Records))
	return s.fetch(target)
}

// countAfterInsert is the collection size including a just-created record.
// Without a server-reported total it is estimated from the page metadata:
// full pages before the last one plus the rows of the last page, which is
// only known exactly when it is the page on screen.
func (s *State) countAfterInsert() int64 {
	if s.TotalElements != nil {
		return *s.TotalElements + 1
	}

	full := int64(s.TotalPages-1) * int64(s.RowsPerPage)
	last := int64(s.RowsPerPage)
	if s.CurrentPage >= s.TotalPages {
		last = int64(len(s.Records))
	}
	return full + last + 1
}

// UpdateSucceeded replaces the matching row with the server's entity,
// keeping the row's sequence number. Returns false when the record is not on
// the current page.
func (s *State) UpdateSucceeded(updated records.Record) bool {
	for i := range s.Records {
		if s.Records[i].ID != updated.ID {
			continue
		}
		updated.SequenceNumber = s.Records[i].SequenceNumber
		s.Records[i] = updated
		logging.LogTransition("update", s.CurrentPage, s.TotalPages, len(s.Records))
		return true
	}
	return false
}

// DeleteSucceeded returns the refetch that follows a delete. If the current
// page held only the deleted record and is not the first page, the refetch
// targets the page before it. Like RequestPage it leaves the current page
// alone until the fetch succeeds.
func (s *State) DeleteSucceeded(deleted records.Record) Fetch {
	target := s.CurrentPage
	if len(s.Records) <= 1 && target > 1 {
		target--
	}
	logging.LogTransition("delete", target, s.TotalPages, len(s.Records))
	return s.fetch(target)
}

func (s *State) fetch(page int) Fetch {
	return Fetch{Page: page, Size: s.RowsPerPage}
}

func ceilDiv(n int64, d int) int {
	if d < 1 {
		return 0
	}
	return int((n + int64(d) - 1) / int64(d))
}
