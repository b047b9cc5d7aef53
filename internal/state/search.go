package state

import (
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/pagination"
	"github.com/muurk/gymlog/internal/records"
)

// Search is the search overlay. It has its own page size and page numbers
// and is disjoint from the canonical list.
type Search struct {
	// Open is set while the overlay is shown
	Open bool

	// Query is the text the overlay was opened with. Page changes reuse it.
	Query string

	// Results is the server's page for (CurrentPage-1, RowsPerPage)
	Results []records.Record

	// CurrentPage is 1-based
	CurrentPage int

	// TotalPages is kept as the server reported it, 0 included.
	// Rendering normalizes it.
	TotalPages int

	// RowsPerPage is fixed for the session
	RowsPerPage int
}

// Pagination returns the controls for the overlay
func (s *Search) Pagination() pagination.Control {
	return pagination.New(s.CurrentPage, s.TotalPages)
}

// SearchStarted opens the overlay for query at page 1 and returns the fetch.
// Results of any previous query are dropped until the new ones arrive.
func (s *State) SearchStarted(query string) SearchFetch {
	s.Search.Open = true
	s.Search.Query = query
	s.Search.Results = nil
	s.Search.CurrentPage = 1
	s.Search.TotalPages = 0
	return s.searchFetch(1)
}

// RequestSearchPage returns the fetch for overlay page p with the same
// query, or false when the overlay is closed or p does not exist
func (s *State) RequestSearchPage(p int) (SearchFetch, bool) {
	if !s.Search.Open {
		return SearchFetch{}, false
	}
	var f SearchFetch
	ok := s.Search.Pagination().Request(p, func(page int) {
		f = s.searchFetch(page)
	})
	return f, ok
}

// SearchSucceeded installs a search result. Results for a closed overlay or
// for a query other than the open one are dropped. Returns whether the
// result was applied.
func (s *State) SearchSucceeded(f SearchFetch, p *records.Page) bool {
	if !s.Search.Open || f.Query != s.Search.Query {
		return false
	}

	s.Search.Results = p.Content
	s.Search.CurrentPage = f.Page
	s.Search.TotalPages = p.TotalPages
	records.NumberRows(s.Search.Results, f.Page, s.Search.RowsPerPage)

	logging.LogTransition("search", s.Search.CurrentPage, s.Search.TotalPages, len(s.Search.Results))
	return true
}

// SearchClosed hides the overlay and drops its results. The query is kept so
// the input can show it again.
func (s *State) SearchClosed() {
	s.Search.Open = false
	s.Search.Results = nil
	s.Search.CurrentPage = 1
	s.Search.TotalPages = 0
	logging.LogTransition("search_closed", s.CurrentPage, s.TotalPages, len(s.Records))
}

func (s *State) searchFetch(page int) SearchFetch {
	return SearchFetch{Query: s.Search.Query, Page: page, Size: s.Search.RowsPerPage}
}
