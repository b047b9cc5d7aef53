package state

import (
	"reflect"
	"testing"

	"github.com/muurk/gymlog/internal/records"
)

func makeRecords(ids ...int64) []records.Record {
	recs := make([]records.Record, len(ids))
	for i, id := range ids {
		recs[i] = records.Record{ID: id, Exercise: "Squat", Weight: 100}
	}
	return recs
}

func int64Ptr(n int64) *int64 {
	return &n
}

// loaded returns a container that has successfully fetched page of a
// collection with total records.
func loaded(t *testing.T, rows, page int, total int64, withTotal bool) *State {
	t.Helper()

	s := New(rows, 10)
	totalPages := int((total + int64(rows) - 1) / int64(rows))

	first := int64((page-1)*rows) + 1
	var ids []int64
	for id := first; id <= total && id < first+int64(rows); id++ {
		ids = append(ids, id)
	}

	p := &records.Page{Content: makeRecords(ids...), TotalPages: totalPages}
	if withTotal {
		p.TotalElements = int64Ptr(total)
	}
	if next := s.FetchSucceeded(page, p); next != nil {
		t.Fatalf("unexpected clamp refetch %+v", next)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := New(0, 0)
	if s.RowsPerPage != DefaultRowsPerPage || s.Search.RowsPerPage != DefaultSearchRowsPerPage {
		t.Errorf("page sizes = %d/%d, want %d/%d", s.RowsPerPage, s.Search.RowsPerPage,
			DefaultRowsPerPage, DefaultSearchRowsPerPage)
	}
	if s.CurrentPage != 1 || s.TotalPages != 1 {
		t.Errorf("CurrentPage/TotalPages = %d/%d, want 1/1", s.CurrentPage, s.TotalPages)
	}
	if f := s.Initial(); f != (Fetch{Page: 1, Size: DefaultRowsPerPage}) || f.Index() != 0 {
		t.Errorf("Initial() = %+v", f)
	}
}

func TestFetchSucceeded(t *testing.T) {
	s := New(5, 10)
	p := &records.Page{Content: makeRecords(6, 7, 8), TotalPages: 2, TotalElements: int64Ptr(8)}

	if next := s.FetchSucceeded(2, p); next != nil {
		t.Fatalf("FetchSucceeded() follow-up = %+v, want nil", next)
	}
	if s.CurrentPage != 2 || s.TotalPages != 2 {
		t.Errorf("CurrentPage/TotalPages = %d/%d, want 2/2", s.CurrentPage, s.TotalPages)
	}
	got := []int{s.Records[0].SequenceNumber, s.Records[1].SequenceNumber, s.Records[2].SequenceNumber}
	if !reflect.DeepEqual(got, []int{6, 7, 8}) {
		t.Errorf("sequence numbers = %v, want [6 7 8]", got)
	}
}

func TestFetchSucceeded_NormalizesEmpty(t *testing.T) {
	s := New(5, 10)
	if next := s.FetchSucceeded(1, &records.Page{TotalPages: 0}); next != nil {
		t.Fatalf("follow-up = %+v, want nil", next)
	}
	if s.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", s.TotalPages)
	}
}

func TestFetchSucceeded_ClampsOutOfRange(t *testing.T) {
	s := New(5, 10)

	next := s.FetchSucceeded(4, &records.Page{TotalPages: 2})
	if next == nil {
		t.Fatal("expected a clamp refetch")
	}
	if *next != (Fetch{Page: 2, Size: 5}) {
		t.Errorf("refetch = %+v, want page 2", *next)
	}
	if s.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", s.CurrentPage)
	}
}

func TestFetchSucceeded_LastResponseWins(t *testing.T) {
	s := New(5, 10)
	s.FetchSucceeded(3, &records.Page{Content: makeRecords(11), TotalPages: 3})
	s.FetchSucceeded(2, &records.Page{Content: makeRecords(6, 7), TotalPages: 3})

	if s.CurrentPage != 2 || s.Records[0].ID != 6 {
		t.Errorf("CurrentPage = %d, first ID = %d, want page 2 / ID 6", s.CurrentPage, s.Records[0].ID)
	}
}

func TestRequestPage(t *testing.T) {
	s := loaded(t, 5, 1, 12, true)

	f, ok := s.RequestPage(3)
	if !ok || f != (Fetch{Page: 3, Size: 5}) {
		t.Errorf("RequestPage(3) = %+v, %v", f, ok)
	}
	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage changed before the fetch succeeded: %d", s.CurrentPage)
	}

	for _, p := range []int{0, 4, -1} {
		if _, ok := s.RequestPage(p); ok {
			t.Errorf("RequestPage(%d) should be ignored", p)
		}
	}
}

func TestDeleteSucceeded(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int64
		wantPage  int
		wantIndex int
	}{
		// rowsPerPage=5, page 3 holds a single record
		{"sole record on last page", 3, 11, 2, 1},
		{"several records on page", 2, 9, 2, 1},
		{"sole record on page one", 1, 1, 1, 0},
		{"page one with others", 1, 4, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, 5, tt.page, tt.total, true)
			victim := s.Records[len(s.Records)-1]

			f := s.DeleteSucceeded(victim)
			if f.Page != tt.wantPage {
				t.Errorf("refetch page = %d, want %d", f.Page, tt.wantPage)
			}
			if s.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d before the refetch landed, want %d", s.CurrentPage, tt.page)
			}
			if f.Index() != tt.wantIndex || f.Size != 5 {
				t.Errorf("refetch = %+v (index %d), want index %d", f, f.Index(), tt.wantIndex)
			}
		})
	}
}

func TestDeleteSucceeded_DecrementsByExactlyOne(t *testing.T) {
	for page := 2; page <= 6; page++ {
		total := int64((page-1)*5 + 1)
		s := loaded(t, 5, page, total, true)
		f := s.DeleteSucceeded(s.Records[0])
		if f.Page != page-1 {
			t.Errorf("page %d: refetch page = %d, want %d", page, f.Page, page-1)
		}
	}
}

func TestCreateSucceeded(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int64
		withTotal bool
		wantPage  int
	}{
		{"nine records", 1, 9, true, 2},
		{"nine records without totalElements on last page", 2, 9, false, 2},
		// The last page is assumed full; a clamp refetch corrects overshoot
		{"nine records without totalElements on first page", 1, 9, false, 3},
		{"empty collection", 1, 0, true, 1},
		{"empty collection without totalElements", 1, 0, false, 1},
		{"full pages", 1, 10, true, 3},
		{"full pages without totalElements on last page", 2, 10, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, 5, tt.page, tt.total, tt.withTotal)

			f := s.CreateSucceeded(records.Record{ID: 100})
			if s.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d before the fetch landed, want %d", s.CurrentPage, tt.page)
			}
			if f.Page != tt.wantPage || f.Index() != tt.wantPage-1 {
				t.Errorf("fetch = %+v, want page %d", f, tt.wantPage)
			}
		})
	}
}

func TestCreateSucceeded_OvershootIsClamped(t *testing.T) {
	s := loaded(t, 5, 1, 9, false)

	f := s.CreateSucceeded(records.Record{ID: 10})
	next := s.FetchSucceeded(f.Page, &records.Page{TotalPages: 2})
	if next == nil || next.Page != 2 {
		t.Fatalf("clamp refetch = %+v, want page 2", next)
	}

	s.FetchSucceeded(next.Page, &records.Page{Content: makeRecords(6, 7, 8, 9, 10), TotalPages: 2})
	if s.CurrentPage != 2 || s.Records[4].ID != 10 {
		t.Errorf("CurrentPage = %d, last ID = %d, want 2 / 10", s.CurrentPage, s.Records[4].ID)
	}
}

func TestCreateSucceeded_FullPagesGoToNextPage(t *testing.T) {
	for k := 1; k <= 5; k++ {
		s := loaded(t, 5, 1, int64(5*k), true)
		f := s.CreateSucceeded(records.Record{ID: 999})
		if f.Page != k+1 {
			t.Errorf("k=%d: fetch page = %d, want %d", k, f.Page, k+1)
		}
	}
}

func TestUpdateSucceeded(t *testing.T) {
	s := loaded(t, 5, 2, 8, true)
	before := s.Records[1]

	updated := records.Record{ID: before.ID, Exercise: "Front Squat", Weight: 120}
	if !s.UpdateSucceeded(updated) {
		t.Fatal("UpdateSucceeded() = false, want true")
	}

	got := s.Records[1]
	if got.Exercise != "Front Squat" || got.Weight != 120 {
		t.Errorf("slot = %+v", got)
	}
	if got.SequenceNumber != before.SequenceNumber {
		t.Errorf("SequenceNumber = %d, want %d", got.SequenceNumber, before.SequenceNumber)
	}
	if len(s.Records) != 3 || s.CurrentPage != 2 {
		t.Errorf("update changed list shape: %d records, page %d", len(s.Records), s.CurrentPage)
	}

	if s.UpdateSucceeded(records.Record{ID: 9999}) {
		t.Error("UpdateSucceeded() for a record not on the page should be false")
	}
}

func TestRefresh(t *testing.T) {
	s := loaded(t, 5, 2, 12, true)
	if f := s.Refresh(); f != (Fetch{Page: 2, Size: 5}) {
		t.Errorf("Refresh() = %+v", f)
	}
}
