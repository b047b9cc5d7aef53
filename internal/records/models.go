package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Record is one exercise log entry as stored by the remote record store
type Record struct {
	// ID is assigned by the server and never changes
	ID int64 `json:"id"`

	// Exercise is the exercise name (must be non-empty)
	Exercise string `json:"exercise"`

	// Weight is the lifted weight in kilograms
	Weight int `json:"weight"`

	// Date is assigned by the server on create
	Date Timestamp `json:"date"`

	// SequenceNumber is the 1-based row number across pages, attached for
	// display only. It is never sent to or read from the server.
	SequenceNumber int `json:"-"`
}

// Input is the request body for create and full update
type Input struct {
	Exercise string `json:"exercise"`
	Weight   int    `json:"weight"`
}

// Patch is the request body for a partial update. Nil fields are left alone.
type Patch struct {
	Exercise *string `json:"exercise,omitempty"`
	Weight   *int    `json:"weight,omitempty"`
}

// Input returns the create/update body carrying the record's editable fields
func (r Record) Input() Input {
	return Input{Exercise: r.Exercise, Weight: r.Weight}
}

// Page is a server-side slice of the record collection
type Page struct {
	// Content holds the records of this page in server order
	Content []Record `json:"content"`

	// TotalPages is the number of pages for the requested page size.
	// Servers report 0 for an empty collection.
	TotalPages int `json:"totalPages"`

	// TotalElements is the size of the whole (filtered) collection. It is
	// optional in the contract, so nil means the server did not report it.
	TotalElements *int64 `json:"totalElements,omitempty"`

	// Number is the 0-based page index echoed by the server
	Number int `json:"number"`

	// Size is the page size echoed by the server
	Size int `json:"size"`
}

// Total returns TotalElements and whether the server reported it
func (p *Page) Total() (int64, bool) {
	if p == nil || p.TotalElements == nil {
		return 0, false
	}
	return *p.TotalElements, true
}

// NumberRows sets SequenceNumber on every record for a 1-based page number
func NumberRows(recs []Record, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	for i := range recs {
		recs[i].SequenceNumber = (page-1)*pageSize + i + 1
	}
}

// EventType names the kind of change published on the change feed
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is a single change notification from the record server
type Event struct {
	Type   EventType `json:"type"`
	ID     int64     `json:"id"`
	Record *Record   `json:"record,omitempty"`
	At     time.Time `json:"at"`
}

// Timestamp is a time that accepts the formats record stores emit: RFC 3339
// with an offset, or a zone-less local date-time (what a Java LocalDateTime
// serializes to).
type Timestamp struct {
	time.Time
}

// localDateTimeLayouts are tried in order after RFC 3339
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON encodes the time as RFC 3339, or null when zero
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(ts.Format(time.RFC3339Nano))), nil
}

// UnmarshalJSON accepts RFC 3339, zone-less date-times, epoch milliseconds
// and null
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		ts.Time = time.UnixMilli(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return nil
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return nil
		}
	}

	return fmt.Errorf("invalid timestamp %q", s)
}
