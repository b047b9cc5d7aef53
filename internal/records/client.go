package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/urls"
	"github.com/muurk/gymlog/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response is read
	maxBodySize = 4 << 20
)

// Client talks to a remote record store over HTTP+JSON.
//
// Every call is attempted exactly once. A failed call returns an *Error and
// the caller is expected to keep whatever state it had.
type Client struct {
	// BaseURL is the server root (e.g., "http://localhost:8080")
	BaseURL string

	// BasePath is the API prefix under BaseURL (default "/gym")
	BasePath string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the server at baseURL
// baseURL: server root (e.g., "http://localhost:8080")
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		BasePath:   urls.DefaultBasePath,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetBasePath sets the API prefix, e.g. "/gym"
func (c *Client) SetBasePath(basePath string) {
	c.BasePath = urls.NormalizeBasePath(basePath)
}

// Ping performs a health check against the records endpoint.
// Returns nil if the server answers a one-row page request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchPage(ctx, 0, 1)
	return err
}

// FetchPage retrieves one page of records.
// page is 0-based, as on the wire.
func (c *Client) FetchPage(ctx context.Context, page, size int) (*Page, error) {
	var p Page
	if err := c.do(ctx, "page", http.MethodGet, urls.PagePath(c.BasePath, page, size), nil, http.StatusOK, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search retrieves one page of records whose exercise contains query.
// page is 0-based, as on the wire.
func (c *Client) Search(ctx context.Context, query string, page, size int) (*Page, error) {
	var p Page
	if err := c.do(ctx, "search", http.MethodGet, urls.SearchPath(c.BasePath, query, page, size), nil, http.StatusOK, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// All retrieves every record without paging
func (c *Client) All(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := c.do(ctx, "all", http.MethodGet, urls.RecordsPath(c.BasePath), nil, http.StatusOK, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Get retrieves a single record by ID
func (c *Client) Get(ctx context.Context, id int64) (*Record, error) {
	var r Record
	if err := c.do(ctx, "get", http.MethodGet, urls.RecordPath(c.BasePath, id), nil, http.StatusOK, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persists a new record and returns it with its server-assigned ID and date
func (c *Client) Create(ctx context.Context, in Input) (*Record, error) {
	if err := JoinValidationErrors(ValidateInput(in)); err != nil {
		return nil, withOperation(err, "create")
	}

	var r Record
	if err := c.do(ctx, "create", http.MethodPost, urls.RecordsPath(c.BasePath), in, http.StatusCreated, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update replaces the exercise and weight of record id
func (c *Client) Update(ctx context.Context, id int64, in Input) (*Record, error) {
	if err := JoinValidationErrors(ValidateInput(in)); err != nil {
		return nil, withOperation(err, "update")
	}

	var r Record
	if err := c.do(ctx, "update", http.MethodPut, urls.RecordPath(c.BasePath, id), in, http.StatusOK, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Patch updates only the fields set in p
func (c *Client) Patch(ctx context.Context, id int64, p Patch) (*Record, error) {
	if err := JoinValidationErrors(ValidatePatch(p)); err != nil {
		return nil, withOperation(err, "patch")
	}

	var r Record
	if err := c.do(ctx, "patch", http.MethodPatch, urls.RecordPath(c.BasePath, id), p, http.StatusOK, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes record id and returns the deleted record.
// Some servers echo only the ID; the returned record then carries just that.
func (c *Client) Delete(ctx context.Context, id int64) (*Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "delete", http.MethodDelete, urls.RecordPath(c.BasePath, id), nil, http.StatusOK, &raw); err != nil {
		return nil, err
	}

	deleted, err := parseDeleted(raw, id)
	if err != nil {
		return nil, withOperation(err, "delete")
	}
	return deleted, nil
}

// parseDeleted accepts a full record, a bare ID or an empty body
func parseDeleted(raw json.RawMessage, id int64) (*Record, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return &Record{ID: id}, nil
	}

	if body[0] == '{' {
		var r Record
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, NewParseError("failed to parse deleted record", err)
		}
		if r.ID == 0 {
			r.ID = id
		}
		return &r, nil
	}

	echoed, err := strconv.ParseInt(string(body), 10, 64)
	if err != nil {
		return nil, NewParseError("unexpected delete response", err)
	}
	return &Record{ID: echoed}, nil
}

// do performs a single request and decodes a JSON response into out
func (c *Client) do(ctx context.Context, operation, method, path string, body any, want int, out any) error {
	target := c.BaseURL + path
	start := time.Now()

	status, err := c.roundTrip(ctx, method, target, body, want, out)
	if err != nil {
		err = withOperation(err, operation)
	}

	logging.LogRequest(operation, method, target, status, time.Since(start), err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body any, want int, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, NewParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, NewNetworkError(fmt.Sprintf("%s request failed", method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		// Error bodies are not part of the contract
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return resp.StatusCode, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, NewNetworkError("failed to read response body", err)
	}

	if raw, ok := out.(*json.RawMessage); ok {
		*raw = data
		return resp.StatusCode, nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, NewParseError("empty response body", nil)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, NewParseError("failed to parse JSON response", err)
	}

	return resp.StatusCode, nil
}

func withOperation(err error, operation string) error {
	if recErr, ok := asError(err); ok && recErr.Operation == "" {
		recErr.Operation = operation
	}
	return err
}
