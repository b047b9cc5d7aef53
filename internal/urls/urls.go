package urls

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBasePath is the path prefix record servers mount
// their routes under.
const DefaultBasePath = "/gym"

// Route fragments relative to the base path
const (
	RecordsRoute = "/records"
	PageRoute    = "/records/page"
	SearchRoute  = "/records/search"
	EventsRoute  = "/records/events"
	RecordRoute  = "/records/{id}"
	HealthRoute  = "/health"
)

// Documentation links printed by the CLI
const (
	// Project is the repository home
	Project = "https://github.com/muurk/gymlog"

	// TroubleshootingGuide covers connection problems with the record server
	TroubleshootingGuide = "https://muurk.github.io/gymlog/troubleshooting/"
)

// NormalizeBasePath returns base with a single leading slash and no
// trailing slash. An empty base stays empty (routes at the root).
func NormalizeBasePath(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// RecordsPath is the collection path used for create and list-all
func RecordsPath(base string) string {
	return NormalizeBasePath(base) + RecordsRoute
}

// RecordPath is the path for a single record
func RecordPath(base string, id int64) string {
	return NormalizeBasePath(base) + RecordsRoute + "/" + strconv.FormatInt(id, 10)
}

// PagePath is the paged listing path. page is 0-based.
func PagePath(base string, page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return NormalizeBasePath(base) + PageRoute + "?" + q.Encode()
}

// SearchPath is the paged search path. page is 0-based.
func SearchPath(base string, query string, page, size int) string {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return NormalizeBasePath(base) + SearchRoute + "?" + q.Encode()
}

// EventsPath is the change feed path
func EventsPath(base string) string {
	return NormalizeBasePath(base) + EventsRoute
}

// WebSocketURL rewrites an http(s) base URL into the ws(s) change feed URL
func WebSocketURL(serverURL string, base string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + EventsPath(base)
	return u.String(), nil
}
