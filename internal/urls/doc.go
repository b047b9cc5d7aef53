// Package urls centralizes the record store routes and documentation links.
//
// The client and the reference server both build their paths from this
// package, so the wire contract lives in one place:
//
//	import "github.com/muurk/gymlog/internal/urls"
//
//	u := urls.PagePath(urls.DefaultBasePath, 0, 5)
//	// "/gym/records/page?page=0&size=5"
package urls
