// Package records provides an HTTP client for a remote gym record store.
//
// The store is the source of truth for the record collection. This package
// implements its HTTP+JSON contract (paged listing, search, create, update,
// delete) together with the error taxonomy, input validation and the
// formatting helpers shared by the CLI and the terminal UI.
//
// # Contract
//
//	GET    {base}/records/page?page={0-based}&size={n}
//	GET    {base}/records/search?query={text}&page={0-based}&size={n}
//	POST   {base}/records            -> 201 + created record
//	PUT    {base}/records/{id}       -> 200 + updated record
//	DELETE {base}/records/{id}       -> 200 + deleted record
//
// The base path defaults to "/gym". Any other status code is a failure and
// error bodies are not parsed.
//
// # Usage Example
//
//	client := records.NewClient("http://localhost:8080")
//	client.SetTimeout(5 * time.Second)
//
//	page, err := client.FetchPage(ctx, 0, 5)
//	if err != nil {
//	    fmt.Println(records.GetShortErrorMessage(err))
//	    return
//	}
//	records.NumberRows(page.Content, 1, 5)
//
// # Error Handling
//
// Every failure is an *Error carrying an ErrorType:
//
//	if records.IsNetworkError(err) {
//	    fmt.Println(records.GetTroubleshootingHint(err))
//	}
//
// Requests are never retried. Callers keep their previous state when a call
// fails.
//
// # Change Feed
//
// Servers may publish mutations on a websocket at {base}/records/events.
// Subscribe keeps that connection open, reconnecting with exponential
// backoff, and delivers Event values on a channel.
package records
