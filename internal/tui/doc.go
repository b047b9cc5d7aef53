// Package tui implements the interactive record browser.
//
// The program follows the Bubble Tea (Elm) architecture. Model is the shell:
// it owns the state container from package state, runs every network call as
// a tea.Cmd and applies the result message through a state transition. The
// Panel renders the current page and turns key presses into requests; it
// never talks to the server itself.
//
// # Screens
//
// There is one screen with four modes layered on it:
//   - list: the page table and its pagination controls
//   - form: the create/edit form (exercise, weight)
//   - confirm: the yes/no modal shown before a delete
//   - search: the query input and the result overlay, paginated on its own
//
// # Keys
//
//	↑/↓        move the selection
//	home ← → end
//	1-5        pick a page from the numbered window
//	enter, e   edit the selected record
//	a          add a record
//	d          delete the selected record
//	/          search, esc closes the overlay
//	r          refresh
//	q, ctrl+c  quit
//
// # Live refresh
//
// When the service implements Subscriber and Options.LiveRefresh is set, the
// shell follows the server's change feed and refetches the current page on
// every event.
//
// # Usage Example
//
//	client := records.NewClient("http://localhost:8080")
//	if err := tui.Run(client, tui.Options{RowsPerPage: 5, SearchRowsPerPage: 10}); err != nil {
//	    log.Fatal(err)
//	}
package tui
