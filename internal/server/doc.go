// Package server implements the gymlog record server.
//
// The server exposes a record collection over HTTP+JSON under a configurable
// base path (default "/gym") and publishes every mutation on a websocket
// change feed. Storage is any store.Repository.
//
// # Routes
//
//	GET    /health
//	GET    {base}/records                       all records
//	POST   {base}/records                       create, 201 + Location
//	GET    {base}/records/page?page=&size=      0-based page
//	GET    {base}/records/search?query=&page=&size=
//	GET    {base}/records/events                websocket change feed
//	GET    {base}/records/{id}
//	PUT    {base}/records/{id}                  full update
//	PATCH  {base}/records/{id}                  partial update
//	DELETE {base}/records/{id}                  returns the deleted record
//
// Unknown ids answer 404, malformed or invalid input 400. Error bodies are
// {"error": "..."}.
//
// # Usage Example
//
//	repo, err := store.Open(ctx, "gymlog.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	srv, err := server.New(&server.Config{
//	    Port:      8080,
//	    BasePath:  "/gym",
//	    Advertise: true,
//	}, repo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT/SIGTERM
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Change Feed
//
// Each create, update, patch and delete is broadcast as a records.Event JSON
// message to every websocket subscriber. One goroutine owns the subscriber
// set; a client that falls behind is disconnected rather than slowing the
// others down. The server pings subscribers every 54 seconds.
//
// # TLS
//
// With CertPath and KeyPath set the server speaks HTTPS (TLS 1.2 minimum) and
// advertises tls=1 over mDNS.
package server
