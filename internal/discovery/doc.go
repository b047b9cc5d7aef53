// Package discovery finds gymlog record servers on the local network.
//
// Record servers started with --advertise register a "_gymlog._tcp" service
// through multicast DNS. The TXT records carry the API base path, the server
// version and whether it serves TLS, so a client can build its base URL
// without any configuration.
//
// # Usage Example
//
//	servers, err := discovery.Browse(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, srv := range servers {
//	    fmt.Println(srv.Instance, srv.BaseURL(), srv.BasePath)
//	}
//
// Advertising from the server side:
//
//	adv, err := discovery.Register(discovery.Advertisement{
//	    Instance: "gymlog on rack-pi",
//	    Port:     8080,
//	    BasePath: "/gym",
//	})
//	defer adv.Shutdown()
//
// # Network Requirements
//
// mDNS uses UDP port 5353 on 224.0.0.251 (IPv4) and ff02::fb (IPv6). Both
// hosts must be on the same network segment and multicast must not be
// filtered.
package discovery
