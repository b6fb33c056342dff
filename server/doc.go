// Package server accepts connections and dispatches the requests read from
// them to the route tree.
//
// Every accepted connection gets its own goroutine. Requests on a connection
// are served strictly in order until the peer closes it or sends something the
// wire reader rejects, in which case a 400 (or 413) JSON error is written and
// the connection is closed. For each request the pipeline is:
//
//	read -> authenticate -> route lookup -> policy check -> endpoint -> CORS -> write
//
// Unknown paths and methods are answered with an empty 404. A panic while
// serving one request is answered with 500 and does not affect other
// connections.
package server
