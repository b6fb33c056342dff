// Package clientip resolves the address of the client behind a connection.
//
// Without proxy headers the TCP peer address is the answer. When the server
// sits behind a trusted reverse proxy, Resolve also consults the forwarding
// headers in this order, taking the first valid address:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid entry of the list)
//  4. X-Real-IP
//
// The server stores the peer with WithPeer when a connection opens and the
// resolved address with WithContext for each request, so endpoints and
// decorators read it back with FromContext.
package clientip
