package clientip

import "context"

type (
	peerKey   struct{}
	clientKey struct{}
)

// WithPeer stores the raw peer address of a connection.
func WithPeer(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, peerKey{}, addr)
}

// PeerFromContext returns the address stored by WithPeer.
func PeerFromContext(ctx context.Context) string {
	addr, _ := ctx.Value(peerKey{}).(string)
	return addr
}

// WithContext stores the resolved client address.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientKey{}, ip)
}

// FromContext returns the resolved client address or an empty string.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientKey{}).(string)
	return ip
}
