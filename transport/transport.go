// Package transport defines the byte streams the server reads requests from
// and writes responses to.
package transport

// Addr is an endpoint of a connection. [net.Addr] satisfies it.
type Addr interface {
	Network() string
	String() string
}
