// Package http implements the wire format of a minimal Hypertext Transfer Protocol:
// HTTP/1.0 requests with an HTTP/0.9 fallback, and responses for both.
//
// Requests are parsed from a byte buffer that grows as data arrives.
// The decoder keeps no state between calls; it is handed the whole buffer
// every time and reports whether it holds a complete request,
// needs more bytes, or can never become a request.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc1945
package http
