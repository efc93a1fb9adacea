// Package uri handles the path part of a request target.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
//
// - https://datatracker.ietf.org/doc/html/rfc3986#section-3.3
package uri
