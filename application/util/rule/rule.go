package rule

import "bytes"

func IsAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsTargetDelimiter reports whether c terminates a request target.
func IsTargetDelimiter(c byte) bool {
	return bytes.IndexByte(TargetDelimiters, c) >= 0
}
