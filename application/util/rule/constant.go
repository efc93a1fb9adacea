package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	CRLF = []byte{CR, LF}

	// Bytes that end a request target on the request line.
	TargetDelimiters = []byte{SP, HTAB, CR, LF}
)
