package status

import "strconv"

// Status is one of the response statuses the server can produce.
// The zero value is [OK].
type Status uint8

const (
	OK Status = iota
	BadRequest
	NotFound
	InternalServerError
)

type entry struct {
	code         uint
	reasonPhrase string
}

// Reason phrases are fixed. Note "Ok" rather than the registered "OK".
var table = [...]entry{
	OK:                  {200, "Ok"},
	BadRequest:          {400, "Bad Request"},
	NotFound:            {404, "Not Found"},
	InternalServerError: {500, "Internal Server Error"},
}

func (s Status) valid() bool { return int(s) < len(table) }

func (s Status) Code() uint {
	if !s.valid() {
		return 0
	}
	return table[s].code
}

func (s Status) ReasonPhrase() string {
	if !s.valid() {
		return ""
	}
	return table[s].reasonPhrase
}

// String returns code and reason phrase, e.g. "404 Not Found".
func (s Status) String() string {
	if !s.valid() {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return strconv.FormatUint(uint64(s.Code()), 10) + " " + s.ReasonPhrase()
}

func FromCode(code uint) (status Status, ok bool) {
	for s, e := range table {
		if e.code == code {
			return Status(s), true
		}
	}
	return InternalServerError, false
}
