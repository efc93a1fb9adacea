package semantic

// Version is the protocol version of a message. The zero value is [HTTP10].
type Version uint8

const (
	HTTP10 Version = iota
	HTTP09
)

func (v Version) Text() []byte { return []byte(v.String()) }

func (v Version) String() string {
	if v == HTTP09 {
		return "HTTP/0.9"
	}
	return "HTTP/1.0"
}
