package semantic

type methodKind uint8

const (
	methodGet methodKind = iota
	methodHead
	methodPost
	methodExtension
)

// Method is a request method. The zero value is [MethodGet].
type Method struct {
	kind methodKind
	ext  string
}

var (
	MethodGet  = Method{kind: methodGet}
	MethodHead = Method{kind: methodHead}
	MethodPost = Method{kind: methodPost}
)

// ExtensionMethod creates a method for a token outside GET, HEAD and POST.
// The token is kept verbatim.
func ExtensionMethod(token string) Method {
	return Method{kind: methodExtension, ext: token}
}

// MethodFrom classifies a method token. Comparison is case-sensitive.
func MethodFrom(token []byte) Method {
	switch string(token) {
	case "GET":
		return MethodGet
	case "HEAD":
		return MethodHead
	case "POST":
		return MethodPost
	}
	return ExtensionMethod(string(token))
}

func (m Method) IsExtension() bool { return m.kind == methodExtension }

// Code returns the method token as it appears on the wire.
func (m Method) Code() string {
	switch m.kind {
	case methodGet:
		return "GET"
	case methodHead:
		return "HEAD"
	case methodPost:
		return "POST"
	}
	return m.ext
}

func (m Method) String() string { return m.Code() }
