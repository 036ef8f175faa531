package method

type Method uint8

const (
	GET Method = iota
	POST

	// Count is the number of known methods. Routing tables are sized by it
	Count = iota
)

// List contains all the supported HTTP methods, sorted by their integer value.
var List = []Method{GET, POST}

// Parse returns the method for the token. Anything that isn't exactly "POST" is treated as GET.
// This is how the server has always behaved, so it stays consistent across every call site,
// but callers that care can use Known to tell a real GET apart.
func Parse(str string) Method {
	if str == "POST" {
		return POST
	}

	return GET
}

// Known reports whether the token names a supported method.
func Known(str string) bool {
	return str == "GET" || str == "POST"
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	default:
		return "GET"
	}
}
