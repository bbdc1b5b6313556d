package proto

type Proto uint8

const (
	Unknown Proto = iota
	HTTP11
)

// Default is the version used for every message built by the server or the client.
const Default = HTTP11

func Parse(str string) Proto {
	if str == "HTTP/1.1" {
		return HTTP11
	}

	return Unknown
}

func (p Proto) String() string {
	if p == HTTP11 {
		return "HTTP/1.1"
	}

	return ""
}
