package transport

// State of a connection. A connection starts Connecting, becomes Open once the socket is
// ready and ends Closed either explicitly or on any I/O failure. Closed is terminal.
type State uint32

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
