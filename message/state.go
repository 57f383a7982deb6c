package message

// State is the position of a Decoder within the multipart body.
type State int

// The decoder states, in the order they are normally visited.
const (
	// Preamble is the initial state. Bytes before the first boundary are
	// skipped with SkipPreamble.
	Preamble State = iota

	// InHeaders means the next bytes are a part's header block, read with
	// ReadHeaders.
	InHeaders

	// InBody means the next bytes are a part's body, read with ReadBodyData
	// or DiscardBodyData.
	InBody

	// AtBoundary means a delimiter has just been consumed and ReadBoundary
	// must decide whether more parts follow.
	AtBoundary

	// Terminated means the terminal boundary has been read. No further
	// operations are allowed.
	Terminated
)

var stateNames = map[State]string{
	Preamble:   "preamble",
	InHeaders:  "in-headers",
	InBody:     "in-body",
	AtBoundary: "at-boundary",
	Terminated: "terminated",
}

// String returns a short name for the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
