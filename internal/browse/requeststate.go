package browse

// RequestState tracks the fetch lifecycle of a single result page. The zero
// value is Waiting, so pages absent from a cache's page table are implicitly
// waiting. A page never moves backward except through a whole-cache reset.
type RequestState int

const (
	Waiting RequestState = iota
	Requested
	Received
)

// String returns a human-readable representation of the request state
func (s RequestState) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Requested:
		return "Requested"
	case Received:
		return "Received"
	default:
		return "Unknown"
	}
}
