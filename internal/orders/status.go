package orders

// Status is the lifecycle state of an order.
//
// Transitions:
//
//	PLACED ──> MODIFIED ──> CANCELLED
//	   │    (repeatable)        ▲
//	   └────────────────────────┘
//
// CANCELLED is terminal; there is no transition out of it.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusModified  Status = "MODIFIED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known states. Items read back from
// the store pass through this before any transition decision.
func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusModified, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool { return s == StatusCancelled }

// CanTransition reports whether the transition s -> to is legal.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPlaced, StatusModified:
		return to == StatusModified || to == StatusCancelled
	case StatusCancelled:
		return false
	}
	return false
}
