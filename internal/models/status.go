package models

// Status is the closed set of kitchen order states. Transitions are governed
// by AllowedNext; arbitrary strings coming off the wire must pass through
// ParseStatus before they reach the state machine.
type Status string

const (
	StatusNew       Status = "new"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// statusTransitions is the single source of truth for the order lifecycle:
// new → preparing → ready → served/delivered, with cancel/reject branches.
// Terminal states map to an empty set.
var statusTransitions = map[Status][]Status{
	StatusNew:       {StatusPreparing, StatusCancelled, StatusRejected},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusDelivered},
	StatusServed:    {},
	StatusDelivered: {},
	StatusCancelled: {},
	StatusRejected:  {},
}

// ParseStatus maps a raw string onto the closed Status set.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := statusTransitions[st]
	return st, ok
}

// AllowedNext returns the legal successor states for the given state.
func AllowedNext(current Status) []Status {
	return statusTransitions[current]
}

// CanTransition reports whether current may move to next. Re-issuing the
// current status is allowed as an idempotent no-op; callers that retry a
// transition must not be rejected for it.
func CanTransition(current, next Status) bool {
	if current == next {
		return true
	}
	for _, s := range statusTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func IsTerminal(s Status) bool {
	return len(statusTransitions[s]) == 0
}
