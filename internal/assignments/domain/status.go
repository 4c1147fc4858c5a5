package domain

// Phase is one facet of an assignment's status for a date range.
type Phase string

const (
	PhaseInactive      Phase = "INACTIVE"
	PhaseRunning       Phase = "RUNNING"
	PhaseBeforeStart   Phase = "BEFORE_START"
	PhaseAfterDeadline Phase = "AFTER_DEADLINE"
	PhaseInAllotted    Phase = "IN_ALLOTTED"
	PhaseOverAllotted  Phase = "OVER_ALLOTTED"
	PhaseInOverrun     Phase = "IN_OVERRUN"
	PhaseOverOverrun   Phase = "OVER_OVERRUN"
)

// Bookable reports whether hours may be logged while in this phase.
func (p Phase) Bookable() bool {
	switch p {
	case PhaseRunning, PhaseInAllotted, PhaseInOverrun:
		return true
	default:
		return false
	}
}

type AssignmentStatus struct {
	Phases          []Phase `json:"phases"`
	AggregatedHours float64 `json:"aggregated_hours"`
}

// Bookable is true only when every phase allows booking.
func (s AssignmentStatus) Bookable() bool {
	if len(s.Phases) == 0 {
		return false
	}
	for _, p := range s.Phases {
		if !p.Bookable() {
			return false
		}
	}
	return true
}
