package engine

// State is the phase of a poll-until-ready wait.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Readiness tracks a wait that is polled once per tick and gives up after a
// ceiling of failed attempts.
type Readiness struct {
	state    State
	attempts int
	ceiling  int
}

// NewReadiness returns a pending wait. A ceiling below one allows one attempt.
func NewReadiness(ceiling int) Readiness {
	return Readiness{ceiling: max(ceiling, 1)}
}

// Attempt records one unsuccessful poll and returns the resulting state.
// Ready and Failed are terminal.
func (r *Readiness) Attempt() State {
	if r.state != StatePending {
		return r.state
	}
	r.attempts++
	if r.attempts >= r.ceiling {
		r.state = StateFailed
	}
	return r.state
}

// MarkReady ends a pending wait successfully.
func (r *Readiness) MarkReady() {
	if r.state == StatePending {
		r.state = StateReady
	}
}

func (r Readiness) State() State { return r.state }
func (r Readiness) Attempts() int { return r.attempts }
func (r Readiness) Ceiling() int { return r.ceiling }
func (r Readiness) Pending() bool { return r.state == StatePending }
func (r Readiness) Ready() bool { return r.state == StateReady }
func (r Readiness) Failed() bool { return r.state == StateFailed }
