package session

import "time"

const (
	// MaxProbes bounds how often the admin state is re-checked after a
	// login or logout notification.
	MaxProbes = 5
	// ProbeInterval is the delay before each probe.
	ProbeInterval = 500 * time.Millisecond
)

// State is the login settling state.
type State int

const (
	// Unknown means no admin check has completed yet.
	Unknown State = iota
	// Checking means OctoPrint announced a login change that has not yet
	// been observed through a probe.
	Checking
	// Settled means the admin flag reflects OctoPrint's view.
	Settled
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Outcome tells the caller what to do after a probe result.
type Outcome int

const (
	// Ignore means the result was stale or changed nothing.
	Ignore Outcome = iota
	// Retry means another probe should be scheduled after ProbeInterval.
	Retry
	// BecameAdmin means the key now belongs to an admin: restart the plugin
	// view and reload the initial state.
	BecameAdmin
	// LostAdmin means admin rights are gone: clear the linked user and lists.
	LostAdmin
	// GaveUp means the probes ran out without observing the change.
	GaveUp
)

// Machine settles OctoPrint's asynchronous login state. OctoPrint announces a
// login or logout before the session reflects it, so the change is confirmed
// by probing a bounded number of times.
//
// A Machine is not safe for concurrent use; it belongs to the UI update loop.
type Machine struct {
	state  State
	admin  bool
	target bool
	left   int
	gen    int
}

// State returns the current settling state.
func (m *Machine) State() State { return m.state }

// Admin reports whether the last settled check saw an admin session.
func (m *Machine) Admin() bool { return m.admin }

// Generation identifies the current probe sequence. Probe results carry it
// back so results from an abandoned sequence are ignored.
func (m *Machine) Generation() int { return m.gen }

// Settle records the result of an unconditional admin check, such as the
// one made at startup.
func (m *Machine) Settle(admin bool) {
	m.admin = admin
	m.state = Settled
	m.left = 0
	m.gen++
}

// LoggedIn handles a userLogged notification. It returns true when a probe
// sequence started.
func (m *Machine) LoggedIn() bool {
	if m.admin {
		return false
	}
	return m.begin(true)
}

// LoggedOut handles a userLoggedOut notification. It returns true when a
// probe sequence started.
func (m *Machine) LoggedOut() bool {
	if !m.admin {
		return false
	}
	return m.begin(false)
}

func (m *Machine) begin(target bool) bool {
	m.state = Checking
	m.target = target
	m.left = MaxProbes
	m.gen++
	return true
}

// Observe applies one probe result from sequence gen.
func (m *Machine) Observe(gen int, admin bool) Outcome {
	if gen != m.gen || m.state != Checking {
		return Ignore
	}
	m.left--
	if admin == m.target {
		m.admin = admin
		m.state = Settled
		if admin {
			return BecameAdmin
		}
		return LostAdmin
	}
	if m.left > 0 {
		return Retry
	}
	m.state = Settled
	return GaveUp
}

// ObserveError applies a failed probe from sequence gen. Failures use up an
// attempt like a mismatched result.
func (m *Machine) ObserveError(gen int) Outcome {
	if gen != m.gen || m.state != Checking {
		return Ignore
	}
	m.left--
	if m.left > 0 {
		return Retry
	}
	m.state = Settled
	return GaveUp
}
