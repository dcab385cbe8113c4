package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

// Snapshot is the latest box state available to the UI.
type Snapshot struct {
	Box                 astroprint.InitialState
	HasBox              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when OctoPrint has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// LoggedIn reports whether the last good poll saw a linked AstroPrint user.
func (s Snapshot) LoggedIn() bool {
	return s.HasBox && s.Box.User.LoggedIn()
}

// Store coordinates the poller's writes with the UI's reads.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous box state is
// kept and the error is recorded.
func (s *Store) Update(box *astroprint.InitialState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if box != nil {
		s.snapshot.Box = cloneBox(*box)
		s.snapshot.HasBox = true
	} else {
		s.snapshot.Box = astroprint.InitialState{}
		s.snapshot.HasBox = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// ClearUser drops the linked user, as after a 401 or a logout event.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Box.User = astroprint.OptionalUser{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Box = cloneBox(s.snapshot.Box)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBox(box astroprint.InitialState) astroprint.InitialState {
	if box.User.User != nil {
		user := *box.User.User
		box.User.User = &user
	}
	return box
}
