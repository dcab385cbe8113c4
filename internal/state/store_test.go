package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

func linkedBox(name string) *astroprint.InitialState {
	return &astroprint.InitialState{
		User:            astroprint.OptionalUser{User: &astroprint.User{Name: name}},
		CameraConnected: true,
		CanPrint:        true,
		BoxrouterStatus: "connected",
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(linkedBox("Ada"), nil)

	snap := s.Snapshot()
	if !snap.HasBox || !snap.LoggedIn() || snap.Box.User.Name != "Ada" {
		t.Fatalf("snapshot box = %#v, want Ada logged in", snap.Box)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Box.User.Name = "Mallory"
	snap2 := s.Snapshot()
	if snap2.Box.User.Name != "Ada" {
		t.Fatalf("Snapshot should clone user; got %q want Ada", snap2.Box.User.Name)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(linkedBox("Ada"), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasBox != prev.HasBox || snap.Box.BoxrouterStatus != prev.Box.BoxrouterStatus {
		t.Fatalf("box changed on error: got %#v want %#v", snap.Box, prev.Box)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should wrap the original")
	}
}

func TestStore_ClearUser(t *testing.T) {
	var s Store
	s.Update(linkedBox("Ada"), nil)
	s.ClearUser()

	snap := s.Snapshot()
	if snap.LoggedIn() {
		t.Fatalf("LoggedIn() = true after ClearUser")
	}
	if !snap.Box.CameraConnected {
		t.Fatalf("ClearUser should keep the rest of the box state")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0 false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update(nil, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() = %v with %d failures, want %v", snap.IsOffline(), i+1, wantOffline)
		}
	}

	// Success resets counter
	s.Update(&astroprint.InitialState{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d failures offline=%v, want 0 false", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if snap.LoggedIn() {
		t.Fatalf("LoggedIn() = true for state without user")
	}
}
