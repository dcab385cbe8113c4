package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeFetcher struct {
	calls int
	box   astroprint.InitialState
	err   error
}

func (f *fakeFetcher) InitialState(context.Context) (astroprint.InitialState, error) {
	f.calls++
	return f.box, f.err
}

func TestPoller_RefreshStoresState(t *testing.T) {
	store := &state.Store{}
	fetcher := &fakeFetcher{box: astroprint.InitialState{
		User:            astroprint.OptionalUser{User: &astroprint.User{Name: "ada"}},
		CameraConnected: true,
		BoxrouterStatus: "connected",
	}}
	p := NewPoller(store, fetcher, time.Second, zerolog.Nop())

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := store.Snapshot()
	if !snap.HasBox || !snap.LoggedIn() {
		t.Fatalf("snapshot = %+v, want a logged in box", snap)
	}
	if snap.Box.BoxrouterStatus != "connected" {
		t.Fatalf("boxrouter status = %q", snap.Box.BoxrouterStatus)
	}
}

func TestPoller_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store := &state.Store{}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	p := NewPoller(store, fetcher, time.Second, zerolog.Nop())

	for i := 0; i < breakerTrips; i++ {
		if err := p.Refresh(context.Background()); err == nil {
			t.Fatalf("refresh %d: expected error", i)
		}
	}
	err := p.Refresh(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open circuit", err)
	}
	if fetcher.calls != breakerTrips {
		t.Fatalf("fetcher called %d times, want %d", fetcher.calls, breakerTrips)
	}
	if snap := store.Snapshot(); !snap.IsOffline() {
		t.Fatalf("expected store to report offline, failures=%d", snap.ConsecutiveFailures)
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&state.Store{}, &fakeFetcher{}, 0, zerolog.Nop())
	if p.interval != defaultPollInterval {
		t.Fatalf("interval = %v, want %v", p.interval, defaultPollInterval)
	}
}
