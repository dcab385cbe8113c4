package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 30 * time.Second

	breakerName     = "initialstate"
	breakerTrips    = 3
	breakerCooldown = 30 * time.Second
)

// stateFetcher is the part of the plugin API the poller needs.
type stateFetcher interface {
	InitialState(ctx context.Context) (astroprint.InitialState, error)
}

// Poller refreshes the store from the plugin's initialstate endpoint. After
// breakerTrips consecutive failures the circuit opens and polls fail fast
// until the cooldown passes.
type Poller struct {
	store    *state.Store
	fetcher  stateFetcher
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker
	log      zerolog.Logger
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, fetcher stateFetcher, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	p := &Poller{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		log:      log,
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("poll circuit changed state")
		},
	})
	return p
}

// Start launches the polling goroutine and returns immediately. Failed polls
// back off exponentially up to maxBackoff.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		failures := 0
		for {
			if err := p.Refresh(ctx); err != nil {
				failures++
			} else {
				failures = 0
			}

			wait := p.interval
			if failures > 0 {
				wait = calculateBackoff(failures, p.interval)
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Refresh performs one poll and records the result in the store.
func (p *Poller) Refresh(ctx context.Context) error {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetcher.InitialState(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.store.Update(nil, err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.log.Debug().Err(err).Msg("poll skipped")
		} else {
			p.log.Warn().Err(err).Msg("initial state poll failed")
		}
		return err
	}

	box := result.(astroprint.InitialState)
	p.store.Update(&box, nil)
	p.log.Debug().
		Bool("logged_in", box.User.LoggedIn()).
		Bool("camera", box.CameraConnected).
		Str("boxrouter", box.BoxrouterStatus).
		Msg("initial state polled")
	return nil
}

// calculateBackoff doubles base for every failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
