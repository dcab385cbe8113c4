package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

const (
	socketPath     = "/sockjs/websocket"
	writeWait      = 10 * time.Second
	maxMessageSize = 512 * 1024
	minRetry       = time.Second
	maxRetry       = 30 * time.Second
)

// Authenticator yields the OctoPrint session used to authenticate the socket.
// *astroprint.Client satisfies it.
type Authenticator interface {
	PassiveLogin(ctx context.Context) (astroprint.Session, error)
}

// Listener keeps a push socket open to OctoPrint and delivers this plugin's
// events. It reconnects with exponential backoff until its context ends.
type Listener struct {
	url    string
	auth   Authenticator
	dialer *websocket.Dialer
	log    zerolog.Logger
}

// NewListener builds a Listener for the OctoPrint instance at base.
func NewListener(base *url.URL, auth Authenticator, log zerolog.Logger) *Listener {
	return &Listener{
		url:  SocketURL(base),
		auth: auth,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// SocketURL maps an OctoPrint base URL onto its raw websocket endpoint.
func SocketURL(base *url.URL) string {
	u := *base
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = socketPath
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Run connects, listens and reconnects until ctx is done. deliver is called
// from the listener goroutine for every plugin event.
func (l *Listener) Run(ctx context.Context, deliver func(Event)) error {
	failures := 0
	for {
		connected, err := l.listen(ctx, deliver)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			failures = 0
		} else {
			failures++
		}
		wait := retryDelay(failures)
		l.log.Warn().Err(err).Dur("retry_in", wait).Msg("push socket disconnected")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// listen runs one connection. connected reports whether the handshake and
// auth succeeded, so the caller can reset its backoff.
func (l *Listener) listen(ctx context.Context, deliver func(Event)) (connected bool, err error) {
	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", l.url, err)
	}
	defer func() { _ = conn.Close() }()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	if err := l.authenticate(ctx, conn); err != nil {
		return false, err
	}
	l.log.Info().Str("url", l.url).Msg("push socket connected")

	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return true, errors.New("closed by server")
			}
			return true, fmt.Errorf("read: %w", err)
		}
		ev, ok, err := Parse(data)
		if err != nil {
			l.log.Debug().Err(err).Msg("skip malformed frame")
			continue
		}
		if !ok {
			continue
		}
		l.log.Debug().Str("event", ev.Name).Msg("plugin event")
		deliver(ev)
	}
}

func (l *Listener) authenticate(ctx context.Context, conn *websocket.Conn) error {
	if l.auth == nil {
		return nil
	}
	session, err := l.auth.PassiveLogin(ctx)
	if err != nil {
		return fmt.Errorf("passive login: %w", err)
	}
	if session.Name == "" || session.Session == "" {
		return nil
	}
	msg := map[string]string{"auth": session.Name + ":" + session.Session}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}
	return conn.SetWriteDeadline(time.Time{})
}

func retryDelay(failures int) time.Duration {
	if failures <= 0 {
		return minRetry
	}
	delay := minRetry
	for i := 0; i < failures && delay < maxRetry; i++ {
		delay *= 2
	}
	if delay > maxRetry {
		delay = maxRetry
	}
	return delay
}
