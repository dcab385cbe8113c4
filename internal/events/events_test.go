package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

func pluginFrame(event, data string) []byte {
	return []byte(`{"plugin":{"plugin":"Astroprint","data":{"event":"` + event + `","data":` + data + `}}}`)
}

func TestParse(t *testing.T) {
	ev, ok, err := Parse(pluginFrame("download", `{"id":"d1","progress":40}`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Download, ev.Kind)
	assert.Equal(t, "download", ev.Name)

	_, ok, err = Parse([]byte(`{"current":{"state":{"text":"Operational"}}}`))
	require.NoError(t, err)
	assert.False(t, ok, "core frames are skipped")

	_, ok, err = Parse([]byte(`{"plugin":{"plugin":"other","data":{"event":"download"}}}`))
	require.NoError(t, err)
	assert.False(t, ok, "other plugins are skipped")

	_, _, err = Parse([]byte(`{"plugin":`))
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, AstroPrintUserLoggedOut, KindOf("astroPrintUserLoggedOut"))
	assert.Equal(t, BoxrouterStatus, KindOf("boxrouterStatus"))
	assert.Equal(t, Unknown, KindOf("somethingNew"))
	assert.Equal(t, "cameraStatus", CameraStatus.String())
	assert.Equal(t, "unknown", Unknown.String())
}

type recorder struct {
	calls    []string
	camera   bool
	status   string
	download DownloadUpdate
	socket   SocketUpdateData
}

func (r *recorder) CameraStatus(connected bool) {
	r.calls = append(r.calls, "camera")
	r.camera = connected
}
func (r *recorder) LogOut() { r.calls = append(r.calls, "logout") }
func (r *recorder) CanPrint(bool) { r.calls = append(r.calls, "canprint") }
func (r *recorder) UserLogged() { r.calls = append(r.calls, "userlogged") }
func (r *recorder) UserLoggedOut() { r.calls = append(r.calls, "userloggedout") }
func (r *recorder) Unknown(name string) { r.calls = append(r.calls, "unknown:"+name) }
func (r *recorder) AstroPrintUserLoggedOut() {
	r.calls = append(r.calls, "astroprintloggedout")
}
func (r *recorder) Download(update DownloadUpdate) {
	r.calls = append(r.calls, "download")
	r.download = update
}
func (r *recorder) BoxrouterStatus(status string) {
	r.calls = append(r.calls, "boxrouter")
	r.status = status
}
func (r *recorder) SocketUpdate(update SocketUpdateData) {
	r.calls = append(r.calls, "socket")
	r.socket = update
}

func dispatchFrame(t *testing.T, h Handler, frame []byte) error {
	t.Helper()
	ev, ok, err := Parse(frame)
	require.NoError(t, err)
	require.True(t, ok)
	return Dispatch(ev, h)
}

func TestDispatch_OneArmPerKind(t *testing.T) {
	tests := []struct {
		frame []byte
		want  string
	}{
		{pluginFrame("cameraStatus", "true"), "camera"},
		{pluginFrame("logOut", "null"), "logout"},
		{pluginFrame("canPrint", "false"), "canprint"},
		{pluginFrame("download", `{"id":"d1"}`), "download"},
		{pluginFrame("userLogged", "true"), "userlogged"},
		{pluginFrame("userLoggedOut", "null"), "userloggedout"},
		{pluginFrame("astroPrintUserLoggedOut", "null"), "astroprintloggedout"},
		{pluginFrame("boxrouterStatus", `"connected"`), "boxrouter"},
		{pluginFrame("socketUpdate", `{"heatingUp":true}`), "socket"},
		{pluginFrame("fooBar", "1"), "unknown:fooBar"},
	}
	for _, tt := range tests {
		r := &recorder{}
		require.NoError(t, dispatchFrame(t, r, tt.frame))
		assert.Equal(t, []string{tt.want}, r.calls, "frame %s", tt.frame)
	}
}

func TestDispatch_AstroPrintLogoutDoesNotFallThrough(t *testing.T) {
	r := &recorder{}
	require.NoError(t, dispatchFrame(t, r, pluginFrame("astroPrintUserLoggedOut", "null")))
	assert.Equal(t, []string{"astroprintloggedout"}, r.calls)
	assert.Empty(t, r.status)
}

func TestDispatch_Payloads(t *testing.T) {
	r := &recorder{}
	require.NoError(t, dispatchFrame(t, r, pluginFrame("download", `{"id":"d1","name":"Benchy.stl","failed":"Not Found"}`)))
	assert.Equal(t, DownloadUpdate{ID: "d1", Name: "Benchy.stl", Failed: "Not Found"}, r.download)

	require.NoError(t, dispatchFrame(t, r, pluginFrame("cameraStatus", "true")))
	assert.True(t, r.camera)

	require.NoError(t, dispatchFrame(t, r, pluginFrame("boxrouterStatus", `"error"`)))
	assert.Equal(t, "error", r.status)

	require.NoError(t, dispatchFrame(t, r, pluginFrame("socketUpdate", `{"heatingUp":false,"currentLayer":12,"userLogged":"ada@example.com"}`)))
	require.NotNil(t, r.socket.CurrentLayer)
	assert.Equal(t, 12, *r.socket.CurrentLayer)
	require.NotNil(t, r.socket.UserLogged)
	assert.Equal(t, "ada@example.com", *r.socket.UserLogged)
}

func TestDispatch_BadPayloadSkipsHandler(t *testing.T) {
	r := &recorder{}
	err := dispatchFrame(t, r, pluginFrame("cameraStatus", `"yes"`))
	assert.Error(t, err)
	assert.Empty(t, r.calls)

	err = dispatchFrame(t, r, pluginFrame("download", "null"))
	assert.Error(t, err)
	assert.Empty(t, r.calls)
}

func TestSocketURL(t *testing.T) {
	base, _ := url.Parse("https://octopi.local:8443")
	assert.Equal(t, "wss://octopi.local:8443/sockjs/websocket", SocketURL(base))

	base, _ = url.Parse("http://127.0.0.1:5000")
	assert.Equal(t, "ws://127.0.0.1:5000/sockjs/websocket", SocketURL(base))
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(0))
	assert.Equal(t, 2*time.Second, retryDelay(1))
	assert.Equal(t, 8*time.Second, retryDelay(3))
	assert.Equal(t, 30*time.Second, retryDelay(5))
	assert.Equal(t, 30*time.Second, retryDelay(50))
}

type fakeAuth struct {
	session astroprint.Session
	err     error
}

func (f fakeAuth) PassiveLogin(context.Context) (astroprint.Session, error) {
	return f.session, f.err
}

func TestListener_AuthenticatesAndDelivers(t *testing.T) {
	upgrader := websocket.Upgrader{}
	authMsg := make(chan map[string]string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sockjs/websocket" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var msg map[string]string
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		authMsg <- msg

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"connected":{"version":"1.9"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, pluginFrame("canPrint", "true"))
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	require.NoError(t, err)
	auth := fakeAuth{session: astroprint.Session{Name: "admin", Session: "s3ss"}}
	l := NewListener(base, auth, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, func(ev Event) { got <- ev })
	}()

	select {
	case msg := <-authMsg:
		assert.Equal(t, "admin:s3ss", msg["auth"])
	case <-ctx.Done():
		t.Fatal("no auth message received")
	}

	select {
	case ev := <-got:
		assert.Equal(t, CanPrint, ev.Kind)
		on, err := ev.Bool()
		require.NoError(t, err)
		assert.True(t, on)
	case <-ctx.Done():
		t.Fatal("no event delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestListener_PassiveLoginFailure(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	require.NoError(t, err)
	l := NewListener(base, fakeAuth{err: errors.New("forbidden")}, zerolog.Nop())

	connected, err := l.listen(context.Background(), func(Event) {})
	assert.False(t, connected)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "passive login"))
}
