package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PluginName is the identifier the plugin publishes its messages under.
const PluginName = "Astroprint"

// Kind is the closed set of plugin push events.
type Kind int

const (
	Unknown Kind = iota
	CameraStatus
	LogOut
	CanPrint
	Download
	UserLogged
	UserLoggedOut
	AstroPrintUserLoggedOut
	BoxrouterStatus
	SocketUpdate
)

var kindNames = map[string]Kind{
	"cameraStatus":            CameraStatus,
	"logOut":                  LogOut,
	"canPrint":                CanPrint,
	"download":                Download,
	"userLogged":              UserLogged,
	"userLoggedOut":           UserLoggedOut,
	"astroPrintUserLoggedOut": AstroPrintUserLoggedOut,
	"boxrouterStatus":         BoxrouterStatus,
	"socketUpdate":            SocketUpdate,
}

// KindOf maps a wire event name to its Kind.
func KindOf(name string) Kind {
	if kind, ok := kindNames[name]; ok {
		return kind
	}
	return Unknown
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Event is one plugin message.
type Event struct {
	Kind Kind
	Name string
	Data json.RawMessage
}

// DownloadUpdate is the payload of a download event. Exactly one of
// Progress, Failed or Canceled is normally set.
type DownloadUpdate struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Failed   string  `json:"failed"`
	Canceled bool    `json:"canceled"`
}

// SocketUpdateData is the periodic printer summary the plugin broadcasts.
type SocketUpdateData struct {
	HeatingUp    bool            `json:"heatingUp"`
	CurrentLayer *int            `json:"currentLayer"`
	Camera       *bool           `json:"camera"`
	UserLogged   *string         `json:"userLogged"`
	Job          json.RawMessage `json:"job"`
}

type frame struct {
	Plugin *struct {
		Plugin string `json:"plugin"`
		Data   struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		} `json:"data"`
	} `json:"plugin"`
}

// Parse decodes one push socket frame. ok is false for frames that are not
// plugin messages from this plugin; OctoPrint multiplexes its own traffic
// over the same socket.
func Parse(raw []byte) (Event, bool, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, false, fmt.Errorf("decode frame: %w", err)
	}
	if f.Plugin == nil || !strings.EqualFold(f.Plugin.Plugin, PluginName) {
		return Event{}, false, nil
	}
	name := f.Plugin.Data.Event
	return Event{Kind: KindOf(name), Name: name, Data: f.Plugin.Data.Data}, true, nil
}

// Bool decodes a boolean payload. A missing or null payload is false.
func (e Event) Bool() (bool, error) {
	if isNull(e.Data) {
		return false, nil
	}
	var v bool
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return false, fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return v, nil
}

// Text decodes a string payload.
func (e Event) Text() (string, error) {
	if isNull(e.Data) {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return "", fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return v, nil
}

// Download decodes a download payload.
func (e Event) Download() (DownloadUpdate, error) {
	var v DownloadUpdate
	if isNull(e.Data) {
		return v, fmt.Errorf("decode %s payload: empty", e.Name)
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return DownloadUpdate{}, fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return v, nil
}

// SocketUpdate decodes a socketUpdate payload.
func (e Event) SocketUpdate() (SocketUpdateData, error) {
	var v SocketUpdateData
	if isNull(e.Data) {
		return v, nil
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return SocketUpdateData{}, fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return v, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
