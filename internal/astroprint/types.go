package astroprint

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const cloudTimestampLayout = "2006-01-02T15:04:05"

// User is the AstroPrint account linked to the box.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OptionalUser decodes the plugin's user field, which is either a user object
// or the literal false.
type OptionalUser struct {
	*User
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *OptionalUser) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		u.User = nil
		return nil
	}
	var user User
	if err := json.Unmarshal(trimmed, &user); err != nil {
		return err
	}
	u.User = &user
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u OptionalUser) MarshalJSON() ([]byte, error) {
	if u.User == nil {
		return []byte("false"), nil
	}
	return json.Marshal(u.User)
}

// LoggedIn reports whether a user is linked.
func (u OptionalUser) LoggedIn() bool {
	return u.User != nil
}

// InitialState mirrors GET initialstate.
type InitialState struct {
	User            OptionalUser `json:"user"`
	CameraConnected bool         `json:"connected"`
	CanPrint        bool         `json:"can_print"`
	BoxrouterStatus string       `json:"boxrouter_status"`
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// DesignImages holds the thumbnail URLs of a design.
type DesignImages struct {
	Square string `json:"square"`
}

// Design is a cloud-hosted 3D model.
type Design struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Images         DesignImages `json:"images"`
	PrintFileCount int          `json:"print_file_count"`
	AllowDownload  bool         `json:"allow_download"`
}

// DisplayName is the field designs are filtered on.
func (d Design) DisplayName() string {
	return d.Name
}

// ImageURL returns the square thumbnail with an explicit scheme. The cloud
// sends protocol-relative URLs.
func (d Design) ImageURL() string {
	image := strings.TrimSpace(d.Images.Square)
	if strings.HasPrefix(image, "//") {
		return "http:" + image
	}
	return image
}

// DownloadName returns the file name the design is stored under on the box:
// the design name with .stl appended unless it already ends in it.
func (d Design) DownloadName() string {
	name := d.Name
	dot := strings.LastIndex(name, ".")
	ext := strings.ToLower(name[dot+1:])
	if len(ext) > 3 {
		ext = ext[:3]
	}
	if ext != "stl" {
		name += ".stl"
	}
	return name
}

// PrintFileSize is the bounding box of a sliced model in millimetres.
type PrintFileSize struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PrintFileInfo is the slicer metadata of a print file.
type PrintFileInfo struct {
	Size           PrintFileSize `json:"size"`
	PrintTime      float64       `json:"print_time"`
	LayerHeight    float64       `json:"layer_height"`
	LayerCount     int           `json:"layer_count"`
	FilamentLength float64       `json:"filament_length"`
	FilamentVolume float64       `json:"filament_volume"`
	FilamentWeight float64       `json:"filament_weight"`
	TotalFilament  float64       `json:"total_filament"`
}

// NamedRef is a {"name": ...} reference.
type NamedRef struct {
	Name string `json:"name"`
}

// PrintFile is a sliced, printer-ready file derived from a design.
type PrintFile struct {
	ID       string        `json:"id"`
	Created  string        `json:"created"`
	Filename string        `json:"filename"`
	Info     PrintFileInfo `json:"info"`
	Format   string        `json:"format"`
	Printer  NamedRef      `json:"printer"`
	Material NamedRef      `json:"material"`
	Quality  string        `json:"quality"`
}

// DisplayName is the field print files are filtered on.
func (p PrintFile) DisplayName() string {
	return p.Filename
}

// CreatedAt parses the creation timestamp, which the cloud sends in UTC
// without a zone suffix.
func (p PrintFile) CreatedAt() time.Time {
	return parseTime(p.Created)
}

// Manufacturer is a printer manufacturer known to the cloud.
type Manufacturer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName implements paging.Named.
func (m Manufacturer) DisplayName() string {
	return m.Name
}

// PrinterModel is a printer model of a manufacturer.
type PrinterModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName implements paging.Named.
func (m PrinterModel) DisplayName() string {
	return m.Name
}

// Filament describes the loaded filament.
type Filament struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DownloadState is the state reported when a print file download starts.
type DownloadState string

const (
	// DownloadStateDownloading means the file is being fetched.
	DownloadStateDownloading DownloadState = "downloading"
	// DownloadStatePrinting means the file was already on the box and
	// printing started immediately.
	DownloadStatePrinting DownloadState = "printing"
)

// DownloadResponse mirrors POST downloadPrintFile.
type DownloadResponse struct {
	State DownloadState `json:"state"`
}

// CameraStatus mirrors GET checkcamerastatus.
type CameraStatus struct {
	Connected bool `json:"connected"`
}

// LoginRequest is the body of POST login.
type LoginRequest struct {
	Code        string `json:"code"`
	URL         string `json:"url"`
	APAccessKey string `json:"ap_access_key"`
}

// Session is OctoPrint's passive-login response, used to authenticate the
// push socket and to learn whether the key belongs to an admin.
type Session struct {
	Name    string `json:"name"`
	Session string `json:"session"`
	Admin   bool   `json:"admin"`
	Needs   struct {
		Role []string `json:"role"`
	} `json:"needs"`
}

// IsAdmin reports whether the session has admin rights on OctoPrint.
func (s Session) IsAdmin() bool {
	if s.Admin {
		return true
	}
	for _, role := range s.Needs.Role {
		if role == "admin" {
			return true
		}
	}
	return false
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if dot := strings.Index(value, "."); dot > 0 {
		value = value[:dot]
	}
	if t, err := time.ParseInLocation(cloudTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
