package astroprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// API is the set of plugin operations astrodeck uses. *Client implements it;
// tests substitute fakes.
type API interface {
	InitialState(ctx context.Context) (InitialState, error)
	PassiveLogin(ctx context.Context) (Session, error)
	Login(ctx context.Context, req LoginRequest) (User, error)
	SaveAccessKey(ctx context.Context, accessKey string) error
	Logout(ctx context.Context) error
	Designs(ctx context.Context) ([]Design, error)
	PrintFiles(ctx context.Context, designID string) ([]PrintFile, error)
	Manufacturers(ctx context.Context) ([]Manufacturer, error)
	PrinterModels(ctx context.Context, manufacturerID string) ([]PrinterModel, error)
	DownloadDesign(ctx context.Context, design Design) error
	DownloadPrintFile(ctx context.Context, printFile PrintFile) (DownloadState, error)
	CancelDownload(ctx context.Context, id string) error
	CheckCamera(ctx context.Context) (bool, error)
	ConnectBoxrouter(ctx context.Context) error
	ChangeBoxName(ctx context.Context, name string) error
	ChangePrinterModel(ctx context.Context, model PrinterModel) error
	ChangeFilament(ctx context.Context, filament Filament) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the AstroPrint plugin's HTTP endpoints on an OctoPrint host.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	defaultOctoPrintURL = "http://127.0.0.1:5000"
	defaultUserAgent    = "astrodeck/0.1"
	pluginPath          = "/plugin/astroprint/"
	requestTimeout      = 15 * time.Second
)

// NewClient builds a Client for the OctoPrint instance at baseURL,
// authenticating with an OctoPrint API key.
func NewClient(baseURL, apiKey string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(apiKey),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}, nil
}

// WithLogger returns the client with request logging to l.
func (c *Client) WithLogger(l zerolog.Logger) *Client {
	c.log = l
	return c
}

// BaseURL returns the OctoPrint base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// APIKey returns the OctoPrint API key in use.
func (c *Client) APIKey() string {
	return c.apiKey
}

// InitialState fetches the linked user, camera, print and box-router state.
func (c *Client) InitialState(ctx context.Context) (InitialState, error) {
	var payload InitialState
	if err := c.plugin(ctx, http.MethodGet, "initialstate", nil, nil, &payload); err != nil {
		return InitialState{}, err
	}
	return payload, nil
}

// PassiveLogin asks OctoPrint core for the session belonging to the API key.
func (c *Client) PassiveLogin(ctx context.Context) (Session, error) {
	var payload Session
	rel := &url.URL{Path: "/api/login"}
	if err := c.doURL(ctx, http.MethodPost, rel, map[string]bool{"passive": true}, &payload); err != nil {
		return Session{}, err
	}
	return payload, nil
}

// Login exchanges an OAuth code for a linked AstroPrint user.
func (c *Client) Login(ctx context.Context, req LoginRequest) (User, error) {
	var payload User
	if err := c.plugin(ctx, http.MethodPost, "login", nil, req, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// SaveAccessKey stores the box's AstroPrint access key on the plugin.
func (c *Client) SaveAccessKey(ctx context.Context, accessKey string) error {
	return c.plugin(ctx, http.MethodPost, "saveAccessKey", nil, map[string]string{"access_key": accessKey}, nil)
}

// Logout unlinks the AstroPrint user.
func (c *Client) Logout(ctx context.Context) error {
	return c.plugin(ctx, http.MethodPost, "logout", nil, nil, nil)
}

// Designs lists the user's designs in server order.
func (c *Client) Designs(ctx context.Context) ([]Design, error) {
	var payload ListResponse[Design]
	if err := c.plugin(ctx, http.MethodGet, "designs", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// PrintFiles lists print files, scoped to a design when designID is set.
func (c *Client) PrintFiles(ctx context.Context, designID string) ([]PrintFile, error) {
	values := url.Values{}
	if id := strings.TrimSpace(designID); id != "" {
		values.Set("designId", id)
	}
	var payload ListResponse[PrintFile]
	if err := c.plugin(ctx, http.MethodGet, "printfiles", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Manufacturers lists printer manufacturers.
func (c *Client) Manufacturers(ctx context.Context) ([]Manufacturer, error) {
	var payload ListResponse[Manufacturer]
	if err := c.plugin(ctx, http.MethodGet, "manufacturers", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// PrinterModels lists the models of one manufacturer.
func (c *Client) PrinterModels(ctx context.Context, manufacturerID string) ([]PrinterModel, error) {
	if strings.TrimSpace(manufacturerID) == "" {
		return nil, fmt.Errorf("manufacturer id required")
	}
	values := url.Values{}
	values.Set("manufacturerId", manufacturerID)
	var payload ListResponse[PrinterModel]
	if err := c.plugin(ctx, http.MethodGet, "manufacturers/models", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// DownloadDesign asks the box to fetch a design's model into its files.
// Progress arrives as download push events.
func (c *Client) DownloadDesign(ctx context.Context, design Design) error {
	body := map[string]string{"designId": design.ID, "name": design.DownloadName()}
	return c.plugin(ctx, http.MethodPost, "downloadDesign", nil, body, nil)
}

// DownloadPrintFile asks the box to fetch and print a print file.
func (c *Client) DownloadPrintFile(ctx context.Context, printFile PrintFile) (DownloadState, error) {
	body := map[string]string{"printFileId": printFile.ID, "name": printFile.Filename}
	var payload DownloadResponse
	if err := c.plugin(ctx, http.MethodPost, "downloadPrintFile", nil, body, &payload); err != nil {
		return "", err
	}
	return payload.State, nil
}

// CancelDownload cancels an in-flight download.
func (c *Client) CancelDownload(ctx context.Context, id string) error {
	return c.plugin(ctx, http.MethodPost, "canceldownload", nil, map[string]string{"id": id}, nil)
}

// CheckCamera re-scans for a camera.
func (c *Client) CheckCamera(ctx context.Context) (bool, error) {
	var payload CameraStatus
	if err := c.plugin(ctx, http.MethodGet, "checkcamerastatus", nil, nil, &payload); err != nil {
		return false, err
	}
	return payload.Connected, nil
}

// ConnectBoxrouter asks the plugin to (re)connect to the box-router.
func (c *Client) ConnectBoxrouter(ctx context.Context) error {
	return c.plugin(ctx, http.MethodPost, "connectboxrouter", nil, nil, nil)
}

// ChangeBoxName renames the box. Names are validated with ValidBoxName first.
func (c *Client) ChangeBoxName(ctx context.Context, name string) error {
	if !ValidBoxName(name) {
		return fmt.Errorf("invalid box name %q", name)
	}
	return c.plugin(ctx, http.MethodPost, "changename", nil, map[string]string{"name": name}, nil)
}

// ChangePrinterModel sets the printer model of the box.
func (c *Client) ChangePrinterModel(ctx context.Context, model PrinterModel) error {
	body := map[string]PrinterModel{"printerModel": model}
	return c.plugin(ctx, http.MethodPost, "changeprinter", nil, body, nil)
}

// ChangeFilament sets the loaded filament.
func (c *Client) ChangeFilament(ctx context.Context, filament Filament) error {
	body := map[string]Filament{"filament": filament}
	return c.plugin(ctx, http.MethodPost, "changefilament", nil, body, nil)
}

func (c *Client) plugin(ctx context.Context, method, endpoint string, query url.Values, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: pluginPath + endpoint}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", rel.Path).Msg("plugin request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", rel.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("plugin request")

	if resp.StatusCode >= 400 {
		return decodeAPIError(rel.Path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(path string, resp *http.Response) error {
	apiErr := &APIError{Path: path, StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Code = strings.TrimSpace(payload.Error)
		apiErr.Description = strings.TrimSpace(payload.ErrorDescription)
		return apiErr
	}
	apiErr.Description = trimBody(raw)
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultOctoPrintURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse octoprint url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
