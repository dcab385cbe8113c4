package astroprint

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// AuthorizeScope is the permission set the box asks the cloud for.
const AuthorizeScope = "profile:read project:read design:read design:download print-file:read print-file:download print-job:read device:connect"

// CreatedLayout renders print file creation times.
const CreatedLayout = "02 Jan 2006 (3:04PM)"

// ErrMissingAccessKey is returned when an authorize URL is requested without
// an access key.
var ErrMissingAccessKey = errors.New("access key is missing, please provide a valid one")

var boxNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidBoxName reports whether name is usable as a box hostname.
func ValidBoxName(name string) bool {
	return boxNamePattern.MatchString(name)
}

// AuthorizeURL builds the cloud OAuth URL. The access key travels as the
// state parameter and comes back with the code.
func AuthorizeURL(appSite, appID, redirectURI, accessKey string) (string, error) {
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" {
		return "", ErrMissingAccessKey
	}
	site := strings.TrimRight(strings.TrimSpace(appSite), "/")
	if site == "" {
		return "", fmt.Errorf("app site required")
	}
	if i := strings.IndexAny(redirectURI, "?#"); i >= 0 {
		redirectURI = redirectURI[:i]
	}
	var b strings.Builder
	b.WriteString(site)
	b.WriteString("/authorize?client_id=")
	b.WriteString(url.QueryEscape(appID))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(redirectURI))
	b.WriteString("&scope=")
	b.WriteString(url.PathEscape(AuthorizeScope))
	b.WriteString("&state=")
	b.WriteString(url.QueryEscape(accessKey))
	b.WriteString("&response_type=code")
	return b.String(), nil
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrintTime renders seconds as h:mm:ss, or m:ss under an hour.
func FormatPrintTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := total % 3600 / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatDimensions renders the bounding box as "X x Y x Z mm".
func FormatDimensions(size PrintFileSize) string {
	return fmt.Sprintf("%s x %s x %s mm", formatNumber(Round2(size.X)), formatNumber(Round2(size.Y)), formatNumber(Round2(size.Z)))
}

// FilamentLengthCM converts the slicer's millimetre length to centimetres.
func FilamentLengthCM(info PrintFileInfo) float64 {
	return Round2(info.FilamentLength / 10)
}

// FilamentVolumeCM3 converts the slicer's mm³ volume to cm³.
func FilamentVolumeCM3(info PrintFileInfo) float64 {
	return Round2(info.FilamentVolume / 1000)
}

// FormatCreated renders a creation time in local time, or "" when unknown.
func FormatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(CreatedLayout)
}

func formatNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
