package download

import (
	"fmt"
	"strings"
)

// Kind distinguishes what is being fetched; it decides the completion text.
type Kind int

const (
	// KindDesign is a design model added to the box's files.
	KindDesign Kind = iota
	// KindPrintFile is a print file that starts printing once fetched.
	KindPrintFile
)

func (k Kind) String() string {
	if k == KindPrintFile {
		return "print file"
	}
	return "design"
}

// Notice is a user-facing message raised by a tracker transition.
type Notice struct {
	Title   string
	Text    string
	Success bool
}

// Snapshot is a read-only view of the tracker for rendering.
type Snapshot struct {
	ID          string
	Name        string
	Kind        Kind
	Progress    float64
	Failed      string
	Downloading bool
}

// Active reports whether the download dialog has anything to show.
func (s Snapshot) Active() bool {
	return s.Downloading || s.Failed != ""
}

// Tracker follows at most one download at a time, even though the server
// could run several. It is not safe for concurrent use; it lives inside the
// UI update loop.
type Tracker struct {
	id          string
	name        string
	kind        Kind
	progress    float64
	failed      string
	downloading bool
}

// CanStart reports whether a new download may begin: nothing is in flight,
// or the tracked download already reached 100%.
func (t *Tracker) CanStart() bool {
	return !t.downloading || t.progress == 100
}

// Start begins tracking id. Any previous download is forgotten.
func (t *Tracker) Start(id, name string, kind Kind) {
	t.id = id
	t.name = name
	t.kind = kind
	t.progress = 0
	t.failed = ""
	t.downloading = true
}

// Progress records a progress update. Updates for other ids, after a
// failure, or after completion are ignored. Reaching 100 finishes the
// download and returns the completion notice.
func (t *Tracker) Progress(id string, progress float64) (Notice, bool) {
	if t.failed != "" || id != t.id || t.progress == 100 {
		return Notice{}, false
	}
	t.progress = progress
	if t.progress != 100 {
		return Notice{}, false
	}
	notice := completionNotice(t.kind, t.name)
	t.downloading = false
	t.progress = 0
	return notice, true
}

// Fail marks the tracked download failed with the server's reason.
func (t *Tracker) Fail(id, reason string) bool {
	if id != t.id || t.id == "" {
		return false
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Server Error"
	}
	t.failed = reason
	t.downloading = false
	return true
}

// CancelTarget returns the id to send a cancel request for. Completed
// downloads cannot be canceled.
func (t *Tracker) CancelTarget() (string, bool) {
	if !t.downloading || t.progress >= 100 {
		return "", false
	}
	return t.id, true
}

// Canceled records that the server accepted the cancel request or reported
// the download canceled.
func (t *Tracker) Canceled(id string) {
	if id != t.id {
		return
	}
	t.downloading = false
	t.progress = 0
}

// Close dismisses the dialog. It only clears state while a download is
// running or has failed.
func (t *Tracker) Close() {
	if !t.downloading && t.failed == "" {
		return
	}
	*t = Tracker{}
}

// Snapshot returns the current tracker state.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Name:        t.name,
		Kind:        t.kind,
		Progress:    t.progress,
		Failed:      t.failed,
		Downloading: t.downloading,
	}
}

func completionNotice(kind Kind, name string) Notice {
	if kind == KindPrintFile {
		return Notice{
			Title:   "File Downloaded",
			Text:    fmt.Sprintf("Your AstroPrint Cloud print file: %s, started to print.", name),
			Success: true,
		}
	}
	return Notice{
		Title:   "File Downloaded",
		Text:    fmt.Sprintf("Your AstroPrint Cloud design: %s, was added to your files.", name),
		Success: true,
	}
}
