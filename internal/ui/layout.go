package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width for the list/detail split.
	LayoutSplitWidth = 90

	// LayoutExtraWideWidth gives the detail pane more room.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogTailLines is how many log lines the Logs view reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// MinDesignsLoading keeps the designs spinner visible long enough to be
	// noticed on a fast network.
	MinDesignsLoading = 600 * time.Millisecond

	// MinCameraCheck is the same floor for camera scans.
	MinCameraCheck = 800 * time.Millisecond

	// NoticeLifetime is how long a notification stays on screen.
	NoticeLifetime = 6 * time.Second

	// MaxNotices bounds the notification stack.
	MaxNotices = 3

	// RequestTimeout bounds each plugin call made from the UI.
	RequestTimeout = 20 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
