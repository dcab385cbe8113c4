// Package download tracks the single download the client follows.
//
// The plugin streams progress for a download as push events. Tracker applies
// those events to one tracked id and produces the notices the UI shows when
// a download completes. A second download is refused while one is in flight
// unless the tracked one reached 100%.
package download
