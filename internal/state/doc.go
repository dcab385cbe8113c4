// Package state shares the polled box state between the background poller
// and the UI.
//
// # Overview
//
// The poller fetches the plugin's initialstate on a fixed cadence and writes
// it here. The UI reads a Snapshot on every tick. Store is the only place the
// two goroutines meet:
//
//	poller:  InitialState() -> store.Update()
//	UI:      store.Snapshot() -> render header
//
// # Failure Handling
//
// A failed poll keeps the last good box state and records the error.
// ConsecutiveFailures counts failed polls since the last success, and
// IsOffline reports true from the second failure on so a single dropped
// request does not flash an offline banner.
//
// # Copies
//
// Snapshot returns copies. The linked user is cloned and the error is
// re-wrapped, so callers can hold a snapshot without racing the poller.
package state
