// Package events decodes and routes the AstroPrint plugin's push messages.
//
// OctoPrint multiplexes plugin messages over its push socket. The plugin sends
// frames of the form
//
//	{"plugin": {"plugin": "Astroprint", "data": {"event": "download", "data": {...}}}}
//
// Parse turns a frame into an Event with a closed Kind. Dispatch calls the
// matching Handler method; every kind has its own arm, and unrecognised names
// reach Handler.Unknown.
//
// Listener owns the socket. It authenticates with the session from OctoPrint's
// passive login, reconnects with backoff, and hands events to a callback. The
// UI forwards them into the bubbletea program, so handlers always run on the
// update loop.
package events
