// Package logtail reads the tail of astrodeck's own log file for the Logs
// view.
//
// # Reading
//
// Read uses a ring buffer so only the last maxLines lines are kept in memory,
// however large the file has grown. A missing file is not an error; the log
// may simply not exist yet.
//
// # Decoding
//
// astrodeck logs JSON lines through zerolog. Parse decodes one line using
// zerolog's field names (time, level, message, error) plus the "component"
// field set by the logging package. Everything else ends up in Fields.
// Format renders an Entry as a compact single line with fields sorted by key,
// so the view is stable between refreshes. Lines that are not JSON, such as a
// panic trace, pass through unchanged.
package logtail
