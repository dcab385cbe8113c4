// Package ui is the Bubble Tea front end for the AstroPrint OctoPrint plugin.
//
// # Views
//
//   - Designs: the linked account's designs, paginated and filterable by name
//   - Print files: the print files of one design, opened with enter
//   - Settings: box name, printer model, filament, camera and boxrouter
//   - Logs: the tail of astrodeck's own JSON log file
//
// Both lists share one pager bar. It shows at most a configured odd number
// of page links around the current page, plus first, previous, next and
// last arrows.
//
// # Event Flow
//
//  1. Run creates the Model and starts the Bubble Tea program.
//  2. A goroutine runs the plugin push-event listener and forwards every
//     event into the program as an eventMsg.
//  3. A tick polls state.Store, which app.Poller keeps fresh.
//  4. Plugin calls run as tea.Cmds with a per-request timeout and come back
//     as result messages applied in handleResult.
//
// OctoPrint announces logins and logouts before its session reflects them,
// so the admin state is confirmed through session.Machine probes.
//
// # Key Bindings
//
//   - tab, d, s, l: switch views
//   - j/k, ←/→, g/G, 1-9: move, page, first/last page, pick the Nth page link
//   - /: filter by name
//   - enter: open print files, or download and print
//   - D: add a design to the box
//   - c: cancel a download
//   - L/O: link or unlink the AstroPrint account
//   - b, m, f, C, B: box settings
//   - T: cycle theme
//   - q or ctrl+c: quit
package ui
