// Package app wires configuration, logging, polling and the UI together.
//
// # Startup
//
//  1. Load ~/.config/astrodeck/config.toml, with environment overrides
//  2. Open the JSON log file and build component loggers
//  3. Build the AstroPrint plugin client for the OctoPrint host
//  4. Create the shared state.Store and fill it with one initialstate call
//  5. Start the Poller, which refreshes the store in the background
//  6. Start the push-event listener and the TUI, and block until exit
//
// Setup covers steps 1 to 3 and is shared with the one-shot CLI commands.
//
// # Polling
//
// The Poller calls the plugin's initialstate endpoint every PollInterval.
// Failures back off exponentially up to 30 seconds. Three consecutive
// failures open a circuit breaker, so an offline OctoPrint is not hammered;
// while it is open, polls fail fast and the store records the breaker error.
//
//	┌────────┐  InitialState   ┌──────────────┐
//	│ Poller │ ──────────────▶ │ OctoPrint    │
//	└───┬────┘                 │ AstroPrint   │
//	    │ Update               │ plugin       │
//	    ▼                      └──────┬───────┘
//	┌────────┐  Snapshot  ┌────┐      │ push events
//	│ Store  │ ─────────▶ │ UI │ ◀────┘
//	└────────┘            └────┘
package app
