// Package config loads astrodeck's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/astrodeck/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//  5. ASTRODECK_OCTOPRINT_URL and ASTRODECK_API_KEY override the result
//
// # TOML Format
//
//	octoprint_url = "http://octopi.local"
//	api_key       = "<OctoPrint API key of an admin user>"
//	app_site      = "https://cloud.astroprint.com"
//	app_id        = "<AstroPrint OAuth client id>"
//	page_size     = 5
//	page_window   = 5
//	poll_seconds  = 10
//	log_file      = "~/.local/state/astrodeck/astrodeck.log"
//	log_level     = "info"
//
// String values are trimmed. Paths beginning with ~ are expanded against the
// user's home directory and made absolute.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files and malformed TOML are
// returned wrapped ("open config: ...", "parse config: ..."). Validate checks
// what Load cannot default: the API key and an odd page window.
package config
