// Package astroprint provides an HTTP client for the AstroPrint OctoPrint
// plugin.
//
// # Overview
//
// The plugin exposes its endpoints under <octoprint>/plugin/astroprint/ and
// proxies most of them to the AstroPrint cloud. This package wraps them with
// typed requests and responses so the UI and CLI never build URLs or decode
// JSON themselves.
//
// # Architecture
//
//   - client.go: Client, the API interface and request handling
//   - types.go: payloads mirroring the plugin's JSON
//   - errors.go: sentinel errors and APIError
//   - format.go: display helpers for print file metadata, the OAuth
//     authorize URL and box name validation
//
// # Client Usage
//
//	client, err := astroprint.NewClient("http://octopi.local", apiKey)
//	if err != nil {
//		return err
//	}
//	designs, err := client.Designs(ctx)
//
// Every request carries the OctoPrint API key in the X-Api-Key header.
//
// # Error Handling
//
// Non-2xx responses become *APIError values. A 401 unwraps to
// ErrUnauthorized, meaning the cloud session is gone and the user should be
// treated as logged out. A 403 unwraps to ErrForbidden, meaning the key does
// not belong to an OctoPrint admin. A 400 on a download carries the plugin's
// explanation in the error message.
//
// # Timestamps
//
// Print file creation times arrive in UTC without a zone suffix
// ("2024-03-01T10:20:30"). PrintFile.CreatedAt parses them as UTC and
// FormatCreated renders them in local time.
package astroprint
