// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API, Prometheus metrics, rise/set windows, interactive sky view
// 0.2.0 - Planets, Moon phase and orientation, headless snapshot export
// 0.1.0 - Initial release: star catalog, observer, Sun and navigational stars
