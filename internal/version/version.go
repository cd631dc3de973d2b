// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Orbital image warping, warp grid mode, OTLP tracing
// 0.2.0 - Interactive orbit plot, TOML orbit files, Prometheus metrics
// 0.1.0 - Initial release: Markley solver, sky-plane accessors, ephemeris export
