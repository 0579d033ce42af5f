// Package settings provides build metadata, per-run options, and context
// helpers shared by the showroom CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "showroom"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single invocation. It is stored in the command
// context so packages below cmd can read them without flag globals.
type Run struct {
	MinLogLevel int8
	Source      string // dataset path or URL
	Interactive bool
	NoColor     bool
	CheckImages bool
}

// NewCliParams returns the defaults used by the root command before flags
// are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Interactive: false,
		NoColor:     false,
		CheckImages: false,
	}
}
