// Package version reports build information for the curate binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Build information, set at build time via ldflags:
//
//	-X .../version.Version=v0.3.0 -X .../version.CommitHash=$(git rev-parse HEAD)
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = "unknown"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information. Without ldflags the commit
// comes from the VCS stamp Go embeds in module builds.
func Get() Info {
	commit := CommitHash
	if commit == "" {
		commit = vcsRevision()
	}
	return Info{
		Version:    Version,
		CommitHash: commit,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("curate %s (commit %s, built %s, %s %s)", i.Version, i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Semver parses Version. Development builds report ok == false.
func (i Info) Semver() (v *semver.Version, ok bool) {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

// UserAgent identifies the pipeline to remote APIs: curate/1.2.3 for
// releases, curate/dev+<commit> otherwise
func (i Info) UserAgent() string {
	if v, ok := i.Semver(); ok {
		return "curate/" + v.String()
	}
	if short := i.Short(); short != "" && short != "unknown" {
		return "curate/dev+" + short
	}
	return "curate/dev"
}
