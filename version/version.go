package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// Set at build time using -ldflags.
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build information.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	Release   bool      `json:"release"`
	Dirty     bool      `json:"dirty"`
}

// Get resolves build information from the ldflags variables, falling
// back to the binary's embedded VCS stamps.
func Get() *Info {
	info := &Info{
		Version: Version,
		Commit:  Commit,
		Release: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shorten(setting.Value)
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildDate.IsZero() {
					if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
						info.BuildDate = t
					}
				}
			}
		}
	}
	return info
}

// Short returns the compact version string: version, commit, and a dirty
// marker when the working tree was modified.
func Short() string {
	info := Get()
	if info.Commit == "" {
		return info.Version
	}
	if info.Dirty {
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.Commit)
	}
	return fmt.Sprintf("%s-%s", info.Version, info.Commit)
}

// Full returns the verbose version string, including the build date when
// one is known.
func Full() string {
	info := Get()
	s := Short()
	if !info.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", info.BuildDate.UTC().Format(time.RFC3339))
	}
	if info.GoVersion != "" {
		s += " " + info.GoVersion
	}
	return s
}

func shorten(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
