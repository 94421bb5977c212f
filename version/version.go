package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

const shortCommitLen = 7

// Info is a snapshot of the build information.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildTime string    `json:"build_time,omitempty"`
	BuildDate time.Time `json:"-"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
	Release   bool      `json:"release"`
	Dirty     bool      `json:"dirty"`
}

// Get returns the current build information.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Release:   isRelease(Version),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						info.BuildTime = s.Value
						info.BuildDate = t
					}
				}
			}
		}
	}

	if len(info.Commit) > shortCommitLen {
		info.Commit = info.Commit[:shortCommitLen]
	}
	return info
}

// Short returns "<version>[-<commit>][-dirty]".
func Short() string {
	info := Get()
	s := info.Version
	if info.Commit != "" {
		s += "-" + info.Commit
	}
	if info.Dirty {
		s += "-dirty"
	}
	return s
}

// String renders the info on one line for `augment version`.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&b, " (%s", i.Commit)
		if i.Dirty {
			b.WriteString(", dirty")
		}
		b.WriteString(")")
	}
	if !i.BuildDate.IsZero() {
		fmt.Fprintf(&b, " built %s", i.BuildDate.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, " %s %s", i.GoVersion, i.Platform)
	return b.String()
}

func isRelease(v string) bool {
	return v != "" && v != "dev" && !strings.Contains(v, "dirty")
}
