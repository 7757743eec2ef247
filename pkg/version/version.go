package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is overridden at link time with -ldflags "-X .../version.Version=..."
	Version = "0.1.0"
	// AppName is the command name
	AppName = "tinyhttpd"
	// Description is the one-line summary shown in help output
	Description = "A minimal multi-client static file HTTP server"
)

// BuildInfo describes the binary that is running
type BuildInfo struct {
	Version   string
	Revision  string
	Time      string
	Modified  bool
	GoVersion string
	Platform  string
}

// Read collects build details from the module build info. VCS fields are
// empty when the binary was built outside a repository.
func Read() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fromSettings(info, bi.Settings)
}

func fromSettings(info BuildInfo, settings []debug.BuildSetting) BuildInfo {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the --version output
func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s version %s", AppName, b.Version)
	if b.Revision != "" {
		rev := b.Revision
		if b.Modified {
			rev += " (modified)"
		}
		fmt.Fprintf(&sb, "\nRevision: %s", rev)
	}
	if b.Time != "" {
		fmt.Fprintf(&sb, "\nBuilt: %s", b.Time)
	}
	fmt.Fprintf(&sb, "\n%s %s", b.GoVersion, b.Platform)
	return sb.String()
}

// GetVersionInfo returns the version banner of the running binary
func GetVersionInfo() string {
	return Read().String()
}
