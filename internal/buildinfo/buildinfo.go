// Package buildinfo reports what a binary was built from.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version is set at build time via ldflags:
//
//	-X github.com/nadermx/heroesandmore-client/internal/buildinfo.Version=v1.2.3
var Version = "dev"

// Info describes one binary.
type Info struct {
	Program   string `json:"program"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Read collects build details for program. The commit comes from the VCS
// stamp the Go toolchain embeds, when there is one.
func Read(program string) Info {
	info := Info{
		Program:   program,
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.apply(bi.Settings)
	}
	return info
}

func (i *Info) apply(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			i.Commit = s.Value
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String renders a one-line summary such as
// "ham v1.2.3 (abc1234, go1.25.0 linux/amd64)".
func (i Info) String() string {
	details := make([]string, 0, 2)
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if i.Modified {
			commit += "-dirty"
		}
		details = append(details, commit)
	}
	details = append(details, i.GoVersion+" "+i.Platform)
	return fmt.Sprintf("%s %s (%s)", i.Program, i.Version, strings.Join(details, ", "))
}
