// Package compileinfo reports the version control state a binary was built
// from.
package compileinfo

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Version may be set at link time:
// go build -ldflags "-X github.com/carbocation/pathogenx/compileinfo.Version=v1.2.0"
var Version string

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	version := c.Version
	if version == "" {
		version = "(unknown version)"
	}

	out := fmt.Sprintf("%s %s built with %s", c.name(), version, c.GoVersion)
	if c.Commit != "" {
		out += fmt.Sprintf(" at commit %s (%s)", c.Commit, c.CommitTime)
	}
	if c.Modified {
		out += ". Files in the repo were modified after that commit."
	}

	return out
}

func (c CompileInfo) name() string {
	if c.Package == "" {
		return "pathogenx"
	}
	return c.Package
}

// Fields renders the build information for structured logs.
func (c CompileInfo) Fields() log.Fields {
	return log.Fields{
		"version":  c.Version,
		"go":       c.GoVersion,
		"commit":   c.Commit,
		"modified": c.Modified,
	}
}

func Get() CompileInfo {
	out := CompileInfo{Version: Version}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	return fromBuildInfo(out, z)
}

func fromBuildInfo(out CompileInfo, z *debug.BuildInfo) CompileInfo {
	out.GoVersion = z.GoVersion
	out.Package = z.Path
	if out.Version == "" && z.Main.Version != "(devel)" {
		out.Version = z.Main.Version
	}
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
