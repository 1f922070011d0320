// Package browser detects the host browser and OS from its
// identifying string. It is a pure lookup used to pick a stream
// capture strategy and to format diagnostics, nothing else.
package browser

import (
	"strconv"
	"strings"

	"github.com/mssola/useragent"
)

// Info describes a detected host environment.
type Info struct {
	Name          string
	Version       string
	EngineName    string
	EngineVersion string
	OSName        string
	OSVersion     string
}

// Detect parses the host identifying string.
func Detect(ua string) Info {
	parsed := useragent.New(ua)
	name, version := parsed.Browser()
	engineName, engineVersion := parsed.Engine()
	osInfo := parsed.OSInfo()
	return Info{
		Name:          name,
		Version:       version,
		EngineName:    engineName,
		EngineVersion: engineVersion,
		OSName:        osInfo.Name,
		OSVersion:     osInfo.Version,
	}
}

// IsSafari reports whether the host is Safari of any version.
func (i Info) IsSafari() bool {
	return i.Name == "Safari"
}

// IsFirefox reports whether the host is Firefox of any version.
func (i Info) IsFirefox() bool {
	return i.Name == "Firefox"
}

// IsOldEdge reports the legacy EdgeHTML-based Edge, which exposes
// audio tracks through a legacy property instead of stream capture.
func (i Info) IsOldEdge() bool {
	if i.Name != "Edge" {
		return false
	}
	major := i.major()
	return major > 0 && major < 79
}

// String formats the environment for diagnostics.
func (i Info) String() string {
	return i.Name + " " + i.Version + " (" + i.OSName + " " + i.OSVersion + ")"
}

func (i Info) major() int {
	version, _, _ := strings.Cut(i.Version, ".")
	major, err := strconv.Atoi(version)
	if err != nil {
		return 0
	}
	return major
}
