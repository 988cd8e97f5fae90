// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Heavily inspired by https://github.com/btcsuite/btcd/blob/master/version.go
// Copyright (C) 2015-2022 The Lightning Network Developers

package lnpbp

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Commit stores the current commit of this build. This should be set
	// using the -ldflags during compilation. If it isn't, the VCS revision
	// recorded by the Go toolchain is reported instead.
	Commit string

	// CommitHash stores the VCS revision of this build.
	CommitHash string

	// RawTags contains the raw set of build tags, separated by commas.
	RawTags string

	// GoVersion stores the go version that the executable was compiled
	// with.
	GoVersion string
)

// versionFieldsAlphabet is the set of characters that are permitted for use in
// a version string field.
const versionFieldsAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// These constants define the application version and follow the semantic
// versioning 2.0.0 spec (http://semver.org/).
const (
	// AppMajor defines the major version of this binary.
	AppMajor uint = 0

	// AppMinor defines the minor version of this binary.
	AppMinor uint = 1

	// AppPatch defines the application patch for this binary.
	AppPatch uint = 0

	// AppStatus defines the release status of this binary (e.g. beta).
	AppStatus = "alpha"

	// AppPreRelease defines the pre-release version of this binary.
	// It MUST only contain characters from the semantic versioning spec.
	AppPreRelease = ""

	// AgentName is the name of the command line tool, used as the first
	// part of the agent version.
	AgentName = "lnpbpcli"
)

// BuildInfo describes the binary that is running.
type BuildInfo struct {
	// Version is the semantic version.
	Version string `json:"version"`

	// Commit is the commit the binary was built from.
	Commit string `json:"commit,omitempty"`

	// GoVersion is the version of the Go toolchain used for the build.
	GoVersion string `json:"go_version,omitempty"`

	// Tags lists the build tags.
	Tags []string `json:"build_tags,omitempty"`
}

// Build returns the build information of the running binary.
func Build() BuildInfo {
	return BuildInfo{
		Version:   semanticVersion(),
		Commit:    commit(),
		GoVersion: GoVersion,
		Tags:      Tags(),
	}
}

// AgentVersion returns the agent name followed by the full version string.
func AgentVersion() string {
	return fmt.Sprintf("%s/v%s", AgentName, semanticVersion())
}

func init() {
	// Assert that AppStatus and AppPreRelease are valid according to the
	// semantic versioning guidelines for pre-release version and build
	// metadata strings.
	for _, r := range AppStatus + AppPreRelease {
		if !strings.ContainsRune(versionFieldsAlphabet, r) {
			panic(fmt.Errorf("rune: %v is not in the semantic "+
				"alphabet", r))
		}
	}

	// Get build information from the runtime.
	if info, ok := debug.ReadBuildInfo(); ok {
		GoVersion = info.GoVersion
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				CommitHash = setting.Value

			case "-tags":
				RawTags = setting.Value
			}
		}
	}
}

// Version returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (http://semver.org/), followed by the commit
// if one is known.
func Version() string {
	c := commit()
	if c == "" {
		return semanticVersion()
	}

	return fmt.Sprintf("%s commit=%s", semanticVersion(), c)
}

// commit returns the linked commit, falling back to the VCS revision.
func commit() string {
	if Commit != "" {
		return Commit
	}

	return CommitHash
}

// Tags returns the list of build tags that were compiled into the executable.
func Tags() []string {
	if len(RawTags) == 0 {
		return nil
	}

	return strings.Split(RawTags, ",")
}

// normalizeVerString returns the passed string stripped of all characters
// which are not valid according to the given alphabet.
func normalizeVerString(str, alphabet string) string {
	var result bytes.Buffer
	for _, r := range str {
		if strings.ContainsRune(alphabet, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// semanticVersion returns the SemVer part of the version.
func semanticVersion() string {
	version := fmt.Sprintf("%d.%d.%d", AppMajor, AppMinor, AppPatch)

	// The hyphen called for by the semantic versioning spec is added here,
	// so neither string should contain it.
	appStatus := normalizeVerString(AppStatus, versionFieldsAlphabet)
	preRelease := normalizeVerString(AppPreRelease, versionFieldsAlphabet)

	switch {
	case appStatus != "" && preRelease != "":
		version = fmt.Sprintf(
			"%s-%s.%s", version, appStatus, preRelease,
		)
	case appStatus != "":
		version = fmt.Sprintf("%s-%s", version, appStatus)
	case preRelease != "":
		version = fmt.Sprintf("%s-%s", version, preRelease)
	}

	return version
}
