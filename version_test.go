package lnpbp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersion tests the version strings and the reported build information.
// It changes package variables and must not run in parallel.
func TestVersion(t *testing.T) {
	commitBefore, hashBefore, tagsBefore := Commit, CommitHash, RawTags
	t.Cleanup(func() {
		Commit, CommitHash = commitBefore, hashBefore
		RawTags = tagsBefore
	})

	require.Equal(t, "0.1.0-alpha", semanticVersion())
	require.Equal(t, "lnpbpcli/v0.1.0-alpha", AgentVersion())

	Commit, CommitHash, RawTags = "", "", ""
	require.Equal(t, "0.1.0-alpha", Version())
	require.Nil(t, Tags())
	require.Equal(t, BuildInfo{
		Version:   "0.1.0-alpha",
		GoVersion: GoVersion,
	}, Build())

	CommitHash = "abcdef"
	require.Equal(t, "0.1.0-alpha commit=abcdef", Version())

	Commit = "v0.1.0-alpha-3-g1234567"
	RawTags = "dev,monitoring"
	require.Equal(
		t, "0.1.0-alpha commit=v0.1.0-alpha-3-g1234567", Version(),
	)

	info := Build()
	require.Equal(t, "v0.1.0-alpha-3-g1234567", info.Commit)
	require.Equal(t, []string{"dev", "monitoring"}, info.Tags)
}

// TestNormalizeVerString tests that invalid characters are stripped.
func TestNormalizeVerString(t *testing.T) {
	t.Parallel()

	alphabet := versionFieldsAlphabet
	require.Equal(t, "rc1", normalizeVerString("r-c_1!", alphabet))
	require.Empty(t, normalizeVerString("---", alphabet))
}
