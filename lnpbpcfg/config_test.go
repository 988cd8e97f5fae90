package lnpbpcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testConfig returns a default config that keeps all files in a temporary
// directory.
func testConfig(t *testing.T) Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.LNPBPDir = t.TempDir()
	cfg.LogDir = filepath.Join(cfg.LNPBPDir, "logs")
	cfg.ConfigFile = filepath.Join(cfg.LNPBPDir, defaultConfigFileName)

	return cfg
}

// TestValidateConfig tests the network selection and log directory setup.
func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		network string
		params  string
		logDir  string
	}{
		{network: "mainnet", params: "mainnet", logDir: "mainnet"},
		{network: "testnet", params: "testnet3", logDir: "testnet"},
		{network: "regtest", params: "regtest", logDir: "regtest"},
		{network: "simnet", params: "simnet", logDir: "simnet"},
		{network: "signet", params: "signet", logDir: "signet"},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.network, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Network = tc.network

			cleanCfg, cfgLog, err := ValidateConfig(cfg)
			require.NoError(t, err)
			require.NotNil(t, cfgLog)
			require.Equal(t, tc.params, cleanCfg.ActiveNetParams.Name)
			require.Equal(
				t, filepath.Join(cfg.LogDir, tc.logDir),
				cleanCfg.LogDir,
			)

			_, err = os.Stat(cleanCfg.LogDir)
			require.NoError(t, err)
		})
	}
}

// TestValidateConfigErrors tests that invalid settings are reported as usage
// errors.
func TestValidateConfigErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Network = "fakenet"
	_, _, err := ValidateConfig(cfg)
	require.Error(t, err)
	require.True(t, IsUsageError(err))

	cfg = testConfig(t)
	cfg.MaxLogFiles = -1
	_, _, err = ValidateConfig(cfg)
	require.True(t, IsUsageError(err))

	cfg = testConfig(t)
	cfg.DebugLevel = "nonsense"
	_, _, err = ValidateConfig(cfg)
	require.Error(t, err)
	require.True(t, IsUsageError(err))

	cfg = testConfig(t)
	cfg.LogWriter = nil
	_, _, err = ValidateConfig(cfg)
	require.Error(t, err)
	require.False(t, IsUsageError(err))
}

// TestLoadConfig tests the precedence of defaults, config file and command
// line options.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	confFile := filepath.Join(dir, defaultConfigFileName)
	err := os.WriteFile(confFile, []byte(
		"[Application Options]\nnetwork=simnet\ndebuglevel=debug\n",
	), 0600)
	require.NoError(t, err)

	// The config file inside the base directory is picked up.
	cfg, _, err := LoadConfig([]string{"--lnpbpdir=" + dir})
	require.NoError(t, err)
	require.Equal(t, "simnet", cfg.Network)
	require.Equal(t, "debug", cfg.DebugLevel)
	require.Equal(t, filepath.Join(dir, "logs", "simnet"), cfg.LogDir)

	// Command line options win over the file.
	cfg, _, err = LoadConfig([]string{
		"--lnpbpdir=" + dir, "--network=regtest",
	})
	require.NoError(t, err)
	require.Equal(t, "regtest", cfg.Network)
	require.Equal(t, "regtest", cfg.ActiveNetParams.Name)

	// A missing config file is fine unless it was named explicitly.
	emptyDir := t.TempDir()
	cfg, _, err = LoadConfig([]string{"--lnpbpdir=" + emptyDir})
	require.NoError(t, err)
	require.Equal(t, defaultNetwork, cfg.Network)

	_, _, err = LoadConfig([]string{
		"--lnpbpdir=" + emptyDir,
		"--configfile=" + filepath.Join(emptyDir, "missing.conf"),
	})
	require.Error(t, err)

	// Unknown networks are rejected by the flag parser already.
	_, _, err = LoadConfig([]string{
		"--lnpbpdir=" + emptyDir, "--network=fakenet",
	})
	require.Error(t, err)
}

// TestCleanAndExpandPath tests home directory and variable expansion.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("LNPBP_TEST_DIR", "/tmp/lnpbp")

	require.Equal(t, "", CleanAndExpandPath(""))
	require.Equal(
		t, "/tmp/lnpbp/logs",
		CleanAndExpandPath("$LNPBP_TEST_DIR/./logs/"),
	)

	expanded := CleanAndExpandPath("~/lnpbp")
	require.NotContains(t, expanded, "~")
	require.Equal(t, "lnpbp", filepath.Base(expanded))
}
