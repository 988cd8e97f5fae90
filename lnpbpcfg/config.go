package lnpbpcfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lightningnetwork/lnd/lncfg"
	"github.com/lnpbp/lnpbp"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "lnpbp.log"

	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10

	defaultConfigFileName = "lnpbp.conf"
)

var (
	// DefaultLNPBPDir is the default directory where the tools look for
	// their configuration file and write their logs. This is a directory
	// in the user's application data, for example:
	//   C:\Users\<username>\AppData\Local\Lnpbp on Windows
	//   ~/.lnpbp on Linux
	//   ~/Library/Application Support/Lnpbp on MacOS
	DefaultLNPBPDir = btcutil.AppDataDir("lnpbp", false)

	// DefaultConfigFile is the default full path of the configuration
	// file.
	DefaultConfigFile = filepath.Join(DefaultLNPBPDir, defaultConfigFileName)

	defaultNetwork = "testnet"

	defaultLogDir = filepath.Join(DefaultLNPBPDir, defaultLogDirname)
)

// Config is the main config of the lnpbp command line tools.
type Config struct {
	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	LNPBPDir   string `long:"lnpbpdir" description:"The base directory that contains the configuration file and logs"`
	ConfigFile string `long:"configfile" description:"Path to configuration file"`

	LogDir         string `long:"logdir" description:"Directory to log output."`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`

	Network string `long:"network" description:"network addresses and scripts are displayed for" choice:"mainnet" choice:"testnet" choice:"regtest" choice:"simnet" choice:"signet"`

	// LogWriter is the root logger that all of the subloggers are hooked
	// up to.
	LogWriter *build.RotatingLogWriter

	// ActiveNetParams contains parameters of the target chain.
	ActiveNetParams chaincfg.Params
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		LNPBPDir:       DefaultLNPBPDir,
		ConfigFile:     DefaultConfigFile,
		DebugLevel:     defaultLogLevel,
		LogDir:         defaultLogDir,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		Network:        defaultNetwork,
		LogWriter:      build.NewRotatingLogWriter(),
	}
}

// LoadConfig initializes and parses the config using a config file and the
// given command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig(args []string) (*Config, btclog.Logger, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if _, err := flags.ParseArgs(&preCfg, args); err != nil {
		return nil, nil, err
	}

	// If the config file path has not been modified by the user, then
	// we'll use the default config file path. However, if the user has
	// modified their lnpbpdir, then we should assume they intend to use
	// the config file within it.
	configFileDir := CleanAndExpandPath(preCfg.LNPBPDir)
	configFilePath := CleanAndExpandPath(preCfg.ConfigFile)
	switch {
	// User specified --lnpbpdir but no --configfile. Update the config
	// file path to the lnpbp config directory, but don't require it to
	// exist.
	case configFileDir != DefaultLNPBPDir &&
		configFilePath == DefaultConfigFile:

		configFilePath = filepath.Join(
			configFileDir, defaultConfigFileName,
		)

	// User did specify an explicit --configfile, so we check that it does
	// exist under that path to avoid surprises.
	case configFilePath != DefaultConfigFile:
		if !fileExists(configFilePath) {
			return nil, nil, fmt.Errorf("specified config file does "+
				"not exist in %s", configFilePath)
		}
	}

	// Next, load any additional configuration options from the file.
	var configFileError error
	cfg := preCfg
	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(configFilePath)
	if err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		if _, ok := err.(*flags.IniError); ok {
			return nil, nil, err
		}

		configFileError = err
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	flagParser := flags.NewParser(&cfg, flags.Default)
	if _, err := flagParser.ParseArgs(args); err != nil {
		return nil, nil, err
	}

	// Make sure everything we just loaded makes sense.
	cleanCfg, cfgLogger, err := ValidateConfig(cfg)
	if err != nil {
		if cfgLogger != nil {
			cfgLogger.Warnf("Error validating config: %v", err)
		}
		return nil, nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done. Note this should go directly before the return.
	if configFileError != nil {
		cfgLogger.Debugf("%v", configFileError)
	}

	return cleanCfg, cfgLogger, nil
}

// usageError is an error type that signals a problem with the supplied flags.
type usageError struct {
	err error
}

// Error returns the error string.
//
// NOTE: This is part of the error interface.
func (u *usageError) Error() string {
	return u.err.Error()
}

// IsUsageError returns true if the error was caused by invalid flags.
func IsUsageError(err error) bool {
	_, ok := err.(*usageError)
	return ok
}

// ValidateConfig check the given configuration to be sane. This makes sure no
// illegal values or combination of values are set. All file system paths are
// normalized. The cleaned up config is returned on success.
func ValidateConfig(cfg Config) (*Config, btclog.Logger, error) {
	// If the provided lnpbp directory is not the default, we'll modify
	// the path to the log directory that lives within it.
	lnpbpDir := CleanAndExpandPath(cfg.LNPBPDir)
	if lnpbpDir != DefaultLNPBPDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(lnpbpDir, defaultLogDirname)
	}

	funcName := "ValidateConfig"
	mkErr := func(format string, args ...interface{}) error {
		return fmt.Errorf(funcName+": "+format, args...)
	}

	cfg.LNPBPDir = lnpbpDir
	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)

	switch cfg.Network {
	case "mainnet":
		cfg.ActiveNetParams = chaincfg.MainNetParams
	case "testnet":
		cfg.ActiveNetParams = chaincfg.TestNet3Params
	case "regtest":
		cfg.ActiveNetParams = chaincfg.RegressionNetParams
	case "simnet":
		cfg.ActiveNetParams = chaincfg.SimNetParams
	case "signet":
		cfg.ActiveNetParams = chaincfg.SigNetParams
	default:
		return nil, nil, &usageError{mkErr("invalid network: %v",
			cfg.Network)}
	}

	if cfg.MaxLogFiles < 0 || cfg.MaxLogFileSize < 0 {
		return nil, nil, &usageError{mkErr("log file limits must " +
			"not be negative")}
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	cfg.LogDir = filepath.Join(
		cfg.LogDir, lncfg.NormalizeNetwork(cfg.ActiveNetParams.Name),
	)

	// A log writer must be passed in, otherwise we can't function and would
	// run into a panic later on.
	if cfg.LogWriter == nil {
		return nil, nil, mkErr("log writer missing in config")
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		lnpbp.SetupLoggers(cfg.LogWriter)
		fmt.Println("Supported subsystems",
			cfg.LogWriter.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize logging at the default logging level.
	lnpbp.SetupLoggers(cfg.LogWriter)
	err := cfg.LogWriter.InitLogRotator(
		filepath.Join(cfg.LogDir, defaultLogFilename),
		cfg.MaxLogFileSize, cfg.MaxLogFiles,
	)
	if err != nil {
		str := "log rotation setup failed: %v"
		return nil, nil, mkErr(str, err)
	}

	cfgLog := cfg.LogWriter.GenSubLogger("CONF", nil)

	// Parse, validate, and set debug log level(s).
	err = build.ParseAndSetDebugLevels(cfg.DebugLevel, cfg.LogWriter)
	if err != nil {
		str := "error parsing debug level: %v"
		return nil, cfgLog, &usageError{mkErr(str, err)}
	}

	cfgLog.Debugf("Using %v network, logging to %v",
		cfg.ActiveNetParams.Name, cfg.LogDir)

	// All good, return the sanitized result.
	return &cfg, cfgLog, nil
}

// fileExists reports whether the named file or directory exists.
// This function is taken from https://github.com/btcsuite/btcd
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
