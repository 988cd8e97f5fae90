package lnpbp

import (
	"github.com/btcsuite/btclog"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lnpbp/lnpbp/dbc"
	"github.com/lnpbp/lnpbp/schema"
)

// Subsystem is the logging code of the command line tools built on top of
// the library packages.
const Subsystem = "LNPB"

// genSubLogger creates a logger for a subsystem. Nothing in this module runs
// long enough to be shut down, so a critical error only gets logged.
func genSubLogger(root *build.RotatingLogWriter) func(string) btclog.Logger {
	noShutdown := func() {}

	return func(tag string) btclog.Logger {
		return root.GenSubLogger(tag, noShutdown)
	}
}

// SetupLoggers initializes all package-global logger variables and returns
// the logger of the calling application.
func SetupLoggers(root *build.RotatingLogWriter) btclog.Logger {
	genLogger := genSubLogger(root)

	mainLog := build.NewSubLogger(Subsystem, genLogger)
	SetSubLogger(root, Subsystem, mainLog)

	AddSubLogger(root, dbc.Subsystem, dbc.UseLogger)
	AddSubLogger(root, schema.Subsystem, schema.UseLogger)

	return mainLog
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.RotatingLogWriter, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// genSubLogger will return a callback for creating a logger instance,
	// which we will give to the root logger.
	genLogger := genSubLogger(root)

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, genLogger)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger is a helper method to conveniently register the logger of a sub
// system.
func SetSubLogger(root *build.RotatingLogWriter, subsystem string,
	logger btclog.Logger, useLoggers ...func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
