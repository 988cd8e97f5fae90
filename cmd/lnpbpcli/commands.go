package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"
	"github.com/lnpbp/lnpbp"
	"github.com/lnpbp/lnpbp/lnpbpcfg"
	"github.com/urfave/cli"
)

var (
	// cfg is the configuration loaded before any command runs.
	cfg *lnpbpcfg.Config

	// cliLog is the logger of the command line tool itself.
	cliLog = btclog.Disabled
)

// configFlags are the global flags that are forwarded to the config parser.
var configFlags = []string{
	"configfile", "lnpbpdir", "debuglevel", "network", "logdir",
}

// newApp creates a new lnpbpcli app with all the available commands.
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lnpbpcli"
	app.Version = lnpbp.Version()
	app.Usage = "create and verify script commitments and schema " +
		"encodings"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Usage:     "Path to the configuration file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name:      "lnpbpdir",
			Usage:     "The base directory for config and logs.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name:  "debuglevel",
			Usage: "Logging level for all subsystems.",
		},
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network addresses are shown for, e.g. " +
				"mainnet, testnet, etc.",
		},
		cli.StringFlag{
			Name:      "logdir",
			Usage:     "Directory to log output.",
			TakesFile: true,
		},
	}
	app.Before = loadConfig

	// Add all the available commands.
	app.Commands = []cli.Command{
		commitCommand,
		verifyCommand,
		verifyScriptCommand,
		versionCommand,
	}
	app.Commands = append(app.Commands, scriptCommands...)
	app.Commands = append(app.Commands, schemaCommands...)

	return app
}

// loadConfig turns the global flags that were set into config options and
// loads the configuration.
func loadConfig(ctx *cli.Context) error {
	var args []string
	for _, name := range configFlags {
		if ctx.IsSet(name) {
			args = append(
				args, fmt.Sprintf("--%s=%s", name,
					ctx.String(name)),
			)
		}
	}

	loadedCfg, logger, err := lnpbpcfg.LoadConfig(args)
	if err != nil {
		return err
	}

	cfg = loadedCfg
	cliLog = logger
	cliLog.Debugf("Running %s", lnpbp.AgentVersion())

	return nil
}

var versionCommand = cli.Command{
	Name:        "version",
	Usage:       "Show build information.",
	Description: "Returns the version, commit and build tags.",
	Action:      version,
}

func version(_ *cli.Context) error {
	printJSON(lnpbp.Build())
	return nil
}

// chainParams returns the parameters of the configured network.
func chainParams() *chaincfg.Params {
	if cfg == nil {
		return &chaincfg.TestNet3Params
	}

	return &cfg.ActiveNetParams
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[lnpbpcli] %v\n", err)
	os.Exit(1)
}

func printJSON(resp interface{}) {
	b, err := json.Marshal(resp)
	if err != nil {
		fatal(err)
	}

	var out bytes.Buffer
	_ = json.Indent(&out, b, "", "\t")
	out.WriteString("\n")
	_, _ = out.WriteTo(os.Stdout)
}

// parsePubKey parses a hex encoded public key. 32 byte keys are read as
// BIP-340 x-only keys.
func parsePubKey(keyHex string) (*btcec.PublicKey, error) {
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("unable to decode key: %w", err)
	}

	if len(keyBytes) == schnorr.PubKeyBytesLen {
		return schnorr.ParsePubKey(keyBytes)
	}

	return btcec.ParsePubKey(keyBytes)
}

// parseHex decodes the hex value of a required flag.
func parseHex(ctx *cli.Context, name string) ([]byte, error) {
	if !ctx.IsSet(name) {
		return nil, fmt.Errorf("--%s is required", name)
	}

	b, err := hex.DecodeString(ctx.String(name))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", name, err)
	}

	return b, nil
}
