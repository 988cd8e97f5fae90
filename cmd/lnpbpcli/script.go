package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lnpbp/lnpbp/dbc"
	"github.com/lnpbp/lnpbp/scripts"
	"github.com/urfave/cli"
)

const (
	typeName        = "type"
	pubKeyName      = "pubkey"
	scriptName      = "script"
	internalKeyName = "internal_key"
	scriptRootName  = "script_root"
)

// containerTypes maps the --type values to container kinds.
var containerTypes = map[string]dbc.ContainerType{
	"p2pk":     dbc.ContainerPublicKey,
	"p2wpkh":   dbc.ContainerPubkeyHash,
	"p2wsh":    dbc.ContainerScriptHash,
	"taproot":  dbc.ContainerTapRoot,
	"opreturn": dbc.ContainerOpReturn,
	"other":    dbc.ContainerOtherScript,
}

// containerFlags describe the container a commitment is embedded into.
var containerFlags = []cli.Flag{
	cli.StringFlag{
		Name: typeName,
		Usage: "the container type, one of p2pk, p2wpkh, p2wsh, " +
			"taproot, opreturn or other",
	},
	cli.StringFlag{
		Name:  pubKeyName,
		Usage: "the hex encoded key for p2pk, p2wpkh and opreturn",
	},
	cli.StringFlag{
		Name:  scriptName,
		Usage: "the hex encoded script for p2wsh and other",
	},
	cli.StringFlag{
		Name:  internalKeyName,
		Usage: "the hex encoded taproot internal key",
	},
	cli.StringFlag{
		Name:  scriptRootName,
		Usage: "(optional) the hex encoded tapscript merkle root",
	},
}

// parseContainer builds the container described by the container flags.
func parseContainer(ctx *cli.Context) (dbc.ScriptPubkeyContainer, error) {
	var empty dbc.ScriptPubkeyContainer

	kind, ok := containerTypes[ctx.String(typeName)]
	if !ok {
		return empty, fmt.Errorf("unknown container type %q",
			ctx.String(typeName))
	}

	switch kind {
	case dbc.ContainerPublicKey, dbc.ContainerPubkeyHash,
		dbc.ContainerOpReturn:

		if !ctx.IsSet(pubKeyName) {
			return empty, fmt.Errorf("--%s is required for %v",
				pubKeyName, kind)
		}
		key, err := parsePubKey(ctx.String(pubKeyName))
		if err != nil {
			return empty, err
		}

		return dbc.ScriptPubkeyContainer{Type: kind, PubKey: key}, nil

	case dbc.ContainerScriptHash:
		script, err := parseHex(ctx, scriptName)
		if err != nil {
			return empty, err
		}

		return dbc.NewScriptHashContainer(script), nil

	case dbc.ContainerOtherScript:
		script, err := parseHex(ctx, scriptName)
		if err != nil {
			return empty, err
		}

		return dbc.NewOtherScriptContainer(script), nil

	default:
		if !ctx.IsSet(internalKeyName) {
			return empty, fmt.Errorf("--%s is required for %v",
				internalKeyName, kind)
		}
		key, err := parsePubKey(ctx.String(internalKeyName))
		if err != nil {
			return empty, err
		}

		container := dbc.TaprootContainer{InternalKey: key}
		if ctx.IsSet(scriptRootName) {
			container.ScriptRoot, err = parseHex(
				ctx, scriptRootName,
			)
			if err != nil {
				return empty, err
			}
		}

		return dbc.NewTapRootContainer(container), nil
	}
}

var scriptCommands = []cli.Command{
	{
		Name:      "script",
		ShortName: "s",
		Usage:     "Work with output scripts.",
		Category:  "Scripts",
		Subcommands: []cli.Command{
			synthesizeCommand,
		},
	},
}

var synthesizeCommand = cli.Command{
	Name:      "synthesize",
	ShortName: "syn",
	Usage:     "Create the output script of a container",
	Description: "Create the output script for a key or script without " +
		"any commitment",
	Flags:  containerFlags,
	Action: synthesize,
}

// scriptResponse is the JSON form of an output script.
type scriptResponse struct {
	Script  string `json:"script"`
	Asm     string `json:"asm"`
	Class   string `json:"class"`
	Address string `json:"address,omitempty"`
}

func newScriptResponse(script scripts.PubkeyScript,
	params *chaincfg.Params) *scriptResponse {

	resp := &scriptResponse{
		Script: hex.EncodeToString(script),
		Asm:    script.String(),
		Class:  script.Class().String(),
	}

	// Data carrier and non standard scripts don't have an address.
	if addr, err := script.Address(params); err == nil {
		resp.Address = addr.EncodeAddress()
	}

	return resp
}

func synthesize(ctx *cli.Context) error {
	if !ctx.IsSet(typeName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	container, err := parseContainer(ctx)
	if err != nil {
		return err
	}

	script, err := dbc.Synthesize(container)
	if err != nil {
		return fmt.Errorf("unable to synthesize script: %w", err)
	}

	printJSON(newScriptResponse(script, chainParams()))
	return nil
}
