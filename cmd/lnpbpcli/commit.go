package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/lnpbp/lnpbp/dbc"
	"github.com/urfave/cli"
)

const (
	msgName        = "msg"
	commitmentName = "commitment"
	pkScriptName   = "pkscript"
)

var msgFlag = cli.StringFlag{
	Name:  msgName,
	Usage: "the hex encoded message to commit to",
}

var commitCommand = cli.Command{
	Name:      "commit",
	ShortName: "c",
	Category:  "Commitments",
	Usage:     "Commit to a message in an output script",
	Description: `
	Embed a commitment to the message into the given container. The
	serialized commitment is printed together with the output script that
	carries it. Taproot containers only print the output key as taproot
	output scripts are not supported yet.
	`,
	Flags:  append([]cli.Flag{msgFlag}, containerFlags...),
	Action: commit,
}

// commitResponse is the JSON form of a new commitment.
type commitResponse struct {
	Commitment     string          `json:"commitment"`
	CommitmentType string          `json:"commitment_type"`
	Script         *scriptResponse `json:"script,omitempty"`
	OutputKey      string          `json:"output_key,omitempty"`
}

func commit(ctx *cli.Context) error {
	if !ctx.IsSet(typeName) || !ctx.IsSet(msgName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	container, err := parseContainer(ctx)
	if err != nil {
		return err
	}
	msg, err := parseHex(ctx, msgName)
	if err != nil {
		return err
	}

	commitment, err := dbc.CommitTo(container, msg)
	if err != nil {
		return fmt.Errorf("unable to commit: %w", err)
	}

	commitmentBytes, err := commitment.Bytes()
	if err != nil {
		return fmt.Errorf("unable to encode commitment: %w", err)
	}

	resp := &commitResponse{
		Commitment:     hex.EncodeToString(commitmentBytes),
		CommitmentType: commitment.Type.String(),
	}

	script, err := commitment.PubkeyScript(container.Type)
	switch {
	case errors.Is(err, dbc.ErrTaprootScriptUnsupported):
		resp.OutputKey = hex.EncodeToString(
			schnorr.SerializePubKey(commitment.TapRoot.OutputKey),
		)

	case err != nil:
		return fmt.Errorf("unable to create script: %w", err)

	default:
		resp.Script = newScriptResponse(script, chainParams())
	}

	cliLog.Infof("Created %v commitment for %v container",
		commitment.Type, container.Type)

	printJSON(resp)
	return nil
}

var verifyCommand = cli.Command{
	Name:      "verify",
	ShortName: "v",
	Category:  "Commitments",
	Usage:     "Verify a commitment against a message",
	Description: `
	Check that a serialized commitment commits to the message and show
	the kind of container it was created from. Public key commitments are
	always shown as p2wpkh and lock script commitments as p2wsh
	containers, since the commitment does not record the exact kind.
	`,
	Flags: []cli.Flag{
		msgFlag,
		cli.StringFlag{
			Name:  commitmentName,
			Usage: "the hex encoded commitment",
		},
	},
	Action: verify,
}

// verifyResponse is the JSON form of a verification result.
type verifyResponse struct {
	Verified          bool   `json:"verified"`
	CommitmentType    string `json:"commitment_type"`
	OriginalContainer string `json:"original_container,omitempty"`
}

func verify(ctx *cli.Context) error {
	if !ctx.IsSet(commitmentName) || !ctx.IsSet(msgName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	commitmentBytes, err := parseHex(ctx, commitmentName)
	if err != nil {
		return err
	}
	msg, err := parseHex(ctx, msgName)
	if err != nil {
		return err
	}

	commitment, err := dbc.DecodeCommitment(commitmentBytes)
	if err != nil {
		return fmt.Errorf("unable to decode commitment: %w", err)
	}

	resp := &verifyResponse{
		Verified:       commitment.RevealVerify(msg),
		CommitmentType: commitment.Type.String(),
	}

	original, err := commitment.OriginalContainer()
	if err == nil {
		resp.OriginalContainer = original.Type.String()
	}

	printJSON(resp)
	return nil
}

var verifyScriptCommand = cli.Command{
	Name:      "verifyscript",
	ShortName: "vs",
	Category:  "Commitments",
	Usage:     "Verify an output script against a container and message",
	Description: `
	Check that the hex encoded output script is the one that results from
	committing to the message in the given container.
	`,
	Flags: append([]cli.Flag{
		msgFlag,
		cli.StringFlag{
			Name:  pkScriptName,
			Usage: "the hex encoded output script to verify",
		},
	}, containerFlags...),
	Action: verifyScript,
}

func verifyScript(ctx *cli.Context) error {
	if !ctx.IsSet(pkScriptName) || !ctx.IsSet(typeName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	pkScript, err := parseHex(ctx, pkScriptName)
	if err != nil {
		return err
	}
	container, err := parseContainer(ctx)
	if err != nil {
		return err
	}
	msg, err := parseHex(ctx, msgName)
	if err != nil {
		return err
	}

	printJSON(struct {
		Verified bool `json:"verified"`
	}{
		Verified: dbc.VerifyPubkeyScript(pkScript, container, msg),
	})
	return nil
}
