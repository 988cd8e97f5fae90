package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnpbp/lnpbp/schema"
	"github.com/lnpbp/lnpbp/strictenc"
	"github.com/urfave/cli"
)

const (
	kindName   = "kind"
	hexName    = "hex"
	fileName   = "file"
	kindGen    = "genesis"
	kindTrans  = "transition"
	kindsUsage = "the schema kind, either genesis or transition"
)

var schemaCommands = []cli.Command{
	{
		Name:     "schema",
		Usage:    "Encode and decode schema descriptors.",
		Category: "Schemas",
		Subcommands: []cli.Command{
			decodeSchemaCommand,
			encodeSchemaCommand,
		},
	},
}

var decodeSchemaCommand = cli.Command{
	Name:  "decode",
	Usage: "Decode a strict encoded schema and print it as JSON",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  kindName,
			Usage: kindsUsage,
		},
		cli.StringFlag{
			Name:  hexName,
			Usage: "the hex encoded schema",
		},
	},
	Action: decodeSchema,
}

// schemaValue is implemented by both schema kinds.
type schemaValue interface {
	strictenc.Encoder
	strictenc.Decoder
}

func newSchema(kind string) (schemaValue, error) {
	switch kind {
	case kindGen:
		return &schema.GenesisSchema{}, nil

	case kindTrans:
		return &schema.TransitionSchema{}, nil

	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
}

func decodeSchema(ctx *cli.Context) error {
	if !ctx.IsSet(kindName) || !ctx.IsSet(hexName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	s, err := newSchema(ctx.String(kindName))
	if err != nil {
		return err
	}
	b, err := parseHex(ctx, hexName)
	if err != nil {
		return err
	}

	if err := strictenc.Deserialize(b, s); err != nil {
		return fmt.Errorf("unable to decode %s schema: %w",
			ctx.String(kindName), err)
	}

	printJSON(s)
	return nil
}

var encodeSchemaCommand = cli.Command{
	Name:  "encode",
	Usage: "Strict encode a schema given as JSON",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  kindName,
			Usage: kindsUsage,
		},
		cli.StringFlag{
			Name:      fileName,
			Usage:     "the JSON file holding the schema",
			TakesFile: true,
		},
	},
	Action: encodeSchema,
}

func encodeSchema(ctx *cli.Context) error {
	if !ctx.IsSet(kindName) || !ctx.IsSet(fileName) {
		return cli.ShowSubcommandHelp(ctx)
	}

	s, err := newSchema(ctx.String(kindName))
	if err != nil {
		return err
	}

	jsonBytes, err := os.ReadFile(ctx.String(fileName))
	if err != nil {
		return fmt.Errorf("unable to read schema: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, s); err != nil {
		return fmt.Errorf("unable to parse schema: %w", err)
	}

	b, err := strictenc.Serialize(s)
	if err != nil {
		return fmt.Errorf("unable to encode schema: %w", err)
	}

	printJSON(struct {
		Schema string `json:"schema"`
	}{
		Schema: hex.EncodeToString(b),
	})
	return nil
}
