package main

import (
	"encoding/hex"
	"flag"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/lnpbp/lnpbp/dbc"
	"github.com/lnpbp/lnpbp/internal/test"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

// newTestContext returns a command context with the given flag values set.
func newTestContext(t *testing.T, values map[string]string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for name := range values {
		set.String(name, "", "")
	}
	for name, value := range values {
		require.NoError(t, set.Set(name, value))
	}

	return cli.NewContext(cli.NewApp(), set, nil)
}

// TestParseContainer tests the container flags of every container type.
func TestParseContainer(t *testing.T) {
	t.Parallel()

	key := test.RandPubKey(t)
	keyHex := hex.EncodeToString(key.SerializeCompressed())
	xOnlyHex := hex.EncodeToString(schnorr.SerializePubKey(key))
	script := test.MultiSigScript(t, 1, key)
	root := test.RandHash()

	testCases := []struct {
		name     string
		values   map[string]string
		expected dbc.ScriptPubkeyContainer
		err      bool
	}{{
		name:     "p2pk",
		values:   map[string]string{typeName: "p2pk", pubKeyName: keyHex},
		expected: dbc.NewPublicKeyContainer(key),
	}, {
		name: "p2wpkh",
		values: map[string]string{
			typeName: "p2wpkh", pubKeyName: keyHex,
		},
		expected: dbc.NewPubkeyHashContainer(key),
	}, {
		name: "opreturn",
		values: map[string]string{
			typeName: "opreturn", pubKeyName: keyHex,
		},
		expected: dbc.NewOpReturnContainer(key),
	}, {
		name: "p2wsh",
		values: map[string]string{
			typeName: "p2wsh", scriptName: hex.EncodeToString(script),
		},
		expected: dbc.NewScriptHashContainer(script),
	}, {
		name: "other",
		values: map[string]string{
			typeName: "other", scriptName: hex.EncodeToString(script),
		},
		expected: dbc.NewOtherScriptContainer(script),
	}, {
		name: "taproot",
		values: map[string]string{
			typeName:        "taproot",
			internalKeyName: xOnlyHex,
			scriptRootName:  hex.EncodeToString(root[:]),
		},
		expected: dbc.NewTapRootContainer(dbc.TaprootContainer{
			InternalKey: test.SchnorrKey(t, key),
			ScriptRoot:  root[:],
		}),
	}, {
		name:   "unknown type",
		values: map[string]string{typeName: "p2sh"},
		err:    true,
	}, {
		name:   "missing key",
		values: map[string]string{typeName: "p2wpkh"},
		err:    true,
	}, {
		name: "bad key",
		values: map[string]string{
			typeName: "p2pk", pubKeyName: "02abcd",
		},
		err: true,
	}, {
		name: "bad script hex",
		values: map[string]string{
			typeName: "p2wsh", scriptName: "zz",
		},
		err: true,
	}}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := newTestContext(t, tc.values)
			container, err := parseContainer(ctx)
			if tc.err {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected.Type, container.Type)
			require.True(t, tc.expected.IsEqual(container))
		})
	}
}

// TestNewSchema tests the schema kind selection.
func TestNewSchema(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{kindGen, kindTrans} {
		s, err := newSchema(kind)
		require.NoError(t, err)
		require.NotNil(t, s)
	}

	_, err := newSchema("anchor")
	require.Error(t, err)
}
