package scripts

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	// WitnessPubKeyHashLen is the length of a v0 witness public key hash.
	WitnessPubKeyHashLen = 20

	// WitnessScriptHashLen is the length of a v0 witness script hash.
	WitnessScriptHashLen = sha256.Size
)

var (
	// ErrInvalidHashLen is returned when a witness program of the wrong
	// size is passed to one of the script templates.
	ErrInvalidHashLen = errors.New("invalid witness program length")
)

// LockScript is a script that locks funds and is revealed on spending, for
// example the witness script of a P2WSH output.
type LockScript []byte

// PubkeyScript is the script found in a transaction output (scriptPubKey).
type PubkeyScript []byte

// Copy returns a deep copy of the script.
func (s LockScript) Copy() LockScript {
	if s == nil {
		return nil
	}

	return append(LockScript{}, s...)
}

// Copy returns a deep copy of the script.
func (s PubkeyScript) Copy() PubkeyScript {
	if s == nil {
		return nil
	}

	return append(PubkeyScript{}, s...)
}

// String returns the disassembled script.
func (s LockScript) String() string {
	return disasm(s)
}

// String returns the disassembled script.
func (s PubkeyScript) String() string {
	return disasm(s)
}

// Class returns the standard script class of the output script.
func (s PubkeyScript) Class() txscript.ScriptClass {
	return txscript.GetScriptClass(s)
}

// Address returns the address the output script pays to on the given network.
// Only scripts with exactly one address are supported.
func (s PubkeyScript) Address(params *chaincfg.Params) (btcutil.Address,
	error) {

	_, addrs, _, err := txscript.ExtractPkScriptAddrs(s, params)
	if err != nil {
		return nil, err
	}
	if len(addrs) != 1 {
		return nil, fmt.Errorf("script %v has %d addresses", s,
			len(addrs))
	}

	return addrs[0], nil
}

func disasm(s []byte) string {
	str, err := txscript.DisasmString(s)
	if err != nil {
		return fmt.Sprintf("[error: %v] %x", err, s)
	}

	return str
}

// WitnessPubKeyHash returns the 20 byte hash160 of the serialized key.
func WitnessPubKeyHash(serializedKey []byte) []byte {
	return btcutil.Hash160(serializedKey)
}

// WitnessScriptHash returns the 32 byte sha256 of the script.
func WitnessScriptHash(script LockScript) []byte {
	h := sha256.Sum256(script)
	return h[:]
}

// UncompressedKey returns the 65 byte uncompressed serialization of the key.
func UncompressedKey(key *btcec.PublicKey) []byte {
	return key.SerializeUncompressed()
}

// PayToPubKey creates `<key> OP_CHECKSIG` for the serialized key.
func PayToPubKey(serializedKey []byte) (PubkeyScript, error) {
	return txscript.NewScriptBuilder().
		AddData(serializedKey).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// PayToWitnessPubKeyHash creates `OP_0 <20 byte key hash>`.
func PayToWitnessPubKeyHash(keyHash []byte) (PubkeyScript, error) {
	if len(keyHash) != WitnessPubKeyHashLen {
		return nil, fmt.Errorf("%w: key hash of %d bytes",
			ErrInvalidHashLen, len(keyHash))
	}

	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(keyHash).
		Script()
}

// PayToWitnessScriptHash creates `OP_0 <32 byte script hash>`.
func PayToWitnessScriptHash(scriptHash []byte) (PubkeyScript, error) {
	if len(scriptHash) != WitnessScriptHashLen {
		return nil, fmt.Errorf("%w: script hash of %d bytes",
			ErrInvalidHashLen, len(scriptHash))
	}

	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(scriptHash).
		Script()
}

// OpReturn creates the provably unspendable `OP_RETURN <data>` script.
func OpReturn(data []byte) (PubkeyScript, error) {
	return txscript.NullDataScript(data)
}
