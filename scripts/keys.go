package scripts

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
)

const (
	// uncompressedKeyLen is the length of a public key in its uncompressed
	// form.
	uncompressedKeyLen = 65

	// uncompressedKeyPrefix is the first byte of an uncompressed key.
	// Hybrid keys share the length but use 0x06 or 0x07 instead.
	uncompressedKeyPrefix = 0x04
)

var (
	// ErrNoKeysFound is returned when a lock script does not contain a
	// single public key that could carry a commitment.
	ErrNoKeysFound = errors.New("lock script contains no public keys")

	// ErrMalformedScript is returned when the script can not be tokenized.
	ErrMalformedScript = errors.New("malformed lock script")
)

// KeyPush is a public key found in a data push of a lock script.
type KeyPush struct {
	// Key is the parsed public key.
	Key *btcec.PublicKey

	// Offset is the position of the first key byte within the script.
	Offset int

	// Compressed is true if the key was pushed in its 33 byte form.
	Compressed bool
}

// Len returns the number of script bytes occupied by the key.
func (k KeyPush) Len() int {
	if k.Compressed {
		return btcec.PubKeyBytesLenCompressed
	}

	return uncompressedKeyLen
}

// Serialize serializes the given key in the same form as the pushed one.
func (k KeyPush) Serialize(key *btcec.PublicKey) []byte {
	if k.Compressed {
		return key.SerializeCompressed()
	}

	return key.SerializeUncompressed()
}

// ExtractPubkeys returns every data push of the script that is a valid
// compressed or uncompressed public key, in script order. Pushes that have
// the size of a key but don't parse as one are skipped, as are hybrid keys
// since they can't be written back in their pushed form.
func (s LockScript) ExtractPubkeys() ([]KeyPush, error) {
	var (
		keys      []KeyPush
		tokenizer = txscript.MakeScriptTokenizer(0, s)
	)
	for tokenizer.Next() {
		data := tokenizer.Data()
		switch {
		case len(data) == btcec.PubKeyBytesLenCompressed:
		case len(data) == uncompressedKeyLen &&
			data[0] == uncompressedKeyPrefix:

		default:
			continue
		}

		key, err := btcec.ParsePubKey(data)
		if err != nil {
			continue
		}

		keys = append(keys, KeyPush{
			Key:        key,
			Offset:     int(tokenizer.ByteIndex()) - len(data),
			Compressed: len(data) == btcec.PubKeyBytesLenCompressed,
		})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}

	if len(keys) == 0 {
		return nil, ErrNoKeysFound
	}

	return keys, nil
}
