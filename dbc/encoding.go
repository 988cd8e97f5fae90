package dbc

import (
	"io"

	"github.com/lightningnetwork/lnd/tlv"
	"github.com/lnpbp/lnpbp/scripts"
)

func CommitmentTypeEncoder(w io.Writer, val any, buf *[8]byte) error {
	if t, ok := val.(*CommitmentType); ok {
		return tlv.EUint8T(w, uint8(*t), buf)
	}
	return tlv.NewTypeForEncodingErr(val, "CommitmentType")
}

func CommitmentTypeDecoder(r io.Reader, val any, buf *[8]byte,
	l uint64) error {

	if typ, ok := val.(*CommitmentType); ok {
		var t uint8
		if err := tlv.DUint8(r, &t, buf, l); err != nil {
			return err
		}
		*typ = CommitmentType(t)
		return nil
	}
	return tlv.NewTypeForDecodingErr(val, "CommitmentType", l, 1)
}

func LockScriptEncoder(w io.Writer, val any, buf *[8]byte) error {
	if t, ok := val.(*scripts.LockScript); ok {
		b := []byte(*t)
		return tlv.EVarBytes(w, &b, buf)
	}
	return tlv.NewTypeForEncodingErr(val, "scripts.LockScript")
}

func LockScriptDecoder(r io.Reader, val any, buf *[8]byte, l uint64) error {
	if typ, ok := val.(*scripts.LockScript); ok {
		// Scripts are bounded by the maximum script size enforced by
		// consensus for witness scripts.
		if l > maxScriptSize {
			return tlv.ErrRecordTooLarge
		}

		var b []byte
		if err := tlv.DVarBytes(r, &b, buf, l); err != nil {
			return err
		}
		*typ = b
		return nil
	}
	return tlv.NewTypeForDecodingErr(val, "scripts.LockScript", l, l)
}
