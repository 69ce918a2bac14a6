package recovery

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
)

// ScalarSize is the size of a serialized signature component.
const ScalarSize = 32

// Signature is an ECDSA signature. Both components are in [1, N-1].
type Signature struct {
	R secp256k1.ModNScalar
	S secp256k1.ModNScalar
}

// NewSignature validates and copies the signature components.
func NewSignature(r, s *secp256k1.ModNScalar) (*Signature, error) {
	if r.IsZero() {
		return nil, keys.MakeError(keys.ErrMalformedSignature, "signature R is 0")
	}
	if s.IsZero() {
		return nil, keys.MakeError(keys.ErrMalformedSignature, "signature S is 0")
	}
	sig := &Signature{}
	sig.R.Set(r)
	sig.S.Set(s)
	return sig, nil
}

// SignatureFromBytes parses two big-endian components of at most 32 bytes
// each.  Components that are not less than the group order are rejected
// rather than reduced.
func SignatureFromBytes(r, s []byte) (*Signature, error) {
	if len(r) > ScalarSize || len(s) > ScalarSize {
		str := fmt.Sprintf("signature components are %d and %d bytes, want at most %d",
			len(r), len(s), ScalarSize)
		return nil, keys.MakeError(keys.ErrMalformedSignature, str)
	}

	var rs, ss secp256k1.ModNScalar
	if overflow := rs.SetByteSlice(r); overflow {
		return nil, keys.MakeError(keys.ErrMalformedSignature, "signature R is >= curve order")
	}
	if overflow := ss.SetByteSlice(s); overflow {
		return nil, keys.MakeError(keys.ErrMalformedSignature, "signature S is >= curve order")
	}
	return NewSignature(&rs, &ss)
}

// FromECDSA converts a backend signature.
func FromECDSA(sig *ecdsa.Signature) (*Signature, error) {
	r, s := sig.R(), sig.S()
	return NewSignature(&r, &s)
}

// ToECDSA converts the signature to the backend form.
func (sig *Signature) ToECDSA() *ecdsa.Signature {
	return ecdsa.NewSignature(&sig.R, &sig.S)
}

// Bytes returns the components as left zero-padded 32-byte big-endian
// values.
func (sig *Signature) Bytes() (r, s [ScalarSize]byte) {
	return sig.R.Bytes(), sig.S.Bytes()
}
