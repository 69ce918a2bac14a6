// Package recovery reconstructs the public key that produced an ECDSA
// signature over secp256k1, following SEC1 section 4.1.6.
//
// Given the following parameters:
//
//	G = curve generator
//	N = group order
//	P = field prime
//	e = message digest as an integer
//	r, s = signature
//	R = random point used when signing whose x coordinate reduced mod N is r
//
// the signer's key is Q = r^-1(sR - eG).  Because r is the x coordinate of
// R reduced modulo N, R can be any of (r, y), (r, -y), (r+N, y) and
// (r+N, -y).  A recovery index in 0..3 picks one of them: bit 0 is the
// parity of y and bit 1 selects r+N.
package recovery

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/eightyfourcoin/novacoin/internal/curve"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
)

// MaxIndex is the largest valid recovery index.
const MaxIndex = 3

// Recover returns the public key that produced sig over digest when the
// signing nonce point is the candidate selected by index.  When verify is
// set the candidate point is additionally checked to be in the prime order
// subgroup.
//
// The returned key is uncompressed; the encoding is up to the caller.
// Recover does not modify sig or digest.
func Recover(sig *Signature, digest []byte, index int, verify bool) (*keys.PublicKey, error) {
	if index < 0 || index > MaxIndex {
		str := fmt.Sprintf("recovery index %d is not in [0, %d]", index, MaxIndex)
		return nil, keys.MakeError(keys.ErrMalformedInput, str)
	}
	if len(digest) == 0 {
		return nil, keys.MakeError(keys.ErrMalformedInput, "digest is empty")
	}
	if sig.R.IsZero() || sig.S.IsZero() {
		return nil, keys.MakeError(keys.ErrMalformedSignature, "signature component is 0")
	}

	// x = r + i*N, which must be a field element.
	rBytes := sig.R.Bytes()
	x := new(big.Int).SetBytes(rBytes[:])
	if index/2 == 1 {
		x.Add(x, curve.Order)
	}
	if x.Cmp(curve.FieldPrime) >= 0 {
		str := fmt.Sprintf("candidate x coordinate for index %d is not less than the field prime", index)
		return nil, keys.MakeError(keys.ErrOutOfFieldRange, str)
	}

	var fx secp256k1.FieldVal
	fx.SetByteSlice(x.Bytes())
	R, ok := curve.Decompress(&fx, index%2 == 1)
	if !ok {
		str := fmt.Sprintf("candidate x coordinate for index %d is not on the curve", index)
		return nil, keys.MakeError(keys.ErrInvalidPoint, str)
	}

	// N*R = O.  N is 0 as a scalar, so check (N-1)*R + R instead.
	if verify {
		var minusOne secp256k1.ModNScalar
		minusOne.SetInt(1).Negate()
		if !R.Mul(&minusOne).Add(R).IsInfinity() {
			return nil, keys.MakeError(keys.ErrCofactorCheckFailed, "candidate point is not in the prime order subgroup")
		}
	}

	e := digestToScalar(digest)

	// Q = (-e * r^-1)G + (s * r^-1)R
	w := new(secp256k1.ModNScalar).InverseValNonConst(&sig.R)
	u1 := new(secp256k1.ModNScalar).Mul2(&e, w).Negate()
	u2 := new(secp256k1.ModNScalar).Mul2(&sig.S, w)

	Q := curve.MulGenAdd(u1, R.Mul(u2))
	if Q.IsInfinity() {
		return nil, keys.MakeError(keys.ErrInfinitePoint, "recovered public key is the point at infinity")
	}
	return Q.PublicKey(false)
}

// digestToScalar interprets the digest as a big-endian integer reduced mod
// N.  A digest wider than the group order is first shifted right by
// 8 - (bits mod 8), the same truncation OpenSSL applies.
func digestToScalar(digest []byte) secp256k1.ModNScalar {
	e := new(big.Int).SetBytes(digest)
	if 8*len(digest) > curve.BitSize {
		e.Rsh(e, uint(8-(curve.BitSize&7)))
	}
	e.Mod(e, curve.Order)

	var buf [32]byte
	e.FillBytes(buf[:])
	var s secp256k1.ModNScalar
	s.SetBytes(&buf)
	return s
}
