package stealth

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/eightyfourcoin/novacoin/internal/curve"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
)

// EncodedSize is the size of an encoded Address or Variant: two compressed
// points.
const EncodedSize = 2 * keys.CompressedSize

// Address is a recipient's published identity: the scan public key L and
// the spend public key H.
type Address struct {
	Scan  *keys.PublicKey
	Spend *keys.PublicKey
}

// ParseAddress decodes scan || spend, each a compressed point.
func ParseAddress(b []byte) (*Address, error) {
	scan, spend, err := parsePointPair(b)
	if err != nil {
		return nil, err
	}
	return &Address{Scan: scan, Spend: spend}, nil
}

// Bytes encodes the address as scan || spend.
func (a *Address) Bytes() []byte {
	return append(a.Scan.SerializeCompressed(), a.Spend.SerializeCompressed()...)
}

// Variant is the per-payment output computed by a sender: the ephemeral key
// R published with the payment and the one-time key P that receives it.
type Variant struct {
	Ephemeral *keys.PublicKey
	OneTime   *keys.PublicKey
}

// ParseVariant decodes R || P, each a compressed point.
func ParseVariant(b []byte) (*Variant, error) {
	r, p, err := parsePointPair(b)
	if err != nil {
		return nil, err
	}
	return &Variant{Ephemeral: r, OneTime: p}, nil
}

// Bytes encodes the variant as R || P.
func (v *Variant) Bytes() []byte {
	return append(v.Ephemeral.SerializeCompressed(), v.OneTime.SerializeCompressed()...)
}

func parsePointPair(b []byte) (*keys.PublicKey, *keys.PublicKey, error) {
	if len(b) != EncodedSize {
		str := fmt.Sprintf("encoded key pair must be %d bytes, got %d", EncodedSize, len(b))
		return nil, nil, keys.MakeError(keys.ErrMalformedInput, str)
	}
	first, err := keys.ParsePublicKey(b[:keys.CompressedSize])
	if err != nil {
		return nil, nil, err
	}
	second, err := keys.ParsePublicKey(b[keys.CompressedSize:])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// DeriveVariant computes a fresh variant for addr using crypto/rand for the
// ephemeral key.
func DeriveVariant(addr *Address) (*Variant, error) {
	return DeriveVariantFromRand(rand.Reader, addr)
}

// DeriveVariantFromRand computes a variant for addr:
//
//	R = r*G
//	c = Hash160(r*L)
//	P = c*G + H
//
// The ephemeral secret r is drawn from rng and cleared before returning.
// A one-time key at infinity is reported as ErrInfinitePoint; drawing a new
// ephemeral key is left to the caller.
func DeriveVariantFromRand(rng io.Reader, addr *Address) (*Variant, error) {
	L, err := curve.FromPublicKey(addr.Scan)
	if err != nil {
		return nil, err
	}
	H, err := curve.FromPublicKey(addr.Spend)
	if err != nil {
		return nil, err
	}

	eph, err := keys.GeneratePrivateKeyFromRand(rng, true)
	if err != nil {
		return nil, err
	}
	defer eph.Zero()

	r := eph.Scalar()
	defer r.Zero()

	c, err := sharedScalar(L.Mul(&r))
	if err != nil {
		return nil, err
	}
	defer c.Zero()

	P := curve.MulGenAdd(&c, H)
	if P.IsInfinity() {
		return nil, keys.MakeError(keys.ErrInfinitePoint, "one-time key is the point at infinity")
	}
	oneTime, err := P.PublicKey(true)
	if err != nil {
		return nil, err
	}

	return &Variant{Ephemeral: eph.PubKey(), OneTime: oneTime}, nil
}

// CheckOwnership tests whether the variant (R, P) was derived for the
// recipient holding scan secret l and spend secret h, with H = h*G.  When it
// was, the one-time private key c + h is returned with owned set.  A variant
// for somebody else is reported with owned false and a nil error.
func CheckOwnership(R, H, P *keys.PublicKey, scan, spend *keys.PrivateKey) (key *keys.PrivateKey, owned bool, err error) {
	pointR, err := curve.FromPublicKey(R)
	if err != nil {
		return nil, false, fmt.Errorf("ephemeral key: %w", err)
	}
	pointH, err := curve.FromPublicKey(H)
	if err != nil {
		return nil, false, fmt.Errorf("spend key: %w", err)
	}
	pointP, err := curve.FromPublicKey(P)
	if err != nil {
		return nil, false, fmt.Errorf("one-time key: %w", err)
	}

	l := scan.Scalar()
	defer l.Zero()

	c, err := sharedScalar(pointR.Mul(&l))
	if err != nil {
		return nil, false, err
	}
	defer c.Zero()

	expected := curve.MulGenAdd(&c, pointH)
	if expected.IsInfinity() || !expected.Equal(pointP) {
		return nil, false, nil
	}

	h := spend.Scalar()
	defer h.Zero()

	var p secp256k1.ModNScalar
	defer p.Zero()
	p.Add2(&c, &h)

	key, err = keys.NewPrivateKey(&p, true)
	if err != nil {
		return nil, false, keys.MakeError(keys.ErrDerivation, "one-time private key is zero")
	}
	return key, true, nil
}

// sharedScalar hashes the compressed encoding of the shared point with
// Hash160.  The 20 digest bytes are read as a little-endian integer, the
// byte order of the uint160 the reference wallet stores them in.
func sharedScalar(shared *curve.Point) (secp256k1.ModNScalar, error) {
	var c secp256k1.ModNScalar

	b, err := shared.SerializeCompressed()
	if err != nil {
		return c, err
	}
	digest := curve.Hash160(b)

	var buf [32]byte
	defer clear(buf[:])
	for i, v := range digest {
		buf[len(buf)-1-i] = v
	}
	c.SetBytes(&buf)
	return c, nil
}
