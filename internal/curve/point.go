// Package curve wraps the secp256k1 group arithmetic used by public key
// recovery and stealth derivation.
//
// Points are kept in affine form (Z = 1) after every operation, with the
// point at infinity held as the zero JacobianPoint, so equality and
// serialization never need a field inversion of their own.
package curve

import (
	"crypto/sha256"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
	"golang.org/x/crypto/ripemd160" //nolint:gosec // RIPEMD160 is required by the Hash160 construction
)

var (
	// Order is the order N of the group generated by G.
	Order = new(big.Int).Set(secp256k1.Params().N)

	// FieldPrime is the prime P of the underlying field.
	FieldPrime = new(big.Int).Set(secp256k1.Params().P)

	// BitSize is the bit length of the group order.
	BitSize = secp256k1.Params().BitSize
)

// Point is an element of the secp256k1 group, possibly the point at
// infinity.
type Point struct {
	j secp256k1.JacobianPoint
}

// Infinity returns the point at infinity.
func Infinity() *Point {
	return &Point{}
}

// Generator returns the group generator G.
func Generator() *Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	return BaseMul(&one)
}

// FromPublicKey converts a public key into a point.  The key must be on the
// curve.
func FromPublicKey(pub *keys.PublicKey) (*Point, error) {
	if !pub.IsValid() {
		return nil, keys.MakeError(keys.ErrInvalidPoint, "public key is not on the curve")
	}
	p := &Point{}
	pub.ToSecp256k1().AsJacobian(&p.j)
	return p, nil
}

// Parse decodes a compressed or uncompressed point.  The encoding has no
// representation for infinity, so the result is always a curve point.
func Parse(b []byte) (*Point, error) {
	pub, err := keys.ParsePublicKey(b)
	if err != nil {
		return nil, err
	}
	return FromPublicKey(pub)
}

// Decompress returns the point with the given x coordinate whose y
// coordinate has the requested parity.  It reports false when x is not the
// x coordinate of any curve point.
func Decompress(x *secp256k1.FieldVal, odd bool) (*Point, bool) {
	var y secp256k1.FieldVal
	if !secp256k1.DecompressY(x, odd, &y) {
		return nil, false
	}
	p := &Point{}
	p.j.X.Set(x).Normalize()
	p.j.Y.Set(&y).Normalize()
	p.j.Z.SetInt(1)
	return p, true
}

// BaseMul returns k*G.
func BaseMul(k *secp256k1.ModNScalar) *Point {
	p := &Point{}
	secp256k1.ScalarBaseMultNonConst(k, &p.j)
	p.normalize()
	return p
}

// Mul returns k*p.
func (p *Point) Mul(k *secp256k1.ModNScalar) *Point {
	if p.IsInfinity() {
		return Infinity()
	}
	r := &Point{}
	secp256k1.ScalarMultNonConst(k, &p.j, &r.j)
	r.normalize()
	return r
}

// Add returns p+q.
func (p *Point) Add(q *Point) *Point {
	r := &Point{}
	secp256k1.AddNonConst(&p.j, &q.j, &r.j)
	r.normalize()
	return r
}

// MulGenAdd returns m*G + q.
func MulGenAdd(m *secp256k1.ModNScalar, q *Point) *Point {
	return BaseMul(m).Add(q)
}

// IsInfinity reports whether p is the point at infinity.
func (p *Point) IsInfinity() bool {
	return isInfinity(&p.j)
}

// Equal reports whether p and q are the same group element.
func (p *Point) Equal(q *Point) bool {
	pInf, qInf := p.IsInfinity(), q.IsInfinity()
	if pInf || qInf {
		return pInf == qInf
	}
	return p.j.X.Equals(&q.j.X) && p.j.Y.Equals(&q.j.Y)
}

// SerializeCompressed encodes p as 33 bytes.
func (p *Point) SerializeCompressed() ([]byte, error) {
	if p.IsInfinity() {
		return nil, keys.MakeError(keys.ErrInfinitePoint, "point at infinity has no encoding")
	}
	return secp256k1.NewPublicKey(&p.j.X, &p.j.Y).SerializeCompressed(), nil
}

// PublicKey converts p into a public key with the given encoding preference.
func (p *Point) PublicKey(compressed bool) (*keys.PublicKey, error) {
	if p.IsInfinity() {
		return nil, keys.MakeError(keys.ErrInfinitePoint, "point at infinity is not a public key")
	}
	var x, y secp256k1.FieldVal
	x.Set(&p.j.X)
	y.Set(&p.j.Y)
	return keys.NewPublicKey(secp256k1.NewPublicKey(&x, &y), compressed), nil
}

func (p *Point) normalize() {
	if isInfinity(&p.j) {
		p.j = secp256k1.JacobianPoint{}
		return
	}
	p.j.ToAffine()
}

func isInfinity(j *secp256k1.JacobianPoint) bool {
	return (j.X.IsZero() && j.Y.IsZero()) || j.Z.IsZero()
}

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New() //nolint:gosec // see import
	h.Write(sha[:])
	return h.Sum(nil)
}
