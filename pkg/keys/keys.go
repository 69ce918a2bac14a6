// Package keys holds secp256k1 private and public keys, their encodings and
// the error kinds shared by the signature and stealth packages.
//
// Secrets are kept as fixed-size scalars and are overwritten by Zero.  Any
// method that hands out secret bytes returns a copy the caller must clear.
package keys

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SecretSize is the size of a serialized private scalar.
	SecretSize = 32

	// CompressedSize is the size of a compressed public key.
	CompressedSize = 33

	// UncompressedSize is the size of an uncompressed public key.
	UncompressedSize = 65
)

// PrivateKey is a secp256k1 secret scalar together with the encoding
// preference of its public key.  A PrivateKey always holds a secret in
// [1, N-1]; the only way to obtain one is through the constructors below.
type PrivateKey struct {
	key        *secp256k1.PrivateKey
	compressed bool
}

// PublicKey is a secp256k1 point together with the encoding preference used
// when it is serialized.
type PublicKey struct {
	key        *secp256k1.PublicKey
	compressed bool
}

// GeneratePrivateKey returns a new private key drawn from crypto/rand.
func GeneratePrivateKey(compressed bool) (*PrivateKey, error) {
	return GeneratePrivateKeyFromRand(rand.Reader, compressed)
}

// GeneratePrivateKeyFromRand returns a new private key drawn from the given
// source, which must be cryptographically secure outside of tests.
func GeneratePrivateKeyFromRand(r io.Reader, compressed bool) (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKeyFromRand(r)
	if err != nil {
		return nil, Error{Err: ErrDerivation, Description: fmt.Sprintf("failed to generate private key: %v", err)}
	}
	return &PrivateKey{key: key, compressed: compressed}, nil
}

// PrivateKeyFromSecret builds a private key from a 32-byte big-endian
// secret.  The secret must lie in [1, N-1]; it is never reduced silently.
func PrivateKeyFromSecret(secret []byte, compressed bool) (*PrivateKey, error) {
	if len(secret) != SecretSize {
		str := fmt.Sprintf("secret must be %d bytes, got %d", SecretSize, len(secret))
		return nil, MakeError(ErrInvalidPrivateKey, str)
	}

	var k secp256k1.ModNScalar
	defer k.Zero()
	if overflow := k.SetByteSlice(secret); overflow {
		return nil, MakeError(ErrInvalidPrivateKey, "secret is not less than the group order")
	}
	return NewPrivateKey(&k, compressed)
}

// NewPrivateKey copies the given scalar into a new private key.  The caller
// keeps ownership of k and is responsible for zeroing it.
func NewPrivateKey(k *secp256k1.ModNScalar, compressed bool) (*PrivateKey, error) {
	if k.IsZero() {
		return nil, MakeError(ErrInvalidPrivateKey, "secret is zero")
	}
	// secp256k1.NewPrivateKey copies the scalar.
	return &PrivateKey{key: secp256k1.NewPrivateKey(k), compressed: compressed}, nil
}

// Secret returns the 32-byte big-endian secret and the compression flag.
// The returned array is a copy the caller must clear when done with it.
func (k *PrivateKey) Secret() ([SecretSize]byte, bool) {
	return k.key.Key.Bytes(), k.compressed
}

// Scalar returns a copy of the secret scalar.
func (k *PrivateKey) Scalar() secp256k1.ModNScalar {
	return k.key.Key
}

// IsCompressed reports whether the public key serializes in compressed form.
func (k *PrivateKey) IsCompressed() bool {
	return k.compressed
}

// SetCompressed switches the public key encoding to the compressed form.
func (k *PrivateKey) SetCompressed() {
	k.compressed = true
}

// PubKey derives the public key secret*G.
func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{key: k.key.PubKey(), compressed: k.compressed}
}

// IsValid re-derives the public key from a fresh copy of the secret and
// checks that it matches the key's own public key.
func (k *PrivateKey) IsValid() bool {
	if k == nil || k.key == nil || k.key.Key.IsZero() {
		return false
	}
	secret, compressed := k.Secret()
	defer clear(secret[:])

	other, err := PrivateKeyFromSecret(secret[:], compressed)
	if err != nil {
		return false
	}
	defer other.Zero()

	return other.PubKey().IsEqual(k.PubKey())
}

// Clone returns an independent copy of the key.  Both keys must be zeroed
// separately.
func (k *PrivateKey) Clone() *PrivateKey {
	owned := k.key.Key
	defer owned.Zero()
	return &PrivateKey{key: secp256k1.NewPrivateKey(&owned), compressed: k.compressed}
}

// Zero overwrites the secret.  The key can not be used afterwards.
func (k *PrivateKey) Zero() {
	if k == nil || k.key == nil {
		return
	}
	k.key.Zero()
}

// SignRaw produces a raw ECDSA signature over a digest using RFC6979
// nonces.  The returned signature always has a low S value.
func (k *PrivateKey) SignRaw(digest []byte) (*ecdsa.Signature, error) {
	if k == nil || k.key == nil || k.key.Key.IsZero() {
		return nil, MakeError(ErrSigningBackend, "private key is not set")
	}
	if len(digest) == 0 {
		return nil, MakeError(ErrMalformedInput, "digest is empty")
	}
	return ecdsa.Sign(k.key, digest), nil
}

// Sign produces a DER encoded ECDSA signature over a digest.
func (k *PrivateKey) Sign(digest []byte) ([]byte, error) {
	sig, err := k.SignRaw(digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// NewPublicKey wraps a backend public key.
func NewPublicKey(key *secp256k1.PublicKey, compressed bool) *PublicKey {
	return &PublicKey{key: key, compressed: compressed}
}

// ParsePublicKey decodes a 33-byte compressed or 65-byte uncompressed public
// key.  The compression flag follows the encoding.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, Error{Err: ErrInvalidPoint, Description: fmt.Sprintf("invalid public key: %v", err)}
	}
	return &PublicKey{key: key, compressed: len(b) == CompressedSize}, nil
}

// ToSecp256k1 returns the backend public key.
func (p *PublicKey) ToSecp256k1() *secp256k1.PublicKey {
	return p.key
}

// IsCompressed reports whether Bytes returns the compressed form.
func (p *PublicKey) IsCompressed() bool {
	return p.compressed
}

// WithCompression returns a copy of the key with the given encoding
// preference.
func (p *PublicKey) WithCompression(compressed bool) *PublicKey {
	return &PublicKey{key: p.key, compressed: compressed}
}

// Bytes serializes the key in the form selected by its compression flag.
func (p *PublicKey) Bytes() []byte {
	if p.compressed {
		return p.key.SerializeCompressed()
	}
	return p.key.SerializeUncompressed()
}

// SerializeCompressed serializes the key as 33 bytes.
func (p *PublicKey) SerializeCompressed() []byte {
	return p.key.SerializeCompressed()
}

// SerializeUncompressed serializes the key as 65 bytes.
func (p *PublicKey) SerializeUncompressed() []byte {
	return p.key.SerializeUncompressed()
}

// IsEqual compares the underlying points.  The compression flag is a
// presentation detail and does not take part in the comparison.
func (p *PublicKey) IsEqual(other *PublicKey) bool {
	if p == nil || other == nil || p.key == nil || other.key == nil {
		return false
	}
	return p.key.IsEqual(other.key)
}

// IsValid reports whether the key is a point on the curve.  The point at
// infinity has no affine encoding and never passes.
func (p *PublicKey) IsValid() bool {
	return p != nil && p.key != nil && p.key.IsOnCurve()
}

// Verify checks a DER encoded ECDSA signature over a digest.
func (p *PublicKey) Verify(digest, der []byte) bool {
	if !p.IsValid() {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return false
	}
	return sig.Verify(digest, p.key)
}
