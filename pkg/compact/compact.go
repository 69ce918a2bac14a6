// Package compact implements 65-byte recoverable ECDSA signatures.
//
// The encoding is one header byte followed by R and S, each as a 32-byte
// big-endian value left padded with zeros:
//
//	<header><32-byte R><32-byte S>
//
// The header is 27 + recovery index, plus 4 when the signing key's public
// key is serialized compressed:
//
//	27..30  uncompressed key, recovery index 0..3
//	31..34  compressed key, recovery index 0..3
//
// A verifier needs nothing but the digest and the 65 bytes to reconstruct
// the signer's public key.
package compact

import (
	"fmt"

	"github.com/eightyfourcoin/novacoin/pkg/keys"
	"github.com/eightyfourcoin/novacoin/pkg/recovery"
)

const (
	// Size is the size of an encoded compact signature.
	Size = 65

	// HeaderBase is the header value for recovery index 0 with an
	// uncompressed key.
	HeaderBase = 27

	// CompressedFlag is added to the header for compressed keys.
	CompressedFlag = 4

	// MaxHeader is the largest valid header value.
	MaxHeader = HeaderBase + CompressedFlag + recovery.MaxIndex

	// DigestSize is the only digest length compact signatures accept.
	DigestSize = 32
)

// Signature is a decoded compact signature.
type Signature struct {
	Index      int
	Compressed bool
	Sig        recovery.Signature
}

// Header returns the header byte for the signature.
func (s *Signature) Header() byte {
	h := HeaderBase + s.Index
	if s.Compressed {
		h += CompressedFlag
	}
	return byte(h)
}

// Bytes encodes the signature into its 65-byte wire form.
func (s *Signature) Bytes() []byte {
	var b [Size]byte
	b[0] = s.Header()
	r, sv := s.Sig.Bytes()
	copy(b[1:33], r[:])
	copy(b[33:], sv[:])
	return b[:]
}

// Parse decodes a 65-byte compact signature.
func Parse(b []byte) (*Signature, error) {
	if len(b) != Size {
		str := fmt.Sprintf("compact signature must be %d bytes, got %d", Size, len(b))
		return nil, keys.MakeError(keys.ErrMalformedInput, str)
	}

	header := int(b[0])
	if header < HeaderBase || header > MaxHeader {
		str := fmt.Sprintf("compact signature header %d is not in [%d, %d]", header, HeaderBase, MaxHeader)
		return nil, keys.MakeError(keys.ErrMalformedInput, str)
	}

	compressed := header >= HeaderBase+CompressedFlag
	if compressed {
		header -= CompressedFlag
	}

	sig, err := recovery.SignatureFromBytes(b[1:33], b[33:])
	if err != nil {
		return nil, err
	}

	return &Signature{
		Index:      header - HeaderBase,
		Compressed: compressed,
		Sig:        *sig,
	}, nil
}

// Sign signs digest with key and returns the 65-byte compact encoding.
//
// The recovery index is found by recovering a candidate key for each index
// in turn, with the subgroup check enabled, and picking the first that
// matches key's public key.
func Sign(digest []byte, key *keys.PrivateKey) ([]byte, error) {
	if err := checkDigest(digest); err != nil {
		return nil, err
	}

	raw, err := key.SignRaw(digest)
	if err != nil {
		return nil, err
	}

	sig, err := recovery.FromECDSA(raw)
	if err != nil {
		return nil, err
	}

	index, err := findIndex(sig, digest, key.PubKey())
	if err != nil {
		return nil, err
	}

	cs := Signature{Index: index, Compressed: key.IsCompressed(), Sig: *sig}
	return cs.Bytes(), nil
}

// checkDigest rejects digests that are not exactly DigestSize bytes.
func checkDigest(digest []byte) error {
	if len(digest) != DigestSize {
		str := fmt.Sprintf("digest must be %d bytes, got %d", DigestSize, len(digest))
		return keys.MakeError(keys.ErrMalformedInput, str)
	}
	return nil
}

// findIndex returns the first recovery index whose candidate key equals
// pub.
func findIndex(sig *recovery.Signature, digest []byte, pub *keys.PublicKey) (int, error) {
	for i := 0; i <= recovery.MaxIndex; i++ {
		candidate, err := recovery.Recover(sig, digest, i, true)
		if err != nil {
			continue
		}
		if candidate.IsEqual(pub) {
			return i, nil
		}
	}
	return 0, keys.MakeError(keys.ErrRecoveryIndexNotFound, "no recovery index reproduces the signing key")
}

// RecoverFrom reconstructs the signer's public key from a compact signature.
// The compression flag of the result follows the header.
//
// The subgroup check is skipped here; a crafted signature could therefore
// recover a point outside the prime order subgroup.  secp256k1 has
// cofactor 1, so every curve point is in the subgroup today.
func RecoverFrom(digest, sig []byte) (*keys.PublicKey, error) {
	if err := checkDigest(digest); err != nil {
		return nil, err
	}

	cs, err := Parse(sig)
	if err != nil {
		return nil, err
	}

	pub, err := recovery.Recover(&cs.Sig, digest, cs.Index, false)
	if err != nil {
		return nil, err
	}
	return pub.WithCompression(cs.Compressed), nil
}

// Verify reports whether sig is a compact signature over digest by the
// holder of expected.  A signature that fails to recover is reported as an
// error; a signature that recovers a different key is not.
func Verify(digest, sig []byte, expected *keys.PublicKey) (bool, error) {
	pub, err := RecoverFrom(digest, sig)
	if err != nil {
		return false, err
	}
	return pub.IsEqual(expected), nil
}
