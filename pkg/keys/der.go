package keys

import (
	"bytes"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const ecPrivKeyVersion = 1

// oidNamedCurveSecp256k1 is the SEC2 object identifier 1.3.132.0.10.
var oidNamedCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

// oidPrimeField is the X9.62 prime-field field type 1.2.840.10045.1.1.
var oidPrimeField = asn1.ObjectIdentifier{1, 2, 840, 10045, 1, 1}

// ecDomainParameters is the SEC1 SpecifiedECDomain structure some encoders
// write in place of a named curve.
type ecDomainParameters struct {
	Version  int
	FieldID  ecFieldID
	Curve    ecCurve
	Base     []byte
	Order    *big.Int
	Cofactor *big.Int `asn1:"optional"`
}

type ecFieldID struct {
	FieldType asn1.ObjectIdentifier
	Prime     *big.Int
}

type ecCurve struct {
	A    []byte
	B    []byte
	Seed asn1.BitString `asn1:"optional"`
}

// ecPrivateKey is the SEC1 ECPrivateKey structure (RFC 5915) as written.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// ecPrivateKeyIn is the same structure as read.  Parameters are kept raw so
// keys carrying explicit curve parameters instead of a named curve still
// parse.
type ecPrivateKeyIn struct {
	Version    int
	PrivateKey []byte
	Parameters asn1.RawValue  `asn1:"optional,explicit,tag:0"`
	PublicKey  asn1.BitString `asn1:"optional,explicit,tag:1"`
}

// MarshalDER encodes the key as a SEC1 ECPrivateKey with a named curve and
// the public key in the form selected by the compression flag.
func (k *PrivateKey) MarshalDER() ([]byte, error) {
	if k == nil || k.key == nil || k.key.Key.IsZero() {
		return nil, MakeError(ErrInvalidPrivateKey, "private key is not set")
	}
	secret, _ := k.Secret()
	defer clear(secret[:])

	pub := k.PubKey().Bytes()
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       ecPrivKeyVersion,
		PrivateKey:    secret[:],
		NamedCurveOID: oidNamedCurveSecp256k1,
		PublicKey:     asn1.BitString{Bytes: pub, BitLength: 8 * len(pub)},
	})
	if err != nil {
		return nil, Error{Err: ErrInvalidDER, Description: fmt.Sprintf("failed to marshal private key: %v", err)}
	}
	return der, nil
}

// PrivateKeyFromDER decodes a SEC1 ECPrivateKey.  When the encoding carries a
// public key it must match the secret, and its length selects the
// compression flag.
func PrivateKeyFromDER(der []byte) (*PrivateKey, error) {
	var in ecPrivateKeyIn
	rest, err := asn1.Unmarshal(der, &in)
	if err != nil {
		return nil, Error{Err: ErrInvalidDER, Description: fmt.Sprintf("failed to parse private key: %v", err)}
	}
	defer clear(in.PrivateKey)

	if len(rest) != 0 {
		return nil, MakeError(ErrInvalidDER, "trailing data after private key")
	}
	if in.Version != ecPrivKeyVersion {
		str := fmt.Sprintf("unknown private key version %d", in.Version)
		return nil, MakeError(ErrInvalidDER, str)
	}
	if len(in.PrivateKey) > SecretSize {
		str := fmt.Sprintf("private key is %d bytes, want at most %d", len(in.PrivateKey), SecretSize)
		return nil, MakeError(ErrInvalidDER, str)
	}
	if err := checkCurveParameters(in.Parameters); err != nil {
		return nil, err
	}

	var secret [SecretSize]byte
	defer clear(secret[:])
	copy(secret[SecretSize-len(in.PrivateKey):], in.PrivateKey)

	compressed := len(in.PublicKey.Bytes) == CompressedSize
	key, err := PrivateKeyFromSecret(secret[:], compressed)
	if err != nil {
		return nil, Error{Err: ErrInvalidDER, Description: err.Error()}
	}

	if len(in.PublicKey.Bytes) != 0 {
		pub, err := secp256k1.ParsePubKey(in.PublicKey.Bytes)
		if err != nil || !pub.IsEqual(key.key.PubKey()) {
			key.Zero()
			return nil, MakeError(ErrInvalidDER, "public key does not match private key")
		}
	}

	return key, nil
}

// checkCurveParameters accepts absent parameters, the secp256k1 named curve
// or explicit parameters that describe secp256k1.
func checkCurveParameters(params asn1.RawValue) error {
	if len(params.Bytes) == 0 {
		return nil
	}

	var oid asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(params.Bytes, &oid); err != nil {
		if bytes.HasPrefix(params.Bytes, []byte{0x30}) {
			return checkExplicitParameters(params.Bytes)
		}
		return MakeError(ErrInvalidDER, "unrecognized curve parameters")
	}
	if !oid.Equal(oidNamedCurveSecp256k1) {
		return MakeError(ErrInvalidDER, fmt.Sprintf("unsupported named curve %v", oid))
	}
	return nil
}

// checkExplicitParameters compares a SpecifiedECDomain against secp256k1:
// the field prime, a = 0, b = 7, the generator, the order and, when
// present, a cofactor of 1.
func checkExplicitParameters(der []byte) error {
	var domain ecDomainParameters
	rest, err := asn1.Unmarshal(der, &domain)
	if err != nil || len(rest) != 0 {
		return MakeError(ErrInvalidDER, "malformed explicit curve parameters")
	}

	curve := secp256k1.Params()
	mismatch := func(what string) error {
		return MakeError(ErrInvalidDER, fmt.Sprintf("explicit curve parameters: %s is not secp256k1", what))
	}

	if !domain.FieldID.FieldType.Equal(oidPrimeField) {
		return mismatch("field type")
	}
	if domain.FieldID.Prime == nil || domain.FieldID.Prime.Cmp(curve.P) != 0 {
		return mismatch("field prime")
	}
	if new(big.Int).SetBytes(domain.Curve.A).Sign() != 0 {
		return mismatch("coefficient a")
	}
	if new(big.Int).SetBytes(domain.Curve.B).Cmp(big.NewInt(7)) != 0 {
		return mismatch("coefficient b")
	}
	if domain.Order == nil || domain.Order.Cmp(curve.N) != 0 {
		return mismatch("order")
	}
	if domain.Cofactor != nil && domain.Cofactor.Cmp(big.NewInt(1)) != 0 {
		return mismatch("cofactor")
	}

	base, err := secp256k1.ParsePubKey(domain.Base)
	if err != nil || base.X().Cmp(curve.Gx) != 0 || base.Y().Cmp(curve.Gy) != 0 {
		return mismatch("generator")
	}
	return nil
}
