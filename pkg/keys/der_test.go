package keys

import (
	"encoding/asn1"
	"errors"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDERRoundTrip(t *testing.T) {
	for _, compressed := range []bool{true, false} {
		key, err := PrivateKeyFromSecret(testSecret("der"), compressed)
		require.NoError(t, err)

		der, err := key.MarshalDER()
		require.NoError(t, err)
		assert.Equal(t, byte(0x30), der[0])

		parsed, err := PrivateKeyFromDER(der)
		require.NoError(t, err)

		want, _ := key.Secret()
		got, gotCompressed := parsed.Secret()
		assert.Equal(t, want, got)
		assert.Equal(t, compressed, gotCompressed)
	}
}

func TestDERWithoutOptionalFields(t *testing.T) {
	// A leading zero byte dropped by the encoder is restored.
	secret := testSecret("bare")
	secret[0] = 0
	der, err := asn1.Marshal(ecPrivateKey{Version: 1, PrivateKey: secret[1:]})
	require.NoError(t, err)

	key, err := PrivateKeyFromDER(der)
	require.NoError(t, err)
	got, compressed := key.Secret()
	assert.Equal(t, secret, got[:])
	assert.False(t, compressed)
}

func TestDERRejects(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("reject"), true)
	require.NoError(t, err)
	other, err := PrivateKeyFromSecret(testSecret("other"), true)
	require.NoError(t, err)

	secret, _ := key.Secret()
	pub := key.PubKey().Bytes()
	otherPub := other.PubKey().Bytes()

	valid, err := key.MarshalDER()
	require.NoError(t, err)

	marshal := func(k ecPrivateKey) []byte {
		der, err := asn1.Marshal(k)
		require.NoError(t, err)
		return der
	}

	tests := []struct {
		name string
		der  []byte
	}{
		{"empty", nil},
		{"garbage", []byte{0x01, 0x02, 0x03}},
		{"trailing data", append(valid, 0x00)},
		{"truncated", valid[:len(valid)-1]},
		{"version", marshal(ecPrivateKey{
			Version:    2,
			PrivateKey: secret[:],
		})},
		{"long secret", marshal(ecPrivateKey{
			Version:    1,
			PrivateKey: append([]byte{0x01}, secret[:]...),
		})},
		{"zero secret", marshal(ecPrivateKey{
			Version:    1,
			PrivateKey: make([]byte, SecretSize),
		})},
		{"wrong curve", marshal(ecPrivateKey{
			Version:       1,
			PrivateKey:    secret[:],
			NamedCurveOID: asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7},
		})},
		{"mismatched public key", marshal(ecPrivateKey{
			Version:       1,
			PrivateKey:    secret[:],
			NamedCurveOID: oidNamedCurveSecp256k1,
			PublicKey:     asn1.BitString{Bytes: otherPub, BitLength: 8 * len(otherPub)},
		})},
		{"invalid public key", marshal(ecPrivateKey{
			Version:    1,
			PrivateKey: secret[:],
			PublicKey:  asn1.BitString{Bytes: pub[1:], BitLength: 8 * (len(pub) - 1)},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrivateKeyFromDER(tt.der)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDER), "got %v", err)
		})
	}
}

func TestMarshalDERZeroedKey(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("zeroed"), true)
	require.NoError(t, err)
	key.Zero()

	_, err = key.MarshalDER()
	assert.True(t, errors.Is(err, ErrInvalidPrivateKey))
}

// ecPrivateKeyExplicit writes SpecifiedECDomain parameters in place of the
// named curve.
type ecPrivateKeyExplicit struct {
	Version    int
	PrivateKey []byte
	Parameters ecDomainParameters `asn1:"explicit,tag:0"`
	PublicKey  asn1.BitString     `asn1:"optional,explicit,tag:1"`
}

func secp256k1Domain() ecDomainParameters {
	curve := secp256k1.Params()
	b := make([]byte, 32)
	b[31] = 7
	base := append([]byte{0x04}, curve.Gx.FillBytes(make([]byte, 32))...)
	base = append(base, curve.Gy.FillBytes(make([]byte, 32))...)
	return ecDomainParameters{
		Version:  1,
		FieldID:  ecFieldID{FieldType: oidPrimeField, Prime: new(big.Int).Set(curve.P)},
		Curve:    ecCurve{A: make([]byte, 32), B: b},
		Base:     base,
		Order:    new(big.Int).Set(curve.N),
		Cofactor: big.NewInt(1),
	}
}

func TestDERExplicitParameters(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("explicit"), true)
	require.NoError(t, err)
	secret, _ := key.Secret()
	pub := key.PubKey().Bytes()

	marshal := func(domain ecDomainParameters) []byte {
		der, err := asn1.Marshal(ecPrivateKeyExplicit{
			Version:    1,
			PrivateKey: secret[:],
			Parameters: domain,
			PublicKey:  asn1.BitString{Bytes: pub, BitLength: 8 * len(pub)},
		})
		require.NoError(t, err)
		return der
	}

	parsed, err := PrivateKeyFromDER(marshal(secp256k1Domain()))
	require.NoError(t, err)
	assert.True(t, parsed.PubKey().IsEqual(key.PubKey()))

	tests := []struct {
		name   string
		modify func(d *ecDomainParameters)
	}{
		{"field type", func(d *ecDomainParameters) { d.FieldID.FieldType = asn1.ObjectIdentifier{1, 2, 840, 10045, 1, 2} }},
		{"prime", func(d *ecDomainParameters) { d.FieldID.Prime.Sub(d.FieldID.Prime, big.NewInt(2)) }},
		{"a", func(d *ecDomainParameters) { d.Curve.A[31] = 1 }},
		{"b", func(d *ecDomainParameters) { d.Curve.B[31] = 3 }},
		{"order", func(d *ecDomainParameters) { d.Order.Sub(d.Order, big.NewInt(1)) }},
		{"cofactor", func(d *ecDomainParameters) { d.Cofactor = big.NewInt(2) }},
		{"generator", func(d *ecDomainParameters) { d.Base = key.PubKey().SerializeUncompressed() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := secp256k1Domain()
			tt.modify(&domain)
			_, err := PrivateKeyFromDER(marshal(domain))
			assert.True(t, errors.Is(err, ErrInvalidDER), "got %v", err)
		})
	}
}
