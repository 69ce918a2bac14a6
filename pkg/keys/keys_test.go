package keys

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	orderHex     = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
)

func testSecret(seed string) []byte {
	h := sha256.Sum256([]byte(seed))
	return h[:]
}

func TestPrivateKeyFromSecret(t *testing.T) {
	one := make([]byte, SecretSize)
	one[SecretSize-1] = 1

	key, err := PrivateKeyFromSecret(one, true)
	require.NoError(t, err)
	assert.Equal(t, generatorHex, hex.EncodeToString(key.PubKey().Bytes()))

	secret, compressed := key.Secret()
	assert.Equal(t, one, secret[:])
	assert.True(t, compressed)

	order, _ := hex.DecodeString(orderHex)

	nMinusOne := bytes.Clone(order)
	nMinusOne[SecretSize-1]--
	_, err = PrivateKeyFromSecret(nMinusOne, true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
	}{
		{"zero", make([]byte, SecretSize)},
		{"order", order},
		{"all ones", bytes.Repeat([]byte{0xff}, SecretSize)},
		{"short", make([]byte, SecretSize-1)},
		{"long", make([]byte, SecretSize+1)},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrivateKeyFromSecret(tt.secret, true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPrivateKey))
		})
	}
}

func TestNewPrivateKeyZero(t *testing.T) {
	var zero secp256k1.ModNScalar
	_, err := NewPrivateKey(&zero, true)
	assert.True(t, errors.Is(err, ErrInvalidPrivateKey))
}

func TestCompression(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("compression"), false)
	require.NoError(t, err)

	assert.False(t, key.IsCompressed())
	assert.Len(t, key.PubKey().Bytes(), UncompressedSize)

	key.SetCompressed()
	assert.True(t, key.IsCompressed())
	assert.Len(t, key.PubKey().Bytes(), CompressedSize)

	pub := key.PubKey()
	other := pub.WithCompression(false)
	assert.Len(t, other.Bytes(), UncompressedSize)
	assert.True(t, pub.IsEqual(other), "compression must not affect equality")
	assert.True(t, pub.IsCompressed())
}

func TestParsePublicKey(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("parse"), true)
	require.NoError(t, err)
	pub := key.PubKey()

	compressed, err := ParsePublicKey(pub.SerializeCompressed())
	require.NoError(t, err)
	assert.True(t, compressed.IsCompressed())
	assert.True(t, compressed.IsEqual(pub))

	uncompressed, err := ParsePublicKey(pub.SerializeUncompressed())
	require.NoError(t, err)
	assert.False(t, uncompressed.IsCompressed())
	assert.True(t, uncompressed.IsEqual(pub))
	assert.True(t, uncompressed.IsValid())

	bad := pub.SerializeCompressed()
	bad[0] = 0x07
	_, err = ParsePublicKey(bad)
	assert.True(t, errors.Is(err, ErrInvalidPoint))

	_, err = ParsePublicKey(pub.SerializeCompressed()[:20])
	assert.True(t, errors.Is(err, ErrInvalidPoint))
}

func TestPublicKeyIsValid(t *testing.T) {
	var nilKey *PublicKey
	assert.False(t, nilKey.IsValid())

	var x, y secp256k1.FieldVal
	x.SetInt(1)
	y.SetInt(1)
	assert.False(t, NewPublicKey(secp256k1.NewPublicKey(&x, &y), true).IsValid())
}

func TestPrivateKeyLifecycle(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("lifecycle"), true)
	require.NoError(t, err)
	require.True(t, key.IsValid())

	clone := key.Clone()
	require.True(t, clone.IsValid())
	assert.True(t, clone.PubKey().IsEqual(key.PubKey()))

	clone.Zero()
	assert.False(t, clone.IsValid())
	assert.True(t, key.IsValid(), "zeroing a clone must not touch the original")

	secret, _ := clone.Secret()
	assert.Equal(t, make([]byte, SecretSize), secret[:])

	key.Zero()
	assert.False(t, key.IsValid())

	var nilKey *PrivateKey
	nilKey.Zero()
	assert.False(t, nilKey.IsValid())
}

func TestGeneratePrivateKey(t *testing.T) {
	a, err := GeneratePrivateKey(true)
	require.NoError(t, err)
	b, err := GeneratePrivateKey(true)
	require.NoError(t, err)

	assert.True(t, a.IsValid())
	assert.False(t, a.PubKey().IsEqual(b.PubKey()))

	_, err = GeneratePrivateKeyFromRand(bytes.NewReader(nil), true)
	assert.True(t, errors.Is(err, ErrDerivation))
}

func TestSignVerify(t *testing.T) {
	key, err := PrivateKeyFromSecret(testSecret("sign"), true)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("novacoin"))
	der, err := key.Sign(digest[:])
	require.NoError(t, err)

	assert.True(t, key.PubKey().Verify(digest[:], der))

	other := sha256.Sum256([]byte("other"))
	assert.False(t, key.PubKey().Verify(other[:], der))
	assert.False(t, key.PubKey().Verify(digest[:], der[1:]))

	// RFC6979 nonces make signing deterministic.
	again, err := key.Sign(digest[:])
	require.NoError(t, err)
	assert.Equal(t, der, again)

	_, err = key.SignRaw(nil)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	key.Zero()
	_, err = key.SignRaw(digest[:])
	assert.True(t, errors.Is(err, ErrSigningBackend))
}
