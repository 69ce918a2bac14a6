package curve

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/eightyfourcoin/novacoin/pkg/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	doubleGenHex = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
)

func hexToBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func scalar(v uint32) *secp256k1.ModNScalar {
	var s secp256k1.ModNScalar
	s.SetInt(v)
	return &s
}

func TestGenerator(t *testing.T) {
	b, err := Generator().SerializeCompressed()
	require.NoError(t, err)
	assert.Equal(t, generatorHex, hex.EncodeToString(b))

	double, err := Generator().Add(Generator()).SerializeCompressed()
	require.NoError(t, err)
	assert.Equal(t, doubleGenHex, hex.EncodeToString(double))

	assert.True(t, BaseMul(scalar(2)).Equal(Generator().Mul(scalar(2))))
}

func TestParseSerializeRoundTrip(t *testing.T) {
	for _, s := range []string{generatorHex, doubleGenHex} {
		p, err := Parse(hexToBytes(t, s))
		require.NoError(t, err)

		b, err := p.SerializeCompressed()
		require.NoError(t, err)
		assert.Equal(t, s, hex.EncodeToString(b))
	}

	// The uncompressed form parses to the same point.
	pub, err := keys.ParsePublicKey(hexToBytes(t, generatorHex))
	require.NoError(t, err)
	p, err := Parse(pub.SerializeUncompressed())
	require.NoError(t, err)
	assert.True(t, p.Equal(Generator()))
}

func TestParseInvalid(t *testing.T) {
	bad := hexToBytes(t, generatorHex)
	bad[0] = 0x05

	_, err := Parse(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, keys.ErrInvalidPoint), spew.Sdump(err))

	_, err = Parse(nil)
	assert.True(t, errors.Is(err, keys.ErrInvalidPoint))
}

func TestInfinity(t *testing.T) {
	inf := Infinity()
	require.True(t, inf.IsInfinity())

	// (N-1)*G + G = O
	var minusOne secp256k1.ModNScalar
	minusOne.SetInt(1).Negate()
	sum := Generator().Mul(&minusOne).Add(Generator())
	assert.True(t, sum.IsInfinity())
	assert.True(t, sum.Equal(inf))

	// O is the identity.
	assert.True(t, Generator().Add(inf).Equal(Generator()))
	assert.True(t, inf.Add(Generator()).Equal(Generator()))
	assert.True(t, inf.Mul(scalar(7)).IsInfinity())
	assert.False(t, inf.Equal(Generator()))
	assert.False(t, Generator().Equal(inf))

	var zero secp256k1.ModNScalar
	assert.True(t, BaseMul(&zero).IsInfinity())

	_, err := inf.SerializeCompressed()
	assert.True(t, errors.Is(err, keys.ErrInfinitePoint))

	_, err = inf.PublicKey(true)
	assert.True(t, errors.Is(err, keys.ErrInfinitePoint))
}

func TestMulGenAdd(t *testing.T) {
	// 3*G + 2*G = 5*G
	got := MulGenAdd(scalar(3), BaseMul(scalar(2)))
	assert.True(t, got.Equal(BaseMul(scalar(5))))

	// m*G + O = m*G
	got = MulGenAdd(scalar(9), Infinity())
	assert.True(t, got.Equal(BaseMul(scalar(9))))
}

func TestDecompress(t *testing.T) {
	g := hexToBytes(t, generatorHex)

	var x secp256k1.FieldVal
	require.False(t, x.SetByteSlice(g[1:]))

	even, ok := Decompress(&x, false)
	require.True(t, ok)
	assert.True(t, even.Equal(Generator()))

	odd, ok := Decompress(&x, true)
	require.True(t, ok)
	assert.True(t, odd.Add(Generator()).IsInfinity())

	// Roughly half of all x values have no point; find one.
	var y secp256k1.FieldVal
	for i := uint16(1); ; i++ {
		x.SetInt(i)
		if !secp256k1.DecompressY(&x, false, &y) {
			break
		}
	}
	_, ok = Decompress(&x, false)
	assert.False(t, ok)
}

func TestPublicKeyConversion(t *testing.T) {
	p := BaseMul(scalar(11))

	pub, err := p.PublicKey(true)
	require.NoError(t, err)
	assert.True(t, pub.IsCompressed())
	assert.Len(t, pub.Bytes(), keys.CompressedSize)

	back, err := FromPublicKey(pub)
	require.NoError(t, err)
	assert.True(t, back.Equal(p))

	offCurve := keys.NewPublicKey(secp256k1.NewPublicKey(new(secp256k1.FieldVal).SetInt(1), new(secp256k1.FieldVal).SetInt(1)), true)
	_, err = FromPublicKey(offCurve)
	assert.True(t, errors.Is(err, keys.ErrInvalidPoint))
}

func TestHash160(t *testing.T) {
	assert.Equal(t, "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb", hex.EncodeToString(Hash160(nil)))
	assert.Len(t, Hash160(hexToBytes(t, generatorHex)), 20)
}
