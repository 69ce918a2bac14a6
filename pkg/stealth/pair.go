package stealth

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/eightyfourcoin/novacoin/pkg/keys"
)

// Pair is a recipient's secret identity: the scan key l and the spend key
// h.  Both keys are always compressed.
type Pair struct {
	Scan  *keys.PrivateKey
	Spend *keys.PrivateKey
}

// GeneratePair creates a new pair from crypto/rand.
func GeneratePair() (*Pair, error) {
	return GeneratePairFromRand(rand.Reader)
}

// GeneratePairFromRand creates a new pair from the given source.
func GeneratePairFromRand(rng io.Reader) (*Pair, error) {
	scan, err := keys.GeneratePrivateKeyFromRand(rng, true)
	if err != nil {
		return nil, fmt.Errorf("scan key: %w", err)
	}
	spend, err := keys.GeneratePrivateKeyFromRand(rng, true)
	if err != nil {
		scan.Zero()
		return nil, fmt.Errorf("spend key: %w", err)
	}
	return &Pair{Scan: scan, Spend: spend}, nil
}

// PairFromSecrets builds a pair from two 32-byte secrets.
func PairFromSecrets(scanSecret, spendSecret []byte) (*Pair, error) {
	scan, err := keys.PrivateKeyFromSecret(scanSecret, true)
	if err != nil {
		return nil, fmt.Errorf("scan key: %w", err)
	}
	spend, err := keys.PrivateKeyFromSecret(spendSecret, true)
	if err != nil {
		scan.Zero()
		return nil, fmt.Errorf("spend key: %w", err)
	}
	return &Pair{Scan: scan, Spend: spend}, nil
}

// PairFromDER builds a pair from two SEC1 DER private keys.  The keys are
// forced to the compressed encoding.
func PairFromDER(scanDER, spendDER []byte) (*Pair, error) {
	scan, err := keys.PrivateKeyFromDER(scanDER)
	if err != nil {
		return nil, fmt.Errorf("scan key: %w", err)
	}
	spend, err := keys.PrivateKeyFromDER(spendDER)
	if err != nil {
		scan.Zero()
		return nil, fmt.Errorf("spend key: %w", err)
	}
	scan.SetCompressed()
	spend.SetCompressed()
	return &Pair{Scan: scan, Spend: spend}, nil
}

// Secrets returns copies of the two secrets.  The caller must clear them.
func (p *Pair) Secrets() (scan, spend [keys.SecretSize]byte) {
	scan, _ = p.Scan.Secret()
	spend, _ = p.Spend.Secret()
	return scan, spend
}

// MarshalDER encodes both keys as SEC1 DER.
func (p *Pair) MarshalDER() (scan, spend []byte, err error) {
	if scan, err = p.Scan.MarshalDER(); err != nil {
		return nil, nil, fmt.Errorf("scan key: %w", err)
	}
	if spend, err = p.Spend.MarshalDER(); err != nil {
		clear(scan)
		return nil, nil, fmt.Errorf("spend key: %w", err)
	}
	return scan, spend, nil
}

// Address returns the public half of the pair.
func (p *Pair) Address() *Address {
	return &Address{Scan: p.Scan.PubKey(), Spend: p.Spend.PubKey()}
}

// CheckVariant runs CheckOwnership for v against this pair's spend key.
func (p *Pair) CheckVariant(v *Variant) (*keys.PrivateKey, bool, error) {
	if v == nil {
		return nil, false, keys.MakeError(keys.ErrMalformedInput, "variant is nil")
	}
	return CheckOwnership(v.Ephemeral, p.Spend.PubKey(), v.OneTime, p.Scan, p.Spend)
}

// Zero clears both secrets.
func (p *Pair) Zero() {
	p.Scan.Zero()
	p.Spend.Zero()
}
