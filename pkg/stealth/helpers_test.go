package stealth

import (
	"crypto/sha256"
	"encoding/binary"
)

// detReader is a deterministic byte stream for tests: SHA256(seed || n)
// for n = 0, 1, 2, ...
type detReader struct {
	seed    []byte
	counter uint64
	buf     []byte
}

func newDetReader(seed string) *detReader {
	return &detReader{seed: []byte(seed)}
}

func (r *detReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			var ctr [8]byte
			binary.BigEndian.PutUint64(ctr[:], r.counter)
			r.counter++
			block := sha256.Sum256(append(append([]byte(nil), r.seed...), ctr[:]...))
			r.buf = block[:]
		}
		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}
	return n, nil
}
