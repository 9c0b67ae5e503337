package minhash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// LSH indexes signatures by bands so that similar signatures share at least
// one bucket with high probability.
type LSH struct {
	bands, rows int
	tables      []map[uint64][]string
	sigs        map[string]Signature
	buf         []byte
}

// NewLSH returns an index tuned for the Jaccard threshold over signatures of
// numPerm values.
func NewLSH(threshold float64, numPerm int) *LSH {
	b, r := OptimalParams(threshold, numPerm)
	l := &LSH{
		bands:  b,
		rows:   r,
		tables: make([]map[uint64][]string, b),
		sigs:   make(map[string]Signature),
		buf:    make([]byte, 8*r),
	}
	for i := range l.tables {
		l.tables[i] = make(map[uint64][]string)
	}
	return l
}

// Params returns the band count and rows per band.
func (l *LSH) Params() (bands, rows int) {
	return l.bands, l.rows
}

// Len returns the number of indexed signatures.
func (l *LSH) Len() int {
	return len(l.sigs)
}

// Insert indexes sig under key. Re-inserting a key is a no-op.
func (l *LSH) Insert(key string, sig Signature) {
	if _, ok := l.sigs[key]; ok {
		return
	}
	l.sigs[key] = sig
	for i, t := range l.tables {
		h := l.bandKey(sig, i)
		t[h] = append(t[h], key)
	}
}

// Query returns the keys sharing at least one band bucket with sig, in the
// order they were first found.
func (l *LSH) Query(sig Signature) []string {
	var keys []string
	seen := make(map[string]struct{})
	for i, t := range l.tables {
		for _, k := range t[l.bandKey(sig, i)] {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Signature returns the signature stored under key.
func (l *LSH) Signature(key string) (Signature, bool) {
	sig, ok := l.sigs[key]
	return sig, ok
}

func (l *LSH) bandKey(sig Signature, band int) uint64 {
	start := band * l.rows
	for j := range l.rows {
		binary.LittleEndian.PutUint64(l.buf[8*j:], sig[start+j])
	}
	return xxhash.Sum64(l.buf)
}

// OptimalParams picks the band count b and rows per band r (b*r <= numPerm)
// minimizing the equally weighted sum of the false positive probability mass
// below threshold and the false negative mass above it.
func OptimalParams(threshold float64, numPerm int) (bands, rows int) {
	best := -1.0
	bands, rows = 1, numPerm
	for b := 1; b <= numPerm; b++ {
		for r := 1; r <= numPerm/b; r++ {
			fp := integrate(func(s float64) float64 { return candidateProb(s, b, r) }, 0, threshold)
			fn := integrate(func(s float64) float64 { return 1 - candidateProb(s, b, r) }, threshold, 1)
			e := 0.5*fp + 0.5*fn
			if best < 0 || e < best {
				best, bands, rows = e, b, r
			}
		}
	}
	return bands, rows
}

// candidateProb is the probability that two sets with Jaccard similarity s
// collide in at least one of b bands of r rows.
func candidateProb(s float64, b, r int) float64 {
	return 1 - math.Pow(1-math.Pow(s, float64(r)), float64(b))
}

// integrate applies Simpson's rule over [a, b].
func integrate(f func(float64) float64, a, b float64) float64 {
	const n = 64
	h := (b - a) / n
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}
