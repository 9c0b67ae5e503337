// Package minhash implements near-duplicate detection with MinHash
// signatures and a banded locality-sensitive hashing index.
package minhash

import (
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// mersennePrime is the modulus of the universal hash family.
const mersennePrime = 1<<61 - 1

// DefaultSeed seeds the permutation parameters. Signatures are only
// comparable when produced with the same seed and permutation count.
const DefaultSeed = 1

// Signature is a MinHash sketch of a token set.
type Signature []uint64

// Jaccard estimates the Jaccard similarity of the sets behind two
// signatures as the fraction of positions where they agree.
func (s Signature) Jaccard(o Signature) float64 {
	if len(s) == 0 || len(s) != len(o) {
		return 0
	}
	var eq int
	for i := range s {
		if s[i] == o[i] {
			eq++
		}
	}
	return float64(eq) / float64(len(s))
}

// Hasher builds signatures with a fixed set of permutations
// h(x) = (a*x + b) mod p over the xxHash64 of each token.
type Hasher struct {
	a, b []uint64
}

// NewHasher returns a Hasher with numPerm permutations drawn from seed.
func NewHasher(numPerm int, seed uint64) *Hasher {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	h := &Hasher{a: make([]uint64, numPerm), b: make([]uint64, numPerm)}
	for i := range numPerm {
		h.a[i] = 1 + rng.Uint64N(mersennePrime-1)
		h.b[i] = rng.Uint64N(mersennePrime)
	}
	return h
}

// NumPerm returns the signature length.
func (h *Hasher) NumPerm() int {
	return len(h.a)
}

// Signature returns the MinHash signature of the token set.
// Repeated tokens do not change the result.
func (h *Hasher) Signature(tokens []string) Signature {
	sig := make(Signature, len(h.a))
	for i := range sig {
		sig[i] = mersennePrime
	}
	for _, t := range tokens {
		x := xxhash.Sum64String(t) % mersennePrime
		for i := range sig {
			if v := h.permute(i, x); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// permute computes (a*x + b) mod p without overflow. Both a and x are below
// p, so the high word of the product is below p as Div64 requires.
func (h *Hasher) permute(i int, x uint64) uint64 {
	hi, lo := bits.Mul64(h.a[i], x)
	_, rem := bits.Div64(hi, lo, mersennePrime)
	return (rem + h.b[i]) % mersennePrime
}

// Shingles splits text into whitespace-delimited tokens.
func Shingles(text string) []string {
	return strings.Fields(text)
}
