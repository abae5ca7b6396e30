package analyzer

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/constants"
)

// Signature is a fixed-length MinHash vector. Each position holds the
// minimum value one seeded hash function produced over a document's shingle
// set. Signatures are immutable once computed and are the only per-document
// representation the index retains.
type Signature []uint64

// emptySentinel fills every slot of an empty document's signature, so
// empty-vs-empty compares as identical and empty-vs-nonempty as disjoint.
const emptySentinel = math.MaxUint64

// hashFunc holds the parameters of one universal hash function
// h(x) = (a*x) ^ b with odd a, applied over a 64-bit base hash.
type hashFunc struct {
	a uint64
	b uint64
}

// MinHasher computes MinHash signatures for document text.
//
// The N hash functions approximate an independent family by salting a single
// fast primitive N ways rather than running N distinct algorithms. For any
// two documents, the probability that function i produces the same minimum
// for both equals the Jaccard similarity of their shingle sets, which makes
// the signature agreement fraction an unbiased estimator with standard error
// 1/sqrt(N).
type MinHasher struct {
	numHashes   int
	shingleSize int
	funcs       []hashFunc
}

// NewMinHasher creates a MinHasher with the given signature length and
// shingle size. Returns a configuration error for non-positive parameters.
func NewMinHasher(numHashes, shingleSize int) (*MinHasher, error) {
	if numHashes < 1 {
		return nil, domain.NewConfigError("num_hashes must be >= 1", nil)
	}
	if shingleSize < 1 {
		return nil, domain.NewConfigError("shingle_size must be >= 1", nil)
	}

	m := &MinHasher{
		numHashes:   numHashes,
		shingleSize: shingleSize,
	}
	m.generateHashFunctions(constants.DefaultHashSeed)
	return m, nil
}

// NewDefaultMinHasher creates a MinHasher with the default parameters
// (128 hash functions, 3-character shingles).
func NewDefaultMinHasher() *MinHasher {
	m, _ := NewMinHasher(constants.DefaultNumHashes, constants.DefaultShingleSize)
	return m
}

// generateHashFunctions derives the hash family from a deterministic seed so
// signatures are reproducible across runs and processes.
func (m *MinHasher) generateHashFunctions(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	m.funcs = make([]hashFunc, m.numHashes)
	for i := range m.funcs {
		// Odd multiplier avoids degenerate cycles in the multiply step
		m.funcs[i] = hashFunc{
			a: rng.Uint64() | 1,
			b: rng.Uint64(),
		}
	}
}

// NumHashes returns the signature length this hasher produces
func (m *MinHasher) NumHashes() int { return m.numHashes }

// ShingleSize returns the shingle window width
func (m *MinHasher) ShingleSize() int { return m.shingleSize }

// ComputeSignature derives the shingle set from text and computes its
// MinHash signature. The signature always has exactly NumHashes positions;
// an empty document produces the sentinel signature rather than failing.
func (m *MinHasher) ComputeSignature(text string) Signature {
	return m.ComputeSetSignature(Shingles(text, m.shingleSize))
}

// ComputeSetSignature computes the MinHash signature of an explicit shingle set
func (m *MinHasher) ComputeSetSignature(shingles map[string]struct{}) Signature {
	sig := make(Signature, m.numHashes)
	if len(shingles) == 0 {
		for i := range sig {
			sig[i] = emptySentinel
		}
		return sig
	}

	// Hash each shingle once; the per-function values derive from the base
	base := make([]uint64, 0, len(shingles))
	for s := range shingles {
		base = append(base, hash64(s))
	}

	for i, f := range m.funcs {
		minv := uint64(math.MaxUint64)
		for _, x := range base {
			if v := (f.a * x) ^ f.b; v < minv {
				minv = v
			}
		}
		sig[i] = minv
	}

	return sig
}

// EstimateSimilarity estimates Jaccard similarity as the fraction of
// positions where the two signatures agree. Both signatures must have equal
// non-zero length; anything else means they came from different index
// configurations and is reported as a signature mismatch.
func EstimateSimilarity(sig1, sig2 Signature) (float64, error) {
	if len(sig1) == 0 || len(sig1) != len(sig2) {
		return 0, domain.NewSignatureMismatchError(len(sig1), len(sig2))
	}

	matches := 0
	for i := range sig1 {
		if sig1[i] == sig2[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(sig1)), nil
}

// ComputeJaccard computes the exact Jaccard similarity of two shingle sets.
// Used to validate the estimator; two empty sets compare as identical.
func ComputeJaccard(set1, set2 map[string]struct{}) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}

	intersection := 0
	for s := range set1 {
		if _, ok := set2[s]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// StandardError returns the expected standard error of the similarity
// estimate for this hasher's signature length.
func (m *MinHasher) StandardError() float64 {
	return 1.0 / math.Sqrt(float64(m.numHashes))
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
