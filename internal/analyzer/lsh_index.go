package analyzer

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"github.com/Anorak001/cide/domain"
)

// bandKey identifies one LSH bucket: the band position within the signature
// plus the hash of that band's value run.
type bandKey struct {
	band int
	hash uint64
}

// BandedIndex implements locality-sensitive hashing with the banding
// technique. Each signature splits into B contiguous bands of R values; a
// document lands in one bucket per band, keyed by the band's hash. Two
// documents become candidates when they collide in at least one bucket,
// which requires agreeing on R consecutive signature positions, a much
// weaker condition than whole-signature equality, tunable via (B, R).
type BandedIndex struct {
	bands   int
	rows    int
	buckets map[bandKey][]int
}

// NewBandedIndex creates an LSH index for signatures of length
// numBands*rowsPerBand. Invalid band geometry is a configuration error and
// fails here, never at insertion.
func NewBandedIndex(numBands, rowsPerBand int) (*BandedIndex, error) {
	if numBands < 1 {
		return nil, domain.NewConfigError("num_bands must be >= 1", nil)
	}
	if rowsPerBand < 1 {
		return nil, domain.NewConfigError("rows_per_band must be >= 1", nil)
	}

	return &BandedIndex{
		bands:   numBands,
		rows:    rowsPerBand,
		buckets: make(map[bandKey][]int),
	}, nil
}

// SignatureLength returns the signature length this index expects
func (idx *BandedIndex) SignatureLength() int { return idx.bands * idx.rows }

// Bands returns the band count
func (idx *BandedIndex) Bands() int { return idx.bands }

// RowsPerBand returns the rows per band
func (idx *BandedIndex) RowsPerBand() int { return idx.rows }

// Add inserts a document's signature into the bucket table. A signature
// whose length does not match the index geometry signals a bug (mixed
// configurations) and is rejected.
func (idx *BandedIndex) Add(docID int, sig Signature) error {
	if len(sig) != idx.SignatureLength() {
		return domain.NewSignatureMismatchError(len(sig), idx.SignatureLength())
	}

	for band := 0; band < idx.bands; band++ {
		key := idx.keyFor(band, sig)
		idx.buckets[key] = append(idx.buckets[key], docID)
	}
	return nil
}

// Query returns the union of document ids sharing at least one bucket with
// the signature. The result may include a previously inserted identical
// document, including the queried document itself; excluding self is the
// caller's responsibility.
func (idx *BandedIndex) Query(sig Signature) (map[int]struct{}, error) {
	if len(sig) != idx.SignatureLength() {
		return nil, domain.NewSignatureMismatchError(len(sig), idx.SignatureLength())
	}

	candidates := make(map[int]struct{})
	for band := 0; band < idx.bands; band++ {
		for _, docID := range idx.buckets[idx.keyFor(band, sig)] {
			candidates[docID] = struct{}{}
		}
	}
	return candidates, nil
}

// keyFor hashes the band's value run into a bucket key
func (idx *BandedIndex) keyFor(band int, sig Signature) bandKey {
	start := band * idx.rows
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range sig[start : start+idx.rows] {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return bandKey{band: band, hash: h.Sum64()}
}

// Clear removes all buckets from the index
func (idx *BandedIndex) Clear() {
	idx.buckets = make(map[bandKey][]int)
}

// IndexStats describes the bucket table occupancy
type IndexStats struct {
	NumBuckets    int
	Bands         int
	RowsPerBand   int
	MinBucketSize int
	MaxBucketSize int
	AvgBucketSize float64
}

// Stats returns occupancy statistics for the bucket table
func (idx *BandedIndex) Stats() IndexStats {
	stats := IndexStats{
		NumBuckets:  len(idx.buckets),
		Bands:       idx.bands,
		RowsPerBand: idx.rows,
	}

	if len(idx.buckets) == 0 {
		return stats
	}

	sizes := make([]int, 0, len(idx.buckets))
	total := 0
	for _, ids := range idx.buckets {
		sizes = append(sizes, len(ids))
		total += len(ids)
	}
	sort.Ints(sizes)

	stats.MinBucketSize = sizes[0]
	stats.MaxBucketSize = sizes[len(sizes)-1]
	stats.AvgBucketSize = float64(total) / float64(len(idx.buckets))
	return stats
}

// CandidateProbability returns the probability that a pair with true
// similarity s collides in at least one band: 1 - (1 - s^R)^B.
func (idx *BandedIndex) CandidateProbability(s float64) float64 {
	if s <= 0 {
		return 0.0
	}
	if s >= 1 {
		return 1.0
	}
	bandMatch := math.Pow(s, float64(idx.rows))
	return 1.0 - math.Pow(1.0-bandMatch, float64(idx.bands))
}

// FalseNegativeRate returns the probability that a pair with true similarity
// s never collides: (1 - s^R)^B.
func (idx *BandedIndex) FalseNegativeRate(s float64) float64 {
	return 1.0 - idx.CandidateProbability(s)
}

// OptimalBandParameters picks the (bands, rows) factorization of numHashes
// whose implied collision threshold (1/B)^(1/R) lands closest to the target.
func OptimalBandParameters(targetThreshold float64, numHashes int) (bands, rows int, err error) {
	if numHashes < 1 {
		return 0, 0, domain.NewConfigError("num_hashes must be >= 1", nil)
	}
	if targetThreshold <= 0 || targetThreshold >= 1 {
		return 0, 0, domain.NewConfigError(
			fmt.Sprintf("target threshold %.3f must be in (0, 1)", targetThreshold), nil)
	}

	bestErr := math.Inf(1)
	for b := 1; b <= numHashes; b++ {
		if numHashes%b != 0 {
			continue
		}
		r := numHashes / b
		threshold := math.Pow(1.0/float64(b), 1.0/float64(r))
		if e := math.Abs(threshold - targetThreshold); e < bestErr {
			bestErr = e
			bands, rows = b, r
		}
	}
	return bands, rows, nil
}
