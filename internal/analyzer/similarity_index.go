package analyzer

import (
	"fmt"
	"sort"

	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/constants"
)

// IndexConfig holds the tuning parameters of one similarity index instance
type IndexConfig struct {
	// NumHashes is the MinHash signature length
	NumHashes int

	// ShingleSize is the character window width for shingling
	ShingleSize int

	// NumBands and RowsPerBand shape the LSH candidate probability curve.
	// NumHashes must equal NumBands * RowsPerBand.
	NumBands    int
	RowsPerBand int

	// SimilarityThreshold is the default minimum estimated similarity for
	// candidate filtering
	SimilarityThreshold float64
}

// DefaultIndexConfig returns the default engine configuration
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		NumHashes:           constants.DefaultNumHashes,
		ShingleSize:         constants.DefaultShingleSize,
		NumBands:            constants.DefaultNumBands,
		RowsPerBand:         constants.DefaultRowsPerBand,
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
	}
}

// Validate checks the configuration invariants. Violations are fatal
// configuration errors raised at index construction.
func (c IndexConfig) Validate() error {
	if c.NumHashes < 1 {
		return domain.NewConfigError("num_hashes must be >= 1", nil)
	}
	if c.ShingleSize < 1 {
		return domain.NewConfigError("shingle_size must be >= 1", nil)
	}
	if c.NumBands < 1 || c.RowsPerBand < 1 {
		return domain.NewConfigError("num_bands and rows_per_band must be >= 1", nil)
	}
	if c.NumHashes != c.NumBands*c.RowsPerBand {
		return domain.NewConfigError(fmt.Sprintf(
			"num_hashes (%d) must equal num_bands (%d) * rows_per_band (%d)",
			c.NumHashes, c.NumBands, c.RowsPerBand), nil)
	}
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return domain.NewInvalidThresholdError(c.SimilarityThreshold)
	}
	return nil
}

// documentRecord is the per-document state the index retains. The raw
// shingle set is discarded after signature computation.
type documentRecord struct {
	id   int
	name string
	sig  Signature
}

// Match is one ranked candidate from a single-document query
type Match struct {
	DocID      int
	Similarity float64
}

// Pair is one deduplicated candidate pair; DocID1 < DocID2 always holds
type Pair struct {
	DocID1     int
	DocID2     int
	Similarity float64
}

// SimilarityIndex owns the MinHash signature generator, the banded LSH
// index, and all document records. One instance per batch job; instances
// share no state, so building one index per run keeps tests deterministic
// and avoids hidden cross-request coupling.
//
// The index is not safe for concurrent mutation. A single writer building
// the index followed by read-only concurrent queries is safe because queries
// do not mutate bucket contents.
type SimilarityIndex struct {
	config IndexConfig
	hasher *MinHasher
	lsh    *BandedIndex
	docs   map[int]*documentRecord
	nextID int
}

// NewSimilarityIndex creates an index with the given configuration.
// Configuration errors fail fast here.
func NewSimilarityIndex(config IndexConfig) (*SimilarityIndex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	hasher, err := NewMinHasher(config.NumHashes, config.ShingleSize)
	if err != nil {
		return nil, err
	}
	lsh, err := NewBandedIndex(config.NumBands, config.RowsPerBand)
	if err != nil {
		return nil, err
	}

	return &SimilarityIndex{
		config: config,
		hasher: hasher,
		lsh:    lsh,
		docs:   make(map[int]*documentRecord),
	}, nil
}

// NewDefaultSimilarityIndex creates an index with default parameters
func NewDefaultSimilarityIndex() *SimilarityIndex {
	idx, _ := NewSimilarityIndex(DefaultIndexConfig())
	return idx
}

// Config returns the index configuration
func (s *SimilarityIndex) Config() IndexConfig { return s.config }

// Threshold returns the index's default candidate-filtering threshold
func (s *SimilarityIndex) Threshold() float64 { return s.config.SimilarityThreshold }

// Size returns the number of registered documents
func (s *SimilarityIndex) Size() int { return len(s.docs) }

// AddDocument computes and stores the document's signature, inserts it into
// the banded index, and returns a newly assigned id. Ids are monotonically
// increasing from zero within one index instance.
func (s *SimilarityIndex) AddDocument(content, name string) int {
	id := s.nextID
	s.nextID++

	if name == "" {
		name = fmt.Sprintf("doc_%d", id)
	}

	sig := s.hasher.ComputeSignature(content)
	s.docs[id] = &documentRecord{id: id, name: name, sig: sig}

	// Geometry is validated at construction, so insertion cannot fail
	_ = s.lsh.Add(id, sig)

	return id
}

// DocumentName returns the display name of a registered document
func (s *SimilarityIndex) DocumentName(docID int) (string, error) {
	rec, ok := s.docs[docID]
	if !ok {
		return "", domain.NewDocumentNotFoundError(docID)
	}
	return rec.name, nil
}

// SignatureOf returns the stored signature of a registered document
func (s *SimilarityIndex) SignatureOf(docID int) (Signature, error) {
	rec, ok := s.docs[docID]
	if !ok {
		return nil, domain.NewDocumentNotFoundError(docID)
	}
	return rec.sig, nil
}

// FindSimilar queries the banded index for candidates of the given document,
// scores each against the stored signature, filters by minSimilarity, and
// returns matches sorted by descending similarity with ties broken by
// ascending document id.
func (s *SimilarityIndex) FindSimilar(docID int, minSimilarity float64) ([]Match, error) {
	if minSimilarity < 0.0 || minSimilarity > 1.0 {
		return nil, domain.NewInvalidThresholdError(minSimilarity)
	}

	rec, ok := s.docs[docID]
	if !ok {
		return nil, domain.NewDocumentNotFoundError(docID)
	}

	candidates, err := s.lsh.Query(rec.sig)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for candidateID := range candidates {
		if candidateID == docID {
			continue
		}
		other := s.docs[candidateID]
		similarity, err := EstimateSimilarity(rec.sig, other.sig)
		if err != nil {
			return nil, err
		}
		if similarity >= minSimilarity {
			matches = append(matches, Match{DocID: candidateID, Similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].DocID < matches[j].DocID
	})

	return matches, nil
}

// AllSimilarPairs enumerates every candidate pair above minSimilarity.
// Pairs are deduplicated (a pair colliding in several bands surfaces once),
// never self-referential, and ordered by descending similarity with ties
// broken by ascending (DocID1, DocID2).
func (s *SimilarityIndex) AllSimilarPairs(minSimilarity float64) ([]Pair, error) {
	if minSimilarity < 0.0 || minSimilarity > 1.0 {
		return nil, domain.NewInvalidThresholdError(minSimilarity)
	}

	ids := make([]int, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	seen := make(map[[2]int]struct{})
	var pairs []Pair

	for _, id := range ids {
		matches, err := s.FindSimilar(id, minSimilarity)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			a, b := id, m.DocID
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, Pair{DocID1: a, DocID2: b, Similarity: m.Similarity})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Similarity != pairs[j].Similarity {
			return pairs[i].Similarity > pairs[j].Similarity
		}
		if pairs[i].DocID1 != pairs[j].DocID1 {
			return pairs[i].DocID1 < pairs[j].DocID1
		}
		return pairs[i].DocID2 < pairs[j].DocID2
	})

	return pairs, nil
}

// Reset discards all document records and buckets, keeping the configuration.
// There is no single-document deletion; reset is the only removal path.
func (s *SimilarityIndex) Reset() {
	s.docs = make(map[int]*documentRecord)
	s.lsh.Clear()
	s.nextID = 0
}

// QuickSimilarity estimates similarity between two documents without
// registering them in any index.
func (s *SimilarityIndex) QuickSimilarity(content1, content2 string) float64 {
	sig1 := s.hasher.ComputeSignature(content1)
	sig2 := s.hasher.ComputeSignature(content2)
	// Lengths always match: both signatures come from the same hasher
	similarity, _ := EstimateSimilarity(sig1, sig2)
	return similarity
}
