package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anorak001/cide/domain"
)

func TestNewBandedIndex(t *testing.T) {
	t.Run("ValidGeometry", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)
		assert.Equal(t, 128, idx.SignatureLength())
		assert.Equal(t, 16, idx.Bands())
		assert.Equal(t, 8, idx.RowsPerBand())
	})

	t.Run("ZeroBandsRejected", func(t *testing.T) {
		_, err := NewBandedIndex(0, 8)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConfig))
	})

	t.Run("ZeroRowsRejected", func(t *testing.T) {
		_, err := NewBandedIndex(16, 0)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConfig))
	})
}

func TestBandedIndexAddAndQuery(t *testing.T) {
	m := NewDefaultMinHasher()

	t.Run("IdenticalSignaturesAlwaysCollide", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)

		sig := m.ComputeSignature("def foo(): pass")
		require.NoError(t, idx.Add(1, sig))
		require.NoError(t, idx.Add(2, sig))

		candidates, err := idx.Query(sig)
		require.NoError(t, err)
		assert.Contains(t, candidates, 1)
		assert.Contains(t, candidates, 2)
	})

	t.Run("DisjointDocumentsNeverCollide", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)

		sig1 := m.ComputeSignature("aaa bbb ccc ddd eee")
		sig2 := m.ComputeSignature("vvv www xxx yyy zzz")
		require.NoError(t, idx.Add(1, sig1))

		candidates, err := idx.Query(sig2)
		require.NoError(t, err)
		assert.NotContains(t, candidates, 1)
	})

	t.Run("WrongSignatureLengthRejected", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)

		err = idx.Add(1, make(Signature, 64))
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeSignatureMismatch))

		_, err = idx.Query(make(Signature, 64))
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeSignatureMismatch))
	})

	t.Run("ClearEmptiesBuckets", func(t *testing.T) {
		idx, err := NewBandedIndex(4, 2)
		require.NoError(t, err)

		hasher, err := NewMinHasher(8, 3)
		require.NoError(t, err)
		sig := hasher.ComputeSignature("hello world")
		require.NoError(t, idx.Add(1, sig))

		idx.Clear()
		candidates, err := idx.Query(sig)
		require.NoError(t, err)
		assert.Empty(t, candidates)
		assert.Equal(t, 0, idx.Stats().NumBuckets)
	})
}

func TestBandedIndexStats(t *testing.T) {
	idx, err := NewBandedIndex(16, 8)
	require.NoError(t, err)

	m := NewDefaultMinHasher()
	sig := m.ComputeSignature("def foo(): pass")
	require.NoError(t, idx.Add(1, sig))
	require.NoError(t, idx.Add(2, sig))

	stats := idx.Stats()
	assert.Equal(t, 16, stats.NumBuckets)
	assert.Equal(t, 2, stats.MinBucketSize)
	assert.Equal(t, 2, stats.MaxBucketSize)
	assert.InDelta(t, 2.0, stats.AvgBucketSize, 1e-9)
}

func TestCandidateProbability(t *testing.T) {
	t.Run("Boundaries", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)
		assert.Equal(t, 0.0, idx.CandidateProbability(0.0))
		assert.Equal(t, 1.0, idx.CandidateProbability(1.0))
	})

	t.Run("MonotonicInSimilarity", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)

		prev := 0.0
		for _, s := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
			p := idx.CandidateProbability(s)
			assert.Greater(t, p, prev)
			prev = p
		}
	})

	t.Run("MoreBandsRaiseRecall", func(t *testing.T) {
		// For fixed rows per band, adding bands only adds collision chances
		narrow, err := NewBandedIndex(4, 8)
		require.NoError(t, err)
		wide, err := NewBandedIndex(16, 8)
		require.NoError(t, err)

		for _, s := range []float64{0.3, 0.5, 0.7, 0.9} {
			assert.Greater(t, wide.CandidateProbability(s), narrow.CandidateProbability(s))
		}
	})

	t.Run("FalseNegativeRateComplements", func(t *testing.T) {
		idx, err := NewBandedIndex(16, 8)
		require.NoError(t, err)
		for _, s := range []float64{0.2, 0.5, 0.8} {
			assert.InDelta(t, 1.0, idx.CandidateProbability(s)+idx.FalseNegativeRate(s), 1e-9)
		}
	})
}

func TestBandGeometryRecall(t *testing.T) {
	// A 16x8 collision requires agreement on 8 consecutive positions, which
	// implies agreement on both 4-position halves, so every 16x8 candidate
	// pair must also collide under 32x4. Verify that on a real corpus.
	m := NewDefaultMinHasher()

	var sb strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&sb, "def route_%d(request):\n    body_%d = request.payload[%d]\n    return dispatch(body_%d, retries=%d)\n\n", i, i, i, i, i*3)
	}
	base := sb.String()

	sigs := make([]Signature, 30)
	for i := range sigs {
		sigs[i] = m.ComputeSignature(base + fmt.Sprintf("marker_%d = %d\n", i, i))
	}

	candidatePairs := func(bands, rows int) map[[2]int]bool {
		idx, err := NewBandedIndex(bands, rows)
		require.NoError(t, err)
		for id, sig := range sigs {
			require.NoError(t, idx.Add(id, sig))
		}

		pairs := make(map[[2]int]bool)
		for id, sig := range sigs {
			candidates, err := idx.Query(sig)
			require.NoError(t, err)
			for other := range candidates {
				if other == id {
					continue
				}
				lo, hi := id, other
				if lo > hi {
					lo, hi = hi, lo
				}
				pairs[[2]int{lo, hi}] = true
			}
		}
		return pairs
	}

	coarse := candidatePairs(16, 8)
	fine := candidatePairs(32, 4)

	require.NotEmpty(t, coarse)
	assert.GreaterOrEqual(t, len(fine), len(coarse))
	for pair := range coarse {
		assert.True(t, fine[pair], "pair %v lost when bands doubled", pair)
	}
}

func TestOptimalBandParameters(t *testing.T) {
	t.Run("ProductAlwaysEqualsNumHashes", func(t *testing.T) {
		for _, target := range []float64{0.3, 0.5, 0.8} {
			bands, rows, err := OptimalBandParameters(target, 128)
			require.NoError(t, err)
			assert.Equal(t, 128, bands*rows)
		}
	})

	t.Run("HigherTargetMeansFewerBands", func(t *testing.T) {
		lowBands, _, err := OptimalBandParameters(0.2, 128)
		require.NoError(t, err)
		highBands, _, err := OptimalBandParameters(0.9, 128)
		require.NoError(t, err)
		assert.Greater(t, lowBands, highBands)
	})

	t.Run("InvalidTargetRejected", func(t *testing.T) {
		_, _, err := OptimalBandParameters(0.0, 128)
		assert.Error(t, err)
		_, _, err = OptimalBandParameters(1.0, 128)
		assert.Error(t, err)
	})

	t.Run("InvalidNumHashesRejected", func(t *testing.T) {
		_, _, err := OptimalBandParameters(0.5, 0)
		assert.Error(t, err)
	})
}
