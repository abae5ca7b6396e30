package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	t.Run("MessageWithoutCause", func(t *testing.T) {
		err := NewConfigError("bad geometry", nil)
		assert.Equal(t, "[CONFIG_ERROR] bad geometry", err.Error())
	})

	t.Run("MessageWithCause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewConfigError("bad geometry", cause)
		assert.Contains(t, err.Error(), "boom")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("IsErrorCode", func(t *testing.T) {
		err := NewDocumentNotFoundError(7)
		assert.True(t, IsErrorCode(err, ErrCodeDocumentNotFound))
		assert.False(t, IsErrorCode(err, ErrCodeConfig))
		assert.False(t, IsErrorCode(errors.New("plain"), ErrCodeConfig))
	})

	t.Run("IsErrorCodeSeesThroughWrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewInvalidThresholdError(1.5))
		assert.True(t, IsErrorCode(err, ErrCodeInvalidThreshold))
	})
}

func TestBatchRequestValidate(t *testing.T) {
	valid := func() *BatchRequest {
		return &BatchRequest{Paths: []string{"."}}
	}

	t.Run("MinimalRequestIsValid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("EmptyPathsRejected", func(t *testing.T) {
		req := &BatchRequest{}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, IsErrorCode(err, ErrCodeInvalidInput))
	})

	t.Run("ThresholdOutOfRangeRejected", func(t *testing.T) {
		req := valid()
		req.MinHashThreshold = 1.01
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, IsErrorCode(err, ErrCodeInvalidThreshold))

		req = valid()
		req.ClusterThreshold = -0.5
		assert.Error(t, req.Validate())
	})

	t.Run("NegativeEngineParametersRejected", func(t *testing.T) {
		req := valid()
		req.NumHashes = -1
		assert.Error(t, req.Validate())
	})

	t.Run("ExplicitGeometryMustBeConsistent", func(t *testing.T) {
		req := valid()
		req.NumHashes = 128
		req.NumBands = 16
		req.RowsPerBand = 8
		assert.NoError(t, req.Validate())

		req.RowsPerBand = 9
		assert.Error(t, req.Validate())
	})

	t.Run("ZeroGeometryMeansDefaults", func(t *testing.T) {
		req := valid()
		req.NumHashes = 128
		assert.NoError(t, req.Validate())
	})
}

func TestPairComparison(t *testing.T) {
	pc := &PairComparison{File1: "a.py", File2: "b.py", Similarity: 0.876}
	assert.Equal(t, "87.6%", pc.Percentage())
	assert.Contains(t, pc.String(), "a.py <-> b.py")
}

func TestDocumentLineCount(t *testing.T) {
	tests := []struct {
		content  string
		expected int
	}{
		{"", 0},
		{"one line", 1},
		{"a\nb", 2},
		{"a\nb\n", 3},
	}
	for _, tt := range tests {
		doc := &Document{Content: tt.content}
		assert.Equal(t, tt.expected, doc.LineCount())
	}
}
