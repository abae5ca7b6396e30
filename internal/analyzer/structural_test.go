package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuralComparatorPython(t *testing.T) {
	c := NewStructuralComparator()
	ctx := context.Background()

	t.Run("IdenticalCode", func(t *testing.T) {
		code := "def add(a, b):\n    return a + b\n"
		result, err := c.Compare(ctx, code, code, "python")
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Similarity)
		assert.True(t, result.IdenticalAST)
	})

	t.Run("RenamedIdentifiersAreStructurallyIdentical", func(t *testing.T) {
		code1 := "def add(a, b):\n    return a + b\n"
		code2 := "def sum_two(x, y):\n    return x + y\n"
		result, err := c.Compare(ctx, code1, code2, "python")
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Similarity)
		assert.True(t, result.IdenticalAST)
	})

	t.Run("DifferentStructuresScoreLower", func(t *testing.T) {
		code1 := "def add(a, b):\n    return a + b\n"
		code2 := "class Point:\n    def __init__(self, x, y):\n        self.x = x\n        self.y = y\n\n    def norm(self):\n        return (self.x ** 2 + self.y ** 2) ** 0.5\n"
		result, err := c.Compare(ctx, code1, code2, "python")
		require.NoError(t, err)
		assert.Less(t, result.Similarity, 0.7)
		assert.False(t, result.IdenticalAST)
	})

	t.Run("SmallEditScoresHigh", func(t *testing.T) {
		code1 := "def f(items):\n    out = []\n    for x in items:\n        out.append(x * 2)\n    return out\n"
		code2 := "def f(items):\n    out = []\n    for x in items:\n        out.append(x * 2)\n        out.append(x)\n    return out\n"
		result, err := c.Compare(ctx, code1, code2, "python")
		require.NoError(t, err)
		assert.Greater(t, result.Similarity, 0.7)
		assert.Less(t, result.Similarity, 1.0)
	})

	t.Run("SyntaxErrorsReported", func(t *testing.T) {
		_, err := c.Compare(ctx, "def broken(:\n", "def ok(): pass\n", "python")
		assert.Error(t, err)
	})

	t.Run("EmptyDocumentsAreIdentical", func(t *testing.T) {
		result, err := c.Compare(ctx, "", "", "python")
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Similarity)
		assert.True(t, result.IdenticalAST)
	})
}

func TestStructuralComparatorTokenFallback(t *testing.T) {
	c := NewStructuralComparator()
	ctx := context.Background()

	t.Run("IdenticalText", func(t *testing.T) {
		result, err := c.Compare(ctx, "alpha beta gamma", "alpha beta gamma", "text")
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Similarity)
		assert.True(t, result.IdenticalAST)
	})

	t.Run("CaseAndSpacingIgnored", func(t *testing.T) {
		result, err := c.Compare(ctx, "Alpha  Beta\nGamma", "alpha beta gamma", "text")
		require.NoError(t, err)
		assert.Equal(t, 1.0, result.Similarity)
	})

	t.Run("PartialOverlap", func(t *testing.T) {
		result, err := c.Compare(ctx, "a b c d", "a b x d", "text")
		require.NoError(t, err)
		assert.InDelta(t, 0.75, result.Similarity, 1e-9)
	})

	t.Run("NeverParsesNonPython", func(t *testing.T) {
		// Invalid Python must not fail under a text hint
		_, err := c.Compare(ctx, "def broken(:", "whatever", "text")
		assert.NoError(t, err)
	})
}

func TestSequenceSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		seq1     []string
		seq2     []string
		expected float64
	}{
		{"BothEmpty", nil, nil, 1.0},
		{"OneEmpty", []string{"a", "b"}, nil, 0.0},
		{"Identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 1.0},
		{"OneSubstitution", []string{"a", "b", "c", "d"}, []string{"a", "x", "c", "d"}, 0.75},
		{"Disjoint", []string{"a", "b"}, []string{"x", "y"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sequenceSimilarity(tt.seq1, tt.seq2), 1e-9)
		})
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name     string
		seq1     []string
		seq2     []string
		expected int
	}{
		{"BothEmpty", nil, nil, 0},
		{"Insertions", nil, []string{"a", "b"}, 2},
		{"Identical", []string{"a", "b"}, []string{"a", "b"}, 0},
		{"Substitution", []string{"a", "b"}, []string{"a", "c"}, 1},
		{"Mixed", []string{"a", "b", "c"}, []string{"b", "c", "d"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, editDistance(tt.seq1, tt.seq2))
		})
	}
}
