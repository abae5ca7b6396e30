package analyzer

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Anorak001/cide/domain"
)

// StructuralComparator is the default exact comparator. It parses both
// documents into syntax trees, flattens each tree to its pre-order sequence
// of named node types, and scores similarity as normalized edit distance
// over those sequences. Identifier and literal spellings never enter the
// sequence, so renamed copies score high while structurally different code
// scores low.
//
// Language hints other than Python fall back to a token-sequence comparison
// over normalized text.
type StructuralComparator struct {
	parser *sitter.Parser
}

// NewStructuralComparator creates a comparator with the Python grammar loaded
func NewStructuralComparator() *StructuralComparator {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &StructuralComparator{parser: parser}
}

// Compare scores two documents in [0, 1]. Unparsable input returns an error
// scoped to this pair; batch callers isolate it as a partial result.
func (c *StructuralComparator) Compare(ctx context.Context, content1, content2, language string) (*domain.ExactResult, error) {
	var seq1, seq2 []string

	switch strings.ToLower(language) {
	case "", "python", "py":
		var err error
		if seq1, err = c.nodeTypeSequence(ctx, content1); err != nil {
			return nil, err
		}
		if seq2, err = c.nodeTypeSequence(ctx, content2); err != nil {
			return nil, err
		}
	default:
		seq1 = tokenSequence(content1)
		seq2 = tokenSequence(content2)
	}

	return &domain.ExactResult{
		Similarity:   sequenceSimilarity(seq1, seq2),
		IdenticalAST: equalSequences(seq1, seq2),
	}, nil
}

// nodeTypeSequence parses source and flattens the tree to pre-order named
// node types.
func (c *StructuralComparator) nodeTypeSequence(ctx context.Context, source string) ([]string, error) {
	tree, err := c.parser.ParseCtx(ctx, nil, []byte(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax errors found in source code")
	}

	var types []string
	collectNodeTypes(root, &types)
	return types, nil
}

// collectNodeTypes walks the tree in pre-order, keeping named nodes only.
// Anonymous nodes are punctuation and keywords the named structure already
// implies.
func collectNodeTypes(node *sitter.Node, types *[]string) {
	if node.IsNamed() {
		*types = append(*types, node.Type())
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectNodeTypes(node.Child(i), types)
	}
}

// tokenSequence splits normalized text into whitespace-delimited tokens
func tokenSequence(content string) []string {
	return strings.Fields(normalizeText(content))
}

// sequenceSimilarity scores 1 - editDistance/maxLen. Two empty sequences
// compare as identical.
func sequenceSimilarity(seq1, seq2 []string) float64 {
	maxLen := len(seq1)
	if len(seq2) > maxLen {
		maxLen = len(seq2)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(seq1, seq2))/float64(maxLen)
}

// editDistance computes the Levenshtein distance between two sequences with
// unit insert/delete/substitute costs, using a two-row table.
func editDistance(seq1, seq2 []string) int {
	if len(seq1) < len(seq2) {
		seq1, seq2 = seq2, seq1
	}
	if len(seq2) == 0 {
		return len(seq1)
	}

	prev := make([]int, len(seq2)+1)
	curr := make([]int, len(seq2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(seq1); i++ {
		curr[0] = i
		for j := 1; j <= len(seq2); j++ {
			cost := 1
			if seq1[i-1] == seq2[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(seq2)]
}

func equalSequences(seq1, seq2 []string) bool {
	if len(seq1) != len(seq2) {
		return false
	}
	for i := range seq1 {
		if seq1[i] != seq2[i] {
			return false
		}
	}
	return true
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
