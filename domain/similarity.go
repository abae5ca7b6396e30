package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Document is a named piece of source text submitted for comparison
type Document struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// LineCount returns the number of lines in the document content
func (d *Document) LineCount() int {
	if d.Content == "" {
		return 0
	}
	lines := 1
	for _, r := range d.Content {
		if r == '\n' {
			lines++
		}
	}
	return lines
}

// PairComparison is the comparison result for one document pair.
// MinHashEstimate is the cheap probabilistic score from the signature stage;
// Similarity is the exact comparator's score. When the exact comparator fails
// on a pair, Failed is set and Similarity is unusable while MinHashEstimate
// is retained.
type PairComparison struct {
	DocID1          int     `json:"doc_id1" yaml:"doc_id1"`
	DocID2          int     `json:"doc_id2" yaml:"doc_id2"`
	File1           string  `json:"file1" yaml:"file1"`
	File2           string  `json:"file2" yaml:"file2"`
	Similarity      float64 `json:"similarity" yaml:"similarity"`
	MinHashEstimate float64 `json:"minhash_estimate,omitempty" yaml:"minhash_estimate,omitempty"`
	IdenticalAST    bool    `json:"identical_structure,omitempty" yaml:"identical_structure,omitempty"`
	Failed          bool    `json:"failed,omitempty" yaml:"failed,omitempty"`
	FailureReason   string  `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Percentage formats the exact similarity as a percentage string
func (pc *PairComparison) Percentage() string {
	return fmt.Sprintf("%.1f%%", pc.Similarity*100)
}

// String returns string representation of PairComparison
func (pc *PairComparison) String() string {
	return fmt.Sprintf("%s <-> %s (similarity: %.3f)", pc.File1, pc.File2, pc.Similarity)
}

// BatchStatistics summarizes similarity scores across a batch
type BatchStatistics struct {
	AverageSimilarity float64         `json:"average_similarity" yaml:"average_similarity"`
	MaxSimilarity     float64         `json:"max_similarity" yaml:"max_similarity"`
	MinSimilarity     float64         `json:"min_similarity" yaml:"min_similarity"`
	MostSimilarPair   *PairComparison `json:"most_similar_pair,omitempty" yaml:"most_similar_pair,omitempty"`
}

// FileRanking ranks one file by its average similarity against the rest of
// the batch. High averages flag likely duplication sources.
type FileRanking struct {
	File              string  `json:"file" yaml:"file"`
	AverageSimilarity float64 `json:"average_similarity" yaml:"average_similarity"`
}

// Cluster is a group of files whose pairwise similarity clears the cluster threshold
type Cluster struct {
	ID                int      `json:"cluster_id" yaml:"cluster_id"`
	Files             []string `json:"files" yaml:"files"`
	AverageSimilarity float64  `json:"average_similarity" yaml:"average_similarity"`
}

// OptimizationInfo reports the efficiency of the MinHash pre-filter
type OptimizationInfo struct {
	MinHashEnabled bool    `json:"minhash_enabled" yaml:"minhash_enabled"`
	Threshold      float64 `json:"threshold" yaml:"threshold"`
	Speedup        float64 `json:"speedup" yaml:"speedup"`
}

// FileSummary is the per-file metadata echoed back in responses
type FileSummary struct {
	Name  string `json:"name" yaml:"name"`
	Lines int    `json:"lines" yaml:"lines"`
}

// BatchRequest represents a request for batch similarity comparison
type BatchRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Analysis configuration
	Language         string  `json:"language"`
	Optimized        bool    `json:"optimized"`
	MinHashThreshold float64 `json:"minhash_threshold"`
	ClusterThreshold float64 `json:"cluster_threshold"`
	FindClusters     bool    `json:"find_clusters"`

	// Engine tuning (zero values fall back to defaults)
	NumHashes   int `json:"num_hashes"`
	ShingleSize int `json:"shingle_size"`
	NumBands    int `json:"num_bands"`
	RowsPerBand int `json:"rows_per_band"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowDetails  bool         `json:"show_details"`
	SortBy       SortCriteria `json:"sort_by"`

	// Configuration file
	ConfigPath string `json:"config_path"`

	// Performance
	Timeout time.Duration `json:"timeout"`
}

// BatchResponse represents the outcome of a batch comparison run
type BatchResponse struct {
	Mode     string `json:"mode" yaml:"mode"`
	Language string `json:"language" yaml:"language"`

	FileCount       int `json:"file_count" yaml:"file_count"`
	ComparisonCount int `json:"comparison_count" yaml:"comparison_count"`

	// Pre-filter efficiency metrics (optimized mode only)
	TotalPossiblePairs int     `json:"total_possible_pairs,omitempty" yaml:"total_possible_pairs,omitempty"`
	ComparisonsSaved   int     `json:"comparisons_saved,omitempty" yaml:"comparisons_saved,omitempty"`
	EfficiencyPercent  float64 `json:"efficiency_percentage,omitempty" yaml:"efficiency_percentage,omitempty"`

	Matrix       [][]float64       `json:"matrix" yaml:"matrix"`
	Comparisons  []*PairComparison `json:"comparisons" yaml:"comparisons"`
	Statistics   *BatchStatistics  `json:"statistics" yaml:"statistics"`
	FileRankings []*FileRanking    `json:"file_rankings" yaml:"file_rankings"`
	Clusters     []*Cluster        `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Files        []FileSummary     `json:"files" yaml:"files"`
	Optimization *OptimizationInfo `json:"optimization,omitempty" yaml:"optimization,omitempty"`

	// Metadata
	Duration int64  `json:"duration_ms" yaml:"duration_ms"`
	Success  bool   `json:"success" yaml:"success"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ExactComparator scores a document pair with an expensive exact algorithm.
// The engine treats it as an opaque scoring oracle; implementations live in
// the analyzer layer (AST comparison) or are supplied by callers.
type ExactComparator interface {
	// Compare returns a similarity score in [0, 1] for the two document
	// contents. The language hint selects the parsing strategy.
	Compare(ctx context.Context, content1, content2, language string) (*ExactResult, error)
}

// ExactResult is the structured outcome of one exact comparison
type ExactResult struct {
	Similarity   float64 `json:"similarity" yaml:"similarity"`
	IdenticalAST bool    `json:"identical_structure" yaml:"identical_structure"`
}

// BatchService defines the interface for batch similarity comparison
type BatchService interface {
	// CompareAllPairs compares every document pair with the exact comparator
	CompareAllPairs(ctx context.Context, documents []Document, req *BatchRequest) (*BatchResponse, error)

	// CompareAllPairsOptimized filters pairs through the MinHash/LSH index
	// and runs the exact comparator only on surviving candidates
	CompareAllPairsOptimized(ctx context.Context, documents []Document, req *BatchRequest) (*BatchResponse, error)

	// FindClusters groups documents whose pairwise similarity clears the threshold
	FindClusters(ctx context.Context, documents []Document, req *BatchRequest) (*BatchResponse, error)

	// QuickCheck estimates similarity between two documents without an index
	QuickCheck(ctx context.Context, content1, content2 string) (float64, error)
}

// FileReader abstracts file discovery and reading for batch input
type FileReader interface {
	// CollectSourceFiles finds all source files in the given paths
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidSourceFile checks if a file looks like a comparable source file
	IsValidSourceFile(path string) bool
}

// OutputFormatter formats batch responses for a given output format
type OutputFormatter interface {
	Format(response *BatchResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads batch configuration from disk
type ConfigurationLoader interface {
	// LoadConfig loads configuration from an explicit path
	LoadConfig(path string) (*BatchRequest, error)

	// DefaultConfig returns the default request, honoring a discovered
	// config file in the working directory when present
	DefaultConfig() *BatchRequest
}

// ProgressReporter reports long-running batch progress to the user
type ProgressReporter interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress display
	Start()

	// Update updates the progress
	Update(processed, total int)

	// Complete marks the progress as completed
	Complete(success bool)

	// SetWriter sets the output writer for progress display
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// Validate validates a batch request
func (req *BatchRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if req.MinHashThreshold < 0.0 || req.MinHashThreshold > 1.0 {
		return NewInvalidThresholdError(req.MinHashThreshold)
	}

	if req.ClusterThreshold < 0.0 || req.ClusterThreshold > 1.0 {
		return NewInvalidThresholdError(req.ClusterThreshold)
	}

	if req.NumHashes < 0 || req.ShingleSize < 0 || req.NumBands < 0 || req.RowsPerBand < 0 {
		return NewValidationError("engine parameters must be non-negative")
	}

	// Zero means "use defaults"; explicit values must be consistent
	if req.NumHashes > 0 && req.NumBands > 0 && req.RowsPerBand > 0 {
		if req.NumHashes != req.NumBands*req.RowsPerBand {
			return NewValidationError(fmt.Sprintf(
				"num_hashes (%d) must equal num_bands (%d) * rows_per_band (%d)",
				req.NumHashes, req.NumBands, req.RowsPerBand))
		}
	}

	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *BatchRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}
