package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Anorak001/cide/app"
	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/analyzer"
	"github.com/Anorak001/cide/internal/constants"
	"github.com/Anorak001/cide/service"
)

// CompareCommand handles the batch comparison CLI command
type CompareCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Analysis configuration
	language         string
	exact            bool
	minhashThreshold float64
	clusters         bool
	clusterThreshold float64

	// Engine tuning
	numHashes   int
	shingleSize int
	numBands    int
	rowsPerBand int

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	showDetails bool
	sortBy      string

	// Performance options
	timeout time.Duration
}

// NewCompareCommand creates a new compare command with defaults
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{
		recursive:        true,
		language:         "python",
		exact:            false,
		minhashThreshold: constants.DefaultSimilarityThreshold,
		clusters:         false,
		clusterThreshold: constants.DefaultClusterThreshold,
		numHashes:        constants.DefaultNumHashes,
		shingleSize:      constants.DefaultShingleSize,
		numBands:         constants.DefaultNumBands,
		rowsPerBand:      constants.DefaultRowsPerBand,
		sortBy:           "similarity",
		timeout:          5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for batch comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [paths...]",
		Short: "Compare source files for near-duplicates",
		Long: `Compare all source files under the given paths and report
pairwise similarity.

By default a MinHash/LSH pre-filter selects candidate pairs and the exact
AST comparison runs only on those candidates. Use --exact to score every
pair without the pre-filter.

Examples:
  # Compare all Python files in the current directory
  cide compare .

  # Raise the candidate threshold
  cide compare --threshold 0.7 src/

  # Group near-duplicates into clusters
  cide compare --clusters src/

  # Exhaustive comparison without the pre-filter
  cide compare --exact src/

  # Output results as JSON
  cide compare --json src/ > similarity.json`,
		RunE: c.runCompare,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

	// Analysis configuration flags
	cmd.Flags().StringVar(&c.language, "language", c.language,
		"Language hint for the exact comparator: python, text")
	cmd.Flags().BoolVar(&c.exact, "exact", c.exact,
		"Compare every pair without the MinHash pre-filter")
	cmd.Flags().Float64VarP(&c.minhashThreshold, "threshold", "t", c.minhashThreshold,
		"Minimum estimated similarity for candidate pairs (0.0-1.0)")
	cmd.Flags().BoolVar(&c.clusters, "clusters", c.clusters,
		"Group near-duplicate files into clusters")
	cmd.Flags().Float64Var(&c.clusterThreshold, "cluster-threshold", c.clusterThreshold,
		"Minimum similarity for cluster membership (0.0-1.0)")

	// Engine tuning flags
	cmd.Flags().IntVar(&c.numHashes, "num-hashes", c.numHashes,
		"MinHash signature length")
	cmd.Flags().IntVar(&c.shingleSize, "shingle-size", c.shingleSize,
		"Character shingle width")
	cmd.Flags().IntVar(&c.numBands, "bands", c.numBands,
		"LSH band count (num-hashes must equal bands * rows)")
	cmd.Flags().IntVar(&c.rowsPerBand, "rows", c.rowsPerBand,
		"LSH rows per band")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	// Output options
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", c.showDetails,
		"Show detailed comparison information")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: similarity, name")

	// Performance flags
	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout,
		"Maximum time for the comparison (e.g., 5m, 30s)")

	return cmd
}

// runCompare executes the batch comparison
func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, err := c.createBatchRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create comparison request: %w", err)
	}

	useCase, err := c.createCompareUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create compare use case: %w", err)
	}

	if err := useCase.Execute(context.Background(), request); err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	return nil
}

// determineOutputFormat determines the output format based on flags
func (c *CompareCommand) determineOutputFormat() (domain.OutputFormat, error) {
	formatCount := 0
	format := domain.OutputFormatText

	if c.json {
		formatCount++
		format = domain.OutputFormatJSON
	}
	if c.csv {
		formatCount++
		format = domain.OutputFormatCSV
	}
	if c.yaml {
		formatCount++
		format = domain.OutputFormatYAML
	}

	if formatCount > 1 {
		return "", fmt.Errorf("only one output format flag can be specified")
	}
	return format, nil
}

// parseSortCriteria parses and validates the sort criteria
func (c *CompareCommand) parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch strings.ToLower(sort) {
	case "similarity":
		return domain.SortBySimilarity, nil
	case "name":
		return domain.SortByName, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: similarity, name)", sort)
	}
}

// createBatchRequest creates a batch request from command line flags
func (c *CompareCommand) createBatchRequest(cmd *cobra.Command, paths []string) (*domain.BatchRequest, error) {
	outputFormat, err := c.determineOutputFormat()
	if err != nil {
		return nil, err
	}

	sortBy, err := c.parseSortCriteria(c.sortBy)
	if err != nil {
		return nil, err
	}

	// Engine flags left at their defaults are cleared so a config file
	// (or built-in defaults) can supply them; explicit flags always win
	explicit := GetExplicitFlags(cmd)
	if !explicit["num-hashes"] {
		c.numHashes = 0
	}
	if !explicit["shingle-size"] {
		c.shingleSize = 0
	}
	if !explicit["bands"] {
		c.numBands = 0
	}
	if !explicit["rows"] {
		c.rowsPerBand = 0
	}
	if !explicit["threshold"] {
		c.minhashThreshold = 0
	}
	if !explicit["cluster-threshold"] {
		c.clusterThreshold = 0
	}

	return &domain.BatchRequest{
		Paths:            paths,
		Recursive:        c.recursive,
		IncludePatterns:  c.includePatterns,
		ExcludePatterns:  c.excludePatterns,
		Language:         c.language,
		Optimized:        !c.exact,
		MinHashThreshold: c.minhashThreshold,
		ClusterThreshold: c.clusterThreshold,
		FindClusters:     c.clusters,
		NumHashes:        c.numHashes,
		ShingleSize:      c.shingleSize,
		NumBands:         c.numBands,
		RowsPerBand:      c.rowsPerBand,
		OutputFormat:     outputFormat,
		OutputWriter:     cmd.OutOrStdout(),
		ShowDetails:      c.showDetails,
		SortBy:           sortBy,
		ConfigPath:       c.configFile,
		Timeout:          c.timeout,
	}, nil
}

// createCompareUseCase creates a compare use case with all dependencies
func (c *CompareCommand) createCompareUseCase(cmd *cobra.Command) (*app.CompareUseCase, error) {
	progress := service.NewProgressReporter()
	progress.SetWriter(cmd.ErrOrStderr())

	batchService := service.NewBatchService(analyzer.NewStructuralComparator(), progress)

	return app.NewCompareUseCaseBuilder().
		WithService(batchService).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewBatchConfigurationLoader()).
		Build()
}
