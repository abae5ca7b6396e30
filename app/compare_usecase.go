package app

import (
	"context"
	"fmt"

	"github.com/Anorak001/cide/domain"
)

// CompareUseCase orchestrates a batch comparison: validate the request,
// collect and read input files, run the comparison pipeline, format output.
type CompareUseCase struct {
	service      domain.BatchService
	fileReader   domain.FileReader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
}

// NewCompareUseCase creates a new compare use case with explicit dependencies
func NewCompareUseCase(
	service domain.BatchService,
	fileReader domain.FileReader,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
) *CompareUseCase {
	return &CompareUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
	}
}

// CompareUseCaseBuilder builds a CompareUseCase with a fluent interface
type CompareUseCaseBuilder struct {
	service      domain.BatchService
	fileReader   domain.FileReader
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
}

// NewCompareUseCaseBuilder creates a new builder
func NewCompareUseCaseBuilder() *CompareUseCaseBuilder {
	return &CompareUseCaseBuilder{}
}

// WithService sets the batch service
func (b *CompareUseCaseBuilder) WithService(service domain.BatchService) *CompareUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *CompareUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *CompareUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *CompareUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *CompareUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *CompareUseCaseBuilder) WithConfigLoader(configLoader domain.ConfigurationLoader) *CompareUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// Build creates the use case, failing when required dependencies are missing
func (b *CompareUseCaseBuilder) Build() (*CompareUseCase, error) {
	if b.service == nil {
		return nil, domain.NewConfigError("batch service is required", nil)
	}
	if b.fileReader == nil {
		return nil, domain.NewConfigError("file reader is required", nil)
	}
	if b.formatter == nil {
		return nil, domain.NewConfigError("output formatter is required", nil)
	}
	return NewCompareUseCase(b.service, b.fileReader, b.formatter, b.configLoader), nil
}

// Execute runs the batch comparison and writes formatted output
func (u *CompareUseCase) Execute(ctx context.Context, req *domain.BatchRequest) error {
	response, err := u.Analyze(ctx, req)
	if err != nil {
		return err
	}

	if !req.HasValidOutputWriter() {
		return domain.NewOutputError("no output writer configured", nil)
	}
	return u.formatter.Format(response, req.OutputFormat, req.OutputWriter)
}

// Analyze runs the batch comparison and returns the raw response without
// formatting. The MCP layer uses this to serialize results itself.
func (u *CompareUseCase) Analyze(ctx context.Context, req *domain.BatchRequest) (*domain.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ConfigPath != "" && u.configLoader != nil {
		fileReq, err := u.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return nil, err
		}
		mergeRequests(req, fileReq)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	documents, err := u.loadDocuments(req)
	if err != nil {
		return nil, err
	}
	if len(documents) < 2 {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("need at least 2 source files to compare, found %d", len(documents)), nil)
	}

	switch {
	case req.FindClusters:
		return u.service.FindClusters(ctx, documents, req)
	case req.Optimized:
		return u.service.CompareAllPairsOptimized(ctx, documents, req)
	default:
		return u.service.CompareAllPairs(ctx, documents, req)
	}
}

// QuickCheck estimates similarity between two files without building an index
func (u *CompareUseCase) QuickCheck(ctx context.Context, path1, path2 string) (float64, error) {
	content1, err := u.fileReader.ReadFile(path1)
	if err != nil {
		return 0, err
	}
	content2, err := u.fileReader.ReadFile(path2)
	if err != nil {
		return 0, err
	}
	return u.service.QuickCheck(ctx, string(content1), string(content2))
}

// loadDocuments collects and reads all input files
func (u *CompareUseCase) loadDocuments(req *domain.BatchRequest) ([]domain.Document, error) {
	files, err := u.fileReader.CollectSourceFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	documents := make([]domain.Document, 0, len(files))
	for _, file := range files {
		content, err := u.fileReader.ReadFile(file)
		if err != nil {
			return nil, err
		}
		documents = append(documents, domain.Document{Name: file, Content: string(content)})
	}
	return documents, nil
}

// mergeRequests fills unset request fields from a config-file request.
// Explicit command-line values always win.
func mergeRequests(req, fileReq *domain.BatchRequest) {
	if len(req.IncludePatterns) == 0 {
		req.IncludePatterns = fileReq.IncludePatterns
	}
	if len(req.ExcludePatterns) == 0 {
		req.ExcludePatterns = fileReq.ExcludePatterns
	}
	if req.Language == "" {
		req.Language = fileReq.Language
	}
	if req.MinHashThreshold == 0 {
		req.MinHashThreshold = fileReq.MinHashThreshold
	}
	if req.ClusterThreshold == 0 {
		req.ClusterThreshold = fileReq.ClusterThreshold
	}
	if req.NumHashes == 0 {
		req.NumHashes = fileReq.NumHashes
	}
	if req.ShingleSize == 0 {
		req.ShingleSize = fileReq.ShingleSize
	}
	if req.NumBands == 0 {
		req.NumBands = fileReq.NumBands
	}
	if req.RowsPerBand == 0 {
		req.RowsPerBand = fileReq.RowsPerBand
	}
	if req.SortBy == "" {
		req.SortBy = fileReq.SortBy
	}
	if req.OutputFormat == "" {
		req.OutputFormat = fileReq.OutputFormat
	}
}
