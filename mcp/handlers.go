package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Anorak001/cide/app"
	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/analyzer"
	"github.com/Anorak001/cide/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies
type HandlerSet struct {
	useCase    *app.CompareUseCase
	comparator domain.ExactComparator
	fileReader domain.FileReader
}

// NewHandlerSet constructs a handler set with default dependencies.
// Progress output is disabled; MCP transports have no terminal.
func NewHandlerSet() *HandlerSet {
	comparator := analyzer.NewStructuralComparator()
	fileReader := service.NewFileReader()
	batchService := service.NewBatchService(comparator, nil)

	useCase, _ := app.NewCompareUseCaseBuilder().
		WithService(batchService).
		WithFileReader(fileReader).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewBatchConfigurationLoader()).
		Build()

	return &HandlerSet{
		useCase:    useCase,
		comparator: comparator,
		fileReader: fileReader,
	}
}

// HandleFindDuplicates handles the find_duplicates tool
func (h *HandlerSet) HandleFindDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := &domain.BatchRequest{
		Paths:     []string{path},
		Recursive: true,
		Optimized: true,
		Language:  "python",
	}
	if threshold, ok := args["threshold"].(float64); ok {
		req.MinHashThreshold = threshold
	}
	if exact, ok := args["exact"].(bool); ok {
		req.Optimized = !exact
	}
	if clusters, ok := args["clusters"].(bool); ok {
		req.FindClusters = clusters
	}
	if language, ok := args["language"].(string); ok {
		req.Language = language
	}

	response, err := h.useCase.Analyze(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	// Summary payload; the full matrix is too large for tool output
	responseData := map[string]interface{}{
		"mode":             response.Mode,
		"file_count":       response.FileCount,
		"comparison_count": response.ComparisonCount,
		"statistics":       response.Statistics,
		"comparisons":      response.Comparisons,
		"clusters":         response.Clusters,
	}
	if response.Optimization != nil {
		responseData["comparisons_saved"] = response.ComparisonsSaved
		responseData["efficiency_percentage"] = response.EfficiencyPercent
		responseData["speedup"] = response.Optimization.Speedup
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleQuickCheck handles the quick_check tool
func (h *HandlerSet) HandleQuickCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file1, file2, errResult := h.twoFileArgs(request)
	if errResult != nil {
		return errResult, nil
	}

	similarity, err := h.useCase.QuickCheck(ctx, file1, file2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("quick check failed: %v", err)), nil
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"file1":      file1,
		"file2":      file2,
		"similarity": similarity,
		"estimate":   true,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleCompareFiles handles the compare_files tool
func (h *HandlerSet) HandleCompareFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file1, file2, errResult := h.twoFileArgs(request)
	if errResult != nil {
		return errResult, nil
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	language := "python"
	if lang, ok := args["language"].(string); ok && lang != "" {
		language = lang
	}

	content1, err := h.fileReader.ReadFile(file1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", file1, err)), nil
	}
	content2, err := h.fileReader.ReadFile(file2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", file2, err)), nil
	}

	result, err := h.comparator.Compare(ctx, string(content1), string(content2), language)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"file1":               file1,
		"file2":               file2,
		"similarity":          result.Similarity,
		"identical_structure": result.IdenticalAST,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// twoFileArgs extracts and validates the file1/file2 parameters
func (h *HandlerSet) twoFileArgs(request mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", "", mcp.NewToolResultError("invalid arguments format")
	}

	file1, ok := args["file1"].(string)
	if !ok {
		return "", "", mcp.NewToolResultError("file1 parameter is required and must be a string")
	}
	file2, ok := args["file2"].(string)
	if !ok {
		return "", "", mcp.NewToolResultError("file2 parameter is required and must be a string")
	}

	for _, f := range []string{file1, file2} {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			return "", "", mcp.NewToolResultError(fmt.Sprintf("file does not exist: %s", f))
		}
	}
	return file1, file2, nil
}
