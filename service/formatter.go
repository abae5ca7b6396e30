package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Anorak001/cide/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format writes the response to writer in the requested format
func (f *OutputFormatterImpl) Format(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.formatJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.formatYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	case domain.OutputFormatText, "":
		return f.formatText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) formatJSON(response *domain.BatchResponse, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return domain.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) formatYAML(response *domain.BatchResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	if err := encoder.Encode(response); err != nil {
		return domain.NewOutputError("failed to encode YAML output", err)
	}
	return nil
}

// formatCSV writes one row per comparison. Matrix, statistics, and clusters
// have no natural tabular shape and are omitted from CSV.
func (f *OutputFormatterImpl) formatCSV(response *domain.BatchResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"file1", "file2", "similarity", "minhash_estimate", "identical_structure", "failed"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV output", err)
	}

	for _, pc := range response.Comparisons {
		record := []string{
			pc.File1,
			pc.File2,
			strconv.FormatFloat(pc.Similarity, 'f', 4, 64),
			strconv.FormatFloat(pc.MinHashEstimate, 'f', 4, 64),
			strconv.FormatBool(pc.IdenticalAST),
			strconv.FormatBool(pc.Failed),
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV output", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to write CSV output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) formatText(response *domain.BatchResponse, writer io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Similarity Analysis\n")
	sb.WriteString("===================\n\n")
	fmt.Fprintf(&sb, "Mode:        %s\n", response.Mode)
	if response.Language != "" {
		fmt.Fprintf(&sb, "Language:    %s\n", response.Language)
	}
	fmt.Fprintf(&sb, "Files:       %d\n", response.FileCount)
	fmt.Fprintf(&sb, "Comparisons: %d\n", response.ComparisonCount)

	if response.TotalPossiblePairs > 0 && response.Optimization != nil {
		fmt.Fprintf(&sb, "Possible pairs:    %d\n", response.TotalPossiblePairs)
		fmt.Fprintf(&sb, "Comparisons saved: %d (%.1f%%)\n",
			response.ComparisonsSaved, response.EfficiencyPercent)
		fmt.Fprintf(&sb, "Speedup:           %.1fx\n", response.Optimization.Speedup)
	}
	fmt.Fprintf(&sb, "Duration:    %dms\n\n", response.Duration)

	if response.Statistics != nil && response.ComparisonCount > 0 {
		stats := response.Statistics
		sb.WriteString("Statistics\n")
		sb.WriteString("----------\n")
		fmt.Fprintf(&sb, "Average similarity: %.1f%%\n", stats.AverageSimilarity*100)
		fmt.Fprintf(&sb, "Max similarity:     %.1f%%\n", stats.MaxSimilarity*100)
		fmt.Fprintf(&sb, "Min similarity:     %.1f%%\n", stats.MinSimilarity*100)
		if stats.MostSimilarPair != nil {
			fmt.Fprintf(&sb, "Most similar pair:  %s <-> %s\n",
				stats.MostSimilarPair.File1, stats.MostSimilarPair.File2)
		}
		sb.WriteString("\n")
	}

	if len(response.Comparisons) > 0 {
		sb.WriteString("Comparisons\n")
		sb.WriteString("-----------\n")
		for _, pc := range response.Comparisons {
			if pc.Failed {
				fmt.Fprintf(&sb, "  %s <-> %s: FAILED (%s)\n", pc.File1, pc.File2, pc.FailureReason)
				continue
			}
			marker := ""
			if pc.IdenticalAST {
				marker = " [identical structure]"
			}
			fmt.Fprintf(&sb, "  %s <-> %s: %s%s\n", pc.File1, pc.File2, pc.Percentage(), marker)
		}
		sb.WriteString("\n")
	}

	if len(response.Clusters) > 0 {
		sb.WriteString("Duplicate Clusters\n")
		sb.WriteString("------------------\n")
		for _, cluster := range response.Clusters {
			fmt.Fprintf(&sb, "Cluster %d (avg %.1f%%):\n", cluster.ID, cluster.AverageSimilarity*100)
			for _, file := range cluster.Files {
				fmt.Fprintf(&sb, "  - %s\n", file)
			}
		}
		sb.WriteString("\n")
	}

	if len(response.FileRankings) > 0 {
		sb.WriteString("File Rankings\n")
		sb.WriteString("-------------\n")
		for i, ranking := range response.FileRankings {
			fmt.Fprintf(&sb, "%3d. %s (%.1f%%)\n", i+1, ranking.File, ranking.AverageSimilarity*100)
		}
	}

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}
	return nil
}
