package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Anorak001/cide/app"
	"github.com/Anorak001/cide/internal/analyzer"
	"github.com/Anorak001/cide/service"
)

// QuickCommand handles the quick two-file similarity check
type QuickCommand struct {
	threshold float64
}

// NewQuickCommand creates a new quick check command
func NewQuickCommand() *QuickCommand {
	return &QuickCommand{
		threshold: 0.0,
	}
}

// CreateCobraCommand creates the Cobra command for the quick check
func (q *QuickCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quick <file1> <file2>",
		Short: "Estimate similarity between two files",
		Long: `Estimate the similarity of two files from their MinHash signatures.

This is the cheap probabilistic estimate only; no AST comparison runs.
With --fail-below set, the command exits non-zero when the estimate
falls below the threshold, which makes it usable as a CI gate.

Examples:
  # Print the similarity estimate
  cide quick a.py b.py

  # Fail when the files drift below 90% similarity
  cide quick --fail-below 0.9 generated.py checked_in.py`,
		Args: cobra.ExactArgs(2),
		RunE: q.runQuickCheck,
	}

	cmd.Flags().Float64Var(&q.threshold, "fail-below", q.threshold,
		"Exit non-zero when similarity falls below this value (0.0-1.0)")

	return cmd
}

// runQuickCheck executes the quick check
func (q *QuickCommand) runQuickCheck(cmd *cobra.Command, args []string) error {
	batchService := service.NewBatchService(analyzer.NewStructuralComparator(), nil)

	useCase, err := app.NewCompareUseCaseBuilder().
		WithService(batchService).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create compare use case: %w", err)
	}

	similarity, err := useCase.QuickCheck(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("quick check failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <-> %s: %.1f%%\n", args[0], args[1], similarity*100)

	if q.threshold > 0 && similarity < q.threshold {
		return fmt.Errorf("similarity %.3f below threshold %.3f", similarity, q.threshold)
	}
	return nil
}
