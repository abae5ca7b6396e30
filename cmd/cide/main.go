package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Anorak001/cide/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cide",
	Short: "A fast near-duplicate detector for source code",
	Long: `cide finds near-duplicate source files using MinHash signatures
and locality-sensitive hashing.

A cheap probabilistic pre-filter narrows the candidate pairs, then an
exact AST comparison scores only the survivors. On large batches this
avoids the vast majority of expensive pairwise comparisons.

Features:
  • MinHash/LSH candidate filtering with tunable band geometry
  • AST-based exact similarity scoring
  • Duplicate cluster detection
  • Text, JSON, YAML, and CSV output`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewCompareCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewQuickCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
