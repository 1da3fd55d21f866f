package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/itemforge/internal/classify"
	"github.com/abhisek/itemforge/internal/llm"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [passage-file]",
	Short: "Recommend item types for a passage",
	Long: "Suggest scores the passage with the deterministic rule scorer and " +
		"the LLM router, merges both rankings, and prints the gated result as JSON.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top")
		rulesOnly, _ := cmd.Flags().GetBool("rules-only")

		text, err := readPassage(cmd, args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("empty passage")
		}

		var provider llm.Provider
		if !rulesOnly {
			provider, err = newProvider(cmd)
			if err != nil {
				return err
			}
		}

		suggestion := classify.New(provider).Suggest(cmd.Context(), text, topK)
		return printJSON(cmd, suggestion)
	},
}

func init() {
	suggestCmd.Flags().IntP("top", "k", 5, "Number of top types to return (1-5)")
	suggestCmd.Flags().Bool("rules-only", false, "Skip the LLM scorer and rank with the rule scorer alone")
}
