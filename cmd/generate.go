package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/itemforge/internal/generate"
)

var generateCmd = &cobra.Command{
	Use:   "generate [passage-file]",
	Short: "Generate exam items from a passage",
	Long: "Generate runs one attempt per requested type and repetition and prints " +
		"every envelope, successes and structured failures alike, as a JSON array.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types, _ := cmd.Flags().GetStringSlice("types")
		if len(types) == 0 {
			return fmt.Errorf("at least one --types code is required (e.g. --types RC31,RC36)")
		}
		n, _ := cmd.Flags().GetInt("per-type")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		seed, _ := cmd.Flags().GetInt("seed")

		text, err := readPassage(cmd, args)
		if err != nil {
			return err
		}

		provider, err := newProvider(cmd)
		if err != nil {
			return err
		}

		results := generate.New(provider).GenerateBatch(cmd.Context(), generate.BatchRequest{
			Passage:    text,
			Types:      types,
			NPerType:   n,
			Difficulty: difficulty,
			Seed:       seed,
		})
		return printJSON(cmd, results)
	},
}

func init() {
	generateCmd.Flags().StringSliceP("types", "t", nil, "Item type codes to generate (e.g. RC31,RC36,LC06)")
	generateCmd.Flags().IntP("per-type", "n", 1, "Items to generate per type")
	generateCmd.Flags().StringP("difficulty", "d", "medium", "Item difficulty: easy, medium, or hard")
	generateCmd.Flags().Int("seed", 0, "Sampling seed forwarded to the provider (0 leaves it unset)")
}
