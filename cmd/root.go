package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/itemforge/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "itemforge",
	Short: "CSAT English exam item generator",
	Long: "Itemforge builds CSAT-style English exam items from a passage " +
		"and recommends which item types a passage supports.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("provider", "",
		"LLM provider (anthropic|openai|gemini|openrouter|mock); overrides ITEMFORGE_LLM_PROVIDER")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig builds the LLM config from the environment, letting the
// --provider flag win. When no provider was named explicitly and the
// configured one has no key, the standard key env vars are probed as a
// fallback.
func resolveConfig(cmd *cobra.Command) (llm.Config, error) {
	flagProvider, _ := cmd.Flags().GetString("provider")
	explicit := flagProvider != "" || os.Getenv("ITEMFORGE_LLM_PROVIDER") != ""

	cfg := llm.ConfigFromEnv()
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if !explicit && cfg.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	if err := cfg.Validate(); err != nil {
		return llm.Config{}, err
	}
	return cfg, nil
}

func newProvider(cmd *cobra.Command) (llm.Provider, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return llm.NewProvider(cmd.Context(), cfg, nil)
}

// readPassage reads the passage from the file argument, or from stdin
// when the argument is absent or "-".
func readPassage(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read passage: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read passage from stdin: %w", err)
	}
	return string(b), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
