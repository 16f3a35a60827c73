package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wordhaze/wordhaze/pkg/cache"
	"github.com/wordhaze/wordhaze/pkg/cloud"
)

// newAnalyzeCmd creates the analyze command for inspecting word frequencies
// without rendering. Useful for tuning filters before a long generate run.
func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		output     string
		asJSON     bool
		limit      int
	)
	opts := cloud.Options{
		ExcludeNumbers: true,
	}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print the ranked word frequency list for a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, &opts); err != nil {
					return err
				}
			}
			return runAnalyze(cmd.Context(), args[0], output, asJSON, limit, &opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file (flags override it)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full list as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of rows to print (table output)")

	cmd.Flags().IntVar(&opts.MaxWords, "max-words", 0, "word list truncation limit (negative = unlimited)")
	cmd.Flags().IntVar(&opts.MinWordLength, "min-word-length", 0, "drop words shorter than this many runes")
	cmd.Flags().BoolVar(&opts.ExcludeNumbers, "exclude-numbers", true, "drop all-numeric words")
	cmd.Flags().StringSliceVar(&opts.ExcludeWords, "exclude-words", nil, "words to drop (case-insensitive)")
	cmd.Flags().StringSliceVar(&opts.CustomWords, "custom-words", nil, "extra dictionary words for the segmenter")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "token pattern regexp")

	return cmd
}

// runAnalyze runs the frequency stage and prints the result.
func runAnalyze(ctx context.Context, input, output string, asJSON bool, limit int, opts *cloud.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	text, err := readInput(input)
	if err != nil {
		return err
	}

	runner := cloud.NewRunner(cache.NewNullCache(), nil, logger)
	defer runner.Close()

	prog := newProgress(logger)
	words, err := runner.Analyze(ctx, text, *opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d words", len(words)))

	if asJSON {
		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(words)
	}

	if limit <= 0 || limit > len(words) {
		limit = len(words)
	}
	fmt.Println(StyleTitle.Render("Top words"))
	for i := 0; i < limit; i++ {
		w := words[i]
		fmt.Printf("%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("%3d.", i+1)),
			StyleValue.Render(fmt.Sprintf("%-24s", w.Text)),
			StyleNumber.Render(fmt.Sprintf("%6d  %.3f", w.Count, w.Weight)),
		)
	}
	if limit < len(words) {
		printDetail("... and %d more (use --limit or --json)", len(words)-limit)
	}
	return nil
}
