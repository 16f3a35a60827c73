package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wordhaze/wordhaze/pkg/cloud"
)

// newGenerateCmd creates the generate command for rendering word clouds.
//
// Default settings mirror cloud.Options defaults:
//   - canvas: 800x600 (ignored when --mask is set)
//   - max words: 200, min font size: 4, font step: 1, word margin: 2
//   - rotate chance: 0.10, relative scaling: 0.5
//   - background: #000000
func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		output     string
		noCache    bool
		seed       uint64
	)
	opts := cloud.Options{
		ExcludeNumbers: true,
	}

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Render a word cloud PNG from a text file",
		Long:  `Generate reads a text file (or stdin when the argument is "-"), ranks word frequencies, packs the words onto the canvas or mask silhouette, and writes a PNG.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
				opts.HasSeed = true
			}
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, &opts); err != nil {
					return err
				}
			}
			return runGenerate(cmd.Context(), args[0], output, noCache, &opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file (flags override it)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default: input name with .png)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even on a cache hit")

	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "canvas height in pixels")
	cmd.Flags().StringVar(&opts.MaskPath, "mask", "", "silhouette mask image (black = placeable)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "output resolution multiplier")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (#rrggbb)")

	cmd.Flags().StringVar(&opts.FontPath, "font", "", "TrueType font file (default: discovered system font)")
	cmd.Flags().IntVar(&opts.WordMargin, "margin", 0, "pixels added around each word")
	cmd.Flags().IntVar(&opts.MaxWords, "max-words", 0, "word list truncation limit (negative = unlimited)")
	cmd.Flags().Float64Var(&opts.MinFontSize, "min-font-size", 0, "hard lower bound of the size search")
	cmd.Flags().Float64Var(&opts.MaxFontSize, "max-font-size", 0, "starting size clamp (0 = none)")
	cmd.Flags().Float64Var(&opts.FontStep, "font-step", 0, "size decay granularity")
	cmd.Flags().BoolVar(&opts.Repeat, "repeat", false, "disable relative scaling between words")
	cmd.Flags().Float64Var(&opts.RotateChance, "rotate-chance", 0, "probability of an initially rotated word [0,1]")
	cmd.Flags().Float64Var(&opts.RelativeScaling, "relative-scaling", 0, "size inheritance blend factor [0,1]")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")

	cmd.Flags().IntVar(&opts.MinWordLength, "min-word-length", 0, "drop words shorter than this many runes")
	cmd.Flags().BoolVar(&opts.ExcludeNumbers, "exclude-numbers", true, "drop all-numeric words")
	cmd.Flags().StringSliceVar(&opts.ExcludeWords, "exclude-words", nil, "words to drop (case-insensitive)")
	cmd.Flags().StringSliceVar(&opts.CustomWords, "custom-words", nil, "extra dictionary words for the segmenter")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "token pattern regexp")

	return cmd
}

// runGenerate executes the pipeline for one input file and writes the PNG.
func runGenerate(ctx context.Context, input, output string, noCache bool, opts *cloud.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	text, err := readInput(input)
	if err != nil {
		return err
	}
	logger.Debugf("Read %d bytes from %s", len(text), input)

	c, err := newCache(noCache)
	if err != nil {
		return err
	}
	runner := cloud.NewRunner(c, nil, logger)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Placing words...")
	spinner.Start()
	result, err := runner.Execute(ctx, text, *opts)
	if spinner.Cancelled() {
		spinner.Stop()
		return context.Canceled
	}
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
		if input == "-" {
			path = "cloud.png"
		}
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(result.PNG); err != nil {
		return err
	}

	printSuccess("Generated word cloud")
	printFile(path)
	if result.CacheInfo.ArtifactHit {
		printStats(0, 0, true)
	} else {
		printStats(result.Stats.PlacedCount, result.Stats.Skipped(), false)
		if result.Stats.Skipped() > 0 {
			printWarning("%d words found no free position; try a larger canvas or a smaller --min-font-size", result.Stats.Skipped())
		}
	}
	return nil
}

// readInput reads the whole input file, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
