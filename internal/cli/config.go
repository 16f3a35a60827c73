package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/wordhaze/wordhaze/pkg/cloud"
	"github.com/wordhaze/wordhaze/pkg/errors"
)

// applyConfigFile merges a TOML config file into opts underneath the parsed
// flags: a file key fills its field only when the corresponding flag was not
// set on the command line, so explicit flags always win. Keys the file does
// not define leave the flag defaults alone.
//
// A "seed" key in the file marks the run reproducible even when the seed is
// literally zero, which the plain struct decode cannot distinguish.
func applyConfigFile(flags *pflag.FlagSet, path string, opts *cloud.Options) error {
	var file cloud.Options
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err,
			"failed to load config file %s", path)
	}

	overlays := []struct {
		key   string
		flag  string
		apply func()
	}{
		{"width", "width", func() { opts.Width = file.Width }},
		{"height", "height", func() { opts.Height = file.Height }},
		{"mask", "mask", func() { opts.MaskPath = file.MaskPath }},
		{"scale", "scale", func() { opts.Scale = file.Scale }},
		{"background", "background", func() { opts.Background = file.Background }},
		{"pattern", "pattern", func() { opts.Pattern = file.Pattern }},
		{"min_word_length", "min-word-length", func() { opts.MinWordLength = file.MinWordLength }},
		{"exclude_numbers", "exclude-numbers", func() { opts.ExcludeNumbers = file.ExcludeNumbers }},
		{"exclude_words", "exclude-words", func() { opts.ExcludeWords = file.ExcludeWords }},
		{"custom_words", "custom-words", func() { opts.CustomWords = file.CustomWords }},
		{"max_words", "max-words", func() { opts.MaxWords = file.MaxWords }},
		{"font", "font", func() { opts.FontPath = file.FontPath }},
		{"word_margin", "margin", func() { opts.WordMargin = file.WordMargin }},
		{"min_font_size", "min-font-size", func() { opts.MinFontSize = file.MinFontSize }},
		{"max_font_size", "max-font-size", func() { opts.MaxFontSize = file.MaxFontSize }},
		{"font_step", "font-step", func() { opts.FontStep = file.FontStep }},
		{"repeat", "repeat", func() { opts.Repeat = file.Repeat }},
		{"rotate_chance", "rotate-chance", func() { opts.RotateChance = file.RotateChance }},
		{"relative_scaling", "relative-scaling", func() { opts.RelativeScaling = file.RelativeScaling }},
	}
	for _, o := range overlays {
		// Changed is false for flags a command does not register, so file
		// keys without a flag counterpart still apply.
		if md.IsDefined(o.key) && !flags.Changed(o.flag) {
			o.apply()
		}
	}

	if md.IsDefined("seed") && !flags.Changed("seed") {
		opts.Seed = file.Seed
		opts.HasSeed = true
	}
	return nil
}
