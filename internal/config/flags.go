package config

// This file binds Config fields to pflag flags and derives environment
// overrides from the same bindings, so a flag, its HTMLCOMPRESSOR_* variable
// and its YAML key always reach the same field.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HTMLCOMPRESSOR_"

// BindFlags registers the flags for cfg.Mode on fs, using cfg's current
// values as defaults. HTML-only options are not registered in XML mode.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	bindRunFlags(fs, cfg)
	bindCodecFlags(fs, cfg)
	bindPreserveFlags(fs, cfg)
	if cfg.Mode != ModeXML {
		bindHTMLFlags(fs, cfg)
	}
	bindDisplayFlags(fs, cfg)
}

// bindRunFlags registers discovery, output and run-control flags.
func bindRunFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Enabled, "enabled", cfg.Enabled, "Run compression (false skips the run)")
	fs.BoolVar(&cfg.Skip, "skip", cfg.Skip, "Skip the run")
	fs.StringVar(&cfg.SrcFolder, "src-folder", cfg.SrcFolder, "Source folder")
	fs.StringVar(&cfg.TargetFolder, "target-folder", cfg.TargetFolder, "Target folder")
	fs.StringSliceVar(&cfg.FileExt, "file-ext", cfg.FileExt, "File name suffixes to process (default per mode)")
	fs.StringSliceVar(&cfg.Exclude, "exclude", cfg.Exclude, "Doublestar patterns of keys to skip")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Character encoding of source and output files")
	fs.StringSliceVar(&cfg.Precompress, "precompress", cfg.Precompress, "Write compressed siblings: gzip, br, zstd")
	fs.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Parallel transform workers (0 or 1: sequential)")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "Run preflight checks and exit")
	fs.BoolVarP(&cfg.Watch, "watch", "w", cfg.Watch, "Re-run when the source folder changes")
}

// bindCodecFlags registers the removal flags shared by both modes, plus the
// HTML-only compaction and script options.
func bindCodecFlags(fs *pflag.FlagSet, cfg *Config) {
	o := &cfg.Codec
	fs.BoolVar(&o.RemoveComments, "remove-comments", o.RemoveComments, "Remove comments")
	fs.BoolVar(&o.RemoveIntertagSpaces, "remove-intertag-spaces", o.RemoveIntertagSpaces, "Remove whitespace between tags")
	if cfg.Mode == ModeXML {
		return
	}
	fs.BoolVar(&o.RemoveMultiSpaces, "remove-multi-spaces", o.RemoveMultiSpaces, "Collapse repeated whitespace")
	fs.BoolVar(&o.RemoveQuotes, "remove-quotes", o.RemoveQuotes, "Remove unneeded attribute quotes")
	fs.BoolVar(&o.SimpleDoctype, "simple-doctype", o.SimpleDoctype, "Replace the doctype with <!DOCTYPE html>")
	fs.BoolVar(&o.RemoveScriptAttributes, "remove-script-attributes", o.RemoveScriptAttributes, "Remove default script attributes")
	fs.BoolVar(&o.RemoveStyleAttributes, "remove-style-attributes", o.RemoveStyleAttributes, "Remove default style attributes")
	fs.BoolVar(&o.RemoveLinkAttributes, "remove-link-attributes", o.RemoveLinkAttributes, "Remove default link attributes")
	fs.BoolVar(&o.RemoveFormAttributes, "remove-form-attributes", o.RemoveFormAttributes, "Remove default form attributes")
	fs.BoolVar(&o.RemoveInputAttributes, "remove-input-attributes", o.RemoveInputAttributes, "Remove default input attributes")
	fs.BoolVar(&o.SimpleBooleanAttributes, "simple-boolean-attributes", o.SimpleBooleanAttributes, "Shorten boolean attributes")
	fs.BoolVar(&o.RemoveJavaScriptProtocol, "remove-javascript-protocol", o.RemoveJavaScriptProtocol, "Remove javascript: from event handlers")
	fs.BoolVar(&o.RemoveHTTPProtocol, "remove-http-protocol", o.RemoveHTTPProtocol, "Remove http: from URLs")
	fs.BoolVar(&o.RemoveHTTPSProtocol, "remove-https-protocol", o.RemoveHTTPSProtocol, "Remove https: from URLs")

	fs.BoolVar(&o.CompressCSS, "compress-css", o.CompressCSS, "Minify inline CSS")
	fs.IntVar(&o.YUICSSLineBreak, "yui-css-line-break", o.YUICSSLineBreak, "YUI CSS line break column (accepted, unused)")
	fs.BoolVar(&o.CompressJavaScript, "compress-javascript", o.CompressJavaScript, "Minify inline JavaScript")
	fs.StringVar(&o.JSCompressor, "js-compressor", o.JSCompressor, "JavaScript compressor: yui | closure")
	fs.BoolVar(&o.YUIJSNoMunge, "yui-js-no-munge", o.YUIJSNoMunge, "Keep JavaScript identifiers (yui)")
	fs.BoolVar(&o.YUIJSPreserveAllSemiColons, "yui-js-preserve-all-semicolons", o.YUIJSPreserveAllSemiColons, "Keep all semicolons (accepted, unused)")
	fs.IntVar(&o.YUIJSLineBreak, "yui-js-line-break", o.YUIJSLineBreak, "YUI JavaScript line break column (accepted, unused)")
	fs.BoolVar(&o.YUIJSDisableOptimizations, "yui-js-disable-optimizations", o.YUIJSDisableOptimizations, "Disable YUI micro optimizations (accepted, unused)")
	fs.StringVar(&o.ClosureOptLevel, "closure-opt-level", o.ClosureOptLevel, "Closure level: simple | advanced | whitespace")
	fs.BoolVar(&o.ClosureCustomExternsOnly, "closure-custom-externs-only", o.ClosureCustomExternsOnly, "Use only custom closure externs (accepted, unused)")
	fs.StringSliceVar(&o.ClosureExterns, "closure-externs", o.ClosureExterns, "Closure externs files (accepted, unused)")
}

// bindPreserveFlags registers the three preserve pattern sources. Literal
// patterns use a string array so commas inside a regex are kept.
func bindPreserveFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringSliceVar(&cfg.PredefinedPreservePatterns, "predefined-preserve-patterns", cfg.PredefinedPreservePatterns, "PHP_TAG_PATTERN, SERVER_SCRIPT_TAG_PATTERN")
	fs.StringArrayVar(&cfg.PreservePatterns, "preserve-pattern", cfg.PreservePatterns, "Regular expression to preserve (repeatable)")
	fs.StringSliceVar(&cfg.PreservePatternFiles, "preserve-pattern-files", cfg.PreservePatternFiles, "Files with one preserve regex per line")
}

// bindHTMLFlags registers the statistics report and JSON sprite flags.
func bindHTMLFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.GenerateStatistics, "generate-statistics", cfg.GenerateStatistics, "Write the compression statistics report")
	fs.StringVar(&cfg.StatisticsFile, "statistics-file", cfg.StatisticsFile, "Statistics report path")
	fs.BoolVar(&cfg.JavascriptHTMLSprite, "javascript-html-sprite", cfg.JavascriptHTMLSprite, "Bundle compressed pages into one script")
	fs.StringVar(&cfg.JavascriptHTMLSpriteIntegrationFile, "javascript-html-sprite-integration-file", cfg.JavascriptHTMLSpriteIntegrationFile, "Bundle template containing %s")
	fs.StringVar(&cfg.JavascriptHTMLSpriteTargetFile, "javascript-html-sprite-target-file", cfg.JavascriptHTMLSpriteTargetFile, "Bundle output path")
}

// bindDisplayFlags registers --color, --verbose and --log.
func bindDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
}

// EnvName returns the environment variable that overrides flag name.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// ApplyEnv sets every field whose HTMLCOMPRESSOR_* variable is present.
// Slice variables are comma separated. Errors name the variable.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	fs := pflag.NewFlagSet("env", pflag.ContinueOnError)
	BindFlags(fs, cfg)

	var names []string
	fs.VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
	sort.Strings(names)

	for _, name := range names {
		v, ok := lookup(EnvName(name))
		if !ok {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("%s: %w", EnvName(name), err)
		}
	}
	return nil
}

// ApplyFlags copies the flags the user actually set on parsed onto cfg,
// leaving every other field as loaded. Flags cfg's mode does not bind are
// ignored.
func ApplyFlags(cfg *Config, parsed *pflag.FlagSet) error {
	target := pflag.NewFlagSet("apply", pflag.ContinueOnError)
	BindFlags(target, cfg)

	var err error
	parsed.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		tf := target.Lookup(f.Name)
		if tf == nil {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if tsv, ok := tf.Value.(pflag.SliceValue); ok {
				err = tsv.Replace(sv.GetSlice())
				return
			}
		}
		if e := target.Set(f.Name, f.Value.String()); e != nil {
			err = fmt.Errorf("--%s: %w", f.Name, e)
		}
	})
	return err
}

// colorModeValue adapts ColorMode to pflag.Value.
type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch ColorMode(strings.ToLower(s)) {
	case ColorAuto:
		*c.p = ColorAuto
	case ColorAlways:
		*c.p = ColorAlways
	case ColorNever:
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
