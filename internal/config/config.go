// Package config holds runtime configuration: defaults per mode, YAML file
// and environment overrides, CLI flag binding, and validation. Defaults match
// the htmlcompressor Maven plugin so existing build layouts work unchanged.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/htmlcompressor/internal/codec"
	"github.com/backmassage/htmlcompressor/internal/precompress"
	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// --- Enum types for validated string fields ---

// Mode selects the codec and its defaults.
type Mode string

const (
	ModeHTML Mode = "html" // HTML pages, with bundling and statistics (default).
	ModeXML  Mode = "xml"  // XML documents.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is built by [ForMode], overlaid by
// [LoadFile], [ApplyEnv] and [ApplyFlags], then passed by pointer to the
// packages that need it. YAML keys follow the Maven plugin parameter names.
type Config struct {
	Mode Mode `yaml:"mode"`

	// Run control.
	Enabled bool `yaml:"enabled"` // Default: true. False skips the run.
	Skip    bool `yaml:"skip"`    // Same effect as Enabled=false.

	// Discovery and output.
	SrcFolder    string   `yaml:"srcFolder"`
	TargetFolder string   `yaml:"targetFolder"`
	FileExt      []string `yaml:"fileExt"` // Empty: htm,html (HTML) or xml (XML).
	Exclude      []string `yaml:"exclude"` // Doublestar patterns over root-relative keys.
	Encoding     string   `yaml:"encoding"`

	// Compression flags forwarded to the codec.
	Codec codec.Options `yaml:",inline"`

	// Preserve patterns.
	PredefinedPreservePatterns []string `yaml:"predefinedPreservePatterns"`
	PreservePatterns           []string `yaml:"preservePatterns"`
	PreservePatternFiles       []string `yaml:"preservePatternFiles"`

	// Statistics report (HTML only).
	GenerateStatistics bool   `yaml:"generateStatistics"`
	StatisticsFile     string `yaml:"htmlCompressionStatistics"`

	// JSON sprite bundle (HTML only).
	JavascriptHTMLSprite                bool   `yaml:"javascriptHtmlSprite"`
	JavascriptHTMLSpriteIntegrationFile string `yaml:"javascriptHtmlSpriteIntegrationFile"`
	JavascriptHTMLSpriteTargetFile      string `yaml:"javascriptHtmlSpriteTargetFile"`

	// Extras.
	Precompress []string `yaml:"precompress"` // gzip, br, zstd
	Workers     int      `yaml:"workers"`     // 0 or 1: sequential transform.

	// Display and logging.
	Verbose   bool      `yaml:"verbose"`
	ColorMode ColorMode `yaml:"color"`
	LogFile   string    `yaml:"logFile"`

	// Command-line only.
	CheckOnly bool `yaml:"-"`
	Watch     bool `yaml:"-"`
}

// DefaultConfig returns the HTML defaults of the Maven plugin.
func DefaultConfig() Config {
	return Config{
		Mode:                                ModeHTML,
		Enabled:                             true,
		SrcFolder:                           "src/main/resources/html",
		TargetFolder:                        "target/htmlcompressor/html",
		Encoding:                            "utf-8",
		Codec:                               codec.DefaultOptions(),
		GenerateStatistics:                  true,
		StatisticsFile:                      "target/htmlcompressor/html-compression-statistics.txt",
		JavascriptHTMLSprite:                true,
		JavascriptHTMLSpriteIntegrationFile: "src/main/resources/html/integration.js",
		JavascriptHTMLSpriteTargetFile:      "target/htmlcompressor/html/integration.js",
		ColorMode:                           ColorAuto,
	}
}

// DefaultXMLConfig returns the XML defaults: resources compiled into
// target/classes, comments and inter-tag whitespace removed, no bundle and
// no statistics.
func DefaultXMLConfig() Config {
	return Config{
		Mode:         ModeXML,
		Enabled:      true,
		SrcFolder:    "src/main/resources",
		TargetFolder: "target/classes",
		Encoding:     "utf-8",
		Codec:        codec.DefaultXMLOptions(),
		ColorMode:    ColorAuto,
	}
}

// ForMode returns the defaults for mode.
func ForMode(mode Mode) Config {
	if mode == ModeXML {
		return DefaultXMLConfig()
	}
	return DefaultConfig()
}

// Extensions returns FileExt, or the mode's default set when none is given.
func (c *Config) Extensions() []string {
	if len(c.FileExt) > 0 {
		return c.FileExt
	}
	if c.Mode == ModeXML {
		return []string{"xml"}
	}
	return []string{"htm", "html"}
}

// Active reports whether the run should do any work.
func (c *Config) Active() bool {
	return c.Enabled && !c.Skip
}

// Title names the mode in reports ("HTML", "XML").
func (c *Config) Title() string {
	return strings.ToUpper(string(c.Mode))
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, the encoding and precompression names. When
// not in CheckOnly mode it also requires the paths each enabled step needs.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeHTML, ModeXML:
		// valid
	default:
		return fmt.Errorf("invalid mode %q (use 'html' or 'xml')", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	switch c.Codec.JSCompressor {
	case codec.JSCompressorYUI, codec.JSCompressorClosure:
		// valid
	default:
		return fmt.Errorf("invalid JavaScript compressor %q (use 'yui' or 'closure')", c.Codec.JSCompressor)
	}

	switch c.Codec.ClosureOptLevel {
	case codec.ClosureSimple, codec.ClosureAdvanced, codec.ClosureWhitespace:
		// valid
	default:
		return fmt.Errorf("invalid closure optimization level %q (use 'simple', 'advanced' or 'whitespace')", c.Codec.ClosureOptLevel)
	}

	if _, err := textenc.Lookup(c.Encoding); err != nil {
		return err
	}
	if _, err := precompress.Parse(c.Precompress); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}

	if c.CheckOnly {
		return nil
	}
	if c.SrcFolder == "" || c.TargetFolder == "" {
		return errors.New("need both source and target folder")
	}
	if c.Mode == ModeHTML && c.JavascriptHTMLSprite &&
		(c.JavascriptHTMLSpriteIntegrationFile == "" || c.JavascriptHTMLSpriteTargetFile == "") {
		return errors.New("javascript html sprite needs an integration file and a target file")
	}
	if c.Mode == ModeHTML && c.GenerateStatistics && c.StatisticsFile == "" {
		return errors.New("statistics enabled but no statistics file given")
	}
	return nil
}

// ErrTargetInSource is returned by ValidatePaths when the target folder is
// nested in the source folder.
var ErrTargetInSource = errors.New("target folder is inside source folder")

// ValidatePaths reports ErrTargetInSource when the resolved target directory
// is inside the resolved source directory, where the next run would collect
// this run's output. Compressing in place (target equal to source) is
// allowed, except in watch mode where every write would trigger another
// pass. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(srcAbs, targetAbs string) error {
	if targetAbs == srcAbs {
		if c.Watch {
			return ErrTargetInSource
		}
		return nil
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(targetAbs+sep, srcAbs+sep) {
		return ErrTargetInSource
	}
	return nil
}
