package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/backmassage/htmlcompressor/internal/codec"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/site/html", "/site/html"},
		{"single trailing slash", "/site/html/", "/site/html"},
		{"multiple trailing slashes", "/site/html///", "/site/html"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Enums(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"xml mode is valid", func(c *Config) { c.Mode = ModeXML }, false},
		{"unknown mode", func(c *Config) { c.Mode = "css" }, true},
		{"closure compressor", func(c *Config) { c.Codec.JSCompressor = codec.JSCompressorClosure }, false},
		{"unknown compressor", func(c *Config) { c.Codec.JSCompressor = "uglify" }, true},
		{"whitespace level", func(c *Config) { c.Codec.ClosureOptLevel = codec.ClosureWhitespace }, false},
		{"unknown level", func(c *Config) { c.Codec.ClosureOptLevel = "extreme" }, true},
		{"latin1 encoding", func(c *Config) { c.Encoding = "latin1" }, false},
		{"unknown encoding", func(c *Config) { c.Encoding = "klingon" }, true},
		{"precompress names", func(c *Config) { c.Precompress = []string{"gzip", "br"} }, false},
		{"unknown precompress", func(c *Config) { c.Precompress = []string{"lzma"} }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bad color", func(c *Config) { c.ColorMode = "sometimes" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SrcFolder = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without a source folder")
	}

	cfg = DefaultConfig()
	cfg.JavascriptHTMLSpriteIntegrationFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when bundling without an integration file")
	}
	cfg.JavascriptHTMLSprite = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error with bundling off: %v", err)
	}

	cfg = DefaultConfig()
	cfg.StatisticsFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when statistics have no file")
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.SrcFolder = ""
	cfg.TargetFolder = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass with empty paths when CheckOnly is true, got: %v", err)
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		target  string
		watch   bool
		wantErr bool
	}{
		{"separate directories", "/project/src/main/resources/html", "/project/target/htmlcompressor/html", false, false},
		{"in place", "/site", "/site", false, false},
		{"in place while watching", "/site", "/site", true, true},
		{"target inside source", "/site", "/site/min", false, true},
		{"target is parent of source", "/site/html", "/site", false, false},
		{"similar prefix not nested", "/site/html", "/site/html2", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Watch = tt.watch
			err := cfg.ValidatePaths(tt.src, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.src, tt.target, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrTargetInSource) {
				t.Errorf("error = %v, want ErrTargetInSource", err)
			}
		})
	}
}

func TestDefaultConfig_MatchesPlugin(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeHTML {
		t.Errorf("default Mode = %q, want %q", cfg.Mode, ModeHTML)
	}
	if cfg.SrcFolder != "src/main/resources/html" || cfg.TargetFolder != "target/htmlcompressor/html" {
		t.Errorf("default folders = %q, %q", cfg.SrcFolder, cfg.TargetFolder)
	}
	if cfg.StatisticsFile != "target/htmlcompressor/html-compression-statistics.txt" {
		t.Errorf("default StatisticsFile = %q", cfg.StatisticsFile)
	}
	if !cfg.JavascriptHTMLSprite || !cfg.GenerateStatistics || !cfg.Active() {
		t.Error("sprite, statistics and run should default on")
	}
	if !cfg.Codec.RemoveComments || !cfg.Codec.RemoveMultiSpaces || cfg.Codec.RemoveIntertagSpaces {
		t.Errorf("default removal flags = %+v", cfg.Codec)
	}
	if cfg.Codec.JSCompressor != codec.JSCompressorYUI || cfg.Codec.ClosureOptLevel != codec.ClosureSimple {
		t.Errorf("default script options = %q, %q", cfg.Codec.JSCompressor, cfg.Codec.ClosureOptLevel)
	}
	if got := cfg.Extensions(); !reflect.DeepEqual(got, []string{"htm", "html"}) {
		t.Errorf("default Extensions = %v", got)
	}
}

func TestDefaultXMLConfig(t *testing.T) {
	cfg := ForMode(ModeXML)

	if cfg.SrcFolder != "src/main/resources" || cfg.TargetFolder != "target/classes" {
		t.Errorf("xml folders = %q, %q", cfg.SrcFolder, cfg.TargetFolder)
	}
	if !cfg.Codec.RemoveComments || !cfg.Codec.RemoveIntertagSpaces {
		t.Errorf("xml removal flags = %+v", cfg.Codec)
	}
	if cfg.JavascriptHTMLSprite || cfg.GenerateStatistics {
		t.Error("xml mode should not bundle or report statistics")
	}
	if got := cfg.Extensions(); !reflect.DeepEqual(got, []string{"xml"}) {
		t.Errorf("xml Extensions = %v", got)
	}
	if cfg.Title() != "XML" {
		t.Errorf("Title() = %q", cfg.Title())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("xml defaults invalid: %v", err)
	}
}

func TestExtensions_ExplicitWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileExt = []string{"tpl"}
	if got := cfg.Extensions(); !reflect.DeepEqual(got, []string{"tpl"}) {
		t.Errorf("Extensions = %v, want [tpl]", got)
	}
}

func TestActive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Skip = true
	if cfg.Active() {
		t.Error("Skip should deactivate the run")
	}
	cfg = DefaultConfig()
	cfg.Enabled = false
	if cfg.Active() {
		t.Error("Enabled=false should deactivate the run")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "htmlcompressor.yaml", `
srcFolder: web/pages
fileExt: [html, tpl]
removeIntertagSpaces: true
compressCss: true
jsCompressor: closure
preservePatterns:
  - '<\?php.*?\?>'
javascriptHtmlSprite: false
precompress: [gzip]
`)
	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.SrcFolder != "web/pages" {
		t.Errorf("SrcFolder = %q", cfg.SrcFolder)
	}
	if cfg.TargetFolder != "target/htmlcompressor/html" {
		t.Errorf("TargetFolder should keep its default, got %q", cfg.TargetFolder)
	}
	if !reflect.DeepEqual(cfg.FileExt, []string{"html", "tpl"}) {
		t.Errorf("FileExt = %v", cfg.FileExt)
	}
	if !cfg.Codec.RemoveIntertagSpaces || !cfg.Codec.CompressCSS || !cfg.Codec.RemoveComments {
		t.Errorf("Codec = %+v", cfg.Codec)
	}
	if cfg.Codec.JSCompressor != codec.JSCompressorClosure {
		t.Errorf("JSCompressor = %q", cfg.Codec.JSCompressor)
	}
	if !reflect.DeepEqual(cfg.PreservePatterns, []string{`<\?php.*?\?>`}) {
		t.Errorf("PreservePatterns = %q", cfg.PreservePatterns)
	}
	if cfg.JavascriptHTMLSprite {
		t.Error("JavascriptHTMLSprite should be off")
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "srcFolderr: x\n", "srcFolderr"},
		{"wrong mode", "mode: xml\n", "mode"},
		{"bad type", "workers: many\n", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "c.yaml", tt.content)
			cfg := DefaultConfig()
			err := LoadFile(path, &cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile(empty): %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Error("empty file changed the config")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, "test.env", "HTMLCOMPRESSOR_TEST_ONLY_KEY=from-file\n")
	t.Setenv("HTMLCOMPRESSOR_TEST_ONLY_KEY", "")
	os.Unsetenv("HTMLCOMPRESSOR_TEST_ONLY_KEY")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("HTMLCOMPRESSOR_TEST_ONLY_KEY"); got != "from-file" {
		t.Errorf("env = %q, want from-file", got)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("explicit missing env file should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HTMLCOMPRESSOR_SRC_FOLDER":       "pages",
		"HTMLCOMPRESSOR_FILE_EXT":         "html,tpl",
		"HTMLCOMPRESSOR_REMOVE_COMMENTS":  "false",
		"HTMLCOMPRESSOR_WORKERS":          "4",
		"HTMLCOMPRESSOR_COLOR":            "never",
		"HTMLCOMPRESSOR_PRESERVE_PATTERN": "a{1,2}",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.SrcFolder != "pages" || cfg.Workers != 4 || cfg.ColorMode != ColorNever {
		t.Errorf("cfg = %q, %d, %q", cfg.SrcFolder, cfg.Workers, cfg.ColorMode)
	}
	if !reflect.DeepEqual(cfg.FileExt, []string{"html", "tpl"}) {
		t.Errorf("FileExt = %v", cfg.FileExt)
	}
	if cfg.Codec.RemoveComments {
		t.Error("RemoveComments should be false")
	}
	if !reflect.DeepEqual(cfg.PreservePatterns, []string{"a{1,2}"}) {
		t.Errorf("PreservePatterns = %q", cfg.PreservePatterns)
	}
	if cfg.TargetFolder != DefaultConfig().TargetFolder {
		t.Errorf("TargetFolder changed to %q", cfg.TargetFolder)
	}
}

func TestApplyEnv_BadValueNamesVariable(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "HTMLCOMPRESSOR_WORKERS" {
			return "lots", true
		}
		return "", false
	}
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, lookup)
	if err == nil || !strings.Contains(err.Error(), "HTMLCOMPRESSOR_WORKERS") {
		t.Errorf("error = %v, want mention of HTMLCOMPRESSOR_WORKERS", err)
	}
}

func TestApplyFlags_OnlyChangedFlagsWin(t *testing.T) {
	// Flags are parsed against pristine defaults.
	base := DefaultConfig()
	fs := pflag.NewFlagSet("html", pflag.ContinueOnError)
	BindFlags(fs, &base)
	fs.String("config", "", "")
	err := fs.Parse([]string{
		"--target-folder", "out",
		"--remove-quotes",
		"--precompress", "gzip,br",
		"--preserve-pattern", "x{1,3}",
		"--preserve-pattern", "y",
		"-j", "3",
		"--config", "ignored.yaml",
	})
	if err != nil {
		t.Fatal(err)
	}

	// The loaded config carries a file-level override that must survive.
	cfg := DefaultConfig()
	cfg.SrcFolder = "from-file"
	if err := ApplyFlags(&cfg, fs); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}

	if cfg.SrcFolder != "from-file" {
		t.Errorf("SrcFolder = %q, unchanged flag overwrote it", cfg.SrcFolder)
	}
	if cfg.TargetFolder != "out" || !cfg.Codec.RemoveQuotes || cfg.Workers != 3 {
		t.Errorf("cfg = %q, %v, %d", cfg.TargetFolder, cfg.Codec.RemoveQuotes, cfg.Workers)
	}
	if !reflect.DeepEqual(cfg.Precompress, []string{"gzip", "br"}) {
		t.Errorf("Precompress = %v", cfg.Precompress)
	}
	if !reflect.DeepEqual(cfg.PreservePatterns, []string{"x{1,3}", "y"}) {
		t.Errorf("PreservePatterns = %q", cfg.PreservePatterns)
	}
}

func TestBindFlags_XMLOmitsHTMLOptions(t *testing.T) {
	cfg := DefaultXMLConfig()
	fs := pflag.NewFlagSet("xml", pflag.ContinueOnError)
	BindFlags(fs, &cfg)

	for _, name := range []string{"remove-comments", "remove-intertag-spaces", "src-folder", "encoding"} {
		if fs.Lookup(name) == nil {
			t.Errorf("xml flags missing --%s", name)
		}
	}
	for _, name := range []string{"compress-css", "javascript-html-sprite", "generate-statistics"} {
		if fs.Lookup(name) != nil {
			t.Errorf("xml flags should not define --%s", name)
		}
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("javascript-html-sprite-target-file"); got != "HTMLCOMPRESSOR_JAVASCRIPT_HTML_SPRITE_TARGET_FILE" {
		t.Errorf("EnvName = %q", got)
	}
}

// --- Helpers ---

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
