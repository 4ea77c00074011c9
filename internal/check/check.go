// Package check provides the --check preflight report and the fail-fast
// path validation run before every compression pass.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/htmlcompressor/internal/config"
	"github.com/backmassage/htmlcompressor/internal/fileset"
	"github.com/backmassage/htmlcompressor/internal/precompress"
	"github.com/backmassage/htmlcompressor/internal/preserve"
	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// Logger is the minimal logging interface needed by Run.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Run reports every preflight check and returns true when all passed. It
// does not stop at the first failure.
func Run(cfg *config.Config, log Logger) bool {
	log.Info("=== %s compressor check ===", cfg.Title())

	ok := true
	report := func(name string, err error) {
		if err != nil {
			log.Error("%s: %v", name, err)
			ok = false
			return
		}
		log.Success("%s: ok", name)
	}

	report("Source folder", sourceDir(cfg.SrcFolder))
	if err := targetOutsideSource(cfg); errors.Is(err, config.ErrTargetInSource) && !cfg.Watch {
		log.Warn("Target folder: %v, later runs will collect earlier output", err)
	} else {
		report("Target folder", err)
	}
	if cfg.Mode == config.ModeHTML && cfg.JavascriptHTMLSprite {
		report("Integration file", readable(cfg.JavascriptHTMLSpriteIntegrationFile))
	}
	enc, err := textenc.Lookup(cfg.Encoding)
	report("Encoding", err)
	if err == nil {
		log.Debug("Encoding %q resolves to %s", cfg.Encoding, enc.Name())
		if src := sources(cfg); src.Empty() {
			log.Info("Preserve patterns: none")
		} else {
			_, err := preserve.Compile(src, enc)
			report("Preserve patterns", err)
		}
	}
	if len(cfg.Precompress) > 0 {
		_, err := precompress.Parse(cfg.Precompress)
		report("Precompression", err)
	}
	log.Info("Extensions: %v", cfg.Extensions())
	if len(cfg.Exclude) > 0 {
		log.Info("Excluded: %v", cfg.Exclude)
	}
	return ok
}

// Paths is the fail-fast subset of Run used before every pass: the source
// folder exists, the target resolves (and, when watching, lies outside the
// source), and the integration file is readable when bundling.
func Paths(cfg *config.Config) error {
	if err := sourceDir(cfg.SrcFolder); err != nil {
		return err
	}
	if err := targetOutsideSource(cfg); err != nil && (cfg.Watch || !errors.Is(err, config.ErrTargetInSource)) {
		return err
	}
	if cfg.Mode == config.ModeHTML && cfg.JavascriptHTMLSprite {
		if err := readable(cfg.JavascriptHTMLSpriteIntegrationFile); err != nil {
			return err
		}
	}
	return nil
}

// --- internal helpers ---

func sourceDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source folder: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("source folder %s: %w", path, fileset.ErrNotDir)
	}
	return nil
}

func targetOutsideSource(cfg *config.Config) error {
	src, err := fileset.Canonical(cfg.SrcFolder)
	if err != nil {
		return fmt.Errorf("resolve source folder %s: %w", cfg.SrcFolder, err)
	}
	target, err := resolve(cfg.TargetFolder)
	if err != nil {
		return fmt.Errorf("resolve target folder %s: %w", cfg.TargetFolder, err)
	}
	return cfg.ValidatePaths(src, target)
}

// resolve canonicalizes path through its deepest existing ancestor, so a
// target folder that does not exist yet still resolves symlinks above it.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var tail []string
	cur := abs
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		tail = append([]string{filepath.Base(cur)}, tail...)
		cur = parent
	}
}

func readable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func sources(cfg *config.Config) preserve.Sources {
	return preserve.Sources{
		Predefined: cfg.PredefinedPreservePatterns,
		Literal:    cfg.PreservePatterns,
		Files:      cfg.PreservePatternFiles,
	}
}
