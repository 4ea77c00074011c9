package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/htmlcompressor/internal/bundle"
	"github.com/backmassage/htmlcompressor/internal/check"
	"github.com/backmassage/htmlcompressor/internal/codec"
	"github.com/backmassage/htmlcompressor/internal/config"
	"github.com/backmassage/htmlcompressor/internal/display"
	"github.com/backmassage/htmlcompressor/internal/fileset"
	"github.com/backmassage/htmlcompressor/internal/precompress"
	"github.com/backmassage/htmlcompressor/internal/preserve"
	"github.com/backmassage/htmlcompressor/internal/stats"
	"github.com/backmassage/htmlcompressor/internal/textenc"
)

// Logger is the logging surface Run needs. *logging.Logger satisfies it.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Debug(string, ...interface{})
}

// NewCodec compiles cfg's preserve patterns and builds the codec for
// cfg.Mode. Pattern errors surface here, before any file is read.
func NewCodec(cfg *config.Config) (codec.Codec, error) {
	enc, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	patterns, err := preserve.Compile(preserve.Sources{
		Predefined: cfg.PredefinedPreservePatterns,
		Literal:    cfg.PreservePatterns,
		Files:      cfg.PreservePatternFiles,
	}, enc)
	if err != nil {
		return nil, err
	}

	opts := cfg.Codec
	opts.PreservePatterns = patterns
	if cfg.Mode == config.ModeXML {
		return codec.NewXML(opts), nil
	}
	opts.GenerateStatistics = cfg.GenerateStatistics
	return codec.NewHTML(opts), nil
}

// Execute runs one full pass for cfg: the fail-fast path checks, a fresh
// codec and Run. Each call starts with empty statistics.
func Execute(ctx context.Context, cfg *config.Config, log Logger) (*Report, error) {
	if !cfg.Active() {
		return Run(ctx, cfg, nil, log)
	}
	if err := check.Paths(cfg); err != nil {
		return nil, err
	}
	c, err := NewCodec(cfg)
	if err != nil {
		return nil, err
	}
	return Run(ctx, cfg, c, log)
}

// Run collects the files under cfg.SrcFolder, transforms them with c, writes
// them under cfg.TargetFolder and runs the enabled post steps. The context
// is checked between steps only.
func Run(ctx context.Context, cfg *config.Config, c codec.Codec, log Logger) (*Report, error) {
	start := time.Now()
	if !cfg.Active() {
		log.Info("%s compression is disabled, skipping", cfg.Title())
		return &Report{Skipped: true}, nil
	}

	enc, err := textenc.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	algs, err := precompress.Parse(cfg.Precompress)
	if err != nil {
		return nil, err
	}

	exts := cfg.Extensions()
	files, err := fileset.CollectWith(cfg.SrcFolder, fileset.CollectOptions{
		Extensions: exts,
		Recursive:  true,
		Exclude:    cfg.Exclude,
		Encoding:   enc,
	})
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	report := &Report{
		Files:      files.Len(),
		Keys:       files.Keys(),
		InputBytes: files.TotalBytes(),
	}
	log.Info("Found %d %s files in %s (extensions %v)", report.Files, cfg.Title(), cfg.SrcFolder, exts)

	if report.Files > 0 {
		if err := step(ctx, "compress", func() error {
			return transform(ctx, files, c, cfg.Workers, log)
		}); err != nil {
			return nil, err
		}
		report.OutputBytes = files.TotalBytes()

		if err := step(ctx, "write", func() error {
			return fileset.Write(files, cfg.TargetFolder, enc)
		}); err != nil {
			return nil, err
		}
		log.Info("Wrote %d files to %s", report.Files, cfg.TargetFolder)
	}

	if cfg.Mode == config.ModeHTML && cfg.JavascriptHTMLSprite {
		if err := step(ctx, "bundle", func() error {
			return writeBundle(files, cfg, enc)
		}); err != nil {
			return nil, err
		}
		report.BundleFile = cfg.JavascriptHTMLSpriteTargetFile
		log.Info("Wrote JSON sprite bundle %s", report.BundleFile)
	}

	if report.Files > 0 && len(algs) > 0 {
		if err := step(ctx, "precompress", func() error {
			n, err := precompressAll(files, cfg.TargetFolder, algs)
			report.Precompressed = n
			return err
		}); err != nil {
			return nil, err
		}
		log.Info("Wrote %d precompressed files (%v)", report.Precompressed, algs)
	}

	if cfg.Mode == config.ModeHTML && cfg.GenerateStatistics {
		if err := step(ctx, "statistics", func() error {
			return writeStatistics(report, c, cfg, enc, log)
		}); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)
	logSummary(cfg, log, report)
	return report, nil
}

// step runs fn unless ctx is already done, prefixing any error with name.
func step(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// transform replaces every entry with its codec output. With more than one
// worker, keys are spread over a bounded errgroup; each goroutine touches
// only its own key, so the result matches the sequential run.
func transform(ctx context.Context, files *fileset.FileSet, c codec.Codec, workers int, log Logger) error {
	keys := files.Keys()
	if workers <= 1 {
		for _, key := range keys {
			if err := transformOne(files, c, key, log); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return transformOne(files, c, key, log)
		})
	}
	return g.Wait()
}

func transformOne(files *fileset.FileSet, c codec.Codec, key string, log Logger) error {
	in, _ := files.Get(key)
	out, err := c.Transform(in)
	if err != nil {
		return &codec.TransformError{Key: key, Err: err}
	}
	files.Put(key, out)
	log.Debug("Compressed %s: %d -> %d bytes", key, len(in), len(out))
	return nil
}

func writeBundle(files *fileset.FileSet, cfg *config.Config, enc textenc.Charset) error {
	template, err := enc.ReadFile(cfg.JavascriptHTMLSpriteIntegrationFile)
	if err != nil {
		return err
	}
	return bundle.Bundle(files, cfg.JavascriptHTMLSpriteTargetFile, template, enc)
}

func precompressAll(files *fileset.FileSet, targetDir string, algs []precompress.Algorithm) (int, error) {
	n := 0
	for _, key := range files.Keys() {
		dest, err := fileset.TargetPath(targetDir, key)
		if err != nil {
			return n, err
		}
		if err := precompress.File(dest, algs); err != nil {
			return n, err
		}
		n += len(algs)
	}
	return n, nil
}

// writeStatistics formats the codec's statistics into cfg.StatisticsFile and
// logs the table. A codec without statistics is reported as empty only when
// there was nothing to transform.
func writeStatistics(report *Report, c codec.Codec, cfg *config.Config, enc textenc.Charset, log Logger) error {
	var s *codec.Statistics
	if src, ok := c.(codec.StatisticsSource); ok {
		s = src.Statistics()
	}
	if s == nil && report.Files > 0 {
		log.Warn("Codec collected no statistics; skipping %s", cfg.StatisticsFile)
		return nil
	}

	report.Statistics = s
	report.Summary = stats.Summarize(s)
	report.StatisticsText = stats.Format(cfg.Title(), s)

	dir := filepath.Dir(cfg.StatisticsFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := enc.WriteFile(cfg.StatisticsFile, report.StatisticsText); err != nil {
		return err
	}
	log.Info("%s", report.StatisticsText)
	log.Info("Statistics written to %s", cfg.StatisticsFile)
	return nil
}

// logSummary prints the end-of-run summary.
func logSummary(cfg *config.Config, log Logger, r *Report) {
	log.Info("==============================")
	log.Info("Done: %d %s files compressed in %s", r.Files, cfg.Title(), display.ElapsedHMS(r.Elapsed.Milliseconds()))
	if r.Files == 0 {
		return
	}

	saved := r.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.HumanReadableByteCount(saved, false),
			display.HumanReadableByteCount(r.InputBytes, false),
			display.HumanReadableByteCount(r.OutputBytes, false))
	} else {
		log.Warn("  Total space saved: -%s (overall output is larger)",
			display.HumanReadableByteCount(-saved, false))
	}
}
