// Command htmlcompressor compresses a folder of HTML or XML files into a
// target folder.
//
// Each mode is a subcommand. Settings are layered: mode defaults, then the
// --config YAML file, then HTMLCOMPRESSOR_* environment variables (a .env
// file is loaded first), then flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/htmlcompressor/internal/check"
	"github.com/backmassage/htmlcompressor/internal/config"
	"github.com/backmassage/htmlcompressor/internal/display"
	"github.com/backmassage/htmlcompressor/internal/logging"
	"github.com/backmassage/htmlcompressor/internal/pipeline"
	"github.com/backmassage/htmlcompressor/internal/watch"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "htmlcompressor: %v\n", err)
		return 1
	}
	return 0
}

// sources holds the persistent flags naming where settings come from.
type sources struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	var src sources
	root := &cobra.Command{
		Use:           "htmlcompressor",
		Short:         "Minify folders of HTML or XML files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&src.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&src.envFile, "env-file", "", "Environment file (default .env when present)")

	root.AddCommand(
		newModeCmd(config.ModeHTML, &src),
		newModeCmd(config.ModeXML, &src),
		newVersionCmd(),
	)
	return root
}

func newModeCmd(mode config.Mode, src *sources) *cobra.Command {
	defaults := config.ForMode(mode)
	cmd := &cobra.Command{
		Use:   string(mode) + " [src-folder [target-folder]]",
		Short: "Compress " + defaults.Title() + " files",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(mode, src, cmd.Flags(), args)
			if err != nil {
				return err
			}
			return execute(cmd, &cfg)
		},
	}
	config.BindFlags(cmd.Flags(), &defaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "htmlcompressor %s (commit %s)\n", version, commit)
		},
	}
}

// loadConfig layers defaults, the YAML file, the environment, changed flags
// and positional folders, then validates the result.
func loadConfig(mode config.Mode, src *sources, flags *pflag.FlagSet, args []string) (config.Config, error) {
	cfg := config.ForMode(mode)
	if src.configFile != "" {
		if err := config.LoadFile(src.configFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnvFile(src.envFile); err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := config.ApplyFlags(&cfg, flags); err != nil {
		return cfg, err
	}
	if len(args) > 0 {
		cfg.SrcFolder = config.NormalizeDirArg(args[0])
	}
	if len(args) > 1 {
		cfg.TargetFolder = config.NormalizeDirArg(args[1])
	}
	return cfg, cfg.Validate()
}

// execute runs the preflight report or one compression pass, then keeps
// re-running on source changes when watching. Console output goes to the
// command's writers.
func execute(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	log.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	display.PrintBanner(cmd.OutOrStdout())

	if cfg.CheckOnly {
		if !check.Run(cfg, log) {
			return errors.New("preflight checks failed")
		}
		return nil
	}

	log.Info("=== htmlcompressor v%s (%s) ===", version, cfg.Title())
	log.Info("In:  %s", cfg.SrcFolder)
	log.Info("Out: %s", cfg.TargetFolder)

	if _, err := pipeline.Execute(ctx, cfg, log); err != nil {
		return err
	}
	if !cfg.Watch || !cfg.Active() {
		return nil
	}

	log.Info("Watching %s for changes (Ctrl+C to stop)", cfg.SrcFolder)
	return watch.Run(ctx, []string{cfg.SrcFolder}, watch.DefaultDebounce, func() {
		report, err := pipeline.Execute(ctx, cfg, log)
		if err != nil {
			log.Error("%v", err)
			return
		}
		log.Info("Size change: %s", display.FormatDelta(-report.SpaceSaved()))
	}, log)
}
