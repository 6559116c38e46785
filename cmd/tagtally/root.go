package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"tagtally/pkg/config"
	"tagtally/pkg/logger"
	"tagtally/pkg/report"
	"tagtally/pkg/scraper"
	"tagtally/pkg/twitter"
	"tagtally/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions holds the flags of a single command tree
type rootOptions struct {
	configFile   string
	logLevel     string
	quiet        bool
	outputFile   string
	period       int
	verbose      bool
	histogram    bool
	searchURL    string
	abortOnError bool
	logFile      string
	progress     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tagtally [flags] TAG TIME",
		Short: "Count who gets mentioned in posts for a hashtag",
		Long: `tagtally polls the search results page for a hashtag for TIME seconds,
collects the @mentions of every post it has not seen before and writes the
number of mentions per user to a CSV file.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TAGTALLY_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
		Example: `  # Count mentions in #golang posts for five minutes
  tagtally golang 300

  # Poll every 30 seconds and print a histogram
  tagtally --period 30 -H golang 600

  # Write somewhere else with debug logging
  tagtally -V --file reports/golang.csv golang 60`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.SetOutput(cmd.OutOrStdout())
			ui.SetQuietMode(opts.quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoll(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./tagtally.yaml or ~/.config/tagtally/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all terminal output except errors")

	cmd.Flags().StringVar(&opts.outputFile, "file", "output.csv", "CSV file to write the results to")
	cmd.Flags().IntVar(&opts.period, "period", 15, "seconds between page loads")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "V", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.histogram, "histogram", "H", false, "log a histogram of the results")
	cmd.Flags().StringVar(&opts.searchURL, "url", "", "search page URL template containing "+config.HashtagPlaceholder)
	cmd.Flags().BoolVar(&opts.abortOnError, "abort-on-error", false, "stop at the first failed page load")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().BoolVarP(&opts.progress, "progress", "p", false, "show a progress bar while polling")

	cmd.SetVersionTemplate(`tagtally {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

// commandLineFlags collects the flags the user actually set
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "file", "url", "log-level", "log-file":
			flags[f.Name], _ = fs.GetString(f.Name)
		case "period":
			flags[f.Name], _ = fs.GetInt(f.Name)
		case "histogram", "abort-on-error", "verbose":
			flags[f.Name], _ = fs.GetBool(f.Name)
		}
	})
	return flags
}

// parseRunTime reads TIME as whole seconds, or as a Go duration such as 5m
func parseRunTime(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if n, convErr := strconv.Atoi(value); convErr == nil {
		d, err = time.Duration(n)*time.Second, nil
	}
	if err != nil {
		return 0, fmt.Errorf("invalid TIME %q: expected seconds or a duration", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid TIME %q: must be positive", value)
	}
	return d, nil
}

func runPoll(cmd *cobra.Command, opts *rootOptions, args []string) error {
	tag := twitter.NormalizeHashtag(args[0])
	if tag == "" {
		return errors.New("TAG must not be empty")
	}
	duration, err := parseRunTime(args[1])
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.WithField("version", version).Debug("tagtally starting")

	ui.PrintLogo()
	ui.PrintInfo("Hashtag", "#"+tag)
	ui.PrintInfo("Duration", duration.String())
	ui.PrintInfo("Period", cfg.Poll.Period.String())
	ui.PrintInfo("Output", cfg.Output.File)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := scraper.New(cfg, log)
	var bar *ui.PollProgress
	if opts.progress && !ui.IsQuiet() {
		bar = ui.NewPollProgress(cmd.OutOrStdout(), duration)
		poller.SetProgressFunc(func(s scraper.PollStatus) {
			bar.Update(s.Poll, s.Elapsed, s.Mentions, s.FailedPolls)
		})
	}

	result, runErr := poller.Run(ctx, tag, duration, cfg.Poll.Period)
	if bar != nil {
		bar.Done()
	}
	if result == nil {
		return runErr
	}

	// Interrupted and aborted runs still report what they collected
	if err := report.SaveCSV(cfg.Output.File, result.Mentions); err != nil {
		log.WithError(err).Error("Failed to write report")
		return err
	}
	log.WithField("file", cfg.Output.File).Info("Report written")

	log.Info(report.Summary(result.Mentions))
	if cfg.Output.Histogram {
		if histogram := report.Histogram(result.Mentions); histogram != "" {
			log.Info(histogram)
		}
	}
	ui.PrintResults(result.Mentions)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn("Polling interrupted")
			ui.PrintWarning("Polling interrupted, partial report written", cfg.Output.File)
			return fmt.Errorf("interrupted after %d polls: %w", result.Polls, runErr)
		}
		log.WithError(runErr).Error("Polling aborted")
		return runErr
	}

	ui.PrintSuccess("[REPORT COMPLETE] " + cfg.Output.File)
	return nil
}
