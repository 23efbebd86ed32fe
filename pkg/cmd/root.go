package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/config"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/diffview"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/runner"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/sorter"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/stdlib"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/syntax"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/version"
)

const (
	UseDescription   = "ris [flags] PATH..."
	ShortDescription = "Ruby imports sorter - A tool to group and sort Ruby imports"
	LongDescription  = `ris is a command-line tool that sorts Ruby import statements.

It organizes require, require_relative, include, extend, autoload, and
using statements into groups:
1. Ruby standard library
2. Third-party gems
3. First-party constants and autoloads
4. Local folder loads (require_relative)

Only contiguous import blocks are rearranged. Comments directly above a
statement move with it, heredoc bodies are never touched, and a file
that is already sorted comes back byte-for-byte identical.

PATH can be files or directories. Directories are processed recursively.
A single "-" reads from standard input and writes the result to standard
output.`
)

var (
	checkOnly   bool
	showDiff    bool
	safeMode    bool
	jobs        int
	configPath  string
	verbose     bool
	noColor     bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:          UseDescription,
	Short:        ShortDescription,
	Long:         LongDescription,
	Args:         validateArgs,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&checkOnly, "check", false, "Report files that would change without writing them")
	rootCmd.PersistentFlags().BoolVar(&showDiff, "diff", false, "Print a unified diff of the proposed changes without writing them")
	rootCmd.PersistentFlags().BoolVar(&safeMode, "safe", false, "Syntax-check files before and after sorting, refusing unsafe rewrites")
	rootCmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Number of files processed concurrently (default: number of CPUs)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default: discovered "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.MarkFlagsMutuallyExclusive("check", "diff")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// If version flag is set, we don't need file arguments
	if showVersion {
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

func run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if showVersion {
		info := version.Get()
		if verbose {
			fmt.Println(info.String())
		} else {
			fmt.Printf("Ruby Imports Sort (RIS) version %s\n", info.Version)
		}
		return nil
	}

	logger := newLogger()

	cfg, err := loadConfig(args, logger)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Mode:   runMode(),
		Jobs:   jobsSetting(cfg),
		Color:  !noColor && diffview.ColorEnabled(),
		Sorter: sorterConfig(cfg),
		Logger: logger,
	}

	if isStdinRun(args) {
		if len(args) != 1 {
			return fmt.Errorf("cannot mix \"-\" with file arguments")
		}
		summary, err := runner.RunStdin(opts)
		if err != nil {
			return err
		}
		return exitError(summary, opts.Mode)
	}

	summary, err := runner.Run(cmd.Context(), args, opts)
	if err != nil {
		return err
	}
	fmt.Println(runner.FormatSummary(summary, opts.Mode, opts.Color))
	return exitError(summary, opts.Mode)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig resolves the configuration file: an explicit --config path
// must load, a discovered one near the first argument may.
func loadConfig(args []string, logger *log.Logger) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	start := "."
	if len(args) > 0 && args[0] != "-" {
		start = args[0]
	}
	found := config.Discover(start)
	if found == "" {
		return &config.Config{}, nil
	}
	logger.Debug("using config file", "path", found)
	return config.Load(found)
}

func runMode() runner.Mode {
	switch {
	case checkOnly:
		return runner.ModeCheck
	case showDiff:
		return runner.ModeDiff
	default:
		return runner.ModeWrite
	}
}

func jobsSetting(cfg *config.Config) int {
	if jobs > 0 {
		return jobs
	}
	return cfg.Jobs
}

func sorterConfig(cfg *config.Config) sorter.Config {
	sc := sorter.Config{
		Safe: safeMode || cfg.Safe,
	}
	if len(cfg.StdlibModules) > 0 || len(cfg.StdlibMixins) > 0 {
		sc.Table = stdlib.Default().WithExtra(cfg.StdlibModules, cfg.StdlibMixins)
	}
	if cfg.Ruby != "" {
		sc.Checker = &syntax.RubyChecker{Bin: cfg.Ruby}
	}
	return sc
}

func isStdinRun(args []string) bool {
	for _, arg := range args {
		if arg == "-" {
			return true
		}
	}
	return false
}

// exitError converts the run's counts into the process exit status:
// check mode fails when files would change, every mode fails when files
// failed to process.
func exitError(summary runner.Summary, mode runner.Mode) error {
	if summary.Failed > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToSort, summary.Failed)
	}
	if mode == runner.ModeCheck && summary.Changed > 0 {
		return fmt.Errorf(errors.ErrMsgFilesWouldChange, summary.Changed)
	}
	return nil
}

// Execute runs the root command. ver is the module version from build
// info; it backfills the ldflags version when none was injected.
func Execute(ver string) error {
	if version.Version == "dev" && ver != "" {
		version.Version = ver
	}
	return rootCmd.Execute()
}
