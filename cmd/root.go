package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/logger"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var (
	flagNoCache    bool
	flagQuiet      bool
	flagJSON       bool
	flagLogLevel   string
	flagConfigPath string

	// cfg is the effective configuration, loaded before any command runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cashburn [files or directories...]",
	Short: "Cash burn, runway and zero-cash date from CSV ledgers",
	Long: "Analyze monthly cash ledgers: average burn, months of runway, the projected\n" +
		"zero-cash date, a smoothed balance trendline, runway and assumption columns.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print reports as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default "+config.Path()+")")
}

// initConfig loads .env and the config file, then installs the global logger.
func initConfig(_ *cobra.Command, _ []string) error {
	config.LoadDotEnv()

	var err error
	if flagConfigPath != "" {
		cfg, err = config.LoadFrom(flagConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Out:    os.Stderr,
	}))
	return nil
}

// loadReports is the shared loading path used by the report commands.
// Uses the SQLite cache unless --no-cache is set.
func loadReports(args []string) (*pipeline.ReportSet, error) {
	if len(args) == 0 {
		return nil, errors.New("no ledger files given")
	}

	showProgress := !flagQuiet && !flagJSON
	if showProgress {
		fmt.Fprintf(os.Stderr, "  Scanning ledgers...\n")
	}

	progressFn := func(current, total int) {
		if showProgress {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
		}
	}

	set, err := pipeline.BuildReports(args, cfg, !flagNoCache, progressFn)
	if err != nil {
		return nil, err
	}

	if showProgress && len(set.Files) > 0 {
		fmt.Fprintf(os.Stderr, "\r  Loaded %d ledgers (%d from cache) in %.2fs    \n",
			len(set.Files), set.CacheHits, set.LoadTime.Seconds())
	}
	if len(set.Files) == 0 {
		return nil, fmt.Errorf("no .csv ledgers found in %v", args)
	}

	log.Debug().
		Int("files", len(set.Files)).
		Int("cache_hits", set.CacheHits).
		Int("errors", set.Errors).
		Msg("ledgers loaded")

	return set, nil
}

// eachReport prints every file with fn, printing failures as warnings.
// It returns an error when any file failed so the exit status reflects it.
func eachReport(set *pipeline.ReportSet, fn func(fr pipeline.FileReport)) error {
	for _, fr := range set.Files {
		if fr.Err != nil {
			fmt.Println()
			fmt.Println(cli.RenderWarning(fmt.Sprintf("%s: %v", fr.Name, fr.Err)))
			continue
		}
		fn(fr)
	}
	return failures(set)
}

func failures(set *pipeline.ReportSet) error {
	if set.Errors == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d ledgers could not be analysed", set.Errors, len(set.Files))
}

// fileJSON is the --json shape of one analysed file.
type fileJSON struct {
	File   string `json:"file"`
	Error  string `json:"error,omitempty"`
	Report any    `json:"report,omitempty"`
}

// printJSON writes one entry per file; pick selects what to emit from a report.
func printJSON(set *pipeline.ReportSet, pick func(fr pipeline.FileReport) any) error {
	out := make([]fileJSON, len(set.Files))
	for i, fr := range set.Files {
		out[i] = fileJSON{File: fr.Path}
		if fr.Err != nil {
			out[i].Error = fr.Err.Error()
			continue
		}
		out[i].Report = pick(fr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return failures(set)
}
