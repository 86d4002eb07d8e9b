package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/logger"
	"github.com/theirongolddev/cashburn/internal/server"
)

var (
	flagServeAddr    string
	flagServeMaxMB   int
	flagServeReports int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ledger analysis over HTTP",
	Long: "Run an HTTP API that analyses uploaded CSV ledgers.\n\n" +
		"  POST /v1/analyze   multipart \"file\" field or a raw text/csv body\n" +
		"  GET  /v1/schema    recognised columns and date layouts\n" +
		"  GET  /v1/reports   recently analysed reports\n" +
		"  GET  /v1/status    counters\n" +
		"  GET  /healthz",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeMaxMB, "max-upload-mb", 0, "Upload size limit in MB (default from config)")
	serveCmd.Flags().IntVar(&flagServeReports, "reports-buffer", 50, "Analysed reports kept in memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	sc := cfg.Server
	if flagServeAddr != "" {
		sc.Addr = flagServeAddr
	}
	if flagServeMaxMB > 0 {
		sc.MaxUploadMB = flagServeMaxMB
	}

	// Request logs are JSON regardless of [log] pretty.
	log := logger.New(logger.Config{Level: cfg.Log.Level, Out: os.Stderr})
	logger.SetGlobalLogger(log)

	srv := server.New(server.Config{
		Addr:           sc.Addr,
		MaxUploadBytes: int64(sc.MaxUploadMB) << 20,
		AllowedOrigins: sc.AllowedOrigins,
		ReportsBuffer:  flagServeReports,
		App:            cfg,
		Log:            log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
