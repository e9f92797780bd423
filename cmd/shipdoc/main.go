package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/shipdocs/shipdoc/internal/config"
	"github.com/shipdocs/shipdoc/internal/converter"
	"github.com/shipdocs/shipdoc/internal/logger"
	"github.com/shipdocs/shipdoc/internal/mcp"
	"github.com/shipdocs/shipdoc/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures the global logger based on the server mode
func setupLogging(cfg *config.Config) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel

	// In stdio mode the protocol owns stdout, so logs must stay on stderr
	// and are silenced entirely unless debugging.
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		logCfg.Output = io.Discard
	}
	if cfg.IsServerMode() {
		logCfg.Format = "json"
	}

	if err := logger.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
}

// runConvertMode runs a single conversion job and prints its summary
func runConvertMode(ctx context.Context, cfg *config.Config, converterService *converter.Service) {
	result, err := converterService.Convert(ctx, converter.ConvertRequest{
		InvoicePath:     cfg.InvoicePath,
		PackingListPath: cfg.PackingListPath,
		Directory:       cfg.Directory,
		OutputPath:      cfg.OutputPath,
		Strict:          cfg.Strict,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}

	fmt.Printf("Wrote %s\n", result.OutputPath)
	fmt.Printf("Invoices: %d (%d line items)\n", result.InvoiceCount, result.InvoiceLineCount)
	fmt.Printf("Packing list lines: %d\n", result.PackingLineCount)
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	log.Info().Msg("server stopped")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server) {
	// In stdio mode the parent process controls our lifecycle; exit
	// cleanly when stdin closes.
	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Error().Err(err).Msg("server error")
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Local .env files may carry SHIPDOC_* settings; absence is fine
	_ = godotenv.Load()

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Debug().Str("config", cfg.String()).Msg("starting")
	}

	pdfService := pdf.NewService(cfg.MaxFileSize)
	converterService := converter.NewService(pdfService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsConvertMode() {
		runConvertMode(ctx, cfg, converterService)
		return
	}

	server, err := mcp.NewServer(cfg, pdfService, converterService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MCP server")
	}

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, server)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("shipdoc - shipping document converter\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
