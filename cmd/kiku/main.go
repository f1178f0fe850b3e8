// Package main is the kiku CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kiku/internal/ai"
	"github.com/hyperjump/kiku/internal/bot"
	"github.com/hyperjump/kiku/internal/config"
	"github.com/hyperjump/kiku/internal/extract"
	"github.com/hyperjump/kiku/internal/server"
	"github.com/hyperjump/kiku/internal/store"
	"github.com/hyperjump/kiku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kiku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. The config file itself is optional: environment variables and
// defaults fill in the rest. Returns the config and the path actually used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Local .env files carry the API key and token in development; a missing
	// file is not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "extract":
		runExtract()
	case "version", "--version", "-v":
		fmt.Printf("kiku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-request detail, completion outcomes)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	// The gateway credential is the one thing the server cannot run without.
	// A missing AI key degrades to fixed "not configured" replies instead.
	if cfg.Auth.Token == "" {
		logger.Fatal("no gateway token configured; set KIKU_API_TOKEN or auth.token")
	}

	st, err := store.New(cfg.Storage.Backend, cfg.Limits.MaxTextLength)
	if err != nil {
		logger.Fatal("Failed to initialize context store", zap.Error(err))
	}
	defer st.Close()

	client := ai.NewClient(&cfg.AI, logger)
	orch := bot.NewOrchestrator(
		st,
		extract.NewExtractor(),
		client,
		cfg.Limits.MaxTextLength,
		cfg.Storage.TempFileDir,
		logger,
	)

	srv := server.NewServer(orch, &cfg.Server, cfg.Auth.Token, cfg.Limits.MaxUploadBytes, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kiku extract <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	extractor := extract.NewExtractor()
	if !extractor.Supported(path) {
		fmt.Fprintf(os.Stderr, "Unsupported file type: %s\n", filepath.Ext(path))
		os.Exit(1)
	}
	text, err := extractor.Extract(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func printUsage() {
	fmt.Println(`kiku - Document question-answering gateway

Usage:
  kiku serve [flags]      Start the HTTP gateway
  kiku extract <file>     Extract text from a document and print it
  kiku version            Show version
  kiku help               Show this help

Serve Flags:
  --config string    Config file path (default: /usr/local/etc/kiku/config.yaml)
  --debug            Enable debug logging (per-request detail, completion outcomes)

Environment:
  KIKU_API_TOKEN       Gateway bearer token (required to serve)
  GOOGLE_API_KEY       Completion-service API key
  GEMINI_MODEL_NAME    Completion model (default: gemini-1.5-flash)
  MAX_TEXT_LENGTH      Stored context cap in characters (default: 1000000)
  KIKU_STORE_BACKEND   Context store backend: memory or sqlite (default: memory)

Examples:
  kiku serve
  kiku serve --config ./config.yaml --debug
  kiku extract report.pdf`)
}
