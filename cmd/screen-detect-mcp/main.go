package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/ironsheep/screen-detect-mcp/internal/config"
	"github.com/ironsheep/screen-detect-mcp/internal/detection"
	"github.com/ironsheep/screen-detect-mcp/internal/ocr"
	"github.com/ironsheep/screen-detect-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage(fs *pflag.FlagSet) {
	fmt.Println("screen-detect-mcp - MCP server detecting images and text on screen")
	fmt.Println()
	fmt.Println("Usage: screen-detect-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Print(fs.FlagUsages())
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s_LOG_LEVEL=debug    Enable debug logging\n", config.EnvPrefix)
	fmt.Printf("  %s_QUALITY=600        Default detection quality\n", config.EnvPrefix)
	fmt.Printf("  %s_TESSDATA_PREFIX    Tesseract data directory\n", config.EnvPrefix)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("screen-detect-mcp", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Configuration file (YAML, JSON or TOML)")
	showVersion := fs.BoolP("version", "v", false, "Print version information")
	showHelp := fs.BoolP("help", "h", false, "Print this help message")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	switch {
	case *showVersion || fs.Arg(0) == "version":
		fmt.Printf("screen-detect-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return 0
	case *showHelp || fs.Arg(0) == "help":
		usage(fs)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen-detect-mcp: %v\n", err)
		return 1
	}

	// Logs go to stderr, stdout is for MCP protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	logger.Debug("starting",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit))

	conditions, err := detection.NewConditionCache(cfg.ConditionCacheSize)
	if err != nil {
		logger.Error("failed to create condition cache", slog.String("err", err.Error()))
		return 1
	}
	opts := []detection.Option{detection.WithConditionCache(conditions)}

	engine, err := ocr.NewEngine(cfg.Languages, cfg.TessdataPrefix)
	if err != nil {
		logger.Warn("text detection disabled", slog.String("err", err.Error()))
	} else {
		defer engine.Close()
		info := engine.Info()
		logger.Info("text detection enabled",
			slog.String("tesseract", info.Version),
			slog.Any("languages", info.Languages))
		opts = append(opts, detection.WithTextRecognizer(engine))
	}

	srv := server.New(server.Options{
		Detector: detection.New(logger, opts...),
		Logger:   logger,
		Quality:  cfg.Quality,
		Display:  cfg.Display,
		Version:  Version,
	})
	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		return 1
	}
	return 0
}
