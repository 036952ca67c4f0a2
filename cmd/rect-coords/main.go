package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/rect-coords/internal/config"
	"github.com/ironsheep/rect-coords/internal/extract"
	"github.com/ironsheep/rect-coords/internal/httpapi"
	"github.com/ironsheep/rect-coords/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol and results)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Getenv))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "rect-coords - ordered corner coordinates of rectangles in images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: rect-coords [options] [extract FILE...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w, "  --config FILE    Load settings from a YAML file")
	fmt.Fprintln(w, "  --http           Serve the HTTP API instead of MCP over stdio")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  extract FILE...  Print the rectangles of one image, or a batch result for several")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  RECT_COORDS_LOG_LEVEL=debug  Enable debug logging")
	fmt.Fprintln(w, "  RECT_COORDS_PORT=5001        HTTP port (FLASK_PORT is also honoured)")
	fmt.Fprintln(w, "  RECT_COORDS_TEMP_DIR=DIR     Directory for staged uploads")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without --http or extract, the server communicates via MCP over stdin/stdout.")
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout io.Writer, getenv func(string) string) int {
	var (
		configPath string
		httpMode   bool
		files      []string
		extractCmd bool
	)

	for i := 0; i < len(args) && !extractCmd; i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "rect-coords %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "--config":
			if i+1 >= len(args) {
				log.Printf("--config requires a file argument")
				return 2
			}
			i++
			configPath = args[i]
		case "--http":
			httpMode = true
		case "extract":
			extractCmd = true
			files = args[i+1:]
		default:
			log.Printf("Unknown argument: %s", args[i])
			printUsage(os.Stderr)
			return 2
		}
	}

	cfg, err := loadConfig(configPath, getenv)
	if err != nil {
		log.Printf("Configuration error: %v", err)
		return 1
	}

	if cfg.Debug() {
		log.Printf("rect-coords v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	ex := extract.New(cfg, extract.WithLogf(log.Printf), extract.WithDebug(cfg.Debug()))

	switch {
	case extractCmd:
		return runExtract(ex, files, stdout)
	case httpMode:
		return runHTTP(ex, cfg)
	default:
		srv := server.New(ex, Version)
		if err := srv.Run(); err != nil {
			log.Printf("Server error: %v", err)
			return 1
		}
		return 0
	}
}

func loadConfig(path string, getenv func(string) string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	cfg, err := cfg.ApplyEnv(getenv)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// runExtract prints the rectangle array for a single file, or the batch
// result for several. The exit code is 1 if any file failed.
func runExtract(ex *extract.Extractor, files []string, stdout io.Writer) int {
	if len(files) == 0 {
		log.Printf("extract requires at least one file")
		return 2
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "    ")

	if len(files) == 1 {
		rects, err := ex.ExtractFile(files[0])
		if err != nil {
			log.Printf("Error processing file %s: %v", files[0], err)
			return 1
		}
		enc.Encode(rects)
		return 0
	}

	result := ex.ExtractFiles(context.Background(), files)
	enc.Encode(result)
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

func runHTTP(ex *extract.Extractor, cfg config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := httpapi.NewHandler(ex, cfg.MaxUploadBytes, log.Printf, cfg.Debug())

	log.Printf("Listening on %s", cfg.Addr())
	if err := httpapi.ListenAndServe(ctx, cfg.Addr(), h, cfg.MaxConnections); err != nil {
		log.Printf("HTTP server error: %v", err)
		return 1
	}
	log.Printf("HTTP server stopped")
	return 0
}
