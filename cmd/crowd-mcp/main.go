package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/crowd-lens-mcp/internal/config"
	"github.com/ironsheep/crowd-lens-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("crowd-lens-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("crowd-lens-mcp - MCP server for multi-estimator crowd analysis")
			fmt.Println()
			fmt.Println("Usage: crowd-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CROWD_MCP_MODEL_URL              Inference service base URL (default http://127.0.0.1:9090)")
			fmt.Println("  CROWD_MCP_DETECT_THRESHOLD       Detection score cutoff (default 0.7)")
			fmt.Println("  CROWD_MCP_ZEROSHOT_SAMPLE_CAP    Max person crops classified per run (default 20)")
			fmt.Println("  CROWD_MCP_READY_WAIT             Bounded wait for estimator loading (default 30s)")
			fmt.Println("  CROWD_MCP_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.Printf("Crowd Lens MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Inference service: %s", cfg.ModelServiceURL)
	}

	srv := server.New(cfg)

	// Model loading is best-effort and independent per estimator; the
	// server starts serving immediately and analysis calls wait on
	// readiness with a bounded wait.
	srv.Registry().LoadAll(context.Background())

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
