// Command taskmcp serves the tracker as MCP tools over stdio. Every call
// acts as the principal named by TASKMCP_PRINCIPAL.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"task-tracker/internal/backend"
	"task-tracker/internal/config"
	"task-tracker/internal/logging"
	"task-tracker/pkg/tracker"
)

func main() {
	principal := os.Getenv("TASKMCP_PRINCIPAL")
	if principal == "" {
		fmt.Fprintln(os.Stderr, "taskmcp: TASKMCP_PRINCIPAL is required")
		os.Exit(1)
	}
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmcp: config: %v\n", err)
		os.Exit(1)
	}
	// Stdout carries the protocol; logs go to stderr and LOG_FILE only.
	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmcp: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	stores, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open backend", zap.Error(err))
	}
	defer stores.Close()

	svc := tracker.New(stores.Tasks, stores.Employees,
		tracker.WithJournal(stores.Journal),
		tracker.WithLogger(log.Named("tracker")))

	log.Info("taskmcp serving on stdio", zap.String("principal", principal), zap.String("backend", stores.Kind))
	if err := newServer(svc, principal, time.Now).Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal("mcp server", zap.Error(err))
	}
}
