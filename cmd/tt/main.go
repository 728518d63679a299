// Command tt drives the tracker from the shell against the configured store
// backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-tracker/internal/backend"
	"task-tracker/internal/config"
	"task-tracker/internal/logging"
	"task-tracker/pkg/tracker"
)

// app is the state shared by every subcommand once the root has opened the
// backend.
type app struct {
	envDir    string
	principal string

	cfg    config.Config
	log    *zap.Logger
	stores *backend.Backend
	svc    *tracker.Service
}

func (a *app) call() tracker.Call {
	return tracker.Call{Caller: a.principal, Now: time.Now()}
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envDir)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	stores, err := backend.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if stores.Kind == config.BackendMemory {
		fmt.Fprintln(os.Stderr, "tt: STORE_BACKEND=memory; changes are discarded on exit")
	}
	a.cfg = cfg
	a.log = log
	a.stores = stores
	a.svc = tracker.New(stores.Tasks, stores.Employees,
		tracker.WithJournal(stores.Journal),
		tracker.WithLogger(log))
	return nil
}

func (a *app) close(*cobra.Command, []string) {
	if a.stores != nil {
		a.stores.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "tt",
		Short:             "Task tracker command line",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRun: a.close,
	}
	root.PersistentFlags().StringVar(&a.envDir, "env-dir", ".", "directory holding the .env file")
	root.PersistentFlags().StringVar(&a.principal, "as", defaultPrincipal(), "principal to act as")

	root.AddCommand(
		newInitCmd(a),
		newStatusCmd(a),
		newTokenCmd(a),
		newTaskCmd(a),
		newAnalysisCmd(a),
		newEmployeeCmd(a),
		newEventsCmd(a),
	)
	return root
}

func defaultPrincipal() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create backend tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Opening the backend already ensured the tables.
			fmt.Printf("Initialized %s backend.\n", a.stores.Kind)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tasks, err := count(a.svc.ListTasks(ctx))
			if err != nil {
				return err
			}
			employees, err := count(a.svc.ListEmployees(ctx))
			if err != nil {
				return err
			}
			events, err := a.stores.Journal.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Backend:   %s\n", a.stores.Kind)
			fmt.Printf("Tasks:     %d\n", tasks)
			fmt.Printf("Employees: %d\n", employees)
			fmt.Printf("Events:    %d\n", events)
			return nil
		},
	}
}

// count reports the length of a list result. An empty store is zero, not a
// failure.
func count[T any](items []T, err error) (int, error) {
	if err != nil && !errors.Is(err, tracker.ErrNotFound) {
		return 0, err
	}
	return len(items), nil
}

func newTokenCmd(a *app) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Issue a bearer token for principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			tok, err := issueToken(a.cfg.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
