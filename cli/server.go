package cli

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"

	"github.com/vikaspatil0021/formbricks/cli/cliflag"
	"github.com/vikaspatil0021/formbricks/formbricksd"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/dbcache"
	"github.com/vikaspatil0021/formbricks/formbricksd/dispatch"
)

//nolint:gocyclo
func server() *cobra.Command {
	var (
		address         string
		postgresURL     string
		inMemory        bool
		cacheTTL        time.Duration
		dispatchWorkers int
		verbose         bool
	)
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the Formbricks server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.Make(sloghuman.Sink(cmd.ErrOrStderr()))
			if verbose {
				logger = logger.Leveled(slog.LevelDebug)
			}

			notifyCtx, notifyStop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer notifyStop()

			var (
				store  database.Store
				pubsub database.Pubsub
			)
			if inMemory {
				store = databasefake.New()
				pubsub = database.NewPubsubInMemory()
				logger.Info(notifyCtx, "using in-memory database, data is lost on restart")
			} else {
				if postgresURL == "" {
					return xerrors.New("--postgres-url or --in-memory is required")
				}
				sqlDB, err := sql.Open("postgres", postgresURL)
				if err != nil {
					return xerrors.Errorf("open postgres: %w", err)
				}
				defer sqlDB.Close()
				err = sqlDB.PingContext(notifyCtx)
				if err != nil {
					return xerrors.Errorf("ping postgres: %w", err)
				}
				err = database.MigrateUp(sqlDB)
				if err != nil {
					return xerrors.Errorf("migrate: %w", err)
				}
				store = database.New(sqlDB)
				pubsub, err = database.NewPubsub(notifyCtx, sqlDB, postgresURL)
				if err != nil {
					return xerrors.Errorf("create pubsub: %w", err)
				}
				defer pubsub.Close()
			}

			registry := prometheus.NewRegistry()

			cached, err := dbcache.New(store, pubsub, logger.Named("dbcache"), &dbcache.Options{
				TTL:        cacheTTL,
				Registerer: registry,
			})
			if err != nil {
				return xerrors.Errorf("create cache: %w", err)
			}
			defer cached.Close()

			dispatcher := dispatch.New(cached, dispatch.Options{
				Logger:     logger.Named("dispatch"),
				Workers:    dispatchWorkers,
				Registerer: registry,
			})
			defer dispatcher.Close()

			api := formbricksd.New(&formbricksd.Options{
				Logger:             logger.Named("formbricksd"),
				Database:           cached,
				Pubsub:             pubsub,
				Dispatcher:         dispatcher,
				PrometheusRegistry: registry,
			})

			srv := &http.Server{
				Addr:              address,
				Handler:           api.Handler,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return notifyCtx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info(notifyCtx, "listening", slog.F("address", address))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-notifyCtx.Done():
			}

			logger.Info(context.Background(), "interrupt caught, shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cliflag.StringVarP(cmd.Flags(), &address, "address", "a", "FORMBRICKS_ADDRESS", "127.0.0.1:3000", "The address to serve the API on")
	cliflag.StringVarP(cmd.Flags(), &postgresURL, "postgres-url", "", "FORMBRICKS_POSTGRES_URL", "", "The URL of a PostgreSQL database")
	cliflag.BoolVarP(cmd.Flags(), &inMemory, "in-memory", "", "FORMBRICKS_IN_MEMORY", false, "Store all data in memory instead of PostgreSQL")
	cliflag.DurationVarP(cmd.Flags(), &cacheTTL, "cache-ttl", "", "FORMBRICKS_CACHE_TTL", dbcache.DefaultTTL, "How long cached reads live without invalidation")
	cliflag.IntVarP(cmd.Flags(), &dispatchWorkers, "dispatch-workers", "", "FORMBRICKS_DISPATCH_WORKERS", 4, "Concurrent webhook delivery workers")
	cliflag.BoolVarP(cmd.Flags(), &verbose, "verbose", "v", "FORMBRICKS_VERBOSE", false, "Enable debug logging")

	return cmd
}
