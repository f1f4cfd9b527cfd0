package cli

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/storage/csvfile"
	"github.com/vladislavdragonenkov/grocery/internal/storage/postgres"
)

var errDSNRequired = errors.New("postgres dsn is required (--dsn or postgres_dsn)")

func openStore(ctx context.Context, opts *globalOptions, dsn string) (*postgres.Store, error) {
	if dsn == "" {
		dsn = opts.cfg.PostgresDSN
	}
	if dsn == "" {
		return nil, errDSNRequired
	}
	return postgres.Open(ctx, dsn)
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import orders from the CSV file into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := log.WithField("component", "import")

			csvOpts := []csvfile.Option{csvfile.WithLogger(logger)}
			if opts.cfg.CSVHeader {
				csvOpts = append(csvOpts, csvfile.WithHeader())
			}
			orders, err := csvfile.NewOrderRepository(opts.cfg.CSVPath, csvOpts...).All(ctx)
			if err != nil {
				return fmt.Errorf("load orders: %w", err)
			}

			store, err := openStore(ctx, opts, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.MigrateUp(ctx, 0); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			var importer domain.OrderImporter = postgres.NewOrderRepository(store)
			n, err := importer.Import(ctx, orders)
			if err != nil {
				return err
			}
			logger.WithField("orders", n).Info("orders imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d orders from %s\n", n, opts.cfg.CSVPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (overrides postgres_dsn)")
	return cmd
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	var (
		dsn   string
		steps int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (overrides postgres_dsn)")
	cmd.PersistentFlags().IntVar(&steps, "steps", 0, "Number of migrations to apply or roll back")

	withStore := func(run func(cmd *cobra.Command, store *postgres.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context(), opts, dsn)
			if err != nil {
				return err
			}
			defer store.Close()
			return run(cmd, store)
		}
	}

	printStatus := func(cmd *cobra.Command, store *postgres.Store) error {
		version, count, err := store.MigrationStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d applied=%d\n", version, count)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations (all by default)",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, store *postgres.Store) error {
				if err := store.MigrateUp(cmd.Context(), steps); err != nil {
					return err
				}
				return printStatus(cmd, store)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back migrations (one by default)",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, store *postgres.Store) error {
				if err := store.MigrateDown(cmd.Context(), steps); err != nil {
					return err
				}
				return printStatus(cmd, store)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE:  withStore(printStatus),
		},
	)
	return cmd
}
