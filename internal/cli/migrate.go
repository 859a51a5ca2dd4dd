package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/migrations"
)

func newMigrateCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				ms, err := postgres.LoadMigrations(migrations.FS)
				if err != nil {
					return err
				}
				for _, m := range ms {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", m.Checksum[:12], m.Filename)
				}
				return nil
			}

			pool, err := e.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := postgres.Migrate(cmd.Context(), pool, migrations.FS, e.log)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migración(es) aplicada(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "solo lista las migraciones embebidas")
	return cmd
}
