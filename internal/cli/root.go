// Package cli implementa ledgerctl: migraciones, exportación del reporte de stock
// y alta de usuarios contra la base PostgreSQL configurada.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// env estado compartido por los subcomandos; se resuelve en PersistentPreRunE.
type env struct {
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Herramientas de operación del ledger de stock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return e.load()
		},
	}
	cmd.PersistentFlags().StringVar(&e.envFile, "env-file", ".env", "archivo .env a cargar antes de leer la configuración")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMigrateCmd(e))
	cmd.AddCommand(newReportCmd(e))
	cmd.AddCommand(newUserCmd(e))
	return cmd
}

// load lee el .env (si existe) y luego la configuración. Las variables ya definidas
// en el entorno tienen prioridad sobre el archivo.
func (e *env) load() error {
	if err := godotenv.Load(e.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.NewWithWriter(os.Stderr, cfg.App.LogLevel)
	return nil
}

func (e *env) pool(ctx context.Context) (*pgxpool.Pool, error) {
	return postgres.NewPool(ctx, e.cfg.DB)
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
