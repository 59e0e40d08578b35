// Package cli comandos de operación de autogestctl.
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/autogest-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autogest-api/pkg/config"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// NewRootCommand arma autogestctl con todos sus subcomandos.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "autogestctl",
		Short:         "Operación de AutoGest: migraciones y alta inicial",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		MigrateCommand(),
		ProvisionMasterCommand(),
		CreateCompanyCommand(),
		CheckCertificateCommand(),
	)
	return root
}

// runtime conexión y logger compartidos por los subcomandos.
type runtime struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadCLI()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &runtime{cfg: cfg, log: log.Named("cli"), pool: pool}, nil
}

func (r *runtime) Close() {
	r.pool.Close()
}
