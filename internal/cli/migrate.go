package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/autogest-api/internal/infrastructure/postgres"
)

// MigrateCommand aplica las migraciones SQL embebidas que aún no figuran en schema_migrations.
func MigrateCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				migrations, err := postgres.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(cmd.OutOrStdout(), m.Version)
				}
				return nil
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			applied, err := postgres.Migrate(cmd.Context(), rt.pool, rt.log)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "aplicada %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Solo listar las migraciones embebidas, sin conectar a la base")
	return cmd
}
