package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/autogest-api/internal/application/auth"
	"github.com/jhoicas/autogest-api/internal/infrastructure/postgres"
	pkgjwt "github.com/jhoicas/autogest-api/pkg/jwt"
)

// EnvMasterPassword variable de entorno alternativa a --password.
const EnvMasterPassword = "MASTER_PASSWORD"

// ProvisionMasterCommand crea el usuario MASTER de arranque si no existe.
// Nunca resetea la contraseña de una cuenta existente.
func ProvisionMasterCommand() *cobra.Command {
	var (
		email     string
		name      string
		password  string
		companyID string
	)

	cmd := &cobra.Command{
		Use:   "provision-master",
		Short: "Crear el usuario MASTER inicial (idempotente)",
		Long: `Crea el usuario MASTER si el email no existe todavía.

La contraseña se toma de --password o de la variable MASTER_PASSWORD.
Si la cuenta ya existe no se modifica.

Ejemplo:
  MASTER_PASSWORD=... autogestctl provision-master --email admin@autogest.com.br --name Admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(EnvMasterPassword)
			}
			if password == "" {
				return fmt.Errorf("la contraseña es requerida: use --password o %s", EnvMasterPassword)
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			uc := auth.NewAuthUseCase(
				postgres.NewUserRepository(rt.pool),
				postgres.NewCompanyRepository(rt.pool),
				pkgjwt.Issuer{},
				nil,
				rt.log,
			)
			user, created, err := uc.ProvisionMaster(cmd.Context(), auth.ProvisionMasterInput{
				Email:     email,
				Name:      name,
				Password:  password,
				CompanyID: companyID,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "MASTER creado: %s (%s)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "MASTER ya existe: %s, sin cambios\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email del MASTER")
	cmd.Flags().StringVar(&name, "name", "", "Nombre visible")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña (preferir MASTER_PASSWORD)")
	cmd.Flags().StringVar(&companyID, "company-id", "", "Empresa opcional del MASTER")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
