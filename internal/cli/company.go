package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/application/usecase"
	"github.com/jhoicas/autogest-api/internal/infrastructure/postgres"
	infrarenave "github.com/jhoicas/autogest-api/internal/infrastructure/renave"
)

// CreateCompanyCommand da de alta una empresa ACTIVE.
func CreateCompanyCommand() *cobra.Command {
	var in dto.CreateCompanyRequest

	cmd := &cobra.Command{
		Use:   "create-company",
		Short: "Crear una empresa (tenant)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			uc := usecase.NewCompanyUseCase(postgres.NewCompanyRepository(rt.pool), infrarenave.NewCredentialLoader(), rt.log)
			out, err := uc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "empresa creada: %s %s (%s)\n", out.ID, out.Name, out.TaxID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Razón social")
	cmd.Flags().StringVar(&in.TaxID, "tax-id", "", "CNPJ")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tax-id")
	return cmd
}
