package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	infrarenave "github.com/jhoicas/autogest-api/internal/infrastructure/renave"
)

// EnvCertificatePassword variable de entorno alternativa a --password.
const EnvCertificatePassword = "CERT_PASSWORD"

// CheckCertificateCommand diagnostica un .p12 antes de cargarlo en una empresa:
// que el archivo exista, que abra con la contraseña y que la llave sea RSA.
func CheckCertificateCommand() *cobra.Command {
	var (
		file     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "check-certificate",
		Short: "Verificar una credencial PKCS#12 de firma",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(EnvCertificatePassword)
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("leer %s: %w", file, err)
			}
			cert, err := infrarenave.NewCredentialLoader().Load(raw, password)
			if err != nil {
				return fmt.Errorf("la credencial no abre con esa contraseña o está corrupta: %w", err)
			}

			out := cmd.OutOrStdout()
			leaf := cert.Leaf
			fmt.Fprintf(out, "sujeto:   %s\n", leaf.Subject.String())
			fmt.Fprintf(out, "emisor:   %s\n", leaf.Issuer.String())
			fmt.Fprintf(out, "vigencia: %s → %s\n", leaf.NotBefore.Format(time.DateOnly), leaf.NotAfter.Format(time.DateOnly))
			if time.Now().After(leaf.NotAfter) {
				return fmt.Errorf("la credencial venció el %s", leaf.NotAfter.Format(time.DateOnly))
			}
			fmt.Fprintln(out, "credencial válida")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Ruta del archivo .p12/.pfx")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña (preferir CERT_PASSWORD)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
