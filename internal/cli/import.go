package cli

import (
	"github.com/spf13/cobra"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/usecase"
)

func importCmd(g *globalFlags, d deps) *cobra.Command {
	var req usecase.ImportRequest

	c := &cobra.Command{
		Use:   "import",
		Short: "Import an XML file through the IIQ console",
		Long: "Runs `iiq console -c \"import '<file>'\" -u <user> -p <pass>`.\n" +
			"The password is read from the variable named by --pass-var, which must end in _KMS.\n" +
			"The user variable is decrypted only when its name ends in _KMS.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, done, err := loadApp(g, d, domain.Config{})
			defer done()
			if err != nil {
				return err
			}

			dec, err := app.decrypter(cmd.Context())
			if err != nil {
				return err
			}

			uc := usecase.NewRunImport(app.runner, dec, app.cfg.IIQ.Command,
				usecase.WithImportLogger(app.log),
				usecase.WithImportOutput(cmd.OutOrStdout()),
			)
			return uc.Execute(cmd.Context(), app.env, req)
		},
	}

	c.Flags().StringVarP(&req.File, "file", "f", "", "XML file to import (required)")
	c.Flags().StringVar(&req.UserVar, "user-var", "", "Name of the env var holding the console user (required)")
	c.Flags().StringVar(&req.PassVar, "pass-var", "", "Name of the env var holding the KMS encrypted password (required)")

	_ = c.MarkFlagRequired("file")
	_ = c.MarkFlagRequired("user-var")
	_ = c.MarkFlagRequired("pass-var")
	return c
}
