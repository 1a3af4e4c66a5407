package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/infra/fsworkspace"
	"github.com/brianslattery/kms-propertizer/internal/usecase"
)

func initCmd(d deps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter propertizer.yaml and .env",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := d.getwd()
			if err != nil {
				return &domain.OpError{Op: "cli.getwd", Kind: domain.KindIO, Err: err}
			}
			root := wd
			if len(args) == 1 {
				root = args[0]
				if !filepath.IsAbs(root) {
					root = filepath.Join(wd, root)
				}
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			written, err := uc.Execute(root, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintf(out, "Nothing to do in %s (use --force to overwrite)\n", root)
				return nil
			}
			for _, p := range written {
				if rel, err := filepath.Rel(root, p); err == nil {
					p = rel
				}
				fmt.Fprintf(out, "wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}
