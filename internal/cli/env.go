package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/brianslattery/kms-propertizer/internal/domain"
)

func envCmd(g *globalFlags, d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show how the environment is classified (keys only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, done, err := loadApp(g, d, domain.Config{})
			defer done()
			if err != nil {
				return err
			}

			printEnvironment(cmd.OutOrStdout(), domain.BuildEnvironmentProperties(app.env), app.cfg)
			return nil
		},
	}
}

// printEnvironment never prints values.
func printEnvironment(w io.Writer, ep domain.EnvironmentProperties, cfg domain.Config) {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	empty := r.NewStyle().Faint(true)

	fmt.Fprintf(w, "Working directory: %s\n", ep.WorkingDir)
	codec := "echo"
	if cfg.KMS.KeyID != "" {
		codec = "aws-kms (" + cfg.KMS.KeyID + ")"
	}
	fmt.Fprintf(w, "Decrypter:         %s\n\n", codec)

	sections := []struct {
		name string
		vars domain.Vars
	}{
		{"Application properties", ep.Application},
		{"Application secrets", ep.ApplicationSecret},
		{"Target properties", ep.Target},
		{"Target secrets", ep.TargetSecret},
	}
	for _, s := range sections {
		fmt.Fprintln(w, title.Render(fmt.Sprintf("%s (%d)", s.name, len(s.vars))))
		if len(s.vars) == 0 {
			fmt.Fprintln(w, empty.Render("  (none)"))
			continue
		}
		for _, k := range domain.SortedKeys(s.vars) {
			fmt.Fprintf(w, "  * %s\n", k)
		}
	}

	fmt.Fprintln(w)
	if len(ep.Discarded) == 0 {
		fmt.Fprintln(w, "Discarded: (none)")
		return
	}
	fmt.Fprintf(w, "Discarded: %s\n", strings.Join(ep.Discarded, ", "))
}
