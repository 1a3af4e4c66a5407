package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/brianslattery/kms-propertizer/internal/buildinfo"
)

func Execute() {
	cmd := newRootCmd(deps{})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	d = d.withDefaults()
	g := &globalFlags{}
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   buildinfo.Name,
		Short: "Build iiq.properties and target.properties from IIQ_/TRG_ environment variables",
		Long: "Reads IIQ_* and TRG_* environment variables (suffix _KMS for KMS encrypted values),\n" +
			"overlays them on the given properties templates and writes the results.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPropertize(cmd, g, rf, d)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.config, "config", "", "Config file (default: ./propertizer.yaml, then ./propertizer.properties)")
	pf.StringVar(&g.envFile, "env-file", "", "Dotenv file loaded beneath the process environment")
	pf.StringVar(&g.command, "iiq-command", "", "IIQ launcher used for encrypt and console (default: iiq)")
	pf.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log format: text|json")
	pf.StringVar(&g.logFile, "log-file", "", "Append logs to this file instead of stderr")
	pf.StringVar(&g.kmsKeyID, "kms-key-id", "", "KMS key id (default: $KMS_KEY_ID; unset uses the echo stub)")
	pf.StringVar(&g.kmsRegion, "kms-region", "", "AWS region for KMS")
	pf.StringVar(&g.kmsRoleARN, "kms-role-arn", "", "IAM role to assume before calling KMS")
	pf.StringVar(&g.kmsExternalID, "kms-external-id", "", "External id for the assumed role")

	bindRunFlags(cmd.Flags(), rf)

	cmd.AddCommand(importCmd(g, d))
	cmd.AddCommand(envCmd(g, d))
	cmd.AddCommand(initCmd(d))
	cmd.AddCommand(versionCmd())
	return cmd
}
