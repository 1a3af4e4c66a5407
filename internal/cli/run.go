package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/infra/propsfile"
	"github.com/brianslattery/kms-propertizer/internal/infra/runstore"
	"github.com/brianslattery/kms-propertizer/internal/usecase"
)

type runFlags struct {
	appInput     string
	appOutput    string
	targetInput  string
	targetOutput string
	dbUser       string
	dbPass       string
	dbURL        string
	failFast     bool
	runsDir      string
}

func bindRunFlags(fl *pflag.FlagSet, f *runFlags) {
	fl.StringVar(&f.appInput, "iiq-input", "", "Input iiq.properties path")
	fl.StringVar(&f.appOutput, "iiq-output", "", "Output iiq.properties path (default: the input)")
	fl.StringVar(&f.targetInput, "target-input", "", "Input target.properties path")
	fl.StringVar(&f.targetOutput, "target-output", "", "Output target.properties path (default: the input)")
	fl.StringVar(&f.dbUser, "db-user", "", "dataSource.username option (literal, ENV::VAR, KMS::CIPHERTEXT, ENV:KMS::VAR)")
	fl.StringVar(&f.dbPass, "db-pass", "", "dataSource.password option (re-encrypted with iiq encrypt)")
	fl.StringVar(&f.dbURL, "db-url", "", "dataSource.url option")
	fl.BoolVar(&f.failFast, "fail-fast", false, "Stop after the first destination that fails")
	fl.StringVar(&f.runsDir, "runs-dir", "", "Write a JSON record of the run into this directory")

	fl.StringVar(&f.appInput, "input", "", "Input iiq.properties path")
	fl.StringVar(&f.appOutput, "output", "", "Output iiq.properties path")
	_ = fl.MarkDeprecated("input", "use --iiq-input")
	_ = fl.MarkDeprecated("output", "use --iiq-output")
}

func (f *runFlags) config() domain.Config {
	return domain.Config{
		Application: domain.FileConfig{Input: f.appInput, Output: f.appOutput},
		Target:      domain.FileConfig{Input: f.targetInput, Output: f.targetOutput},
		DataSource:  domain.DataSourceConfig{Username: f.dbUser, Password: f.dbPass, URL: f.dbURL},
		Runs:        domain.RunsConfig{Dir: f.runsDir},
	}
}

func runPropertize(cmd *cobra.Command, g *globalFlags, f *runFlags, d deps) error {
	app, done, err := loadApp(g, d, f.config())
	defer done()
	if err != nil {
		return err
	}

	cfg := app.cfg
	if cfg.Application.Input == "" && cfg.Target.Input == "" {
		return &domain.OpError{
			Op:   "cli.run",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("no input file: set --iiq-input and/or --target-input: %w", domain.ErrInvalidConfig),
		}
	}

	dec, err := app.decrypter(cmd.Context())
	if err != nil {
		return err
	}
	enc, err := app.encrypter()
	if err != nil {
		return err
	}

	store := propsfile.NewStore(
		propsfile.WithHostname(app.env.Value("HOSTNAME")),
		propsfile.WithLogger(app.log),
	)
	opts := []usecase.PropertizeOption{usecase.WithLogger(app.log)}
	if dir := cfg.Runs.Dir; dir != "" {
		rec := runstore.NewJSONStore(app.env.AbsPath(dir), runstore.WithIndex(cfg.Runs.Index))
		opts = append(opts, usecase.WithRecorder(rec))
	}
	uc := usecase.NewPropertize(store, dec, enc, opts...)

	res, runErr := uc.Execute(cmd.Context(), app.env, usecase.PropertizeRequest{
		Application: cfg.Application,
		Target:      cfg.Target,
		DataSource:  cfg.DataSource,
		FailFast:    f.failFast,
	})
	printResult(cmd.OutOrStdout(), res)
	return runErr
}

func printResult(w io.Writer, res usecase.PropertizeResult) {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	faint := r.NewStyle().Faint(true)

	for _, dr := range res.Destinations {
		if dr.Skipped {
			fmt.Fprintln(w, faint.Render(fmt.Sprintf("%s: skipped (no input file)", dr.Destination)))
			continue
		}

		name := dr.OutputPath
		fmt.Fprintln(w, heading.Render("=="+name+" report=="))
		for _, line := range dr.Report.Lines() {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, heading.Render("==end "+name+" report=="))

		if dr.Err != nil {
			fmt.Fprintf(w, "%s: FAILED: %v\n", dr.Destination, dr.Err)
			continue
		}
		fmt.Fprintf(w, "%s: wrote %d keys to %s\n", dr.Destination, dr.Keys, dr.OutputPath)
	}
	if res.RunID != "" {
		fmt.Fprintln(w, faint.Render("run "+res.RunID))
	}
	if res.RecordID != "" {
		fmt.Fprintln(w, faint.Render("recorded "+res.RecordID))
	}
}
