package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/infra/iiq"
	"github.com/brianslattery/kms-propertizer/internal/infra/kms"
	"github.com/brianslattery/kms-propertizer/internal/infra/logger"
	"github.com/brianslattery/kms-propertizer/internal/infra/osenv"
	"github.com/brianslattery/kms-propertizer/internal/infra/settings"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// deps are the process hooks commands need. Zero values mean the real ones.
type deps struct {
	environ func() []string
	getwd   func() (string, error)
	runner  ports.CommandRunner
	stderr  io.Writer
}

func (d deps) withDefaults() deps {
	if d.environ == nil {
		d.environ = os.Environ
	}
	if d.getwd == nil {
		d.getwd = os.Getwd
	}
	if d.runner == nil {
		d.runner = iiq.NewExecRunner()
	}
	if d.stderr == nil {
		d.stderr = os.Stderr
	}
	return d
}

// globalFlags are shared by every command.
type globalFlags struct {
	config    string
	envFile   string
	command   string
	debug     bool
	logFormat string
	logFile   string

	kmsKeyID      string
	kmsRegion     string
	kmsRoleARN    string
	kmsExternalID string
}

// overrides returns the flag values as a config layer.
func (g *globalFlags) overrides() domain.Config {
	return domain.Config{
		KMS: domain.KMSConfig{
			KeyID:      g.kmsKeyID,
			Region:     g.kmsRegion,
			RoleARN:    g.kmsRoleARN,
			ExternalID: g.kmsExternalID,
		},
		IIQ:     domain.IIQConfig{Command: g.command},
		EnvFile: g.envFile,
	}
}

// appCtx is what a command works with once flags, config file and
// environment have been layered.
type appCtx struct {
	cfg     domain.Config
	cfgPath string
	env     domain.Environment
	log     *slog.Logger
	runner  ports.CommandRunner
}

// loadApp sets up logging, then layers defaults < config file < flags and
// snapshots the environment. The returned cleanup closes the log file.
func loadApp(g *globalFlags, d deps, flagCfg domain.Config) (*appCtx, func(), error) {
	cleanup, err := logger.Setup(logger.Config{
		Format: g.logFormat,
		Debug:  g.debug,
		File:   g.logFile,
		Stderr: d.stderr,
	})
	if err != nil {
		return nil, func() {}, err
	}
	done := func() { _ = cleanup() }
	log := logger.L()

	wd, err := d.getwd()
	if err != nil {
		return nil, done, &domain.OpError{Op: "cli.getwd", Kind: domain.KindIO, Err: err}
	}

	cfg, cfgPath, err := settings.Load(wd, g.config)
	if err != nil {
		return nil, done, err
	}
	if cfgPath != "" {
		log.Info("config.loaded", "path", cfgPath)
	}
	cfg = settings.Merge(cfg, g.overrides())
	cfg = settings.Merge(cfg, flagCfg)

	src := osenv.NewSource(
		osenv.WithEnvFile(cfg.EnvFile),
		osenv.WithEnviron(d.environ),
		osenv.WithGetwd(func() (string, error) { return wd, nil }),
	)
	env, err := src.Snapshot()
	if err != nil {
		return nil, done, err
	}
	cfg = settings.ApplyEnvironment(cfg, env)

	return &appCtx{
		cfg:     cfg,
		cfgPath: cfgPath,
		env:     env,
		log:     log,
		runner:  d.runner,
	}, done, nil
}

func (a *appCtx) decrypter(ctx context.Context) (ports.Decrypter, error) {
	return kms.New(ctx, a.cfg.KMS, a.log)
}

func (a *appCtx) encrypter() (ports.Encrypter, error) {
	return iiq.NewEncrypter(a.runner, a.cfg.IIQ.Command, a.log)
}
