package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// PropertizeRequest names the files to build and the datasource tokens.
type PropertizeRequest struct {
	Application domain.FileConfig
	Target      domain.FileConfig
	DataSource  domain.DataSourceConfig

	// FailFast stops after the first destination that fails. Otherwise an
	// I/O failure on one destination does not block the other and the errors
	// are joined. Codec failures always stop the run.
	FailFast bool
}

// DestinationResult is the outcome for one destination file.
type DestinationResult struct {
	Destination domain.Destination
	InputPath   string
	OutputPath  string
	Skipped     bool
	Keys        int
	Report      *domain.AuditReport
	Err         error
}

// PropertizeResult is the outcome of a whole run.
type PropertizeResult struct {
	RunID        string
	Environment  domain.EnvironmentProperties
	Destinations []DestinationResult

	// RecordID is set when a run recorder stored the run.
	RecordID string
}

type Propertize struct {
	store     ports.PropertiesStore
	decrypter ports.Decrypter
	engine    *MergeEngine
	log       *slog.Logger
	newID     func() string
	now       func() time.Time
	recorder  ports.RunRecorder
}

type PropertizeOption func(*Propertize)

func WithLogger(l *slog.Logger) PropertizeOption {
	return func(uc *Propertize) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithRunID overrides run id generation (useful for tests).
func WithRunID(gen func() string) PropertizeOption {
	return func(uc *Propertize) { uc.newID = gen }
}

func WithClock(now func() time.Time) PropertizeOption {
	return func(uc *Propertize) { uc.now = now }
}

// WithRecorder stores a summary of every run. Recording failures are logged,
// never returned.
func WithRecorder(r ports.RunRecorder) PropertizeOption {
	return func(uc *Propertize) { uc.recorder = r }
}

func NewPropertize(store ports.PropertiesStore, d ports.Decrypter, e ports.Encrypter, opts ...PropertizeOption) *Propertize {
	uc := &Propertize{
		store:     store,
		decrypter: d,
		engine:    NewMergeEngine(d, e),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute classifies env, then loads, merges and saves the application file
// and the target file in that order. The returned result is populated as far
// as the run got, also when an error is returned.
func (uc *Propertize) Execute(ctx context.Context, env domain.Environment, req PropertizeRequest) (PropertizeResult, error) {
	res := PropertizeResult{RunID: uc.newID()}
	log := uc.log.With("run_id", res.RunID)
	started := uc.now()

	ep := domain.BuildEnvironmentProperties(env)
	res.Environment = ep
	if len(ep.Discarded) > 0 {
		log.Info("propertize.discarded_env_vars", "names", ep.Discarded)
	}

	parser := NewOptionParser(env, uc.decrypter)
	user, err := parser.Parse(ctx, req.DataSource.Username)
	if err != nil {
		return res, err
	}
	password, err := parser.Parse(ctx, req.DataSource.Password)
	if err != nil {
		return res, err
	}
	url, err := parser.Parse(ctx, req.DataSource.URL)
	if err != nil {
		return res, err
	}

	var errs []error
	for _, dest := range []struct {
		d   domain.Destination
		cfg domain.FileConfig
	}{
		{domain.Application, req.Application},
		{domain.Target, req.Target},
	} {
		dr := uc.buildDestination(ctx, log, env, ep, dest.d, dest.cfg, func(props *domain.Properties, report *domain.AuditReport) error {
			if dest.d != domain.Application {
				return nil
			}
			return uc.engine.ApplyDataSource(ctx, props, report, user, password, url)
		})
		res.Destinations = append(res.Destinations, dr)

		if dr.Err != nil {
			errs = append(errs, dr.Err)
			if req.FailFast || abortsRun(dr.Err) {
				break
			}
		}
	}

	uc.record(log, env, started, &res)
	return res, errors.Join(errs...)
}

// abortsRun reports whether err must stop the run before the next destination
// is touched.
func abortsRun(err error) bool {
	return domain.IsKind(err, domain.KindDecryption) ||
		domain.IsKind(err, domain.KindEncryption) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (uc *Propertize) record(log *slog.Logger, env domain.Environment, started time.Time, res *PropertizeResult) {
	if uc.recorder == nil {
		return
	}
	id, err := uc.recorder.SaveRun(buildRunRecord(env, started, uc.now(), *res))
	if err != nil {
		log.Warn("propertize.record_failed", "error", err)
		return
	}
	res.RecordID = id
	log.Debug("propertize.recorded", "record_id", id)
}

func buildRunRecord(env domain.Environment, started, ended time.Time, res PropertizeResult) domain.RunRecord {
	rec := domain.RunRecord{
		RunID:      res.RunID,
		StartedAt:  started,
		EndedAt:    ended,
		WorkingDir: env.WorkingDir(),
		Discarded:  res.Environment.Discarded,
	}
	for _, dr := range res.Destinations {
		d := domain.DestinationRecord{
			Destination: dr.Destination.String(),
			Input:       dr.InputPath,
			Output:      dr.OutputPath,
			Skipped:     dr.Skipped,
			Keys:        dr.Keys,
		}
		if dr.Report != nil {
			d.Entries = dr.Report.Entries
		}
		if dr.Err != nil {
			d.Error = dr.Err.Error()
		}
		rec.Destinations = append(rec.Destinations, d)
	}
	return rec
}

func (uc *Propertize) buildDestination(
	ctx context.Context,
	log *slog.Logger,
	env domain.Environment,
	ep domain.EnvironmentProperties,
	dest domain.Destination,
	cfg domain.FileConfig,
	applyOptions func(*domain.Properties, *domain.AuditReport) error,
) DestinationResult {
	dr := DestinationResult{Destination: dest, Report: &domain.AuditReport{}}
	log = log.With("destination", dest.String())

	if cfg.Input == "" {
		dr.Skipped = true
		if !ep.Empty(dest) {
			log.Warn("propertize.skipped_with_variables", "reason", "no input path")
		} else {
			log.Debug("propertize.skipped", "reason", "no input path")
		}
		return dr
	}

	dr.InputPath = env.AbsPath(cfg.Input)
	dr.OutputPath = env.AbsPath(cfg.OutputPath())

	template, err := uc.store.Load(dr.InputPath)
	if err != nil {
		dr.Err = err
		return dr
	}

	base := template.Clone()
	if err := applyOptions(base, dr.Report); err != nil {
		dr.Err = err
		return dr
	}

	plain, secret := ep.Buckets(dest)
	merged, report, err := uc.engine.Merge(ctx, dest, base, plain, secret)
	if err != nil {
		dr.Err = err
		return dr
	}
	dr.Report.Entries = append(dr.Report.Entries, report.Entries...)

	if err := uc.store.Save(merged, dr.OutputPath); err != nil {
		dr.Err = err
		return dr
	}

	dr.Keys = merged.Len()
	log.Info("propertize.destination_complete",
		"input", dr.InputPath,
		"output", dr.OutputPath,
		"keys", dr.Keys,
		"added", dr.Report.Len(),
	)
	return dr
}
