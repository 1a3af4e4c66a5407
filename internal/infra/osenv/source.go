package osenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// Source snapshots the process environment. An optional dotenv file supplies
// a base layer that real environment variables override. The working
// directory is always recorded under domain.WorkingDirKey.
type Source struct {
	envFile string
	environ func() []string
	getwd   func() (string, error)
}

type Option func(*Source)

// WithEnvFile sets a dotenv file to load under the process environment.
func WithEnvFile(path string) Option {
	return func(s *Source) { s.envFile = path }
}

// WithEnviron replaces os.Environ (useful for tests).
func WithEnviron(fn func() []string) Option {
	return func(s *Source) { s.environ = fn }
}

// WithGetwd replaces os.Getwd (useful for tests).
func WithGetwd(fn func() (string, error)) Option {
	return func(s *Source) { s.getwd = fn }
}

func NewSource(opts ...Option) *Source {
	s := &Source{
		environ: os.Environ,
		getwd:   os.Getwd,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.EnvironmentSource = (*Source)(nil)

func (s *Source) Snapshot() (domain.Environment, error) {
	wd, err := s.getwd()
	if err != nil {
		return domain.Environment{}, &domain.OpError{
			Op:   "osenv.getwd",
			Kind: domain.KindIO,
			Err:  err,
		}
	}

	vars := map[string]string{}

	if s.envFile != "" {
		path := s.envFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(wd, path)
		}
		base, err := godotenv.Read(path)
		if err != nil {
			kind := domain.KindIO
			if errors.Is(err, fs.ErrNotExist) {
				kind = domain.KindNotFound
			}
			return domain.Environment{}, &domain.OpError{
				Op:   "osenv.dotenv",
				Kind: kind,
				Path: path,
				Err:  err,
			}
		}
		for k, v := range base {
			vars[k] = v
		}
	}

	for _, kv := range s.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}

	vars[domain.WorkingDirKey] = wd
	return domain.NewEnvironment(vars), nil
}
