package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brianslattery/kms-propertizer/internal/domain"
)

// --- codec fakes ---

// fakeDecrypter "decrypts" by stripping an "enc:" prefix and records calls.
type fakeDecrypter struct {
	calls []string
	fail  map[string]error
}

func (f *fakeDecrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	f.calls = append(f.calls, ciphertext)
	if err, ok := f.fail[ciphertext]; ok {
		return "", &domain.OpError{Op: "fake.decrypt", Kind: domain.KindDecryption, Err: err}
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type fakeEncrypter struct {
	calls []string
	err   error
}

func (f *fakeEncrypter) Encrypt(_ context.Context, plaintext string) (string, error) {
	f.calls = append(f.calls, plaintext)
	if f.err != nil {
		return "", &domain.OpError{Op: "fake.encrypt", Kind: domain.KindEncryption, Err: f.err}
	}
	return "iiq(" + plaintext + ")", nil
}

// --- recorder fake ---

type memRecorder struct {
	records []domain.RunRecord
	err     error
}

func (r *memRecorder) SaveRun(rec domain.RunRecord) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.records = append(r.records, rec)
	return "rec-" + rec.RunID, nil
}

// --- store fake ---

type memStore struct {
	files   map[string]*domain.Properties
	saved   map[string]*domain.Properties
	loadErr map[string]error
	saveErr map[string]error
	order   []string
}

func newMemStore() *memStore {
	return &memStore{
		files:   map[string]*domain.Properties{},
		saved:   map[string]*domain.Properties{},
		loadErr: map[string]error{},
		saveErr: map[string]error{},
	}
}

func (s *memStore) Load(path string) (*domain.Properties, error) {
	s.order = append(s.order, "load:"+path)
	if err, ok := s.loadErr[path]; ok {
		return nil, err
	}
	if p, ok := s.files[path]; ok {
		return p.Clone(), nil
	}
	return domain.NewProperties(), nil
}

func (s *memStore) Save(props *domain.Properties, path string) error {
	s.order = append(s.order, "save:"+path)
	if err, ok := s.saveErr[path]; ok {
		return err
	}
	s.saved[path] = props.Clone()
	return nil
}

// --- command runner fake ---

type fakeRunner struct {
	name   string
	args   []string
	output string
	err    error
}

func (r *fakeRunner) Run(_ context.Context, stdout io.Writer, name string, args ...string) error {
	r.name = name
	r.args = append([]string(nil), args...)
	if r.output != "" {
		_, _ = fmt.Fprint(stdout, r.output)
	}
	return r.err
}

var errBoom = errors.New("boom")

func env(vars domain.Vars) domain.Environment {
	if _, ok := vars[domain.WorkingDirKey]; !ok {
		vars[domain.WorkingDirKey] = "/work"
	}
	return domain.NewEnvironment(vars)
}
