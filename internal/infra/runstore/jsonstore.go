package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

const maskValue = "********"

// JSONStore writes one JSON file per run under dir, plus an optional
// index.jsonl with one line per run.
type JSONStore struct {
	dir            string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: <dir>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithMasking masks values of plain entries whose key looks sensitive.
func WithMasking(enabled bool) Option {
	return func(s *JSONStore) { s.maskingEnabled = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(dir string, opts ...Option) *JSONStore {
	s := &JSONStore{
		dir:            dir,
		maskingEnabled: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.RunRecorder = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(rec domain.RunRecord) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindIO,
			Path: s.dir,
			Err:  err,
		}
	}

	ts := rec.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := rec
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := slugify(rec.RunID)
	if len(slug) > 8 {
		slug = slug[:8]
	}
	if slug == "" {
		slug = "run"
	}

	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug)
	id, path, err := s.uniquePath(base)
	if err != nil {
		return "", err
	}

	if s.maskingEnabled {
		toSave = maskRecord(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindIO,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(id, filepath.Base(path), toSave)
	}

	return id, nil
}

func (s *JSONStore) uniquePath(base string) (string, string, error) {
	id := base
	for i := 2; ; i++ {
		path := filepath.Join(s.dir, id+".json")
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return id, path, nil
		}
		if err != nil {
			return "", "", &domain.OpError{Op: "runstore.stat", Kind: domain.KindIO, Path: path, Err: err}
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *JSONStore) appendIndex(id, filename string, rec domain.RunRecord) error {
	type idx struct {
		ID        string    `json:"id"`
		File      string    `json:"file"`
		RunID     string    `json:"run_id"`
		Failed    bool      `json:"failed"`
		StartedAt time.Time `json:"started_at"`
	}
	line, err := json.Marshal(idx{
		ID:        id,
		File:      filename,
		RunID:     rec.RunID,
		Failed:    rec.Failed(),
		StartedAt: rec.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(s.dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// maskRecord returns a masked copy (does NOT mutate the input).
func maskRecord(rec domain.RunRecord) domain.RunRecord {
	out := rec
	out.Destinations = make([]domain.DestinationRecord, 0, len(rec.Destinations))

	for _, d := range rec.Destinations {
		c := d
		c.Entries = make([]domain.ReportEntry, len(d.Entries))
		copy(c.Entries, d.Entries)

		for i, e := range c.Entries {
			if e.Kind == domain.EntryPlain && e.Value != "" && isSensitiveKey(e.Key) {
				c.Entries[i].Value = maskValue
			}
		}
		out.Destinations = append(out.Destinations, c)
	}

	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "passwd") ||
		strings.Contains(kk, "apikey") ||
		strings.Contains(kk, "api-key")
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
