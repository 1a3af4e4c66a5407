package propsfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magiconair/properties"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// backupLayout is an ISO local date-time with ':' replaced by '-', so backup
// names stay valid on every filesystem.
const backupLayout = "2006-01-02T15-04-05.000"

// Store reads and writes Java .properties files (ISO-8859-1, no ${} expansion).
type Store struct {
	hostname string
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*Store)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHostname sets the host written in the saved file header.
func WithHostname(h string) Option {
	return func(s *Store) { s.hostname = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.PropertiesStore = (*Store)(nil)

// Load reads path into an ordered mapping. A missing file yields an empty
// mapping; any other read or parse failure is an io error.
func (s *Store) Load(path string) (*domain.Properties, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("propsfile.load_missing", "path", path)
			return domain.NewProperties(), nil
		}
		return nil, &domain.OpError{
			Op:   "propsfile.read",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	l := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
	p, err := l.LoadBytes(b)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "propsfile.parse",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	out := domain.NewProperties()
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		out.Set(k, v)
	}

	s.log.Info("propsfile.loaded", "path", path, "keys", out.Len())
	return out, nil
}

// Save writes props to path. An existing file at path is first moved aside to
// path-<timestamp>.bak. The new content is written to a temp file and renamed
// into place. A replaced file keeps its permissions; new files get 0644.
func (s *Store) Save(props *domain.Properties, path string) error {
	b, err := s.encode(props)
	if err != nil {
		return &domain.OpError{
			Op:   "propsfile.encode",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.OpError{
				Op:   "propsfile.mkdir",
				Kind: domain.KindIO,
				Path: dir,
				Err:  err,
			}
		}
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, perm); err != nil {
		return &domain.OpError{
			Op:   "propsfile.write",
			Kind: domain.KindIO,
			Path: tmp,
			Err:  err,
		}
	}
	// WriteFile leaves the mode of an existing tmp file alone and applies umask.
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "propsfile.chmod",
			Kind: domain.KindIO,
			Path: tmp,
			Err:  err,
		}
	}

	backup, err := s.backup(path)
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "propsfile.rename",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	s.log.Info("propsfile.stored", "path", path, "keys", props.Len(), "backup", backup)
	return nil
}

// BackupPath returns the name path is moved to when it gets replaced at t.
func BackupPath(path string, t time.Time) string {
	return path + "-" + t.Format(backupLayout) + ".bak"
}

func (s *Store) backup(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("propsfile.no_backup", "path", path, "reason", "no previous file")
			return "", nil
		}
		return "", &domain.OpError{Op: "propsfile.stat", Kind: domain.KindIO, Path: path, Err: err}
	}

	dst, err := uniqueBackup(BackupPath(path, s.now()))
	if err != nil {
		return "", err
	}
	if err := os.Rename(path, dst); err != nil {
		return "", &domain.OpError{
			Op:   "propsfile.backup",
			Kind: domain.KindIO,
			Path: dst,
			Err:  err,
		}
	}
	s.log.Info("propsfile.backup_created", "path", path, "backup", dst)
	return dst, nil
}

// uniqueBackup returns name, or name with a _2, _3, ... counter before ".bak"
// when a backup of that name already exists.
func uniqueBackup(name string) (string, error) {
	base := strings.TrimSuffix(name, ".bak")
	dst := name
	for i := 2; ; i++ {
		_, err := os.Lstat(dst)
		if errors.Is(err, fs.ErrNotExist) {
			return dst, nil
		}
		if err != nil {
			return "", &domain.OpError{Op: "propsfile.stat", Kind: domain.KindIO, Path: dst, Err: err}
		}
		dst = fmt.Sprintf("%s_%d.bak", base, i)
	}
}

func (s *Store) encode(props *domain.Properties) ([]byte, error) {
	p := properties.NewProperties()
	p.DisableExpansion = true
	p.WriteSeparator = "="
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		if _, _, err := p.Set(k, v); err != nil {
			return nil, fmt.Errorf("set %q: %w", k, err)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#Built On: %s\n", s.hostname)
	fmt.Fprintf(&buf, "#%s\n", s.now().Format(time.UnixDate))
	if _, err := p.Write(&buf, properties.ISO_8859_1); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
