package usecase

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// MergeEngine overlays classified environment buckets on a template mapping.
type MergeEngine struct {
	decrypter ports.Decrypter
	encrypter ports.Encrypter
}

func NewMergeEngine(d ports.Decrypter, e ports.Encrypter) *MergeEngine {
	return &MergeEngine{decrypter: d, encrypter: e}
}

// Merge returns a copy of template with every secret entry and then every
// plain entry of the buckets set on it, plus the audit report of the keys
// added. Within each group keys are visited in sorted order.
//
// Secret values are decrypted. Keys in domain.VerbatimSecretKeys keep their
// plaintext; other application secrets are re-encrypted; target secrets are
// unwrapped before decryption and re-wrapped after it, never re-encrypted.
// The first codec error aborts the merge; template is never modified.
func (m *MergeEngine) Merge(ctx context.Context, dest domain.Destination, template *domain.Properties, plain, secret domain.Vars) (*domain.Properties, *domain.AuditReport, error) {
	out := template.Clone()
	report := &domain.AuditReport{}

	for _, k := range domain.SortedKeys(secret) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := m.mergeSecret(ctx, dest, out, report, k, secret[k]); err != nil {
			return nil, nil, err
		}
	}

	for _, k := range domain.SortedKeys(plain) {
		v := plain[k]
		out.Set(k, v)
		report.Add(domain.ReportEntry{Key: k, Kind: domain.EntryPlain, Value: v})
	}

	return out, report, nil
}

func (m *MergeEngine) mergeSecret(ctx context.Context, dest domain.Destination, out *domain.Properties, report *domain.AuditReport, key, value string) error {
	ciphertext := value
	if dest == domain.Target {
		ciphertext = domain.UnwrapTarget(value)
	}

	plaintext, err := m.decrypter.Decrypt(ctx, ciphertext)
	if err != nil {
		return err
	}

	switch {
	case domain.VerbatimSecretKeys[key]:
		out.Set(key, wrapFor(dest, plaintext))
		report.Add(domain.ReportEntry{Key: key, Kind: domain.EntrySecretVerbatim, Value: plaintext})

	case dest == domain.Application:
		enc, err := m.encrypt(ctx, plaintext)
		if err != nil {
			return err
		}
		out.Set(key, enc)
		report.Add(domain.ReportEntry{Key: key, Kind: domain.EntrySecretReencrypted, Length: utf8.RuneCountInString(plaintext)})

	default:
		out.Set(key, wrapFor(dest, plaintext))
		report.Add(domain.ReportEntry{Key: key, Kind: domain.EntrySecretDecrypted, Length: utf8.RuneCountInString(plaintext)})
	}
	return nil
}

// ApplyDataSource sets the resolved datasource options on props. Unset tokens
// are skipped; the password is re-encrypted like any application secret.
func (m *MergeEngine) ApplyDataSource(ctx context.Context, props *domain.Properties, report *domain.AuditReport, user, password, url domain.OptionToken) error {
	if v, ok := url.Resolved(); ok {
		props.Set(domain.DataSourceURLKey, v)
		report.Add(domain.ReportEntry{Key: domain.DataSourceURLKey, Kind: domain.EntryPlain, Value: v})
	}
	if v, ok := user.Resolved(); ok {
		props.Set(domain.DataSourceUserKey, v)
		report.Add(domain.ReportEntry{Key: domain.DataSourceUserKey, Kind: domain.EntryPlain, Value: v})
	}
	if v, ok := password.Resolved(); ok {
		enc, err := m.encrypt(ctx, v)
		if err != nil {
			return err
		}
		props.Set(domain.DataSourcePasswordKey, enc)
		report.Add(domain.ReportEntry{Key: domain.DataSourcePasswordKey, Kind: domain.EntrySecretReencrypted, Length: utf8.RuneCountInString(v)})
	}
	return nil
}

func (m *MergeEngine) encrypt(ctx context.Context, plaintext string) (string, error) {
	if m.encrypter == nil {
		return "", &domain.OpError{
			Op:   "merge.encrypt",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("no encrypter configured for application secrets"),
		}
	}
	return m.encrypter.Encrypt(ctx, plaintext)
}

func wrapFor(dest domain.Destination, v string) string {
	if dest == domain.Target {
		return domain.WrapTarget(v)
	}
	return v
}
