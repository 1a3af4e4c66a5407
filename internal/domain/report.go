package domain

import (
	"fmt"
	"strings"
)

// EntryKind describes how a key reached a merged mapping.
type EntryKind string

const (
	// EntryPlain: unencrypted value copied as-is.
	EntryPlain EntryKind = "plain"
	// EntrySecretVerbatim: decrypted infrastructure value (URL/user) written in clear.
	EntrySecretVerbatim EntryKind = "secret_verbatim"
	// EntrySecretReencrypted: decrypted then re-encrypted for the application.
	EntrySecretReencrypted EntryKind = "secret_reencrypted"
	// EntrySecretDecrypted: decrypted and written without re-encryption.
	EntrySecretDecrypted EntryKind = "secret_decrypted"
)

// ReportEntry records one key added during a merge. Value is only set for
// kinds that may show it (plain and verbatim secrets); other secrets carry
// the plaintext length.
type ReportEntry struct {
	Key    string    `json:"key"`
	Kind   EntryKind `json:"kind"`
	Value  string    `json:"value,omitempty"`
	Length int       `json:"length,omitempty"`
}

func (e ReportEntry) String() string {
	switch e.Kind {
	case EntrySecretVerbatim:
		return fmt.Sprintf("Added KMS encrypted key, skipped re-encryption for URL or user: key=[%s], value=[%s].", e.Key, e.Value)
	case EntrySecretReencrypted:
		return fmt.Sprintf("Added KMS encrypted key via iiq encrypt: key=[%s], valueLength=[%d].", e.Key, e.Length)
	case EntrySecretDecrypted:
		return fmt.Sprintf("Added KMS encrypted key, decrypted only: key=[%s], valueLength=[%d].", e.Key, e.Length)
	default:
		return fmt.Sprintf("Added unencrypted key=[%s], value=[%s].", e.Key, e.Value)
	}
}

// AuditReport is the append-only record of one merge.
type AuditReport struct {
	Entries []ReportEntry `json:"entries"`
}

// Add appends an entry.
func (r *AuditReport) Add(e ReportEntry) {
	r.Entries = append(r.Entries, e)
}

// Len reports the number of entries.
func (r *AuditReport) Len() int {
	return len(r.Entries)
}

// Count returns how many entries have the given kind.
func (r *AuditReport) Count(kind EntryKind) int {
	n := 0
	for _, e := range r.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Lines renders each entry as a human-readable line.
func (r *AuditReport) Lines() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.String())
	}
	return out
}

func (r *AuditReport) String() string {
	if len(r.Entries) == 0 {
		return ""
	}
	return strings.Join(r.Lines(), "\n") + "\n"
}
