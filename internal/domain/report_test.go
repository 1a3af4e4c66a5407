package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportEntryNeverShowsReencryptedValue(t *testing.T) {
	e := ReportEntry{Key: "db.password", Kind: EntrySecretReencrypted, Length: 7}
	assert.Equal(t, "Added KMS encrypted key via iiq encrypt: key=[db.password], valueLength=[7].", e.String())
}

func TestAuditReport(t *testing.T) {
	var r AuditReport
	assert.Equal(t, "", r.String())

	r.Add(ReportEntry{Key: "dataSource.url", Kind: EntrySecretVerbatim, Value: "jdbc:x"})
	r.Add(ReportEntry{Key: "B", Kind: EntryPlain, Value: "2"})
	r.Add(ReportEntry{Key: "T", Kind: EntrySecretDecrypted, Length: 3})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.Count(EntryPlain))
	assert.Equal(t, []string{
		"Added KMS encrypted key, skipped re-encryption for URL or user: key=[dataSource.url], value=[jdbc:x].",
		"Added unencrypted key=[B], value=[2].",
		"Added KMS encrypted key, decrypted only: key=[T], valueLength=[3].",
	}, r.Lines())
	assert.Contains(t, r.String(), "Added unencrypted key=[B]")
}
