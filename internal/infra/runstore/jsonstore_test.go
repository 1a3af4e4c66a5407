package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianslattery/kms-propertizer/internal/domain"
)

func sampleRecord(start time.Time) domain.RunRecord {
	return domain.RunRecord{
		RunID:      "3f2a9c1e-77aa-4d8e-9c2b-0d7e5f1a2b3c",
		StartedAt:  start,
		EndedAt:    start.Add(2 * time.Second),
		WorkingDir: "/work",
		Discarded:  []string{"HOME"},
		Destinations: []domain.DestinationRecord{
			{
				Destination: "application",
				Input:       "/work/iiq.properties",
				Output:      "/work/iiq.properties",
				Keys:        3,
				Entries: []domain.ReportEntry{
					{Key: "db.password", Kind: domain.EntryPlain, Value: "hunter2"},
					{Key: "auth.token", Kind: domain.EntryPlain, Value: "abc123"},
					{Key: "user.id", Kind: domain.EntryPlain, Value: "7"},
					{Key: "PW", Kind: domain.EntrySecretReencrypted, Length: 12},
				},
			},
			{Destination: "target", Skipped: true},
		},
	}
}

func readRecord(t *testing.T, path string) domain.RunRecord {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var decoded domain.RunRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return decoded
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "runs")
	store := NewJSONStore(dir, WithMasking(false))

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(sampleRecord(start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260203T101112Z_3f2a9c1e" {
		t.Fatalf("unexpected id %q", id)
	}

	decoded := readRecord(t, filepath.Join(dir, id+".json"))
	if decoded.RunID != "3f2a9c1e-77aa-4d8e-9c2b-0d7e5f1a2b3c" {
		t.Fatalf("expected run id, got=%q", decoded.RunID)
	}
	if len(decoded.Destinations) != 2 {
		t.Fatalf("expected 2 destinations, got=%d", len(decoded.Destinations))
	}
	if got := decoded.Destinations[0].Entries[0].Value; got != "hunter2" {
		t.Fatalf("expected value preserved without masking, got=%q", got)
	}
	if !decoded.Destinations[1].Skipped {
		t.Fatalf("expected target skipped")
	}
}

func TestSaveRun_MasksSensitivePlainValues(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(dir)

	rec := sampleRecord(time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))
	orig := rec.Destinations[0].Entries[0].Value

	id, err := store.SaveRun(rec)
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if rec.Destinations[0].Entries[0].Value != orig {
		t.Fatalf("expected original record not mutated")
	}

	entries := readRecord(t, filepath.Join(dir, id+".json")).Destinations[0].Entries
	if entries[0].Value != maskValue {
		t.Fatalf("expected db.password masked, got=%q", entries[0].Value)
	}
	if entries[1].Value != maskValue {
		t.Fatalf("expected auth.token masked, got=%q", entries[1].Value)
	}
	if entries[2].Value != "7" {
		t.Fatalf("expected user.id preserved, got=%q", entries[2].Value)
	}
	if entries[3].Length != 12 || entries[3].Value != "" {
		t.Fatalf("expected length-only entry untouched, got=%+v", entries[3])
	}
}

func TestSaveRun_UsesUniqueFilenameOnCollision(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(dir, WithMasking(false))
	rec := sampleRecord(time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))

	id1, err := store.SaveRun(rec)
	if err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	id2, err := store.SaveRun(rec)
	if err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}
	if id2 != id1+"_2" {
		t.Fatalf("expected second id %q, got %q", id1+"_2", id2)
	}
	for _, id := range []string{id1, id2} {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); err != nil {
			t.Fatalf("expected file for %s, stat err=%v", id, err)
		}
	}
}

func TestSaveRun_ZeroStartUsesClock(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	store := NewJSONStore(dir, WithNow(func() time.Time { return now }))

	id, err := store.SaveRun(domain.RunRecord{})
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if id != "20260506T070809Z_run" {
		t.Fatalf("unexpected id %q", id)
	}
	if got := readRecord(t, filepath.Join(dir, id+".json")).StartedAt; !got.Equal(now) {
		t.Fatalf("expected started_at %v, got %v", now, got)
	}
}

func TestSaveRun_AppendsIndex(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(dir, WithIndex(true))

	rec := sampleRecord(time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))
	rec.Destinations[1].Error = "load failed"
	if _, err := store.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if _, err := store.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "index.jsonl"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 index lines, got=%d", len(lines))
	}

	var first struct {
		ID     string `json:"id"`
		File   string `json:"file"`
		Failed bool   `json:"failed"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal index: %v", err)
	}
	if first.File != first.ID+".json" || !first.Failed {
		t.Fatalf("unexpected index line %+v", first)
	}
}

func TestSaveRun_MkdirFailureIsIO(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewJSONStore(filepath.Join(blocker, "runs")).SaveRun(domain.RunRecord{})
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Demo API":  "demo-api",
		"  --x--  ": "x",
		"":          "",
		"a_b.c":     "a-b-c",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q)=%q want %q", in, got, want)
		}
	}
}
