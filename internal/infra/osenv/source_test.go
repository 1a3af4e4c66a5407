package osenv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianslattery/kms-propertizer/internal/domain"
)

func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

func wd(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestSnapshot_ProcessEnvironment(t *testing.T) {
	s := NewSource(
		WithEnviron(environ("IIQ_A=1", "TRG_B=x=y", "EMPTY=", "=C:=C:\\", "PWD=/stale")),
		WithGetwd(wd("/work")),
	)

	env, err := s.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "/work", env.WorkingDir())
	assert.Equal(t, "1", env.Value("IIQ_A"))
	assert.Equal(t, "x=y", env.Value("TRG_B"))
	v, ok := env.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, 4, env.Len())
}

func TestSnapshot_DotenvBaseLayer(t *testing.T) {
	dir := t.TempDir()
	content := "# base values\nIIQ_A=from-file\nIIQ_DB__URL_KMS=\"AQID\"\nexport TRG_X=file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	s := NewSource(
		WithEnvFile(".env"),
		WithEnviron(environ("IIQ_A=from-process")),
		WithGetwd(wd(dir)),
	)

	env, err := s.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "from-process", env.Value("IIQ_A"))
	assert.Equal(t, "AQID", env.Value("IIQ_DB__URL_KMS"))
	assert.Equal(t, "file", env.Value("TRG_X"))
	assert.Equal(t, dir, env.Value(domain.WorkingDirKey))
}

func TestSnapshot_MissingDotenv(t *testing.T) {
	s := NewSource(WithEnvFile("/nope/.env"), WithEnviron(environ()), WithGetwd(wd("/")))

	_, err := s.Snapshot()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestSnapshot_GetwdFailure(t *testing.T) {
	s := NewSource(WithEnviron(environ()), WithGetwd(func() (string, error) {
		return "", errors.New("gone")
	}))

	_, err := s.Snapshot()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindIO))
}
