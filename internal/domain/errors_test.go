package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "propsfile.load",
		Kind: KindIO,
		Path: "/tmp/iiq.properties",
		Err:  root,
	}

	assert.ErrorIs(t, err, root)
	assert.Equal(t, "propsfile.load: io (path=/tmp/iiq.properties): root", err.Error())

	var got *OpError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, KindIO, got.Kind)
}

func TestIsKind(t *testing.T) {
	err := &OpError{Op: "x", Kind: KindDecryption, Err: ErrDecrypt}
	wrapped := errors.Join(errors.New("other"), err)

	assert.True(t, IsKind(err, KindDecryption))
	assert.True(t, IsKind(wrapped, KindDecryption))
	assert.False(t, IsKind(err, KindIO))
	assert.False(t, IsKind(errors.New("plain"), KindIO))
}

func TestNilOpError(t *testing.T) {
	var e *OpError
	assert.Equal(t, "<nil>", e.Error())
	assert.NoError(t, e.Unwrap())
}

func TestRequireValue(t *testing.T) {
	assert.NoError(t, RequireValue("op", "user-var", "IIQ_USER"))

	err := RequireValue("import.credentials", "user-var", "")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "user-var")
}
