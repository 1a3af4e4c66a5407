package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		dest     Destination
		stripped string
		secret   bool
		key      string
	}{
		{"IIQ_PROP_A", Application, "PROP_A", false, "PROP_A"},
		{"IIQ_PROP_B_KMS", Application, "PROP_B_KMS", true, "PROP_B"},
		{"TRG_PROP_A_KMS", Target, "PROP_A_KMS", true, "PROP_A"},
		{"TRG_PROP_B", Target, "PROP_B", false, "PROP_B"},
		{"IIQ_dataSource__username_KMS", Application, "dataSource__username_KMS", true, "dataSource.username"},
		{"IIQ_dataSource__url", Application, "dataSource__url", false, "dataSource.url"},
		{"IIQ_KMS", Application, "KMS", false, "KMS"},
		{"IIQ__KMS", Application, "_KMS", true, ""},
		{"TRG_IIQ_X", Target, "IIQ_X", false, "IIQ_X"},
		{"IIQ_TRG_X", Application, "TRG_X", false, "TRG_X"},
		{"iiq_lower", Unrecognized, "iiq_lower", false, ""},
		{"HOME", Unrecognized, "HOME", false, ""},
		{"PATH_KMS", Unrecognized, "PATH_KMS", false, ""},
		{"", Unrecognized, "", false, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.name)
			assert.Equal(t, c.name, got.Name)
			assert.Equal(t, c.dest, got.Destination)
			assert.Equal(t, c.stripped, got.Stripped)
			assert.Equal(t, c.secret, got.Secret)
			assert.Equal(t, c.key, got.Key)
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	for _, n := range []string{"IIQ_A__B_KMS", "TRG_X", "OTHER", "IIQ__KMS"} {
		assert.Equal(t, Classify(n), Classify(n), n)
	}
}

func TestClassifyStripsExactlyOnce(t *testing.T) {
	// The stripped remainder starts with another routing prefix; it must not
	// be stripped again.
	got := Classify("IIQ_IIQ_VALUE_KMS")
	assert.Equal(t, Application, got.Destination)
	assert.Equal(t, "IIQ_VALUE", got.Key)
}

func TestTransformKey(t *testing.T) {
	assert.Equal(t, "dataSource.username", TransformKey("dataSource__username_KMS", true))
	assert.Equal(t, "dataSource.username_KMS", TransformKey("dataSource__username_KMS", false))
	assert.Equal(t, "a.b.c", TransformKey("a__b__c", false))
	assert.Equal(t, "plain", TransformKey("plain", false))
	assert.Equal(t, "", TransformKey("", true))
	assert.Equal(t, "x_KMS", TransformKey("x_KMS_KMS", true))
}

func TestTransformKeyIdempotentOnTransformedKeys(t *testing.T) {
	for _, raw := range []string{"dataSource__username", "a__b__c", "plain", "x___y"} {
		once := TransformKey(raw, false)
		require.Equal(t, once, TransformKey(once, false), raw)
	}
}

func TestWrapUnwrapTarget(t *testing.T) {
	assert.Equal(t, "%%bar%%", WrapTarget("bar"))
	assert.Equal(t, "%%%%", WrapTarget(""))
	assert.Equal(t, "bar", UnwrapTarget("%%bar%%"))
	assert.Equal(t, "", UnwrapTarget("%%%%"))
	assert.Equal(t, "%%bar", UnwrapTarget("%%bar"))
	assert.Equal(t, "%%%", UnwrapTarget("%%%"))
}

func TestDestinationString(t *testing.T) {
	assert.Equal(t, "application", Application.String())
	assert.Equal(t, "target", Target.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
}
