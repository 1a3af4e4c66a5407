package domain

import "strings"

// Routing prefixes select the destination file. Both must keep the same
// length (PrefixLen); the classifier strips exactly that many bytes.
const (
	ApplicationPrefix = "IIQ_"
	TargetPrefix      = "TRG_"
	PrefixLen         = 4

	// SecretSuffix marks a variable whose value is KMS ciphertext.
	SecretSuffix = "_KMS"

	// KeySeparator stands in for "." in environment variable names.
	KeySeparator = "__"

	// TargetWrap delimits every value destined for the target file.
	TargetWrap = "%%"
)

// Destination is the file an environment variable is routed to.
type Destination int

const (
	Unrecognized Destination = iota
	Application
	Target
)

// String returns the human-readable destination name.
func (d Destination) String() string {
	switch d {
	case Application:
		return "application"
	case Target:
		return "target"
	default:
		return "unrecognized"
	}
}

// ClassifiedKey is the routing decision for one environment variable name.
type ClassifiedKey struct {
	// Name is the original environment variable name.
	Name string

	Destination Destination

	// Stripped is Name without its routing prefix. Unrecognized names are
	// returned unchanged.
	Stripped string

	// Secret is true when Stripped ends with SecretSuffix.
	Secret bool

	// Key is the final property key (see TransformKey).
	Key string
}

// Classify decides the destination of an environment variable name.
//
// The prefix test runs first; the secret suffix is then tested on the
// stripped name, so "IIQ__KMS" is a secret with an empty key while "IIQ_KMS"
// is a plain variable keyed "KMS". Unrecognized names are never tested for
// the suffix.
func Classify(name string) ClassifiedKey {
	ck := ClassifiedKey{Name: name, Stripped: name}

	switch {
	case strings.HasPrefix(name, TargetPrefix):
		ck.Destination = Target
	case strings.HasPrefix(name, ApplicationPrefix):
		ck.Destination = Application
	default:
		return ck
	}

	ck.Stripped = name[PrefixLen:]
	ck.Secret = strings.HasSuffix(ck.Stripped, SecretSuffix)
	ck.Key = TransformKey(ck.Stripped, ck.Secret)
	return ck
}

// TransformKey rewrites a prefix-stripped name into a property key: the
// secret suffix is dropped when secret is set, then every "__" becomes ".".
// e.g. dataSource__username_KMS -> dataSource.username.
func TransformKey(stripped string, secret bool) string {
	k := stripped
	if secret {
		k = strings.TrimSuffix(k, SecretSuffix)
	}
	return strings.ReplaceAll(k, KeySeparator, ".")
}

// WrapTarget applies the target-file placeholder convention to v.
func WrapTarget(v string) string {
	return TargetWrap + v + TargetWrap
}

// UnwrapTarget removes one leading and one trailing TargetWrap from v when
// both are present.
func UnwrapTarget(v string) string {
	if len(v) >= 2*len(TargetWrap) && strings.HasPrefix(v, TargetWrap) && strings.HasSuffix(v, TargetWrap) {
		return v[len(TargetWrap) : len(v)-len(TargetWrap)]
	}
	return v
}
