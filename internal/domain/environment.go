package domain

import (
	"path/filepath"
	"sort"
)

// WorkingDirKey is the snapshot key holding the current working directory.
// It is bookkeeping, never a property, and is excluded from discard reports.
const WorkingDirKey = "PWD"

// Vars is a flat key/value mapping. Buckets and snapshots are both Vars.
type Vars map[string]string

// Get returns a value for the given key and a boolean indicating if it exists.
func Get(vars Vars, key string) (string, bool) {
	if vars == nil {
		return "", false
	}
	val, ok := vars[key]
	return val, ok
}

// SortedKeys returns the keys of vars in lexical order.
func SortedKeys(vars Vars) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environment is an immutable snapshot of the process environment for one run.
// Components receive it explicitly instead of reading os.Getenv.
type Environment struct {
	vars Vars
}

// NewEnvironment copies vars into a snapshot.
func NewEnvironment(vars map[string]string) Environment {
	cp := make(Vars, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return Environment{vars: cp}
}

// Lookup returns the value of key and whether it is present.
func (e Environment) Lookup(key string) (string, bool) {
	return Get(e.vars, key)
}

// Value returns the value of key, or "" when absent.
func (e Environment) Value(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Len reports the number of variables in the snapshot.
func (e Environment) Len() int {
	return len(e.vars)
}

// Vars returns a copy of every variable in the snapshot.
func (e Environment) Vars() Vars {
	out := make(Vars, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// WorkingDir returns the snapshot's working directory ("" when unknown).
func (e Environment) WorkingDir() string {
	return e.Value(WorkingDirKey)
}

// AbsPath resolves p against the snapshot's working directory.
// Absolute and empty paths are returned cleaned/unchanged.
func (e Environment) AbsPath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	wd := e.WorkingDir()
	if wd == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}
