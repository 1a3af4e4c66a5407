package domain

// EnvironmentProperties holds the environment snapshot sorted into the four
// property buckets. Secret buckets still hold ciphertext; target values (plain
// and secret) are wrapped in TargetWrap.
type EnvironmentProperties struct {
	WorkingDir string

	Application       Vars
	ApplicationSecret Vars
	Target            Vars
	TargetSecret      Vars

	// Discarded lists unrecognized variable names (sorted), excluding
	// WorkingDirKey. A non-empty list is an observation, not an error.
	Discarded []string
}

// BuildEnvironmentProperties classifies every variable of env exactly once.
//
// Distinct variable names are assumed not to collide after transformation;
// if they do, the last one visited wins within its bucket. Names whose key
// transforms to "" (e.g. "IIQ_" or "TRG__KMS") cannot become properties and
// are reported as discarded.
func BuildEnvironmentProperties(env Environment) EnvironmentProperties {
	ep := EnvironmentProperties{
		WorkingDir:        env.WorkingDir(),
		Application:       Vars{},
		ApplicationSecret: Vars{},
		Target:            Vars{},
		TargetSecret:      Vars{},
		Discarded:         []string{},
	}

	for _, name := range SortedKeys(env.vars) {
		value := env.vars[name]
		ck := Classify(name)

		if ck.Destination == Unrecognized || ck.Key == "" {
			if name != WorkingDirKey {
				ep.Discarded = append(ep.Discarded, name)
			}
			continue
		}

		switch {
		case ck.Destination == Application && ck.Secret:
			ep.ApplicationSecret[ck.Key] = value
		case ck.Destination == Application:
			ep.Application[ck.Key] = value
		case ck.Secret:
			ep.TargetSecret[ck.Key] = WrapTarget(value)
		default:
			ep.Target[ck.Key] = WrapTarget(value)
		}
	}

	return ep
}

// Buckets returns the plain and secret buckets for d.
func (ep EnvironmentProperties) Buckets(d Destination) (plain Vars, secret Vars) {
	switch d {
	case Application:
		return ep.Application, ep.ApplicationSecret
	case Target:
		return ep.Target, ep.TargetSecret
	default:
		return Vars{}, Vars{}
	}
}

// Empty reports whether no variable was routed to d.
func (ep EnvironmentProperties) Empty(d Destination) bool {
	plain, secret := ep.Buckets(d)
	return len(plain) == 0 && len(secret) == 0
}
