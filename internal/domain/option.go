package domain

// Option token metadata. "ENV:KMS::DB_PASS" reads DB_PASS from the
// environment, then decrypts it.
const (
	OptionMetaDelimiter = "::"
	OptionTagDelimiter  = ":"
	OptionTagEnv        = "ENV"
	OptionTagKMS        = "KMS"
)

// OptionToken is the parsed form of one configuration value.
// Raw and Value are meaningful only when RawSet and ValueSet are true; an
// unset token stands for a missing (null) value.
type OptionToken struct {
	Raw    string
	RawSet bool

	Value    string
	ValueSet bool

	// Secret is set by the KMS tag, Env by the ENV tag.
	Secret bool
	Env    bool
}

// Resolved returns the resolved value and whether one exists.
func (t OptionToken) Resolved() (string, bool) {
	return t.Value, t.ValueSet
}
