package usecase

import (
	"context"
	"strings"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// OptionParser resolves option tokens such as "ENV:KMS::DB_PASS" against an
// environment snapshot and a decrypter.
type OptionParser struct {
	env       domain.Environment
	decrypter ports.Decrypter
}

func NewOptionParser(env domain.Environment, d ports.Decrypter) *OptionParser {
	return &OptionParser{env: env, decrypter: d}
}

// Parse resolves raw. An empty raw string is an unset value: flags and the
// config file cannot tell "absent" from "", so "" never becomes a literal
// empty property.
//
// Without "::" the input is a literal. Otherwise the text before "::" is a
// case-insensitive, ":"-separated tag list (ENV, KMS; others ignored) and the
// text after it is the operand. ENV resolves the operand as a variable name
// first; an absent or empty variable yields an unset value and stops there.
// KMS then decrypts. Decrypt errors are returned unchanged.
func (p *OptionParser) Parse(ctx context.Context, raw string) (domain.OptionToken, error) {
	if raw == "" {
		return domain.OptionToken{}, nil
	}

	meta, operand, hasMeta := strings.Cut(raw, domain.OptionMetaDelimiter)
	if !hasMeta {
		return domain.OptionToken{Raw: raw, RawSet: true, Value: raw, ValueSet: true}, nil
	}

	tok := domain.OptionToken{Raw: raw, RawSet: true}
	for _, tag := range strings.Split(strings.ToUpper(meta), domain.OptionTagDelimiter) {
		switch tag {
		case domain.OptionTagKMS:
			tok.Secret = true
		case domain.OptionTagEnv:
			tok.Env = true
		}
	}

	val := operand
	if tok.Env {
		v, ok := p.env.Lookup(operand)
		if !ok || v == "" {
			return tok, nil
		}
		val = v
	}

	if tok.Secret {
		plain, err := p.decrypter.Decrypt(ctx, val)
		if err != nil {
			return domain.OptionToken{}, err
		}
		val = plain
	}

	tok.Value = val
	tok.ValueSet = true
	return tok, nil
}
