package kms

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// API is the subset of the KMS client used here.
type API interface {
	Decrypt(ctx context.Context, in *awskms.DecryptInput, optFns ...func(*awskms.Options)) (*awskms.DecryptOutput, error)
}

// Decrypter decrypts base64 KMS ciphertext blobs with a fixed key id.
type Decrypter struct {
	client API
	keyID  string
	log    *slog.Logger
}

type Option func(*Decrypter)

func WithLogger(l *slog.Logger) Option {
	return func(d *Decrypter) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDecrypter(client API, keyID string, opts ...Option) *Decrypter {
	d := &Decrypter{
		client: client,
		keyID:  keyID,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.Decrypter = (*Decrypter)(nil)

// Decrypt base64-decodes ciphertext and asks KMS for the plaintext. On
// failure only a short excerpt of the ciphertext is logged.
func (d *Decrypter) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", d.fail(ciphertext, fmt.Errorf("decode base64: %w", err))
	}

	out, err := d.client.Decrypt(ctx, &awskms.DecryptInput{
		CiphertextBlob: blob,
		KeyId:          aws.String(d.keyID),
	})
	if err != nil {
		return "", d.fail(ciphertext, err)
	}
	return string(out.Plaintext), nil
}

func (d *Decrypter) fail(ciphertext string, err error) error {
	start, end := Excerpt(ciphertext)
	d.log.Error("kms.decrypt_failed",
		"length", len(ciphertext),
		"start", start,
		"end", end,
		"error", err.Error(),
	)
	return &domain.OpError{
		Op:   "kms.decrypt",
		Kind: domain.KindDecryption,
		Err:  fmt.Errorf("%w: ciphertext of length %d: %w", domain.ErrDecrypt, len(ciphertext), err),
	}
}

// Excerpt returns the leading and trailing characters of s that may be
// logged: 8 each for strings longer than 15, len/3 each for 3..15, and
// nothing for shorter strings.
func Excerpt(s string) (start, end string) {
	n := len(s)
	switch {
	case n > 15:
		return s[:8], s[n-8:]
	case n > 2:
		k := n / 3
		return s[:k], s[n-k:]
	default:
		return "", ""
	}
}
