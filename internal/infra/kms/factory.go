package kms

import (
	"context"
	"log/slog"

	awskms "github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

const echoSuffix = " [decrypt-echo]"

// EchoDecrypter stands in for KMS when no key id is configured.
type EchoDecrypter struct{}

var _ ports.Decrypter = EchoDecrypter{}

func (EchoDecrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	return ciphertext + echoSuffix, nil
}

// New selects the decrypter for cfg: KMS when a key id is set, the echo stub
// otherwise.
func New(ctx context.Context, cfg domain.KMSConfig, log *slog.Logger) (ports.Decrypter, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.KeyID == "" {
		log.Warn("kms.codec_selected", "codec", "echo", "reason", "no KMS key id configured")
		return EchoDecrypter{}, nil
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "kms.config",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	log.Info("kms.codec_selected",
		"codec", "aws-kms",
		"key_id", cfg.KeyID,
		"region", awsCfg.Region,
		"assume_role", cfg.RoleARN != "",
	)
	return NewDecrypter(awskms.NewFromConfig(awsCfg), cfg.KeyID, WithLogger(log)), nil
}
