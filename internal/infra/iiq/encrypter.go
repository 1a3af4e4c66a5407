package iiq

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

const echoSuffix = " [encrypt-echo]"

// CommandEncrypter encrypts with "<command> encrypt <plaintext>" and returns
// the trimmed stdout.
type CommandEncrypter struct {
	runner  ports.CommandRunner
	command string
}

func NewCommandEncrypter(r ports.CommandRunner, command string) *CommandEncrypter {
	return &CommandEncrypter{runner: r, command: command}
}

var _ ports.Encrypter = (*CommandEncrypter)(nil)

func (e *CommandEncrypter) Encrypt(ctx context.Context, plaintext string) (string, error) {
	var out bytes.Buffer
	if err := e.runner.Run(ctx, &out, e.command, "encrypt", plaintext); err != nil {
		return "", &domain.OpError{
			Op:   "iiq.encrypt",
			Kind: domain.KindEncryption,
			Err:  fmt.Errorf("%w: %w", domain.ErrEncrypt, err),
		}
	}

	enc := strings.TrimSpace(out.String())
	if enc == "" {
		return "", &domain.OpError{
			Op:   "iiq.encrypt",
			Kind: domain.KindEncryption,
			Err:  fmt.Errorf("%w: %s encrypt produced no output", domain.ErrEncrypt, e.command),
		}
	}
	return enc, nil
}

// EchoEncrypter stands in when the IIQ command is not available.
type EchoEncrypter struct{}

var _ ports.Encrypter = EchoEncrypter{}

func (EchoEncrypter) Encrypt(_ context.Context, plaintext string) (string, error) {
	return plaintext + echoSuffix, nil
}

// LookPath is exec.LookPath; replaced in tests.
var LookPath = exec.LookPath

// NewEncrypter returns a CommandEncrypter when command resolves, and the
// echo stub otherwise.
func NewEncrypter(r ports.CommandRunner, command string, log *slog.Logger) (ports.Encrypter, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := domain.RequireValue("iiq.encrypter", "iiq command", command); err != nil {
		return nil, err
	}

	path, err := LookPath(command)
	if err != nil {
		log.Warn("iiq.codec_selected", "codec", "echo", "command", command, "reason", err.Error())
		return EchoEncrypter{}, nil
	}

	log.Info("iiq.codec_selected", "codec", "iiq-encrypt", "command", path)
	return NewCommandEncrypter(r, path), nil
}
