package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brianslattery/kms-propertizer/internal/domain"
	"github.com/brianslattery/kms-propertizer/internal/ports"
)

const omitted = "<omitted>"

// ConsoleCredentials authenticate an IIQ console session.
type ConsoleCredentials struct {
	Username string
	Password string
}

// ResolveConsoleCredentials reads the credentials from the variables named
// userVar and passVar. The password variable must carry the secret suffix;
// the user variable is decrypted only when it does.
func ResolveConsoleCredentials(ctx context.Context, env domain.Environment, d ports.Decrypter, userVar, passVar string) (ConsoleCredentials, error) {
	const op = "import.credentials"

	if err := domain.RequireValue(op, "user-var", userVar); err != nil {
		return ConsoleCredentials{}, err
	}
	if err := domain.RequireValue(op, "pass-var", passVar); err != nil {
		return ConsoleCredentials{}, err
	}
	if !strings.HasSuffix(passVar, domain.SecretSuffix) {
		return ConsoleCredentials{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("pass-var %q must end with %s; passwords are only accepted KMS encrypted: %w", passVar, domain.SecretSuffix, domain.ErrInvalidConfig),
		}
	}

	username := env.Value(userVar)
	password := env.Value(passVar)
	if err := domain.RequireValue(op, userVar, username); err != nil {
		return ConsoleCredentials{}, err
	}
	if err := domain.RequireValue(op, passVar, password); err != nil {
		return ConsoleCredentials{}, err
	}

	var err error
	if strings.HasSuffix(userVar, domain.SecretSuffix) {
		if username, err = d.Decrypt(ctx, username); err != nil {
			return ConsoleCredentials{}, err
		}
	}
	if password, err = d.Decrypt(ctx, password); err != nil {
		return ConsoleCredentials{}, err
	}

	return ConsoleCredentials{Username: username, Password: password}, nil
}

// ImportRequest names the XML file to import and the credential variables.
type ImportRequest struct {
	File    string
	UserVar string
	PassVar string
}

// RunImport imports an XML file through the IIQ console.
type RunImport struct {
	runner    ports.CommandRunner
	decrypter ports.Decrypter
	command   string
	stdout    io.Writer
	log       *slog.Logger
	now       func() time.Time
}

type ImportOption func(*RunImport)

func WithImportLogger(l *slog.Logger) ImportOption {
	return func(uc *RunImport) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithImportOutput sets where the console output goes (default: discarded).
func WithImportOutput(w io.Writer) ImportOption {
	return func(uc *RunImport) {
		if w != nil {
			uc.stdout = w
		}
	}
}

// WithImportClock overrides the clock used for timing (useful for tests).
func WithImportClock(now func() time.Time) ImportOption {
	return func(uc *RunImport) { uc.now = now }
}

func NewRunImport(r ports.CommandRunner, d ports.Decrypter, command string, opts ...ImportOption) *RunImport {
	uc := &RunImport{
		runner:    r,
		decrypter: d,
		command:   command,
		stdout:    io.Discard,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *RunImport) Execute(ctx context.Context, env domain.Environment, req ImportRequest) error {
	if err := domain.RequireValue("import", "file", req.File); err != nil {
		return err
	}
	if err := domain.RequireValue("import", "command", uc.command); err != nil {
		return err
	}

	creds, err := ResolveConsoleCredentials(ctx, env, uc.decrypter, req.UserVar, req.PassVar)
	if err != nil {
		return err
	}

	args := ImportArgs(env.AbsPath(req.File), creds)
	uc.log.Info("import.begin",
		"command", uc.command,
		"args", strings.Join(RedactImportArgs(args), " "),
	)

	start := uc.now()
	if err := uc.runner.Run(ctx, uc.stdout, uc.command, args...); err != nil {
		return &domain.OpError{
			Op:   "import.run",
			Kind: domain.KindExecution,
			Path: req.File,
			Err:  err,
		}
	}

	uc.log.Info("import.end", "command", uc.command, "duration_ms", uc.now().Sub(start).Milliseconds())
	return nil
}

// ImportArgs builds the console arguments for importing file.
func ImportArgs(file string, creds ConsoleCredentials) []string {
	return []string{"console", "-c", "import", "'" + file + "'", "-u", creds.Username, "-p", creds.Password}
}

// RedactImportArgs returns a copy of args with the password value replaced.
func RedactImportArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "-p" {
			out[i+1] = omitted
		}
	}
	return out
}
