package iiq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/brianslattery/kms-propertizer/internal/ports"
)

// ExecRunner runs external commands. Stdout goes to the writer given per
// call; stderr is captured and attached to the error on failure.
type ExecRunner struct {
	stderrLimit int
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{stderrLimit: 4096}
}

var _ ports.CommandRunner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdout == nil {
		stdout = io.Discard
	}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > r.stderrLimit {
			msg = msg[:r.stderrLimit] + "..."
		}
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, firstArg(args), err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, firstArg(args), err)
	}
	return nil
}

// firstArg names the subcommand without leaking later (possibly secret) args.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
