package ports

import (
	"context"
	"io"
)

// CommandRunner executes an external command, writing its standard output to
// stdout.
type CommandRunner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) error
}
