// Package shell runs external converter programs.
//
// Commands are always argument vectors. The placeholder element
// constants.FilePlaceholder is replaced by the target path as a single
// argument, so file names are never interpreted by a shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/utils"
)

// maxStderrLog bounds how much converter stderr ends up in the log
const maxStderrLog = 512

// Runner executes converters with a bounded wait
type Runner struct {
	timeout time.Duration
	logger  *logger.Logger
}

var _ interfaces.CommandRunner = (*Runner)(nil)

// NewRunner creates a runner. A non-positive timeout uses the default.
func NewRunner(timeout time.Duration, log *logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = constants.DefaultCommandTimeout
	}
	return &Runner{timeout: timeout, logger: log}
}

// Timeout returns the per-command wait limit
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Available reports whether argv is non-empty and argv[0] is an executable file
func (r *Runner) Available(argv []string) bool {
	return Available(argv)
}

// Available reports whether argv is non-empty and argv[0] is an executable file
func Available(argv []string) bool {
	return len(argv) > 0 && utils.IsExecutable(argv[0])
}

// Substitute returns a copy of argv where the first placeholder element is
// replaced by path
func Substitute(argv []string, path string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i, arg := range out {
		if arg == constants.FilePlaceholder {
			out[i] = path
			break
		}
	}
	return out
}

// Run executes argv with the placeholder bound to path and returns stdout
func (r *Runner) Run(ctx context.Context, argv []string, path string) ([]byte, error) {
	if !Available(argv) {
		return nil, utils.NewUnavailableError(fmt.Sprintf("converter not executable: %q", strings.Join(argv, " ")), nil)
	}

	args := Substitute(argv, path)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	r.logger.Debug("Running converter: %s", cmd.String())
	started := time.Now()

	err := cmd.Run()
	if err == nil {
		r.logger.Debug("Converter %s finished in %s (%d bytes)", args[0], time.Since(started), stdout.Len())
		return stdout.Bytes(), nil
	}

	// The caller going away is not the converter's fault
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, utils.NewFatalError("converter interrupted", ctxErr)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, utils.NewError(utils.ErrorTypeTimeout,
			fmt.Sprintf("converter %s exceeded %s", args[0], r.timeout), runCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := tail(stderr.String()); msg != "" {
			r.logger.Debug("Converter %s stderr: %s", args[0], msg)
		}
		return nil, utils.NewCommandError(fmt.Sprintf("converter %s exited with status %d", args[0], exitErr.ExitCode()), err)
	}

	// Spawn failures: resource exhaustion stays fatal, the rest is a tool failure
	return nil, utils.WrapError(err, utils.ErrorTypeCommand, fmt.Sprintf("converter %s failed to run", args[0]))
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrLog {
		s = s[len(s)-maxStderrLog:]
	}
	return s
}
