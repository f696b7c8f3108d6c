/*
Package proc runs the external programs wrapped by the other packages in
apps. It adds the things every wrapper needs on top of os/exec: a wall
clock timer, an optional timeout, logging of the command line and errors
that carry the program's output.
*/
package proc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrTimeout is returned (wrapped) when a command runs longer than its
// timeout. Use errors.Is to test for it.
var ErrTimeout = errors.New("timed out")

// waitDelay bounds how long Run waits for the output pipes to close after
// a timed out program was killed.
const waitDelay = 2 * time.Second

// ExitError is returned when a program exits with a non-zero status or
// cannot be started at all.
type ExitError struct {
	Command string
	Output  []byte
	Err     error
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(string(e.Output))
	if len(out) == 0 {
		return fmt.Sprintf("'%s' failed: %s", e.Command, e.Err)
	}
	return fmt.Sprintf("'%s' failed: %s\n%s", e.Command, e.Err, out)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status of the program, or -1 if it never ran
// to completion.
func (e *ExitError) ExitCode() int {
	var ee *exec.ExitError
	if errors.As(e.Err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// Command is a single invocation of an external program.
type Command struct {
	Path string
	Args []string

	// When positive, the program is killed after running this long and
	// Run returns an error wrapping ErrTimeout.
	Timeout time.Duration

	// When true, the program's stdout and stderr are also copied to the
	// current process' stderr.
	Verbose bool
}

// New is a convenience constructor for a Command without a timeout.
func New(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

// String returns the command line as it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Run executes the command and waits for it to finish. The wall clock time
// the program ran for is returned even when it fails.
func (c Command) Run(ctx context.Context) (time.Duration, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.WaitDelay = waitDelay
	if c.Verbose {
		w := io.MultiWriter(&out, os.Stderr)
		cmd.Stdout, cmd.Stderr = w, w
	} else {
		cmd.Stdout, cmd.Stderr = &out, &out
	}

	log.Debug().Str("cmd", c.String()).Msg("running")
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && c.Timeout > 0 {
			return elapsed, errors.Wrapf(ErrTimeout, "'%s' after %s",
				c.String(), c.Timeout)
		}
		if ctx.Err() != nil {
			return elapsed, errors.Wrapf(ctx.Err(), "'%s'", c.String())
		}
		return elapsed, &ExitError{
			Command: c.String(),
			Output:  out.Bytes(),
			Err:     err,
		}
	}
	log.Debug().
		Str("cmd", c.Path).
		Dur("elapsed", elapsed).
		Msg("finished")
	return elapsed, nil
}
