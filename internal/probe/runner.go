package probe

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single probe invocation. Probes are small system
// commands; anything slower than this is stuck, not slow.
const DefaultTimeout = 10 * time.Second

// maxOutputBytes caps captured probe output. Package listings are the
// largest outputs captured through this path and stay well under the cap.
const maxOutputBytes = 4 * 1024 * 1024

var discardLog = log.New(io.Discard)

// limitedWriter keeps at most max bytes and silently drops the rest, so a
// runaway probe cannot balloon memory.
type limitedWriter struct {
	buf []byte
	max int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if rem := w.max - len(w.buf); rem > 0 {
		if len(p) > rem {
			p = p[:rem]
		}
		w.buf = append(w.buf, p...)
	}
	return n, nil
}

// Command is an exec-backed TextProbe. Unless built with NewListing, the
// candidate name is appended as the final argument of every invocation.
type Command struct {
	Bin        string
	Args       []string
	Timeout    time.Duration
	Log        *log.Logger
	ignoreName bool
}

// NewCommand builds a probe that passes the candidate name as its last
// argument.
func NewCommand(logger *log.Logger, bin string, args ...string) *Command {
	return &Command{Bin: bin, Args: args, Timeout: DefaultTimeout, Log: logger}
}

// NewListing builds a probe for enumeration commands (ps, package listings)
// whose argv is fixed; the candidate name is ignored.
func NewListing(logger *log.Logger, bin string, args ...string) *Command {
	return &Command{Bin: bin, Args: args, Timeout: DefaultTimeout, Log: logger, ignoreName: true}
}

func (c *Command) logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return discardLog
}

// Invoke runs the probe and captures stdout. Stderr is discarded: probes
// grumble there when they know nothing about a name, and that is a normal
// outcome, not an error.
func (c *Command) Invoke(ctx context.Context, name string) (string, int, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string(nil), c.Args...)
	if !c.ignoreName {
		args = append(args, name)
	}
	cmd := exec.CommandContext(ctx, c.Bin, args...)

	stdout := &limitedWriter{max: maxOutputBytes}
	cmd.Stdout = stdout

	start := time.Now()
	err := cmd.Run()
	out := string(stdout.buf)

	if err != nil {
		// Check the context first: a killed child surfaces as *exec.ExitError
		// ("signal: killed"), which would otherwise read as an ordinary
		// non-zero exit.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger().Debug("probe timed out", "bin", c.Bin, "name", name, "timeout", timeout)
			return "", -1, context.DeadlineExceeded
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			c.logger().Debug("probe exited non-zero", "bin", c.Bin, "name", name, "exit", code, "took", time.Since(start))
			return out, code, nil
		}
		return "", -1, err
	}

	c.logger().Debug("probe ran", "bin", c.Bin, "name", name, "bytes", len(out), "took", time.Since(start))
	return out, 0, nil
}
