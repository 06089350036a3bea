package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner starts external processes. Run streams the child's output to the
// console; Output captures stdout instead.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError reports a process that could not start or exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int // -1 when the process never ran or was killed by a signal
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandRunner runs commands with os/exec in a fixed working directory.
type CommandRunner struct {
	dir    string
	env    map[string]string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RunnerOption configures a CommandRunner.
type RunnerOption func(*CommandRunner)

// WithStdout replaces the console stdout of streamed commands.
func WithStdout(w io.Writer) RunnerOption {
	return func(r *CommandRunner) { r.stdout = w }
}

// WithStderr replaces the console stderr of all commands.
func WithStderr(w io.Writer) RunnerOption {
	return func(r *CommandRunner) { r.stderr = w }
}

// WithEnvVar adds a variable to the environment of every command.
func WithEnvVar(key, value string) RunnerOption {
	return func(r *CommandRunner) {
		if r.env == nil {
			r.env = make(map[string]string)
		}
		r.env[key] = value
	}
}

// NewCommandRunner returns a runner whose commands start in dir and share
// the current process's standard streams.
func NewCommandRunner(dir string, opts ...RunnerOption) *CommandRunner {
	r := &CommandRunner{
		dir:    dir,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes name with args and waits for it to exit.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := r.command(ctx, name, args)
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	return commandError(cmd, cmd.Run(), "")
}

// Output executes name with args and returns its stdout.
func (r *CommandRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := r.command(ctx, name, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), commandError(cmd, err, stderr.String())
}

func (r *CommandRunner) command(ctx context.Context, name string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	return cmd
}

func commandError(cmd *exec.Cmd, err error, stderr string) error {
	if err == nil {
		return nil
	}
	ce := &CommandError{
		Command:  strings.Join(cmd.Args, " "),
		ExitCode: -1,
		Stderr:   stderr,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return ce
}
