package hive

// runner.go executes the hive binary from a local checkout.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes hive inside its repository checkout.
type Runner struct {
	logger   zerolog.Logger
	repoPath string
	tail     int
	// Output additionally receives hive's combined output when set
	Output io.Writer
}

// NewRunner creates a runner for the checkout at repoPath that keeps the
// last tailLines lines of output per invocation.
func NewRunner(logger zerolog.Logger, repoPath string, tailLines int) *Runner {
	return &Runner{
		logger:   logger,
		repoPath: repoPath,
		tail:     tailLines,
	}
}

// RepoPath returns the hive checkout directory.
func (r *Runner) RepoPath() string {
	return r.repoPath
}

// Invocation describes a finished hive run.
type Invocation struct {
	Args     []string
	Command  string
	Started  time.Time
	Duration time.Duration
	// ExitCode is -1 when hive could not be started
	ExitCode int
	Err      error
	Output   *Tail
}

// Failed reports whether hive exited non-zero or failed to start.
func (inv *Invocation) Failed() bool {
	return inv.Err != nil
}

// Verify checks that the hive binary is present and runnable.
func (r *Runner) Verify(ctx context.Context) error {
	inv := r.exec(ctx, []string{"--cleanup"})
	if inv.Err != nil {
		return fmt.Errorf("hive CLI not found in %s, please install hive first: %w", r.repoPath, inv.Err)
	}
	return nil
}

// Run executes one simulation. Hive failures are reported on the returned
// Invocation rather than as an error so callers can continue with the next
// simulation.
func (r *Runner) Run(ctx context.Context, opts CommandOptions) *Invocation {
	args := BuildArgs(opts)

	r.logger.Info().
		Str("simulation", string(opts.Simulation)).
		Str("command", RenderCommand(args)).
		Msg("Running hive simulation")

	inv := r.exec(ctx, args)
	if inv.Err != nil {
		r.logger.Error().
			Err(inv.Err).
			Int("exit_code", inv.ExitCode).
			Str("simulation", string(opts.Simulation)).
			Msg("Hive simulation failed")
		for _, line := range inv.Output.Lines() {
			r.logger.Error().Msg("  " + line)
		}
		return inv
	}

	r.logger.Info().
		Dur("duration", inv.Duration).
		Str("simulation", string(opts.Simulation)).
		Msg("Hive simulation completed")
	return inv
}

func (r *Runner) exec(ctx context.Context, args []string) *Invocation {
	inv := &Invocation{
		Args:    args,
		Command: RenderCommand(args),
		Started: time.Now(),
		Output:  NewTail(r.tail),
	}

	cmd := exec.CommandContext(ctx, filepath.Join(r.repoPath, Binary), args...)
	cmd.Dir = r.repoPath

	var out io.Writer = inv.Output
	if r.Output != nil {
		out = io.MultiWriter(inv.Output, r.Output)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	r.logger.Debug().
		Str("dir", r.repoPath).
		Strs("args", args).
		Msg("Starting hive")

	err := cmd.Run()
	inv.Duration = time.Since(inv.Started)
	if err == nil {
		return inv
	}

	// Simulation failures are expected to return non-zero exit codes
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		inv.Err = fmt.Errorf("hive exited with code %d", exitErr.ExitCode())
		return inv
	}
	inv.ExitCode = -1
	inv.Err = fmt.Errorf("failed to execute hive: %w", err)
	return inv
}
