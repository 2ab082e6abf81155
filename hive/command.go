package hive

// command.go contains utilities for building hive command lines.

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/balboard/balboard/model"
)

// Binary is the hive executable, relative to the hive checkout.
const Binary = "./hive"

// CommandOptions contains options for one hive simulation run.
type CommandOptions struct {
	Simulation  model.Simulation // Simulator to run
	ClientFile  string           // Client definitions passed via --client-file
	Fixtures    string           // Fixtures release passed as build arg
	Branch      string           // Execution spec tests branch passed as build arg
	ResultsRoot string           // Directory hive writes its export into
	Limit       string           // Test filter passed via --sim.limit
	Parallelism int              // Simulator parallelism
}

// BuildArgs builds the hive arguments for a simulation run.
func BuildArgs(opts CommandOptions) []string {
	args := []string{"--sim", string(opts.Simulation)}

	if opts.ClientFile != "" {
		args = append(args, "--client-file="+opts.ClientFile)
	}
	if opts.Fixtures != "" {
		args = append(args, "--sim.buildarg", "fixtures="+opts.Fixtures)
	}
	if opts.Branch != "" {
		args = append(args, "--sim.buildarg", "branch="+opts.Branch)
	}

	args = append(args, "--docker.output")

	if opts.ResultsRoot != "" {
		args = append(args, "--results-root", opts.ResultsRoot)
	}
	if opts.Limit != "" {
		args = append(args, "--sim.limit", opts.Limit)
	}
	if opts.Parallelism > 0 {
		args = append(args, "--sim.parallelism", fmt.Sprintf("%d", opts.Parallelism))
	}

	return args
}

// BuildCommand renders the hive invocation as a shell command line.
// It reuses BuildArgs and joins the arguments with proper shell escaping.
func BuildCommand(opts CommandOptions) string {
	return RenderCommand(BuildArgs(opts))
}

// RenderCommand shell-escapes args behind the hive binary.
func RenderCommand(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Binary)

	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}
