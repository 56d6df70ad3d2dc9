package workflow

import (
	"context"
	"fmt"

	"github.com/gitdraft/gitdraft/internal/errors"
)

// Process exit codes.
const (
	// ExitOK covers success and benign no-ops such as a clean working tree.
	ExitOK = 0
	// ExitError covers operational failures and user aborts.
	ExitError = 1
	// ExitInterrupted is returned when the dangerous-auto-approve countdown
	// is interrupted.
	ExitInterrupted = 130
)

// Options is the immutable run input assembled from parsed flags.
type Options struct {
	StageAll    bool
	AutoApprove bool
	Push        bool
	DryRun      bool
	Commit      bool
	Exclude     []string
	// Init routes the run to the setup path instead of the commit workflow.
	Init bool
}

// Workflow is the top-level orchestrator. It composes staging, generation,
// and push as opaque nested orchestrators, inspecting only their declared
// output records, and reduces the whole run to a single exit code.
type Workflow struct {
	deps *Deps
}

// New creates the top-level workflow orchestrator.
func New(deps *Deps) *Workflow {
	return &Workflow{deps: deps}
}

// Run executes the workflow and returns the process exit code.
func (w *Workflow) Run(ctx context.Context, opts Options) int {
	log := w.deps.Log.WithWorkflow("top")

	if opts.Init {
		return w.runSetup(ctx)
	}

	if code, ok := w.preflight(ctx); !ok {
		return code
	}

	// A fully automated commit-and-push run is the one dangerous mode;
	// give the user a moment to bail out.
	if opts.AutoApprove && opts.Push && !opts.DryRun {
		if Countdown(ctx, w.deps.Out, w.deps.In, w.deps.Config.Push.CountdownSeconds) {
			return ExitInterrupted
		}
	}

	staging, err := NewStaging(w.deps).Run(ctx, StagingInput{
		StageAll:    opts.StageAll,
		AutoApprove: opts.AutoApprove,
		Exclude:     append(opts.Exclude, w.deps.Config.Staging.Exclude...),
	})
	if err != nil {
		return w.fail(err)
	}
	if staging.Aborted {
		return ExitError
	}
	if len(staging.StagedFiles) == 0 {
		fmt.Fprintln(w.deps.Out, "Working tree clean, nothing to commit.")
		return ExitOK
	}

	generation, err := NewGeneration(w.deps).Run(ctx, GenerationInput{
		Model:          w.deps.Config.Provider.Model,
		ModelName:      w.deps.Config.Provider.ModelName,
		DryRun:         opts.DryRun,
		AutoCommit:     opts.Commit || opts.AutoApprove,
		MaxAutoRetries: w.deps.Config.Generation.MaxAutoRetries,
	})
	if err != nil {
		return w.fail(err)
	}
	if generation.Aborted {
		return ExitError
	}
	if !generation.Committed {
		// Dry run: report what would happen and stop cleanly.
		if opts.DryRun {
			fmt.Fprintf(w.deps.Out, "Dry run: %d file(s) staged, no commit created.\n", len(staging.StagedFiles))
		}
		return ExitOK
	}

	if commit := generation.Commit; commit != nil {
		fmt.Fprintf(w.deps.Out, "[%s %s] %s\n", commit.Branch, commit.Hash, commit.Subject)
	}

	wantPush, interrupted := w.pushRequested(opts)
	if interrupted {
		return ExitError
	}
	if !wantPush {
		return ExitOK
	}

	push, err := NewPush(w.deps).Run(ctx, PushInput{Interactive: !opts.AutoApprove})
	if err != nil {
		return w.fail(err)
	}
	if push.Pushed {
		fmt.Fprintln(w.deps.Out, "Pushed.")
	}

	log.Info("run finished", "pushed", push.Pushed, "exit_code", push.ExitCode)
	return push.ExitCode
}

// runSetup executes the configuration bootstrap path.
func (w *Workflow) runSetup(ctx context.Context) int {
	result, err := NewSetup(w.deps).Run(ctx)
	if err != nil {
		return w.fail(err)
	}
	if result.Aborted {
		return ExitError
	}
	return ExitOK
}

// preflight verifies the tools and repository the workflow depends on.
func (w *Workflow) preflight(ctx context.Context) (int, bool) {
	if err := w.deps.CheckGit(); err != nil {
		fmt.Fprintln(w.deps.Out, "git is not installed or not on PATH.")
		return ExitError, false
	}
	if !w.deps.Git.IsRepository(ctx) {
		fmt.Fprintln(w.deps.Out, "Not a git repository. Run gitdraft inside a repository.")
		return ExitError, false
	}
	return ExitOK, true
}

// pushRequested decides whether the push orchestrator runs: an explicit
// flag, the broader auto-approve flag, or interactive agreement. The second
// return value reports prompt-layer cancellation.
func (w *Workflow) pushRequested(opts Options) (bool, bool) {
	if opts.Push || opts.AutoApprove {
		return true, false
	}

	yes, err := w.deps.Prompt.Confirm("Push to remote?")
	if errors.IsCancellation(err) {
		return false, true
	}
	if err != nil {
		w.deps.Log.Warn("push prompt failed", "error", err.Error())
		return false, false
	}
	return yes, false
}

// fail prints a human-readable message with a next step and returns the
// error exit code.
func (w *Workflow) fail(err error) int {
	switch {
	case errors.IsCancellation(err):
		return ExitError
	case errors.IsProviderFailure(err):
		fmt.Fprintf(w.deps.Out, "Model invocation failed: %v\nCheck your provider login and rate limits, then retry.\n", err)
	case errors.Is(err, errors.ErrEmptyResponse):
		fmt.Fprintf(w.deps.Out, "%v\nTry again, or switch models with --model.\n", err)
	default:
		fmt.Fprintf(w.deps.Out, "Error: %v\n", err)
	}
	w.deps.Log.Error("run failed", "error", err.Error())
	return ExitError
}
