package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/gitdraft/gitdraft/internal/config"
	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/provider"
)

func TestWorkflowCleanTreeExitsZero(t *testing.T) {
	h := newHarness()

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	if !strings.Contains(h.out.String(), "Working tree clean") {
		t.Errorf("output should explain the no-op, got %q", h.out.String())
	}
	if got := len(h.model.Invocations); got != 0 {
		t.Errorf("clean tree must not invoke the model, invocations = %d", got)
	}
}

func TestWorkflowMissingGitBinary(t *testing.T) {
	h := newHarness()
	h.deps.CheckGit = func() error { return errors.ErrGitNotFound }

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
}

func TestWorkflowNotARepository(t *testing.T) {
	h := newHarness()
	h.git.Repo = false

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if !strings.Contains(h.out.String(), "Not a git repository") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestWorkflowCommitWithoutPush(t *testing.T) {
	h := newHarness()
	h.git.Staged = []string{"a.go"}
	h.model.Responses = []string{"Add feature"}
	h.prompt.SelectAnswers = []string{genChoiceCommit}
	h.prompt.ConfirmAnswers = []bool{false} // decline the push question

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	if got := h.git.CallCount("Commit"); got != 1 {
		t.Errorf("Commit calls = %d, want 1", got)
	}
	if got := h.git.CallCount("Push"); got != 0 {
		t.Errorf("Push calls = %d, want 0", got)
	}
	if !strings.Contains(h.out.String(), "Add feature") {
		t.Errorf("output should show the commit summary, got %q", h.out.String())
	}
}

func TestWorkflowCommitAndPushFlags(t *testing.T) {
	h := newHarness()
	h.git.Staged = []string{"a.go"}
	h.model.Responses = []string{"Add feature"}

	code := New(h.deps).Run(context.Background(), Options{Commit: true, Push: true})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	if got := h.git.CallCount("Push"); got != 1 {
		t.Errorf("Push calls = %d, want 1", got)
	}
	// Explicit flags mean no prompts at all.
	if got := len(h.prompt.SelectMessages) + len(h.prompt.ConfirmMessages); got != 0 {
		t.Errorf("flag-driven run must not prompt, got %d prompts", got)
	}
}

func TestWorkflowAutoApproveDivergedRemote(t *testing.T) {
	h := newHarness()
	h.git.Staged = []string{"a.go"}
	h.git.AheadCount = 2
	h.model.Responses = []string{"Add feature"}
	h.deps.Config.Push.CountdownSeconds = 0

	code := New(h.deps).Run(context.Background(), Options{AutoApprove: true, Push: true})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if got := h.git.CallCount("Push"); got != 0 {
		t.Errorf("diverged remote must not be pushed, Push calls = %d", got)
	}
	// The commit itself still happened.
	if got := h.git.CallCount("Commit"); got != 1 {
		t.Errorf("Commit calls = %d, want 1", got)
	}
}

func TestWorkflowCountdownInterrupt(t *testing.T) {
	h := newHarness()
	h.deps.Config.Push.CountdownSeconds = 5
	h.deps.In = strings.NewReader("x") // immediate keypress

	code := New(h.deps).Run(context.Background(), Options{AutoApprove: true, Push: true})
	if code != ExitInterrupted {
		t.Errorf("exit code = %d, want %d", code, ExitInterrupted)
	}
	if got := h.git.CallCount("Commit"); got != 0 {
		t.Errorf("interrupted run must not commit, Commit calls = %d", got)
	}
}

func TestWorkflowDryRun(t *testing.T) {
	h := newHarness()
	h.git.Unstaged = []string{"a.go"}

	code := New(h.deps).Run(context.Background(), Options{StageAll: true, DryRun: true})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	if got := h.git.CallCount("Commit"); got != 0 {
		t.Errorf("dry run must not commit, Commit calls = %d", got)
	}
	if got := h.git.CallCount("StageAllExcept"); got != 1 {
		t.Errorf("dry run still resolves staging, StageAllExcept calls = %d", got)
	}
	if !strings.Contains(h.out.String(), "Dry run") {
		t.Errorf("output = %q", h.out.String())
	}
}

func TestWorkflowStagingAbortExitsOne(t *testing.T) {
	h := newHarness()
	h.git.Unstaged = []string{"a.go"}
	h.prompt.Cancel = true

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if got := len(h.model.Invocations); got != 0 {
		t.Errorf("aborted staging must not reach generation, invocations = %d", got)
	}
}

func TestWorkflowPushPromptFailureSkipsPush(t *testing.T) {
	h := newHarness()
	h.git.Staged = []string{"a.go"}
	h.model.Responses = []string{"Add feature"}
	h.prompt.SelectAnswers = []string{genChoiceCommit}
	// No confirm answer is scripted, so the push question fails. A broken
	// prompt surface must not undo a commit that already landed.
	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	if got := h.git.CallCount("Push"); got != 0 {
		t.Errorf("Push calls = %d, want 0", got)
	}
}

func TestWorkflowProviderFailureExitsOne(t *testing.T) {
	h := newHarness()
	h.git.Staged = []string{"a.go"}
	h.model.Errs = []error{errors.NewProviderError("claude", errors.New("rate limited"))}

	code := New(h.deps).Run(context.Background(), Options{})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
	if !strings.Contains(h.out.String(), "Model invocation failed") {
		t.Errorf("output should name the failure, got %q", h.out.String())
	}
}

func TestWorkflowInitRoutesToSetup(t *testing.T) {
	h := newHarness()
	h.deps.Adapters = []provider.Adapter{
		stubAdapter{name: provider.ProviderClaude, display: "Claude CLI", available: true},
	}
	h.deps.Probe = provider.Probe
	h.deps.SaveConfig = func(*config.Config) error { return nil }
	h.prompt.SelectAnswers = []string{"sonnet"}

	code := New(h.deps).Run(context.Background(), Options{Init: true})
	if code != ExitOK {
		t.Errorf("exit code = %d, want %d", code, ExitOK)
	}
	// Init must never touch the repository.
	if got := len(h.git.Calls); got != 0 {
		t.Errorf("init should not call git, calls = %v", h.git.Calls)
	}
}

func TestWorkflowInitCancelledExitsOne(t *testing.T) {
	h := newHarness()
	h.deps.Adapters = []provider.Adapter{
		stubAdapter{name: provider.ProviderClaude, display: "Claude CLI", available: true},
		stubAdapter{name: provider.ProviderCodex, display: "Codex CLI", available: true},
	}
	h.deps.Probe = provider.Probe
	h.deps.SaveConfig = func(*config.Config) error { return nil }
	h.prompt.Cancel = true

	code := New(h.deps).Run(context.Background(), Options{Init: true})
	if code != ExitError {
		t.Errorf("exit code = %d, want %d", code, ExitError)
	}
}
