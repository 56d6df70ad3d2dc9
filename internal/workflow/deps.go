// Package workflow contains the orchestration core of gitdraft: the
// staging, generation, push, and setup state machines, and the top-level
// workflow that composes them.
//
// Each orchestrator is written as a tagged-union step type plus a pure
// transition function over (state, event) pairs. Side effects live in an
// effect runner that executes exactly one collaborator call per step and
// feeds the resulting event back into the transition function, so the
// decision logic is unit-testable without any I/O.
package workflow

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/gitdraft/gitdraft/internal/config"
	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/git"
	"github.com/gitdraft/gitdraft/internal/logging"
	"github.com/gitdraft/gitdraft/internal/prompt"
	"github.com/gitdraft/gitdraft/internal/provider"
)

// Deps is the dependency container threaded through every orchestrator.
// It is constructed once at process start; tests replace individual fields
// with scripted stand-ins.
type Deps struct {
	Git    git.Client
	Model  provider.Adapter
	Prompt prompt.Surface
	Log    *logging.Logger
	Config *config.Config

	// Out receives user-facing output.
	Out io.Writer
	// In is the raw input used by the countdown keypress check.
	In io.Reader

	// CheckGit reports whether the git executable is available.
	CheckGit func() error
	// Probe checks provider CLI availability, concurrently.
	Probe func(ctx context.Context, adapters []provider.Adapter) []provider.ProbeResult
	// Adapters are the candidate providers offered during setup.
	Adapters []provider.Adapter
	// SaveConfig persists the provider selection chosen during setup.
	SaveConfig func(cfg *config.Config) error
}

// NewDeps wires the production dependency container from configuration.
func NewDeps(cfg *config.Config, log *logging.Logger) (*Deps, error) {
	adapter, err := provider.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Git:        git.NewExecClient("", cfg.Generation.RecentCommits, cfg.Generation.MaxDiffBytes),
		Model:      adapter,
		Prompt:     prompt.New(),
		Log:        log,
		Config:     cfg,
		Out:        os.Stdout,
		In:         os.Stdin,
		CheckGit:   checkGitBinary,
		Probe:      provider.Probe,
		Adapters:   provider.All(),
		SaveConfig: config.Save,
	}, nil
}

func checkGitBinary() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.ErrGitNotFound
	}
	return nil
}
