// Package testutil provides scripted stand-ins for the side-effecting
// collaborators the workflow orchestrators depend on: git, the model
// provider, and the prompt surface. Each fake records its calls so tests
// can assert both outcomes and the exact sequence of effects.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/git"
	"github.com/gitdraft/gitdraft/internal/prompt"
	"github.com/gitdraft/gitdraft/internal/provider"
)

// -----------------------------------------------------------------------------
// FakeGit
// -----------------------------------------------------------------------------

// FakeGit implements git.Client over an in-memory index. Staging operations
// move files from Unstaged to Staged, so re-reads after a mutation observe
// the updated authoritative state, as the real client would.
type FakeGit struct {
	Staged   []string
	Unstaged []string

	Context       *git.RepoContext
	ContextErr    error
	Branch        string
	BranchErr     error
	CommitErrs    []error // consumed per Commit call
	PushErrs      []error // consumed per Push call
	FetchErr      error
	AheadCount    int
	AheadErr      error
	PullRebaseErr error
	AddRemoteErr  error
	StageErr      error
	Repo          bool

	Calls []string
}

// NewFakeGit creates a FakeGit with sensible defaults.
func NewFakeGit() *FakeGit {
	return &FakeGit{
		Branch: "main",
		Repo:   true,
		Context: &git.RepoContext{
			Diff:          "diff --git a/a.go b/a.go",
			RecentCommits: []string{"Previous subject"},
			Files:         []string{"a.go"},
		},
	}
}

func (f *FakeGit) record(call string) { f.Calls = append(f.Calls, call) }

// CallCount returns how many recorded calls have the given name.
func (f *FakeGit) CallCount(name string) int {
	count := 0
	for _, c := range f.Calls {
		if c == name || strings.HasPrefix(c, name+":") {
			count++
		}
	}
	return count
}

func (f *FakeGit) IsRepository(context.Context) bool {
	f.record("IsRepository")
	return f.Repo
}

func (f *FakeGit) StagedFiles(context.Context) ([]string, error) {
	f.record("StagedFiles")
	return append([]string(nil), f.Staged...), nil
}

func (f *FakeGit) UnstagedFiles(context.Context) ([]string, error) {
	f.record("UnstagedFiles")
	return append([]string(nil), f.Unstaged...), nil
}

func (f *FakeGit) StageFiles(_ context.Context, files []string) error {
	f.record("StageFiles")
	if f.StageErr != nil {
		return f.StageErr
	}
	for _, file := range files {
		f.moveToStaged(file)
	}
	return nil
}

func (f *FakeGit) StageAllExcept(_ context.Context, exclude []string) error {
	f.record("StageAllExcept")
	if f.StageErr != nil {
		return f.StageErr
	}
	var remaining []string
	for _, file := range f.Unstaged {
		if matchesAny(file, exclude) {
			remaining = append(remaining, file)
			continue
		}
		f.Staged = append(f.Staged, file)
	}
	f.Unstaged = remaining
	return nil
}

func (f *FakeGit) moveToStaged(file string) {
	for i, candidate := range f.Unstaged {
		if candidate == file {
			f.Unstaged = append(f.Unstaged[:i], f.Unstaged[i+1:]...)
			break
		}
	}
	f.Staged = append(f.Staged, file)
}

func matchesAny(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, file); ok {
			return true
		}
	}
	return false
}

func (f *FakeGit) Commit(_ context.Context, message string) (*git.CommitResult, error) {
	f.record("Commit")
	if len(f.CommitErrs) > 0 {
		err := f.CommitErrs[0]
		f.CommitErrs = f.CommitErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	subject := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		subject = message[:idx]
	}
	return &git.CommitResult{
		Hash:         "abc1234",
		Branch:       f.Branch,
		Subject:      subject,
		FilesChanged: len(f.Staged),
		Files:        append([]string(nil), f.Staged...),
	}, nil
}

func (f *FakeGit) Push(context.Context) error {
	f.record("Push")
	if len(f.PushErrs) > 0 {
		err := f.PushErrs[0]
		f.PushErrs = f.PushErrs[1:]
		return err
	}
	return nil
}

func (f *FakeGit) AddRemoteAndPush(_ context.Context, url string) error {
	f.record("AddRemoteAndPush:" + url)
	return f.AddRemoteErr
}

func (f *FakeGit) FetchRemote(context.Context) error {
	f.record("FetchRemote")
	return f.FetchErr
}

func (f *FakeGit) RemoteAheadCount(context.Context) (int, error) {
	f.record("RemoteAheadCount")
	return f.AheadCount, f.AheadErr
}

func (f *FakeGit) PullRebase(context.Context) error {
	f.record("PullRebase")
	return f.PullRebaseErr
}

func (f *FakeGit) BranchName(context.Context) (string, error) {
	f.record("BranchName")
	return f.Branch, f.BranchErr
}

func (f *FakeGit) GatherContext(context.Context) (*git.RepoContext, error) {
	f.record("GatherContext")
	if f.ContextErr != nil {
		return nil, f.ContextErr
	}
	return f.Context, nil
}

// -----------------------------------------------------------------------------
// FakeModel
// -----------------------------------------------------------------------------

// FakeModel implements provider.Adapter with a queue of canned responses.
type FakeModel struct {
	// Responses are returned in order; the last one repeats when exhausted.
	Responses []string
	// Errs are consumed per call before Responses; nil entries mean success.
	Errs []error
	// Available is the CheckAvailable answer.
	Available bool

	Invocations []provider.Request
}

func (f *FakeModel) Name() provider.Name { return "fake" }

func (f *FakeModel) DisplayName() string { return "Fake" }

func (f *FakeModel) Invoke(_ context.Context, req provider.Request) (string, error) {
	f.Invocations = append(f.Invocations, req)

	if len(f.Errs) > 0 {
		err := f.Errs[0]
		f.Errs = f.Errs[1:]
		if err != nil {
			return "", err
		}
	}

	if len(f.Responses) == 0 {
		return "", fmt.Errorf("fake model has no responses")
	}
	resp := f.Responses[0]
	if len(f.Responses) > 1 {
		f.Responses = f.Responses[1:]
	}
	return resp, nil
}

func (f *FakeModel) CheckAvailable(context.Context) bool { return f.Available }

// -----------------------------------------------------------------------------
// FakePrompt
// -----------------------------------------------------------------------------

// FakePrompt implements prompt.Surface with scripted answers, consumed in
// order per prompt kind.
type FakePrompt struct {
	SelectAnswers  []string
	ConfirmAnswers []bool
	TextAnswers    []string
	MultiAnswers   [][]string

	// Cancel makes every prompt return the cancellation sentinel.
	Cancel bool

	SelectMessages  []string
	ConfirmMessages []string
	TextMessages    []string
	MultiMessages   []string
}

func (f *FakePrompt) Select(message string, options []prompt.Option) (string, error) {
	f.SelectMessages = append(f.SelectMessages, message)
	if f.Cancel {
		return "", errors.ErrCancelled
	}
	if len(f.SelectAnswers) == 0 {
		return "", fmt.Errorf("fake prompt has no select answers (message: %s)", message)
	}
	answer := f.SelectAnswers[0]
	f.SelectAnswers = f.SelectAnswers[1:]
	return answer, nil
}

func (f *FakePrompt) Confirm(message string) (bool, error) {
	f.ConfirmMessages = append(f.ConfirmMessages, message)
	if f.Cancel {
		return false, errors.ErrCancelled
	}
	if len(f.ConfirmAnswers) == 0 {
		return false, fmt.Errorf("fake prompt has no confirm answers (message: %s)", message)
	}
	answer := f.ConfirmAnswers[0]
	f.ConfirmAnswers = f.ConfirmAnswers[1:]
	return answer, nil
}

func (f *FakePrompt) Text(message string, validate func(string) error) (string, error) {
	f.TextMessages = append(f.TextMessages, message)
	if f.Cancel {
		return "", errors.ErrCancelled
	}
	if len(f.TextAnswers) == 0 {
		return "", fmt.Errorf("fake prompt has no text answers (message: %s)", message)
	}
	answer := f.TextAnswers[0]
	f.TextAnswers = f.TextAnswers[1:]
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (f *FakePrompt) MultiSelect(message string, options []prompt.Option) ([]string, error) {
	f.MultiMessages = append(f.MultiMessages, message)
	if f.Cancel {
		return nil, errors.ErrCancelled
	}
	if len(f.MultiAnswers) == 0 {
		return nil, fmt.Errorf("fake prompt has no multiselect answers (message: %s)", message)
	}
	answer := f.MultiAnswers[0]
	f.MultiAnswers = f.MultiAnswers[1:]
	return answer, nil
}
