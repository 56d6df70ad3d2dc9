// Package internal contains integration tests that verify the packages work
// together correctly: staging, generation, validation, and push composed the
// way the real binary composes them.
package internal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gitdraft/gitdraft/internal/config"
	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/logging"
	"github.com/gitdraft/gitdraft/internal/testutil"
	"github.com/gitdraft/gitdraft/internal/workflow"
)

func testDeps(g *testutil.FakeGit, m *testutil.FakeModel, p *testutil.FakePrompt, out *bytes.Buffer) *workflow.Deps {
	cfg := &config.Config{}
	cfg.Generation.MaxAutoRetries = 3
	cfg.Validation.Rules = config.DefaultRules()

	return &workflow.Deps{
		Git:      g,
		Model:    m,
		Prompt:   p,
		Log:      logging.NopLogger(),
		Config:   cfg,
		Out:      out,
		In:       strings.NewReader(""),
		CheckGit: func() error { return nil },
	}
}

// TestFullPipelineStageGenerateCommitPush drives an entire automated run:
// stage everything, generate with one validation retry, commit, push.
func TestFullPipelineStageGenerateCommitPush(t *testing.T) {
	g := testutil.NewFakeGit()
	g.Unstaged = []string{"handler.go", "handler_test.go"}
	m := &testutil.FakeModel{Responses: []string{
		// First attempt fails the 72 character subject limit.
		"Rework the request handler so that every edge case found during the incident review is covered",
		"Rework request handler edge cases",
	}}
	p := &testutil.FakePrompt{}
	out := &bytes.Buffer{}

	code := workflow.New(testDeps(g, m, p, out)).Run(context.Background(), workflow.Options{
		StageAll: true,
		Commit:   true,
		Push:     true,
	})

	if code != workflow.ExitOK {
		t.Fatalf("exit code = %d, want %d\noutput: %s", code, workflow.ExitOK, out.String())
	}
	if got := len(m.Invocations); got != 2 {
		t.Errorf("model invocations = %d, want 2", got)
	}
	if got := g.CallCount("Commit"); got != 1 {
		t.Errorf("Commit calls = %d, want 1", got)
	}
	if got := g.CallCount("Push"); got != 1 {
		t.Errorf("Push calls = %d, want 1", got)
	}
	if !strings.Contains(out.String(), "Rework request handler edge cases") {
		t.Errorf("output should show the final subject, got %q", out.String())
	}
}

// TestFullPipelineInteractiveRefinement walks the interactive path: pick
// files, reject the first draft with a refinement, commit the second, then
// recover from a missing remote by adding one.
func TestFullPipelineInteractiveRefinement(t *testing.T) {
	g := testutil.NewFakeGit()
	g.Unstaged = []string{"migrate.sql", "schema.go"}
	g.PushErrs = []error{errors.NewGitError("push", errors.ErrNoRemote)}
	m := &testutil.FakeModel{Responses: []string{
		"Add schema migration",
		"Add schema migration for the accounts table",
	}}
	p := &testutil.FakePrompt{
		SelectAnswers:  []string{"select", "retry", "commit"},
		MultiAnswers:   [][]string{{"migrate.sql", "schema.go"}},
		TextAnswers:    []string{"name the table being migrated", "git@example.com:me/repo.git"},
		ConfirmAnswers: []bool{true, true}, // push? / add remote?
	}
	out := &bytes.Buffer{}

	code := workflow.New(testDeps(g, m, p, out)).Run(context.Background(), workflow.Options{})

	if code != workflow.ExitOK {
		t.Fatalf("exit code = %d, want %d\noutput: %s", code, workflow.ExitOK, out.String())
	}
	if got := len(m.Invocations); got != 2 {
		t.Errorf("model invocations = %d, want 2", got)
	}
	if !strings.Contains(m.Invocations[1].UserPrompt, "name the table being migrated") {
		t.Error("second prompt should carry the refinement instruction")
	}
	if got := g.CallCount("AddRemoteAndPush"); got != 1 {
		t.Errorf("AddRemoteAndPush calls = %d, want 1", got)
	}
}

// TestFullPipelineAbortLeavesRepositoryUntouched verifies that cancelling at
// the approval menu commits and pushes nothing.
func TestFullPipelineAbortLeavesRepositoryUntouched(t *testing.T) {
	g := testutil.NewFakeGit()
	g.Staged = []string{"a.go"}
	m := &testutil.FakeModel{Responses: []string{"Add feature"}}
	p := &testutil.FakePrompt{SelectAnswers: []string{"cancel"}}
	out := &bytes.Buffer{}

	code := workflow.New(testDeps(g, m, p, out)).Run(context.Background(), workflow.Options{})

	if code != workflow.ExitError {
		t.Errorf("exit code = %d, want %d", code, workflow.ExitError)
	}
	if got := g.CallCount("Commit") + g.CallCount("Push"); got != 0 {
		t.Errorf("aborted run must not touch the repository, calls = %v", g.Calls)
	}
}
