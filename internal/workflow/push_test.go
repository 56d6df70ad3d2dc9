package workflow

import (
	"context"
	"testing"

	"github.com/gitdraft/gitdraft/internal/errors"
)

func TestPushNextTransitions(t *testing.T) {
	tests := []struct {
		name     string
		step     pushStep
		state    PushState
		event    pushEvent
		wantStep pushStep
	}{
		{
			name:     "fetch ok moves to ahead check",
			step:     pushFetch,
			event:    pushFetched{ok: true},
			wantStep: pushAheadCheck,
		},
		{
			name:     "fetch failure skips the divergence check",
			step:     pushFetch,
			event:    pushFetched{ok: false},
			wantStep: pushAttempt,
		},
		{
			name:     "no divergence attempts the push",
			step:     pushAheadCheck,
			event:    pushAhead{count: 0, ok: true},
			wantStep: pushAttempt,
		},
		{
			name:     "divergence in interactive mode offers a rebase",
			step:     pushAheadCheck,
			state:    PushState{Interactive: true},
			event:    pushAhead{count: 2, ok: true},
			wantStep: pushOfferRebase,
		},
		{
			name:     "accepted rebase offer rebases",
			step:     pushOfferRebase,
			event:    pushConfirmed{yes: true},
			wantStep: pushRebase,
		},
		{
			name:     "declined rebase offer finishes without pushing",
			step:     pushOfferRebase,
			event:    pushConfirmed{yes: false},
			wantStep: pushDone,
		},
		{
			name:     "successful rebase attempts the push",
			step:     pushRebase,
			event:    pushRebased{ok: true},
			wantStep: pushAttempt,
		},
		{
			name:     "missing remote in interactive mode offers recovery",
			step:     pushAttempt,
			state:    PushState{Interactive: true},
			event:    pushFailed{noRemote: true},
			wantStep: pushOfferRemote,
		},
		{
			name:     "other push failure finishes",
			step:     pushAttempt,
			state:    PushState{Interactive: true},
			event:    pushFailed{msg: "network unreachable"},
			wantStep: pushDone,
		},
		{
			name:     "accepted remote offer asks for the URL",
			step:     pushOfferRemote,
			event:    pushConfirmed{yes: true},
			wantStep: pushAskURL,
		},
		{
			name:     "URL provided adds the remote",
			step:     pushAskURL,
			event:    pushURL{url: "git@example.com:me/repo.git"},
			wantStep: pushAddRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotStep := pushNext(tt.step, tt.state, tt.event)
			if gotStep != tt.wantStep {
				t.Errorf("pushNext() step = %d, want %d", gotStep, tt.wantStep)
			}
		})
	}
}

func TestPushNextNonInteractiveDivergence(t *testing.T) {
	st, step := pushNext(pushAheadCheck, PushState{Interactive: false}, pushAhead{count: 2, ok: true})
	if step != pushDone {
		t.Fatalf("non-interactive divergence should finish, got step %d", step)
	}
	if st.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", st.ExitCode)
	}
	if st.Pushed {
		t.Error("diverged remote must never be pushed to")
	}
}

func TestPushNextFailedRebase(t *testing.T) {
	st, step := pushNext(pushRebase, PushState{Interactive: true}, pushRebased{ok: false})
	if step != pushDone || st.ExitCode != 1 {
		t.Errorf("failed rebase should finish with exit 1, got step=%d exit=%d", step, st.ExitCode)
	}
}

func TestPushNonInteractiveAheadRemoteRefuses(t *testing.T) {
	h := newHarness()
	h.git.AheadCount = 2

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: false})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := h.git.CallCount("Push"); got != 0 {
		t.Errorf("Push calls = %d, want 0", got)
	}
	if result.Pushed {
		t.Error("Pushed = true, want false")
	}
	if result.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", result.ExitCode)
	}
}

func TestPushInteractiveRebaseThenPush(t *testing.T) {
	h := newHarness()
	h.git.AheadCount = 1
	h.prompt.ConfirmAnswers = []bool{true}

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := h.git.CallCount("PullRebase"); got != 1 {
		t.Errorf("PullRebase calls = %d, want 1", got)
	}
	if !result.Pushed || result.ExitCode != 0 {
		t.Errorf("result = %+v, want pushed with exit 0", result)
	}
}

func TestPushInteractiveDeclinedRebase(t *testing.T) {
	h := newHarness()
	h.git.AheadCount = 1
	h.prompt.ConfirmAnswers = []bool{false}

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Declining is not a failure: the commit already landed locally.
	if result.Pushed || result.ExitCode != 0 {
		t.Errorf("result = %+v, want no push with exit 0", result)
	}
	if got := h.git.CallCount("Push"); got != 0 {
		t.Errorf("Push calls = %d, want 0", got)
	}
}

func TestPushMissingRemoteRecovery(t *testing.T) {
	h := newHarness()
	h.git.PushErrs = []error{errors.NewGitError("push", errors.ErrNoRemote)}
	h.prompt.ConfirmAnswers = []bool{true}
	h.prompt.TextAnswers = []string{"git@example.com:me/repo.git"}

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := h.git.CallCount("AddRemoteAndPush"); got != 1 {
		t.Fatalf("AddRemoteAndPush calls = %d, want 1", got)
	}
	want := "AddRemoteAndPush:git@example.com:me/repo.git"
	found := false
	for _, call := range h.git.Calls {
		if call == want {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, want %q", h.git.Calls, want)
	}
	if !result.Pushed || result.ExitCode != 0 {
		t.Errorf("result = %+v, want pushed with exit 0", result)
	}
}

func TestPushMissingRemoteNonInteractive(t *testing.T) {
	h := newHarness()
	h.git.PushErrs = []error{errors.NewGitError("push", errors.ErrNoRemote)}

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: false})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// The commit succeeded; a missing remote only skips the push.
	if result.Pushed || result.ExitCode != 0 {
		t.Errorf("result = %+v, want no push with exit 0", result)
	}
}

func TestPushFetchFailureStillPushes(t *testing.T) {
	h := newHarness()
	h.git.FetchErr = errors.NewGitError("fetch", nil)
	h.git.AheadCount = 5 // never consulted when fetch fails

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: false})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := h.git.CallCount("RemoteAheadCount"); got != 0 {
		t.Errorf("RemoteAheadCount calls = %d, want 0", got)
	}
	if !result.Pushed {
		t.Error("push should be attempted despite the failed fetch")
	}
}

func TestPushPromptCancellationIsBenign(t *testing.T) {
	h := newHarness()
	h.git.AheadCount = 1
	h.prompt.Cancel = true

	result, err := NewPush(h.deps).Run(context.Background(), PushInput{Interactive: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Pushed || result.ExitCode != 0 {
		t.Errorf("result = %+v, want no push with exit 0", result)
	}
}
