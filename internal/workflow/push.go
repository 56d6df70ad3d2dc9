package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitdraft/gitdraft/internal/errors"
)

// PushInput is the slice of run state the push orchestrator needs.
type PushInput struct {
	// Interactive enables the pull-rebase offer and missing-remote
	// recovery prompts.
	Interactive bool
}

// PushResult is the push orchestrator's output contract. ExitCode is 1 only
// for a non-interactive push against an ahead remote or a failed rebase;
// every other push failure leaves Pushed=false with ExitCode 0 because the
// commit itself already succeeded.
type PushResult struct {
	Pushed   bool
	ExitCode int
}

// PushState is constructed fresh per invocation and discarded at
// completion.
type PushState struct {
	Interactive bool

	AheadCount int
	RemoteURL  string
	ErrMsg     string
	Pushed     bool
	ExitCode   int
}

// pushStep is the tagged union of push machine states.
type pushStep int

const (
	pushFetch pushStep = iota
	pushAheadCheck
	pushOfferRebase
	pushRebase
	pushAttempt
	pushOfferRemote
	pushAskURL
	pushAddRemote
	pushDone
)

// pushEvent is the tagged union of push machine events.
type pushEvent interface{ isPushEvent() }

type pushFetched struct{ ok bool }
type pushAhead struct {
	count int
	ok    bool
}
type pushSucceeded struct{}
type pushFailed struct {
	noRemote bool
	msg      string
}
type pushConfirmed struct{ yes bool }
type pushRebased struct{ ok bool }
type pushURL struct{ url string }
type pushRemoteAdded struct {
	ok  bool
	msg string
}
type pushCancelled struct{}

func (pushFetched) isPushEvent()     {}
func (pushAhead) isPushEvent()       {}
func (pushSucceeded) isPushEvent()   {}
func (pushFailed) isPushEvent()      {}
func (pushConfirmed) isPushEvent()   {}
func (pushRebased) isPushEvent()     {}
func (pushURL) isPushEvent()         {}
func (pushRemoteAdded) isPushEvent() {}
func (pushCancelled) isPushEvent()   {}

// pushNext is the pure transition function of the push machine.
func pushNext(step pushStep, st PushState, ev pushEvent) (PushState, pushStep) {
	if _, ok := ev.(pushCancelled); ok {
		// Declining a push-related prompt leaves the push undone; the
		// commit already landed, so this is not fatal.
		return st, pushDone
	}

	switch step {
	case pushFetch:
		if !ev.(pushFetched).ok {
			// The divergence check is a secondary concern; attempt the
			// push rather than blocking on it.
			return st, pushAttempt
		}
		return st, pushAheadCheck

	case pushAheadCheck:
		e := ev.(pushAhead)
		if !e.ok || e.count == 0 {
			return st, pushAttempt
		}
		st.AheadCount = e.count
		if !st.Interactive {
			// Pushing would silently diverge history with no one present
			// to resolve conflicts: refuse to push at all.
			st.ExitCode = 1
			st.ErrMsg = errors.NewDivergenceError(e.count).Error()
			return st, pushDone
		}
		return st, pushOfferRebase

	case pushOfferRebase:
		if ev.(pushConfirmed).yes {
			return st, pushRebase
		}
		return st, pushDone

	case pushRebase:
		if !ev.(pushRebased).ok {
			// Rebase conflicts need a human in the working tree; no push
			// is attempted.
			st.ExitCode = 1
			return st, pushDone
		}
		return st, pushAttempt

	case pushAttempt:
		switch e := ev.(type) {
		case pushSucceeded:
			st.Pushed = true
			return st, pushDone
		case pushFailed:
			st.ErrMsg = e.msg
			if e.noRemote && st.Interactive {
				return st, pushOfferRemote
			}
			return st, pushDone
		}

	case pushOfferRemote:
		if ev.(pushConfirmed).yes {
			return st, pushAskURL
		}
		return st, pushDone

	case pushAskURL:
		st.RemoteURL = ev.(pushURL).url
		return st, pushAddRemote

	case pushAddRemote:
		e := ev.(pushRemoteAdded)
		if e.ok {
			st.Pushed = true
		} else {
			st.ErrMsg = e.msg
		}
		return st, pushDone
	}

	return st, pushDone
}

// PushOrchestrator pushes the new commit without ever silently creating a
// diverged remote history.
type PushOrchestrator struct {
	deps *Deps
}

// NewPush creates the push orchestrator.
func NewPush(deps *Deps) *PushOrchestrator {
	return &PushOrchestrator{deps: deps}
}

// Run drives the push machine to completion.
func (o *PushOrchestrator) Run(ctx context.Context, in PushInput) (PushResult, error) {
	log := o.deps.Log.WithWorkflow("push")

	st := PushState{Interactive: in.Interactive}

	step := pushFetch
	for step != pushDone {
		ev, err := o.effect(ctx, step, st)
		if err != nil {
			return PushResult{}, err
		}
		st, step = pushNext(step, st, ev)
	}

	if st.ErrMsg != "" && !st.Pushed {
		if st.ExitCode != 0 {
			fmt.Fprintf(o.deps.Out, "Push failed: %s\n", st.ErrMsg)
		} else {
			log.Warn("push skipped", "reason", st.ErrMsg)
		}
	}

	log.Info("push finished", "pushed", st.Pushed, "exit_code", st.ExitCode)
	return PushResult{Pushed: st.Pushed, ExitCode: st.ExitCode}, nil
}

// effect executes the single collaborator call a step suspends on.
func (o *PushOrchestrator) effect(ctx context.Context, step pushStep, st PushState) (pushEvent, error) {
	log := o.deps.Log.WithWorkflow("push")

	switch step {
	case pushFetch:
		if err := o.deps.Git.FetchRemote(ctx); err != nil {
			log.Warn("fetch failed, skipping divergence check", "error", err.Error())
			return pushFetched{ok: false}, nil
		}
		return pushFetched{ok: true}, nil

	case pushAheadCheck:
		count, err := o.deps.Git.RemoteAheadCount(ctx)
		if err != nil {
			log.Warn("ahead-count check failed, attempting push anyway", "error", err.Error())
			return pushAhead{ok: false}, nil
		}
		return pushAhead{count: count, ok: true}, nil

	case pushOfferRebase:
		yes, err := o.deps.Prompt.Confirm(
			fmt.Sprintf("Remote is ahead by %d commit(s). Pull with rebase first?", st.AheadCount))
		if errors.IsCancellation(err) {
			return pushCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return pushConfirmed{yes: yes}, nil

	case pushRebase:
		if err := o.deps.Git.PullRebase(ctx); err != nil {
			fmt.Fprintf(o.deps.Out, "Rebase failed, resolve conflicts manually: %v\n", err)
			return pushRebased{ok: false}, nil
		}
		return pushRebased{ok: true}, nil

	case pushAttempt:
		if err := o.deps.Git.Push(ctx); err != nil {
			return pushFailed{noRemote: errors.IsNoRemote(err), msg: err.Error()}, nil
		}
		return pushSucceeded{}, nil

	case pushOfferRemote:
		yes, err := o.deps.Prompt.Confirm("No remote configured. Add one now?")
		if errors.IsCancellation(err) {
			return pushCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return pushConfirmed{yes: yes}, nil

	case pushAskURL:
		url, err := o.deps.Prompt.Text("Remote URL", func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("URL cannot be empty")
			}
			return nil
		})
		if errors.IsCancellation(err) {
			return pushCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return pushURL{url: strings.TrimSpace(url)}, nil

	case pushAddRemote:
		if err := o.deps.Git.AddRemoteAndPush(ctx, st.RemoteURL); err != nil {
			return pushRemoteAdded{ok: false, msg: err.Error()}, nil
		}
		return pushRemoteAdded{ok: true}, nil
	}

	return nil, fmt.Errorf("push: no effect for step %d", step)
}
