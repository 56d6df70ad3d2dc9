package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/git"
	"github.com/gitdraft/gitdraft/internal/prompt"
	"github.com/gitdraft/gitdraft/internal/provider"
	"github.com/gitdraft/gitdraft/internal/validate"
)

// defaultBranchLabel is used when the branch name cannot be determined;
// a lookup failure is not worth aborting a run over.
const defaultBranchLabel = "main"

// GenerationInput is the slice of run state the generation orchestrator
// needs.
type GenerationInput struct {
	Model     string
	ModelName string
	DryRun    bool
	// AutoCommit commits the candidate without a menu (explicit commit flag
	// or the broader auto-approve flag).
	AutoCommit     bool
	MaxAutoRetries int
}

// GenerationResult is the generation orchestrator's output contract.
// On any non-dry-run terminal path exactly one of Committed/Aborted is
// meaningfully true; a dry run leaves both false.
type GenerationResult struct {
	Message   string
	Committed bool
	Aborted   bool
	Commit    *git.CommitResult
}

// GenerationState is constructed fresh per invocation and discarded at
// completion.
type GenerationState struct {
	Model     string
	ModelName string

	Branch    string
	Context   *git.RepoContext
	Candidate string
	LastShown string

	AutoRetries    int
	MaxAutoRetries int
	// Refinements accumulates free-text corrections volunteered by the user.
	Refinements []string
	// LastInvalid and LastCriticalIssues carry the failing candidate and
	// its critical error descriptions into the next generation attempt.
	LastInvalid        string
	LastCriticalIssues []string

	Verdict   validate.Verdict
	Commit    *git.CommitResult
	Committed bool
	Aborted   bool
}

// generationStep is the tagged union of generation machine states.
type generationStep int

const (
	genFetchBranch generationStep = iota
	genGatherContext
	genInvokeModel
	genValidate
	genAutoCommit
	genMenu
	genCommitFromMenu
	genRefine
	genEdit
	genDone
)

// generation menu choice values.
const (
	genChoiceCommit = "commit"
	genChoiceRetry  = "retry"
	genChoiceEdit   = "edit"
	genChoiceCancel = "cancel"
)

// generationEvent is the tagged union of generation machine events.
type generationEvent interface{ isGenerationEvent() }

type genBranchFetched struct {
	name string
	ok   bool
}
type genContextGathered struct {
	repoContext *git.RepoContext
	dryRun      bool
}
type genResponse struct{ message string }
type genVerdict struct{ verdict validate.Verdict }
type genMenuChoice struct{ choice string }
type genCommitted struct{ result *git.CommitResult }
type genCommitFailed struct{}
type genRefinement struct{ text string }
type genEdited struct {
	message string
	verdict validate.Verdict
}
type genCancelled struct{}

func (genBranchFetched) isGenerationEvent()   {}
func (genContextGathered) isGenerationEvent() {}
func (genResponse) isGenerationEvent()        {}
func (genVerdict) isGenerationEvent()         {}
func (genMenuChoice) isGenerationEvent()      {}
func (genCommitted) isGenerationEvent()       {}
func (genCommitFailed) isGenerationEvent()    {}
func (genRefinement) isGenerationEvent()      {}
func (genEdited) isGenerationEvent()          {}
func (genCancelled) isGenerationEvent()       {}

// generationNext is the pure transition function of the generation machine.
func generationNext(step generationStep, st GenerationState, ev generationEvent) (GenerationState, generationStep) {
	if _, ok := ev.(genCancelled); ok {
		st.Aborted = true
		return st, genDone
	}

	switch step {
	case genFetchBranch:
		e := ev.(genBranchFetched)
		if e.ok && e.name != "" {
			st.Branch = e.name
		} else {
			st.Branch = defaultBranchLabel
		}
		return st, genGatherContext

	case genGatherContext:
		e := ev.(genContextGathered)
		st.Context = e.repoContext
		if e.dryRun {
			// Dry runs skip model invocation entirely and commit nothing.
			return st, genDone
		}
		return st, genInvokeModel

	case genInvokeModel:
		st.Candidate = ev.(genResponse).message
		return st, genValidate

	case genValidate:
		st.Verdict = ev.(genVerdict).verdict
		if !st.Verdict.Valid() && st.AutoRetries < st.MaxAutoRetries {
			st.AutoRetries++
			st.LastInvalid = st.Candidate
			st.LastCriticalIssues = st.Verdict.CriticalDescriptions()
			return st, genInvokeModel
		}
		// Retries exhausted or message valid: surface to human decision.
		return st, genMenu

	case genAutoCommit, genCommitFromMenu:
		switch e := ev.(type) {
		case genCommitted:
			st.Commit = e.result
			st.Committed = true
			return st, genDone
		case genCommitFailed:
			// Only reachable from the menu path; the auto-commit path
			// treats commit failure as fatal in the effect runner.
			return st, genMenu
		}

	case genMenu:
		switch ev.(genMenuChoice).choice {
		case genChoiceCommit:
			return st, genCommitFromMenu
		case genChoiceRetry:
			return st, genRefine
		case genChoiceEdit:
			return st, genEdit
		default:
			st.Aborted = true
			return st, genDone
		}

	case genRefine:
		text := strings.TrimSpace(ev.(genRefinement).text)
		if text == "" {
			// Blank input starts refinement fresh.
			st.Refinements = nil
		} else {
			st.Refinements = append(st.Refinements, text)
		}
		return st, genInvokeModel

	case genEdit:
		e := ev.(genEdited)
		st.Candidate = e.message
		st.Verdict = e.verdict
		return st, genMenu
	}

	return st, genDone
}

// GenerationOrchestrator turns repository context into a committed,
// schema-valid message or a definitive abort.
type GenerationOrchestrator struct {
	deps      *Deps
	validator *validate.Validator
	// autoCommit mirrors the input flag so the effect runner can pick the
	// decision path.
	autoCommit bool
}

// NewGeneration creates the generation orchestrator.
func NewGeneration(deps *Deps) *GenerationOrchestrator {
	return &GenerationOrchestrator{
		deps:      deps,
		validator: validate.New(deps.Config.Validation),
	}
}

// Run drives the generation machine to completion. Context-gathering,
// provider, and empty-response failures are fatal and returned as errors;
// user cancellation is reported through Aborted.
func (o *GenerationOrchestrator) Run(ctx context.Context, in GenerationInput) (GenerationResult, error) {
	log := o.deps.Log.WithWorkflow("generation")
	o.autoCommit = in.AutoCommit

	// Zero is a legitimate "never auto-retry" setting; only guard against
	// nonsense negatives.
	maxRetries := in.MaxAutoRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	st := GenerationState{
		Model:          in.Model,
		ModelName:      in.ModelName,
		MaxAutoRetries: maxRetries,
	}

	step := genFetchBranch
	for step != genDone {
		// The decision split lives here rather than in the transition so
		// the transition stays ignorant of wiring flags.
		if step == genMenu && o.autoCommit {
			step = genAutoCommit
		}

		ev, err := o.effect(ctx, step, &st, in)
		if err != nil {
			return GenerationResult{}, err
		}
		st, step = generationNext(step, st, ev)
	}

	log.Info("generation finished",
		"committed", st.Committed, "aborted", st.Aborted, "auto_retries", st.AutoRetries)

	return GenerationResult{
		Message:   st.Candidate,
		Committed: st.Committed,
		Aborted:   st.Aborted,
		Commit:    st.Commit,
	}, nil
}

// effect executes the single collaborator call a step suspends on.
// The state pointer is only used for display bookkeeping (LastShown);
// all decision-relevant mutation happens in the transition function.
func (o *GenerationOrchestrator) effect(ctx context.Context, step generationStep, st *GenerationState, in GenerationInput) (generationEvent, error) {
	log := o.deps.Log.WithWorkflow("generation")

	switch step {
	case genFetchBranch:
		name, err := o.deps.Git.BranchName(ctx)
		if err != nil {
			log.Warn("branch lookup failed, using default label", "error", err.Error())
			return genBranchFetched{ok: false}, nil
		}
		return genBranchFetched{name: name, ok: true}, nil

	case genGatherContext:
		// Context is cached across auto-retries; the transition tolerates a
		// re-fetch all the same.
		if st.Context != nil {
			return genContextGathered{repoContext: st.Context, dryRun: in.DryRun}, nil
		}
		repoContext, err := o.deps.Git.GatherContext(ctx)
		if err != nil {
			// A broken repository state, not a model-quality problem:
			// abort immediately, no retry.
			return nil, errors.Wrap(err, "gathering repository context")
		}
		return genContextGathered{repoContext: repoContext, dryRun: in.DryRun}, nil

	case genInvokeModel:
		response, err := o.deps.Model.Invoke(ctx, provider.Request{
			Model:         st.Model,
			ModelName:     st.ModelName,
			SystemPrompt:  buildSystemPrompt(o.deps.Config.Validation),
			UserPrompt:    buildUserPrompt(st),
			SlowThreshold: time.Duration(o.deps.Config.Provider.SlowThresholdMs) * time.Millisecond,
		})
		if err != nil {
			// Operational failure: never retried automatically.
			return nil, err
		}
		message := validate.StripFormatting(response)
		if message == "" {
			return nil, errors.ErrEmptyResponse
		}
		return genResponse{message: message}, nil

	case genValidate:
		return genVerdict{verdict: o.validator.Check(st.Candidate)}, nil

	case genAutoCommit:
		result, err := o.deps.Git.Commit(ctx, st.Candidate)
		if err != nil {
			// No human present to retry interactively.
			return nil, errors.Wrap(err, "committing")
		}
		return genCommitted{result: result}, nil

	case genMenu:
		return o.menu(st)

	case genCommitFromMenu:
		result, err := o.deps.Git.Commit(ctx, st.Candidate)
		if err != nil {
			// Recoverable: report and return to the same menu.
			fmt.Fprintf(o.deps.Out, "Commit failed: %v\n", err)
			log.Warn("interactive commit failed", "error", err.Error())
			return genCommitFailed{}, nil
		}
		return genCommitted{result: result}, nil

	case genRefine:
		text, err := o.deps.Prompt.Text("Refinement instructions (blank to start fresh)", nil)
		if errors.IsCancellation(err) {
			return genCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return genRefinement{text: text}, nil

	case genEdit:
		edited, err := o.deps.Prompt.Text("Edit commit message", func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("message cannot be empty")
			}
			return nil
		})
		if errors.IsCancellation(err) {
			return genCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return genEdited{message: edited, verdict: o.validator.Check(edited)}, nil
	}

	return nil, fmt.Errorf("generation: no effect for step %d", step)
}

// menu shows the candidate (when not already shown) and presents the
// four-way decision.
func (o *GenerationOrchestrator) menu(st *GenerationState) (generationEvent, error) {
	if st.Candidate != st.LastShown {
		fmt.Fprintf(o.deps.Out, "\n%s\n\n", st.Candidate)
		for _, issue := range st.Verdict.Issues {
			fmt.Fprintf(o.deps.Out, "  %s: %s\n", issue.Severity, issue.Description)
		}
		st.LastShown = st.Candidate
	}

	commitLabel := "Commit"
	if !st.Verdict.Valid() {
		commitLabel = "Commit (with warnings)"
	}

	choice, err := o.deps.Prompt.Select("What next?", []prompt.Option{
		{Label: commitLabel, Value: genChoiceCommit},
		{Label: "Retry with refinements", Value: genChoiceRetry},
		{Label: "Edit message", Value: genChoiceEdit},
		{Label: "Cancel", Value: genChoiceCancel},
	})
	if errors.IsCancellation(err) {
		return genCancelled{}, nil
	}
	if err != nil {
		return nil, err
	}
	return genMenuChoice{choice: choice}, nil
}
