package workflow

import (
	"context"
	"fmt"

	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/prompt"
)

// StagingInput is the slice of run state the staging orchestrator needs.
type StagingInput struct {
	StageAll    bool
	AutoApprove bool
	Exclude     []string
}

// StagingResult is the staging orchestrator's output contract.
type StagingResult struct {
	StagedFiles []string
	Aborted     bool
}

// StagingState is constructed fresh per invocation and discarded at
// completion. The staged list is only ever set from an authoritative read;
// it is never computed incrementally.
type StagingState struct {
	StageAll    bool
	AutoApprove bool
	Exclude     []string

	StagedFiles   []string
	UnstagedFiles []string
	Selected      []string
	Aborted       bool
}

// automated reports whether an automation flag removes the interactive
// choice.
func (s StagingState) automated() bool {
	return s.StageAll || s.AutoApprove
}

// stagingStep is the tagged union of staging machine states.
type stagingStep int

const (
	stagingReadStaged stagingStep = iota
	stagingReadUnstaged
	stagingChoose
	stagingPickFiles
	stagingStageSelected
	stagingStageAll
	stagingRereadStaged
	stagingDone
)

// staging choice values shared by transition and effect runner.
const (
	stageChoiceProceed = "proceed"
	stageChoiceSelect  = "select"
	stageChoiceAll     = "all"
	stageChoiceCancel  = "cancel"
)

// stagingEvent is the tagged union of staging machine events.
type stagingEvent interface{ isStagingEvent() }

type stagingListRead struct{ files []string }
type stagingMutated struct{}
type stagingChoice struct{ choice string }
type stagingPicked struct{ files []string }
type stagingCancelled struct{}

func (stagingListRead) isStagingEvent()  {}
func (stagingMutated) isStagingEvent()   {}
func (stagingChoice) isStagingEvent()    {}
func (stagingPicked) isStagingEvent()    {}
func (stagingCancelled) isStagingEvent() {}

// stagingNext is the pure transition function of the staging machine.
func stagingNext(step stagingStep, st StagingState, ev stagingEvent) (StagingState, stagingStep) {
	if _, ok := ev.(stagingCancelled); ok {
		st.Aborted = true
		return st, stagingDone
	}

	switch step {
	case stagingReadStaged:
		st.StagedFiles = ev.(stagingListRead).files
		return st, stagingReadUnstaged

	case stagingReadUnstaged:
		st.UnstagedFiles = ev.(stagingListRead).files
		switch {
		case len(st.UnstagedFiles) == 0:
			// Nothing left to stage: finish with whatever is staged,
			// including the empty set on a clean tree.
			return st, stagingDone
		case st.automated():
			return st, stagingStageAll
		default:
			return st, stagingChoose
		}

	case stagingChoose:
		switch ev.(stagingChoice).choice {
		case stageChoiceProceed:
			return st, stagingDone
		case stageChoiceSelect:
			return st, stagingPickFiles
		case stageChoiceAll:
			return st, stagingStageAll
		default:
			st.Aborted = true
			return st, stagingDone
		}

	case stagingPickFiles:
		picked := ev.(stagingPicked).files
		if len(picked) == 0 {
			// Selecting nothing means "proceed as-is", not an error.
			return st, stagingDone
		}
		st.Selected = picked
		return st, stagingStageSelected

	case stagingStageSelected, stagingStageAll:
		_ = ev.(stagingMutated)
		return st, stagingRereadStaged

	case stagingRereadStaged:
		st.StagedFiles = ev.(stagingListRead).files
		return st, stagingDone
	}

	return st, stagingDone
}

// StagingOrchestrator resolves which files are staged before generation.
type StagingOrchestrator struct {
	deps *Deps
}

// NewStaging creates the staging orchestrator.
func NewStaging(deps *Deps) *StagingOrchestrator {
	return &StagingOrchestrator{deps: deps}
}

// Run drives the staging machine to completion. Git failures are returned
// as errors; user cancellation is reported through Aborted.
func (o *StagingOrchestrator) Run(ctx context.Context, in StagingInput) (StagingResult, error) {
	log := o.deps.Log.WithWorkflow("staging")

	st := StagingState{
		StageAll:    in.StageAll,
		AutoApprove: in.AutoApprove,
		Exclude:     in.Exclude,
	}

	step := stagingReadStaged
	for step != stagingDone {
		ev, err := o.effect(ctx, step, st)
		if err != nil {
			return StagingResult{}, err
		}
		st, step = stagingNext(step, st, ev)
	}

	log.Info("staging finished", "staged", len(st.StagedFiles), "aborted", st.Aborted)
	return StagingResult{StagedFiles: st.StagedFiles, Aborted: st.Aborted}, nil
}

// effect executes the single collaborator call a step suspends on.
func (o *StagingOrchestrator) effect(ctx context.Context, step stagingStep, st StagingState) (stagingEvent, error) {
	switch step {
	case stagingReadStaged, stagingRereadStaged:
		files, err := o.deps.Git.StagedFiles(ctx)
		if err != nil {
			return nil, err
		}
		return stagingListRead{files: files}, nil

	case stagingReadUnstaged:
		files, err := o.deps.Git.UnstagedFiles(ctx)
		if err != nil {
			return nil, err
		}
		return stagingListRead{files: files}, nil

	case stagingChoose:
		return o.choose(st)

	case stagingPickFiles:
		files, err := o.deps.Prompt.MultiSelect("Select files to stage", fileOptions(st.UnstagedFiles))
		if errors.IsCancellation(err) {
			return stagingCancelled{}, nil
		}
		if err != nil {
			return nil, err
		}
		return stagingPicked{files: files}, nil

	case stagingStageSelected:
		if err := o.deps.Git.StageFiles(ctx, st.Selected); err != nil {
			return nil, err
		}
		return stagingMutated{}, nil

	case stagingStageAll:
		if err := o.deps.Git.StageAllExcept(ctx, st.Exclude); err != nil {
			return nil, err
		}
		return stagingMutated{}, nil
	}

	return nil, fmt.Errorf("staging: no effect for step %d", step)
}

// choose presents the interactive staging menu. The option set depends on
// whether anything is already staged.
func (o *StagingOrchestrator) choose(st StagingState) (stagingEvent, error) {
	var message string
	var options []prompt.Option

	if len(st.StagedFiles) > 0 {
		message = fmt.Sprintf("%d file(s) staged, %d unstaged remain", len(st.StagedFiles), len(st.UnstagedFiles))
		options = []prompt.Option{
			{Label: "Proceed with staged files", Value: stageChoiceProceed},
			{Label: "Select unstaged files to add", Value: stageChoiceSelect},
			{Label: "Stage everything remaining", Value: stageChoiceAll},
			{Label: "Cancel", Value: stageChoiceCancel},
		}
	} else {
		message = fmt.Sprintf("Nothing staged yet, %d file(s) have changes", len(st.UnstagedFiles))
		options = []prompt.Option{
			{Label: "Stage all changes", Value: stageChoiceAll},
			{Label: "Select files to stage", Value: stageChoiceSelect},
			{Label: "Cancel", Value: stageChoiceCancel},
		}
	}

	choice, err := o.deps.Prompt.Select(message, options)
	if errors.IsCancellation(err) {
		return stagingCancelled{}, nil
	}
	if err != nil {
		return nil, err
	}
	return stagingChoice{choice: choice}, nil
}

func fileOptions(files []string) []prompt.Option {
	options := make([]prompt.Option, len(files))
	for i, file := range files {
		options[i] = prompt.Option{Label: file, Value: file}
	}
	return options
}
