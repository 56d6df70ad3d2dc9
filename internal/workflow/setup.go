package workflow

import (
	"context"
	"fmt"

	"github.com/gitdraft/gitdraft/internal/errors"
	"github.com/gitdraft/gitdraft/internal/prompt"
	"github.com/gitdraft/gitdraft/internal/provider"
)

// SetupResult is the setup orchestrator's output contract.
type SetupResult struct {
	Provider string
	Model    string
	Aborted  bool
}

// SetupOrchestrator bootstraps configuration on first run or explicit
// request: it probes which provider CLIs are installed, asks the user to
// pick one plus a model, and persists the choice.
type SetupOrchestrator struct {
	deps *Deps
}

// NewSetup creates the setup orchestrator.
func NewSetup(deps *Deps) *SetupOrchestrator {
	return &SetupOrchestrator{deps: deps}
}

// Run drives setup to completion. Availability checks for the candidate
// provider CLIs run concurrently and are gathered before the choice list
// is rendered.
func (o *SetupOrchestrator) Run(ctx context.Context) (SetupResult, error) {
	log := o.deps.Log.WithWorkflow("setup")

	results := o.deps.Probe(ctx, o.deps.Adapters)
	available := provider.Available(results)
	if len(available) == 0 {
		return SetupResult{}, fmt.Errorf(
			"no provider CLI found; install the claude or codex command-line tool and run init again")
	}

	adapter, aborted, err := o.pickProvider(available)
	if err != nil || aborted {
		return SetupResult{Aborted: aborted}, err
	}

	model, aborted, err := o.pickModel(adapter)
	if err != nil || aborted {
		return SetupResult{Aborted: aborted}, err
	}

	cfg := o.deps.Config
	cfg.Provider.Name = string(adapter.Name())
	cfg.Provider.Model = model
	cfg.Provider.ModelName = model

	if err := o.deps.SaveConfig(cfg); err != nil {
		return SetupResult{}, errors.Wrap(err, "writing config")
	}

	log.Info("setup finished", "provider", cfg.Provider.Name, "model", model)
	fmt.Fprintf(o.deps.Out, "Configured %s with model %s\n", adapter.DisplayName(), model)
	return SetupResult{Provider: cfg.Provider.Name, Model: model}, nil
}

func (o *SetupOrchestrator) pickProvider(available []provider.Adapter) (provider.Adapter, bool, error) {
	if len(available) == 1 {
		fmt.Fprintf(o.deps.Out, "Found %s\n", available[0].DisplayName())
		return available[0], false, nil
	}

	options := make([]prompt.Option, len(available))
	for i, adapter := range available {
		options[i] = prompt.Option{Label: adapter.DisplayName(), Value: string(adapter.Name())}
	}

	choice, err := o.deps.Prompt.Select("Which provider should draft commit messages?", options)
	if errors.IsCancellation(err) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	for _, adapter := range available {
		if string(adapter.Name()) == choice {
			return adapter, false, nil
		}
	}
	return nil, false, fmt.Errorf("unknown provider choice %q", choice)
}

func (o *SetupOrchestrator) pickModel(adapter provider.Adapter) (string, bool, error) {
	models := provider.DefaultModels(adapter.Name())
	if len(models) == 0 {
		return "", false, nil
	}

	options := make([]prompt.Option, len(models))
	for i, model := range models {
		options[i] = prompt.Option{Label: model, Value: model}
	}

	model, err := o.deps.Prompt.Select("Default model?", options)
	if errors.IsCancellation(err) {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	return model, false, nil
}
