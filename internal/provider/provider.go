// Package provider abstracts the AI model invocation used to draft commit
// messages. Adapters wrap command-line provider tools; the workflow
// orchestrators depend only on the Adapter interface so tests can substitute
// canned responses.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitdraft/gitdraft/internal/config"
)

// Name identifies a supported provider backend.
type Name string

const (
	ProviderClaude Name = "claude"
	ProviderCodex  Name = "codex"
)

// Request carries one model invocation.
type Request struct {
	// Model is the model identifier passed to the provider CLI. Empty means
	// the provider's default model.
	Model string
	// ModelName is the human-readable name used in progress output.
	ModelName string
	// SystemPrompt frames the task for the model.
	SystemPrompt string
	// UserPrompt carries the repository context and refinement instructions.
	UserPrompt string
	// SlowThreshold is how long to wait before reporting that the model is
	// still working (0 = never).
	SlowThreshold time.Duration
}

// Adapter invokes an AI model and probes its availability.
type Adapter interface {
	// Name returns the backend identifier.
	Name() Name

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// Invoke sends the prompt to the model and returns its raw response.
	// Errors wrap *errors.ProviderError and are never retried by callers.
	Invoke(ctx context.Context, req Request) (string, error)

	// CheckAvailable reports whether the provider CLI is installed and
	// responsive.
	CheckAvailable(ctx context.Context) bool
}

// ErrUnknownProvider is returned when the configured provider is unsupported.
var ErrUnknownProvider = fmt.Errorf("unknown provider")

// NewFromConfig builds an Adapter from configuration.
func NewFromConfig(cfg *config.Config) (Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing config")
	}

	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second

	switch strings.ToLower(cfg.Provider.Name) {
	case string(ProviderClaude), "":
		return NewClaudeCLI(cfg.Provider.Command, timeout), nil
	case string(ProviderCodex):
		return NewCodexCLI(cfg.Provider.Command, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider.Name)
	}
}

// All returns one adapter per supported backend, used by setup to probe
// which provider CLIs are installed.
func All() []Adapter {
	return []Adapter{
		NewClaudeCLI("", 0),
		NewCodexCLI("", 0),
	}
}

// DefaultModels lists the selectable models per provider for setup.
func DefaultModels(name Name) []string {
	switch name {
	case ProviderClaude:
		return []string{"sonnet", "opus", "haiku"}
	case ProviderCodex:
		return []string{"gpt-5-codex", "gpt-5"}
	default:
		return nil
	}
}
