// Package errors provides centralized error definitions and error handling
// utilities for the gitdraft codebase. It defines domain-specific errors,
// error constructors with context wrapping, and classification helpers.
//
// The package distinguishes three kinds of failure that the workflow
// orchestrators must never conflate:
//
//   - Cancellation: the user declined or interrupted. Represented by the
//     ErrCancelled sentinel. Always a normal terminal state, never logged
//     or retried as a fault.
//   - Recoverable validation failure: the candidate commit message failed
//     schema checks. Represented by ValidationError and resolved inside the
//     generation loop via bounded auto-retry.
//   - Operational failure: provider invocation errors, git subprocess
//     errors, and remote divergence. Represented by ProviderError, GitError
//     and DivergenceError respectively.
//
// Checking errors:
//
//	if errors.IsCancellation(err) { ... }
//
//	var gitErr *errors.GitError
//	if errors.As(err, &gitErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrCancelled indicates the user declined or interrupted an interactive
	// step. It is a terminal-state signal, not an operational failure.
	ErrCancelled = New("cancelled by user")
	// ErrNoRemote indicates a push failed because no remote is configured.
	ErrNoRemote = New("no remote configured")
	// ErrRemoteAhead indicates the remote tracking branch has commits the
	// local branch does not.
	ErrRemoteAhead = New("remote is ahead of local branch")
	// ErrEmptyResponse indicates the model returned no usable content.
	ErrEmptyResponse = New("model returned an empty response")
	// ErrNotRepository indicates the working directory is not inside a git
	// repository.
	ErrNotRepository = New("not a git repository")
	// ErrGitNotFound indicates the git binary is not on PATH.
	ErrGitNotFound = New("git executable not found")
)

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// GitError represents a failed git subprocess invocation.
//
// Example:
//
//	err := errors.NewGitError("commit failed", cause).WithOutput(stderr)
type GitError struct {
	Op     string // git operation, e.g. "commit", "push"
	Branch string
	Output string // captured subprocess output
	cause  error
}

// NewGitError creates a new GitError for the given operation.
func NewGitError(op string, cause error) *GitError {
	return &GitError{Op: op, cause: cause}
}

// WithBranch adds a branch name to the error context.
func (e *GitError) WithBranch(branch string) *GitError {
	e.Branch = branch
	return e
}

// WithOutput adds captured git output to the error context.
func (e *GitError) WithOutput(output string) *GitError {
	e.Output = strings.TrimSpace(output)
	return e
}

// Error returns the formatted error message.
func (e *GitError) Error() string {
	prefix := "git error"
	if e.Op != "" {
		prefix = fmt.Sprintf("git error [op=%s]", e.Op)
	}
	if e.Branch != "" {
		prefix = fmt.Sprintf("git error [op=%s, branch=%s]", e.Op, e.Branch)
	}

	msg := prefix
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, e.Output)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GitError) Unwrap() error { return e.cause }

// Is reports whether this error matches the target.
func (e *GitError) Is(target error) bool {
	if _, ok := target.(*GitError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// ProviderError represents a failed model invocation: rate limits, auth
// failures, network errors. Provider errors are never retried automatically;
// retrying would waste calls and hide the real problem.
type ProviderError struct {
	Provider string
	Model    string
	cause    error
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, cause: cause}
}

// WithModel adds the model identifier to the error context.
func (e *ProviderError) WithModel(model string) *ProviderError {
	e.Model = model
	return e
}

// Error returns the formatted error message.
func (e *ProviderError) Error() string {
	var parts []string
	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	prefix := "provider error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("provider error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.cause }

// Is reports whether this error matches the target.
func (e *ProviderError) Is(target error) bool {
	if _, ok := target.(*ProviderError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// ValidationError represents a commit message that failed schema validation.
// It is recoverable: the generation orchestrator resolves it locally through
// its bounded auto-retry loop.
type ValidationError struct {
	Issues []string // human-readable critical issue descriptions
}

// NewValidationError creates a new ValidationError from issue descriptions.
func NewValidationError(issues ...string) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error: message failed schema checks"
	}
	return fmt.Sprintf("validation error: %s", strings.Join(e.Issues, "; "))
}

// Is reports whether this error matches the target.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// DivergenceError represents a remote tracking branch that is ahead of the
// local branch with no safe automatic resolution. Fatal in non-interactive
// runs: pushing would silently diverge history.
type DivergenceError struct {
	AheadCount int
}

// NewDivergenceError creates a new DivergenceError.
func NewDivergenceError(aheadCount int) *DivergenceError {
	return &DivergenceError{AheadCount: aheadCount}
}

// Error returns the formatted error message.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("remote is ahead by %d commit(s); refusing to push without a rebase", e.AheadCount)
}

// Is reports whether this error matches the target.
func (e *DivergenceError) Is(target error) bool {
	if _, ok := target.(*DivergenceError); ok {
		return true
	}
	return errors.Is(target, ErrRemoteAhead)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsCancellation reports whether err means the user declined or interrupted.
// Orchestrators route cancellations to their own aborted terminal state
// instead of propagating them as faults.
func IsCancellation(err error) bool {
	return err != nil && Is(err, ErrCancelled)
}

// IsNoRemote reports whether err indicates a missing push remote, which the
// push orchestrator handles through its recovery path.
func IsNoRemote(err error) bool {
	return err != nil && Is(err, ErrNoRemote)
}

// IsProviderFailure reports whether err is a model invocation failure.
// Provider failures abort the current run and are never retried.
func IsProviderFailure(err error) bool {
	var pe *ProviderError
	return As(err, &pe)
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
