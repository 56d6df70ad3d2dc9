package provider

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gitdraft/gitdraft/internal/errors"
)

// probeTimeout bounds the availability check; an installed CLI answers
// --version well within this.
const probeTimeout = 3 * time.Second

// cliAdapter is the shared implementation for providers invoked through
// their command-line tool with the prompt on stdin.
type cliAdapter struct {
	name    Name
	display string
	command string
	timeout time.Duration
	// buildArgs assembles the non-interactive invocation arguments.
	buildArgs func(req Request) []string
}

func (a *cliAdapter) Name() Name { return a.name }

func (a *cliAdapter) DisplayName() string { return a.display }

func (a *cliAdapter) Invoke(ctx context.Context, req Request) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt := req.UserPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.UserPrompt
	}

	cmd := exec.CommandContext(ctx, a.command, a.buildArgs(req)...)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Surface a notice when the model takes longer than expected, so a
	// silent terminal does not look like a hang.
	var slowTimer *time.Timer
	if req.SlowThreshold > 0 {
		name := req.ModelName
		if name == "" {
			name = a.display
		}
		slowTimer = time.AfterFunc(req.SlowThreshold, func() {
			fmt.Fprintf(os.Stderr, "%s is still thinking...\n", name)
		})
	}

	err := cmd.Run()
	if slowTimer != nil {
		slowTimer.Stop()
	}

	if err != nil {
		cause := err
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = fmt.Errorf("%v: %s", err, firstLine(msg))
		}
		if ctx.Err() == context.DeadlineExceeded {
			cause = fmt.Errorf("invocation timed out after %s", a.timeout)
		}
		return "", errors.NewProviderError(string(a.name), cause).WithModel(req.Model)
	}

	return stdout.String(), nil
}

func (a *cliAdapter) CheckAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath(a.command); err != nil {
		return false
	}

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	return exec.CommandContext(pctx, a.command, "--version").Run() == nil
}

// NewClaudeCLI creates an adapter for the claude CLI. An empty command uses
// the default executable name.
func NewClaudeCLI(command string, timeout time.Duration) Adapter {
	if command == "" {
		command = "claude"
	}
	return &cliAdapter{
		name:    ProviderClaude,
		display: "Claude",
		command: command,
		timeout: timeout,
		buildArgs: func(req Request) []string {
			args := []string{"--print"}
			if req.Model != "" {
				args = append(args, "--model", req.Model)
			}
			return args
		},
	}
}

// NewCodexCLI creates an adapter for the codex CLI. An empty command uses
// the default executable name.
func NewCodexCLI(command string, timeout time.Duration) Adapter {
	if command == "" {
		command = "codex"
	}
	return &cliAdapter{
		name:    ProviderCodex,
		display: "Codex",
		command: command,
		timeout: timeout,
		buildArgs: func(req Request) []string {
			args := []string{"exec"}
			if req.Model != "" {
				args = append(args, "--model", req.Model)
			}
			return args
		},
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
