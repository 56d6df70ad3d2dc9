package config

import (
	"fmt"
	"strings"
)

// ValidProviders returns the supported provider backend names.
func ValidProviders() []string {
	return []string{"claude", "codex"}
}

// ValidSeverities returns the accepted rule severity values.
func ValidSeverities() []string {
	return []string{"critical", "warning"}
}

// knownRules is the set of rule names the validator implements.
var knownRules = map[string]bool{
	"subject_required":       true,
	"subject_max_length":     true,
	"subject_no_period":      true,
	"blank_line_before_body": true,
	"body_max_line_length":   true,
}

// Validate checks a loaded Config for values the workflow cannot run with.
// It returns the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("missing config")
	}

	provider := strings.ToLower(cfg.Provider.Name)
	if !contains(ValidProviders(), provider) {
		return fmt.Errorf("unknown provider %q (valid: %s)",
			cfg.Provider.Name, strings.Join(ValidProviders(), ", "))
	}

	if cfg.Generation.MaxAutoRetries < 0 || cfg.Generation.MaxAutoRetries > 10 {
		return fmt.Errorf("generation.max_auto_retries must be between 0 and 10, got %d",
			cfg.Generation.MaxAutoRetries)
	}

	if cfg.Provider.TimeoutSeconds < 0 {
		return fmt.Errorf("provider.timeout_seconds must not be negative, got %d",
			cfg.Provider.TimeoutSeconds)
	}

	for _, rule := range cfg.Validation.Rules {
		if !knownRules[rule.Name] {
			return fmt.Errorf("unknown validation rule %q", rule.Name)
		}
		if !contains(ValidSeverities(), strings.ToLower(rule.Severity)) {
			return fmt.Errorf("validation rule %q has invalid severity %q (valid: %s)",
				rule.Name, rule.Severity, strings.Join(ValidSeverities(), ", "))
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
