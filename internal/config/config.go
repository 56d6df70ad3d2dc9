package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete gitdraft configuration
type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider"`
	Generation GenerationConfig `mapstructure:"generation"`
	Staging    StagingConfig    `mapstructure:"staging"`
	Push       PushConfig       `mapstructure:"push"`
	Validation ValidationConfig `mapstructure:"validation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ProviderConfig selects and configures the AI provider
type ProviderConfig struct {
	// Name is the provider backend: "claude" or "codex"
	Name string `mapstructure:"name"`
	// Command overrides the provider CLI executable name
	Command string `mapstructure:"command"`
	// Model is the model identifier passed to the provider CLI
	Model string `mapstructure:"model"`
	// ModelName is the human-readable model name shown in output
	ModelName string `mapstructure:"model_name"`
	// SlowThresholdMs is how long to wait before printing a "still thinking"
	// notice during model invocation (0 = disabled)
	SlowThresholdMs int `mapstructure:"slow_threshold_ms"`
	// TimeoutSeconds bounds a single model invocation (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// GenerationConfig controls the generate/validate/retry loop
type GenerationConfig struct {
	// MaxAutoRetries bounds automatic regeneration after critical validation
	// failures (default: 3). After the limit the candidate is surfaced to
	// human review regardless of validity.
	MaxAutoRetries int `mapstructure:"max_auto_retries"`
	// RecentCommits is how many recent commit subjects to include as style
	// context (default: 10)
	RecentCommits int `mapstructure:"recent_commits"`
	// MaxDiffBytes truncates the staged diff before prompt assembly
	// (default: 65536)
	MaxDiffBytes int `mapstructure:"max_diff_bytes"`
}

// StagingConfig controls staging behavior
type StagingConfig struct {
	// Exclude lists pathspec patterns never staged by stage-all
	Exclude []string `mapstructure:"exclude"`
}

// PushConfig controls push behavior
type PushConfig struct {
	// CountdownSeconds is the interruptible delay before a fully automated
	// commit-and-push run proceeds (default: 5)
	CountdownSeconds int `mapstructure:"countdown_seconds"`
}

// ValidationConfig holds the commit message schema rules. Severity decides
// whether a failing rule triggers automatic regeneration ("critical") or is
// only surfaced as a warning at the approval menu ("warning").
type ValidationConfig struct {
	Rules []RuleConfig `mapstructure:"rules"`
}

// RuleConfig configures a single validation rule
type RuleConfig struct {
	// Name identifies the rule: "subject_required", "subject_max_length",
	// "subject_no_period", "blank_line_before_body", "body_max_line_length"
	Name string `mapstructure:"name"`
	// Severity is "critical" or "warning"
	Severity string `mapstructure:"severity"`
	// Limit parameterizes length rules (ignored by others)
	Limit int `mapstructure:"limit"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// Disabled turns off the debug log file entirely
	Disabled bool `mapstructure:"disabled"`
}

// ConfigDir returns the gitdraft configuration directory
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitdraft"
	}
	return filepath.Join(home, ".config", "gitdraft")
}

// SetDefaults registers default values with viper so the tool works without
// a config file.
func SetDefaults() {
	viper.SetDefault("provider.name", "claude")
	viper.SetDefault("provider.command", "")
	viper.SetDefault("provider.model", "")
	viper.SetDefault("provider.model_name", "")
	viper.SetDefault("provider.slow_threshold_ms", 10000)
	viper.SetDefault("provider.timeout_seconds", 120)

	viper.SetDefault("generation.max_auto_retries", 3)
	viper.SetDefault("generation.recent_commits", 10)
	viper.SetDefault("generation.max_diff_bytes", 65536)

	viper.SetDefault("staging.exclude", []string{})

	viper.SetDefault("push.countdown_seconds", 5)

	viper.SetDefault("logging.level", "INFO")
	viper.SetDefault("logging.disabled", false)
}

// DefaultRules returns the built-in validation rule set, used when the
// config file does not override validation.rules.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{Name: "subject_required", Severity: "critical"},
		{Name: "subject_max_length", Severity: "critical", Limit: 72},
		{Name: "subject_no_period", Severity: "warning"},
		{Name: "blank_line_before_body", Severity: "critical"},
		{Name: "body_max_line_length", Severity: "warning", Limit: 100},
	}
}

// Load unmarshals the current viper state into a Config, filling in the
// default validation rules when none are configured.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Validation.Rules) == 0 {
		cfg.Validation.Rules = DefaultRules()
	}
	return &cfg, nil
}

// Save writes the provider selection to the config file, creating the
// config directory if needed. Used by the setup workflow.
func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	viper.Set("provider.name", cfg.Provider.Name)
	viper.Set("provider.command", cfg.Provider.Command)
	viper.Set("provider.model", cfg.Provider.Model)
	viper.Set("provider.model_name", cfg.Provider.ModelName)

	path := filepath.Join(dir, "config.yaml")
	return viper.WriteConfigAs(path)
}
