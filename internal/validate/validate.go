// Package validate checks candidate commit messages against a configurable
// rule set. Each rule carries a severity: failing "critical" rules makes the
// verdict eligible for automatic regeneration, while "warning" failures are
// only surfaced at the approval menu.
package validate

import (
	"fmt"
	"strings"

	"github.com/gitdraft/gitdraft/internal/config"
)

// Severity classifies a failed rule.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue describes one failed rule.
type Issue struct {
	Rule        string
	Severity    Severity
	Description string
}

// Verdict is the result of validating one candidate message.
type Verdict struct {
	Issues []Issue
}

// Valid reports whether no critical rule failed. Warning-level issues do
// not invalidate a message.
func (v Verdict) Valid() bool {
	return len(v.Critical()) == 0
}

// Critical returns the critical issues.
func (v Verdict) Critical() []Issue {
	var critical []Issue
	for _, issue := range v.Issues {
		if issue.Severity == SeverityCritical {
			critical = append(critical, issue)
		}
	}
	return critical
}

// Warnings returns the warning-level issues.
func (v Verdict) Warnings() []Issue {
	var warnings []Issue
	for _, issue := range v.Issues {
		if issue.Severity == SeverityWarning {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}

// CriticalDescriptions returns the critical issue texts, used as correction
// context for the next generation attempt.
func (v Verdict) CriticalDescriptions() []string {
	var out []string
	for _, issue := range v.Critical() {
		out = append(out, issue.Description)
	}
	return out
}

// checkFunc evaluates one rule against a split message. It returns a
// description when the rule fails.
type checkFunc func(subject string, body []string, limit int) (string, bool)

var checks = map[string]checkFunc{
	"subject_required": func(subject string, _ []string, _ int) (string, bool) {
		if strings.TrimSpace(subject) == "" {
			return "subject line is empty", true
		}
		return "", false
	},
	"subject_max_length": func(subject string, _ []string, limit int) (string, bool) {
		if limit <= 0 {
			limit = 72
		}
		if len(subject) > limit {
			return fmt.Sprintf("subject is %d characters, limit is %d", len(subject), limit), true
		}
		return "", false
	},
	"subject_no_period": func(subject string, _ []string, _ int) (string, bool) {
		if strings.HasSuffix(strings.TrimSpace(subject), ".") {
			return "subject line ends with a period", true
		}
		return "", false
	},
	"blank_line_before_body": func(_ string, body []string, _ int) (string, bool) {
		// body holds every line after the subject; the first must be blank
		// when a body exists.
		if len(body) > 0 && strings.TrimSpace(body[0]) != "" {
			return "missing blank line between subject and body", true
		}
		return "", false
	},
	"body_max_line_length": func(_ string, body []string, limit int) (string, bool) {
		if limit <= 0 {
			limit = 100
		}
		for i, line := range body {
			if len(line) > limit {
				return fmt.Sprintf("body line %d is %d characters, limit is %d", i+1, len(line), limit), true
			}
		}
		return "", false
	},
}

// Validator evaluates messages against configured rules.
type Validator struct {
	rules []config.RuleConfig
}

// New creates a Validator from validation config. Unknown rule names are
// rejected by config validation before this point.
func New(cfg config.ValidationConfig) *Validator {
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = config.DefaultRules()
	}
	return &Validator{rules: rules}
}

// Check validates a candidate message and returns the verdict.
func (v *Validator) Check(message string) Verdict {
	lines := strings.Split(strings.TrimRight(message, "\n"), "\n")
	subject := lines[0]
	body := lines[1:]

	var verdict Verdict
	for _, rule := range v.rules {
		check, ok := checks[rule.Name]
		if !ok {
			continue
		}
		if desc, failed := check(subject, body, rule.Limit); failed {
			verdict.Issues = append(verdict.Issues, Issue{
				Rule:        rule.Name,
				Severity:    Severity(strings.ToLower(rule.Severity)),
				Description: desc,
			})
		}
	}
	return verdict
}

// StripFormatting removes structural artifacts models wrap around their
// answer: surrounding code fences and leading "commit message:" labels.
// The generation workflow treats a message that is empty after stripping
// as a fatal empty response.
func StripFormatting(response string) string {
	s := strings.TrimSpace(response)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop an optional language tag on the opening fence.
		if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	lower := strings.ToLower(s)
	for _, label := range []string{"commit message:", "commit:"} {
		if strings.HasPrefix(lower, label) {
			s = strings.TrimSpace(s[len(label):])
			break
		}
	}

	return s
}
