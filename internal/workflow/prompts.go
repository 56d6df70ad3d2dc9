package workflow

import (
	"fmt"
	"strings"

	"github.com/gitdraft/gitdraft/internal/config"
)

// buildSystemPrompt frames the drafting task and folds the active schema
// rules in so the model aims at what the validator will check.
func buildSystemPrompt(cfg config.ValidationConfig) string {
	var b strings.Builder
	b.WriteString("You are drafting a git commit message for the staged changes.\n")
	b.WriteString("Reply with the commit message only: a subject line, then an optional body after a blank line.\n")
	b.WriteString("Do not wrap the message in code fences or add any commentary.\n\nRules:\n")

	rules := cfg.Rules
	if len(rules) == 0 {
		rules = config.DefaultRules()
	}
	for _, rule := range rules {
		switch rule.Name {
		case "subject_max_length":
			limit := rule.Limit
			if limit <= 0 {
				limit = 72
			}
			fmt.Fprintf(&b, "- Keep the subject line at or under %d characters.\n", limit)
		case "subject_no_period":
			b.WriteString("- Do not end the subject line with a period.\n")
		case "body_max_line_length":
			limit := rule.Limit
			if limit <= 0 {
				limit = 100
			}
			fmt.Fprintf(&b, "- Wrap body lines at %d characters.\n", limit)
		case "blank_line_before_body":
			b.WriteString("- Separate the subject from the body with a blank line.\n")
		}
	}

	return b.String()
}

// buildUserPrompt assembles the repository context, accumulated refinement
// instructions, and the previous failing attempt into the user prompt.
func buildUserPrompt(st *GenerationState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Branch: %s\n\n", st.Branch)

	if st.Context != nil {
		if len(st.Context.Files) > 0 {
			b.WriteString("Staged files:\n")
			for _, file := range st.Context.Files {
				fmt.Fprintf(&b, "  %s\n", file)
			}
			b.WriteString("\n")
		}
		if len(st.Context.RecentCommits) > 0 {
			b.WriteString("Recent commit subjects for style reference:\n")
			for _, subject := range st.Context.RecentCommits {
				fmt.Fprintf(&b, "  %s\n", subject)
			}
			b.WriteString("\n")
		}
		if st.Context.Diff != "" {
			fmt.Fprintf(&b, "Staged diff:\n%s\n\n", st.Context.Diff)
		}
	}

	if len(st.Refinements) > 0 {
		b.WriteString("The user asked for these corrections:\n")
		for _, refinement := range st.Refinements {
			fmt.Fprintf(&b, "- %s\n", refinement)
		}
		b.WriteString("\n")
	}

	if st.LastInvalid != "" {
		fmt.Fprintf(&b, "Your previous attempt failed validation:\n%s\n\nProblems:\n", st.LastInvalid)
		for _, issue := range st.LastCriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\nProduce a corrected message.\n")
	}

	return b.String()
}
