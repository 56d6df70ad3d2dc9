package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// commitSummaryRe matches the first line of git commit output, e.g.
//
//	[main abc1234] Add retry bookkeeping
//	[main (root-commit) abc1234] Initial commit
var commitSummaryRe = regexp.MustCompile(`^\[([^\s\]]+)(?: \(root-commit\))? ([0-9a-f]+)\] (.*)$`)

// statsRe matches the commit stats line, e.g.
//
//	3 files changed, 10 insertions(+), 2 deletions(-)
var statsRe = regexp.MustCompile(`(\d+) files? changed(?:, (\d+) insertions?\(\+\))?(?:, (\d+) deletions?\(-\))?`)

// ParseCommitOutput parses the human-readable output of git commit into a
// CommitResult. The Files field is left for the caller to fill in.
func ParseCommitOutput(out string) (*CommitResult, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty commit output")
	}

	var result *CommitResult
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if m := commitSummaryRe.FindStringSubmatch(line); m != nil {
			result = &CommitResult{
				Branch:     m[1],
				Hash:       m[2],
				Subject:    m[3],
				RootCommit: strings.Contains(line, "(root-commit)"),
			}
			continue
		}
		if result == nil {
			continue
		}
		if m := statsRe.FindStringSubmatch(line); m != nil {
			result.FilesChanged = atoiDefault(m[1])
			result.Insertions = atoiDefault(m[2])
			result.Deletions = atoiDefault(m[3])
		}
	}

	if result == nil {
		return nil, fmt.Errorf("no commit summary in output: %q", out)
	}
	return result, nil
}

// parseUnstaged extracts unstaged paths from git status --porcelain output:
// files with worktree-side changes (second status column) plus untracked
// files. Paths staged with no further worktree changes are excluded.
func parseUnstaged(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		index, worktree := line[0], line[1]
		path := strings.TrimSpace(line[3:])

		// Renames carry "old -> new"; the new path is what staging acts on.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}

		if index == '?' && worktree == '?' {
			files = append(files, path)
			continue
		}
		if worktree != ' ' && worktree != 0 {
			files = append(files, path)
		}
	}
	return files
}

// splitLines splits command output into trimmed non-empty lines.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
