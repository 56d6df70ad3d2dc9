package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gitdraft/gitdraft/internal/errors"
)

// plumbing commands get a short timeout; mutating and network commands run
// unbounded because hooks and remotes can legitimately be slow.
const queryTimeout = 10 * time.Second

// ExecClient implements Client by running the git binary.
type ExecClient struct {
	// Dir is the working directory for all git commands. Empty means the
	// process working directory.
	Dir string
	// RecentCommits is how many commit subjects GatherContext collects.
	RecentCommits int
	// MaxDiffBytes truncates the staged diff in GatherContext (0 = no limit).
	MaxDiffBytes int
}

// NewExecClient creates an ExecClient rooted at dir.
func NewExecClient(dir string, recentCommits, maxDiffBytes int) *ExecClient {
	if recentCommits <= 0 {
		recentCommits = 10
	}
	return &ExecClient{Dir: dir, RecentCommits: recentCommits, MaxDiffBytes: maxDiffBytes}
}

func (c *ExecClient) IsRepository(ctx context.Context) bool {
	out, err := c.query(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

func (c *ExecClient) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.query(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, errors.NewGitError("diff --cached", err).WithOutput(out)
	}
	return splitLines(out), nil
}

func (c *ExecClient) UnstagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.query(ctx, "status", "--porcelain")
	if err != nil {
		return nil, errors.NewGitError("status", err).WithOutput(out)
	}
	return parseUnstaged(out), nil
}

func (c *ExecClient) StageFiles(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return errors.NewGitError("add", err).WithOutput(out)
	}
	return nil
}

func (c *ExecClient) StageAllExcept(ctx context.Context, exclude []string) error {
	args := []string{"add", "--all", "--", "."}
	for _, pattern := range exclude {
		args = append(args, fmt.Sprintf(":(exclude)%s", pattern))
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return errors.NewGitError("add --all", err).WithOutput(out)
	}
	return nil
}

func (c *ExecClient) Commit(ctx context.Context, message string) (*CommitResult, error) {
	// Capture the staged set before committing; the commit summary line
	// does not list file paths.
	files, err := c.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}

	out, err := c.run(ctx, "commit", "-m", message)
	if err != nil {
		return nil, errors.NewGitError("commit", err).WithOutput(out)
	}

	result, perr := ParseCommitOutput(out)
	if perr != nil {
		// The commit succeeded even if the summary format surprised us;
		// fall back to a minimal result.
		result = &CommitResult{Subject: firstLine(message)}
	}
	result.Files = files
	return result, nil
}

func (c *ExecClient) Push(ctx context.Context) error {
	out, err := c.run(ctx, "push")
	if err != nil {
		if isNoRemoteOutput(out) {
			return errors.NewGitError("push", errors.ErrNoRemote).WithOutput(out)
		}
		return errors.NewGitError("push", err).WithOutput(out)
	}
	return nil
}

func (c *ExecClient) AddRemoteAndPush(ctx context.Context, url string) error {
	if out, err := c.run(ctx, "remote", "add", "origin", url); err != nil {
		return errors.NewGitError("remote add", err).WithOutput(out)
	}

	branch, err := c.BranchName(ctx)
	if err != nil {
		branch = "HEAD"
	}
	out, err := c.run(ctx, "push", "--set-upstream", "origin", branch)
	if err != nil {
		return errors.NewGitError("push --set-upstream", err).WithOutput(out).WithBranch(branch)
	}
	return nil
}

func (c *ExecClient) FetchRemote(ctx context.Context) error {
	out, err := c.run(ctx, "fetch")
	if err != nil {
		return errors.NewGitError("fetch", err).WithOutput(out)
	}
	return nil
}

func (c *ExecClient) RemoteAheadCount(ctx context.Context) (int, error) {
	out, err := c.query(ctx, "rev-list", "--count", "HEAD..@{upstream}")
	if err != nil {
		return 0, errors.NewGitError("rev-list", err).WithOutput(out)
	}
	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, errors.NewGitError("rev-list", fmt.Errorf("unexpected count output %q", out))
	}
	return count, nil
}

func (c *ExecClient) PullRebase(ctx context.Context) error {
	out, err := c.run(ctx, "pull", "--rebase")
	if err != nil {
		return errors.NewGitError("pull --rebase", err).WithOutput(out)
	}
	return nil
}

func (c *ExecClient) BranchName(ctx context.Context) (string, error) {
	out, err := c.query(ctx, "branch", "--show-current")
	if err != nil {
		return "", errors.NewGitError("branch", err).WithOutput(out)
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		return "", errors.NewGitError("branch", fmt.Errorf("detached HEAD or unborn branch"))
	}
	return branch, nil
}

func (c *ExecClient) GatherContext(ctx context.Context) (*RepoContext, error) {
	diff, err := c.query(ctx, "diff", "--cached")
	if err != nil {
		return nil, errors.NewGitError("diff --cached", err).WithOutput(diff)
	}
	if c.MaxDiffBytes > 0 && len(diff) > c.MaxDiffBytes {
		diff = diff[:c.MaxDiffBytes] + "\n... (diff truncated)"
	}

	subjects, err := c.query(ctx, "log", fmt.Sprintf("-%d", c.RecentCommits), "--format=%s")
	if err != nil {
		// A repository without commits has no log; that is not fatal for
		// context gathering.
		subjects = ""
	}

	files, err := c.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}

	return &RepoContext{
		Diff:          diff,
		RecentCommits: splitLines(subjects),
		Files:         files,
	}, nil
}

// query runs a read-only git command with a timeout.
func (c *ExecClient) query(ctx context.Context, args ...string) (string, error) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return c.run(qctx, args...)
}

// run executes git with the given arguments and returns combined output.
func (c *ExecClient) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}

// isNoRemoteOutput recognizes git's missing-remote push failures.
func isNoRemoteOutput(out string) bool {
	lower := strings.ToLower(out)
	return strings.Contains(lower, "no configured push destination") ||
		strings.Contains(lower, "does not appear to be a git repository")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
