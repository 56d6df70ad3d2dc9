// Package git provides the git operations gitdraft depends on.
//
// The workflow orchestrators depend only on the Client interface; the
// exec-based implementation in this package runs the command-line git
// executable rather than a Go git library, which keeps behavior identical
// to whatever git the user has configured (hooks, config, credential
// helpers included).
package git

import "context"

// CommitResult describes a commit created by Commit.
type CommitResult struct {
	Hash         string
	Branch       string
	Subject      string
	FilesChanged int
	Insertions   int
	Deletions    int
	Files        []string
	RootCommit   bool
}

// RepoContext is the repository context gathered for prompt assembly.
type RepoContext struct {
	// Diff is the staged diff text, possibly truncated.
	Diff string
	// RecentCommits holds recent commit subjects, newest first.
	RecentCommits []string
	// Files lists the staged file paths.
	Files []string
}

// Client is the contract between the workflow orchestrators and git.
// Production uses ExecClient; tests substitute a fake.
type Client interface {
	// IsRepository reports whether the working directory is inside a git
	// work tree.
	IsRepository(ctx context.Context) bool

	// StagedFiles returns the authoritative list of staged file paths.
	StagedFiles(ctx context.Context) ([]string, error)

	// UnstagedFiles returns modified and untracked files not yet staged.
	UnstagedFiles(ctx context.Context) ([]string, error)

	// StageFiles stages the given paths.
	StageFiles(ctx context.Context, files []string) error

	// StageAllExcept stages everything except the given pathspec patterns.
	StageAllExcept(ctx context.Context, exclude []string) error

	// Commit creates a commit with the given message and returns a parsed
	// summary of it.
	Commit(ctx context.Context, message string) (*CommitResult, error)

	// Push pushes the current branch. A missing remote is reported by an
	// error matching errors.ErrNoRemote.
	Push(ctx context.Context) error

	// AddRemoteAndPush adds origin with the given URL and pushes with
	// upstream tracking in one step.
	AddRemoteAndPush(ctx context.Context, url string) error

	// FetchRemote fetches the tracking remote.
	FetchRemote(ctx context.Context) error

	// RemoteAheadCount returns how many commits the remote tracking branch
	// is ahead of the local branch.
	RemoteAheadCount(ctx context.Context) (int, error)

	// PullRebase pulls the tracking branch with rebase.
	PullRebase(ctx context.Context) error

	// BranchName returns the current branch name, or an error in detached
	// HEAD or pre-initial-commit states.
	BranchName(ctx context.Context) (string, error)

	// GatherContext collects the staged diff, recent commit subjects, and
	// staged file list for prompt assembly.
	GatherContext(ctx context.Context) (*RepoContext, error)
}
