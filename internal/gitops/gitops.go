// Package gitops wraps the git binary for the working tree rooted at the
// configured project path. Every operation fails soft: errors are logged
// and converted to empty/false/default results, never propagated.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"devbot/internal/common"
	"devbot/internal/config"
)

// FileStatus is one entry from the working-tree status.
type FileStatus struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Staged bool   `json:"staged"`
}

// Status describes the working tree relative to its upstream.
type Status struct {
	CurrentBranch string       `json:"currentBranch"`
	Files         []FileStatus `json:"files"`
	Ahead         int          `json:"ahead"`
	Behind        int          `json:"behind"`
}

// Commit is one entry from the history log.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Client runs git commands against one working tree.
type Client struct {
	root  string
	token string
}

func NewClient(cfg config.Config) *Client {
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	return &Client{root: root, token: cfg.GitToken}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.root
	if c.token != "" {
		cmd.Env = append(os.Environ(), "GIT_ACCESS_TOKEN="+c.token)
	}
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimRight(string(output), "\n"), nil
}

// Status returns the working-tree state. On any failure it returns the
// documented default: branch "unknown", no files, zero ahead/behind.
func (c *Client) Status(ctx context.Context) Status {
	logger := common.Logger()
	status := Status{CurrentBranch: "unknown", Files: []FileStatus{}}

	branch, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		logger.Warn("gitops: status failed", "error", err)
		return status
	}
	status.CurrentBranch = branch

	porcelain, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		logger.Warn("gitops: porcelain status failed", "error", err)
		return status
	}
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 4 {
			continue
		}
		index, worktree := line[0], line[1]
		status.Files = append(status.Files, FileStatus{
			Path:   strings.TrimSpace(line[3:]),
			Status: statusLabel(index, worktree),
			Staged: index != ' ' && index != '?',
		})
	}

	// No upstream is common for fresh branches; ahead/behind stay zero.
	if counts, err := c.run(ctx, "rev-list", "--left-right", "--count", "@{upstream}...HEAD"); err == nil {
		fields := strings.Fields(counts)
		if len(fields) == 2 {
			status.Behind, _ = strconv.Atoi(fields[0])
			status.Ahead, _ = strconv.Atoi(fields[1])
		}
	}
	return status
}

func statusLabel(index, worktree byte) string {
	code := worktree
	if code == ' ' {
		code = index
	}
	switch code {
	case 'M':
		return "modified"
	case 'A':
		return "added"
	case 'D':
		return "deleted"
	case 'R':
		return "renamed"
	case '?':
		return "untracked"
	default:
		return string(code)
	}
}

// CommitChanges stages the given files (or everything when none are given)
// and commits with the message. Returns false on any failure.
func (c *Client) CommitChanges(ctx context.Context, files []string, message string) bool {
	logger := common.Logger()
	addArgs := []string{"add"}
	if len(files) == 0 {
		addArgs = append(addArgs, "-A")
	} else {
		addArgs = append(addArgs, files...)
	}
	if _, err := c.run(ctx, addArgs...); err != nil {
		logger.Warn("gitops: stage failed", "error", err)
		return false
	}
	if _, err := c.run(ctx, "commit", "-m", message); err != nil {
		logger.Warn("gitops: commit failed", "error", err)
		return false
	}
	return true
}

// CreateBranch checks out a new local branch. Returns false on failure.
func (c *Client) CreateBranch(ctx context.Context, name string) bool {
	if _, err := c.run(ctx, "checkout", "-b", name); err != nil {
		common.Logger().Warn("gitops: branch creation failed", "branch", name, "error", err)
		return false
	}
	return true
}

// Log returns the n most recent commits with hashes truncated to 8
// characters, or an empty list on failure.
func (c *Client) Log(ctx context.Context, n int) []Commit {
	if n <= 0 {
		n = 10
	}
	output, err := c.run(ctx, "log", fmt.Sprintf("-n%d", n), "--pretty=format:%H|%an|%ad|%s", "--date=short")
	if err != nil {
		common.Logger().Warn("gitops: log failed", "error", err)
		return []Commit{}
	}
	commits := []Commit{}
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		hash := parts[0]
		if len(hash) > 8 {
			hash = hash[:8]
		}
		commits = append(commits, Commit{Hash: hash, Author: parts[1], Date: parts[2], Message: parts[3]})
	}
	return commits
}
