// Package project derives repository-wide metrics and environment
// listings from the working tree.
package project

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devbot/internal/common"
	"devbot/internal/config"
	"devbot/internal/gitops"
)

// sourceExtensions is the allow-list of extensions counted by the walk.
var sourceExtensions = map[string]bool{
	".go":   true,
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".py":   true,
	".java": true,
	".cs":   true,
	".rb":   true,
	".json": true,
	".md":   true,
}

// skippedDirs are never descended into during the walk.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// Metrics summarizes the project tree and its recent history.
type Metrics struct {
	TotalFiles      int            `json:"totalFiles"`
	TotalLines      int            `json:"totalLines"`
	Languages       map[string]int `json:"languages"`
	LastCommit      string         `json:"lastCommit"`
	Contributors    []string       `json:"contributors"`
	Dependencies    int            `json:"dependencies"`
	DevDependencies int            `json:"devDependencies"`
}

// Environment is one .env.<name> file found in the project root.
type Environment struct {
	Name      string            `json:"name"`
	Variables map[string]string `json:"variables"`
	IsActive  bool              `json:"isActive"`
}

// Service inspects the configured project root.
type Service struct {
	root       string
	currentEnv string
	git        *gitops.Client
}

func NewService(cfg config.Config, git *gitops.Client) *Service {
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	return &Service{root: root, currentEnv: cfg.CurrentEnv, git: git}
}

// Metrics walks the tree and queries git history. Every stage degrades to
// zero/empty values on failure instead of propagating.
func (s *Service) Metrics(ctx context.Context) Metrics {
	logger := common.Logger()
	metrics := Metrics{Languages: map[string]int{}, Contributors: []string{}}

	metrics.Dependencies, metrics.DevDependencies = s.readPackageJSON()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// One unreadable entry does not abort the walk.
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !sourceExtensions[ext] {
			return nil
		}
		metrics.TotalFiles++
		metrics.Languages[ext]++
		if data, readErr := os.ReadFile(path); readErr == nil {
			metrics.TotalLines += countLines(data)
		}
		return nil
	})
	if err != nil {
		logger.Warn("project: tree walk failed", "error", err)
	}

	if s.git != nil {
		commits := s.git.Log(ctx, 20)
		if len(commits) > 0 {
			metrics.LastCommit = commits[0].Message
		}
		seen := map[string]bool{}
		for _, commit := range commits {
			if commit.Author != "" && !seen[commit.Author] {
				seen[commit.Author] = true
				metrics.Contributors = append(metrics.Contributors, commit.Author)
			}
		}
	}
	return metrics
}

func (s *Service) readPackageJSON() (deps, devDeps int) {
	data, err := os.ReadFile(filepath.Join(s.root, "package.json"))
	if err != nil {
		return 0, 0
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		common.Logger().Warn("project: invalid package.json", "error", err)
		return 0, 0
	}
	return len(manifest.Dependencies), len(manifest.DevDependencies)
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	lines := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}

// ListEnvironments scans the project root for .env.<name> files. At most
// the environment whose name equals the configured current environment is
// marked active.
func (s *Service) ListEnvironments() []Environment {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		common.Logger().Warn("project: environment scan failed", "error", err)
		return []Environment{}
	}
	envs := []Environment{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), ".env.") {
			continue
		}
		name := strings.TrimPrefix(entry.Name(), ".env.")
		if name == "" {
			continue
		}
		vars, err := parseEnvFile(filepath.Join(s.root, entry.Name()))
		if err != nil {
			common.Logger().Warn("project: environment file unreadable", "file", entry.Name(), "error", err)
			continue
		}
		envs = append(envs, Environment{
			Name:      name,
			Variables: vars,
			IsActive:  s.currentEnv != "" && name == s.currentEnv,
		})
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs
}

func parseEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return vars, nil
}
