// Package analysis runs a lint pass plus lightweight complexity heuristics
// over project files.
package analysis

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"devbot/internal/common"
	"devbot/internal/config"
)

// maxBatchFiles caps how many glob matches are analyzed per request.
const maxBatchFiles = 3

// Issue is one lint finding.
type Issue struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Rule     string `json:"rule,omitempty"`
}

// Metrics are the per-file size/complexity heuristics.
type Metrics struct {
	Lines      int `json:"lines"`
	Functions  int `json:"functions"`
	Complexity int `json:"complexity"`
}

// FileReport combines lint findings and metrics for one file.
type FileReport struct {
	FilePath string  `json:"filePath"`
	Issues   []Issue `json:"issues"`
	Metrics  Metrics `json:"metrics"`
}

// Service resolves globs and analyzes files under the project root.
type Service struct {
	root    string
	lintCmd string
}

func NewService(cfg config.Config) *Service {
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	return &Service{root: root, lintCmd: cfg.LintCommand}
}

// FindFiles resolves a glob-style pattern against the project root,
// returning matching relative paths or an empty list on error.
func (s *Service) FindFiles(pattern string) []string {
	matches, err := doublestar.Glob(os.DirFS(s.root), pattern)
	if err != nil {
		common.Logger().Warn("analysis: glob failed", "pattern", pattern, "error", err)
		return nil
	}
	var files []string
	for _, match := range matches {
		info, err := fs.Stat(os.DirFS(s.root), match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	return files
}

// AnalyzeBatch analyzes at most maxBatchFiles of the pattern's matches.
func (s *Service) AnalyzeBatch(ctx context.Context, pattern string) []FileReport {
	files := s.FindFiles(pattern)
	if len(files) > maxBatchFiles {
		files = files[:maxBatchFiles]
	}
	reports := make([]FileReport, 0, len(files))
	for _, file := range files {
		reports = append(reports, s.AnalyzeFile(ctx, file))
	}
	return reports
}

// AnalyzeFile lints one file and computes its metrics. Lint failures
// degrade to an empty finding list.
func (s *Service) AnalyzeFile(ctx context.Context, relPath string) FileReport {
	report := FileReport{FilePath: relPath, Issues: []Issue{}}
	content, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		common.Logger().Warn("analysis: read failed", "file", relPath, "error", err)
		return report
	}
	report.Metrics = computeMetrics(string(content))
	report.Issues = s.lint(ctx, relPath)
	return report
}

// lintLinePattern matches the common "file:line:col: message (rule)" lint
// output shape.
var lintLinePattern = regexp.MustCompile(`^(.+?):(\d+):(\d+):?\s*(?:(error|warning|info):\s*)?(.*?)(?:\s+\(([\w./-]+)\))?$`)

func (s *Service) lint(ctx context.Context, relPath string) []Issue {
	if s.lintCmd == "" {
		return []Issue{}
	}
	logger := common.Logger()
	parts := strings.Fields(s.lintCmd)
	args := append(parts[1:], relPath)
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Dir = s.root
	// Linters conventionally exit non-zero when findings exist, so the
	// output is parsed regardless of the exit status.
	output, err := cmd.Output()
	if err != nil && len(output) == 0 {
		if exitErr, ok := err.(*exec.ExitError); ok {
			output = exitErr.Stderr
		}
	}
	if len(output) == 0 {
		if err != nil {
			logger.Warn("analysis: lint command failed", "file", relPath, "error", err)
		}
		return []Issue{}
	}
	issues := []Issue{}
	for _, line := range strings.Split(string(output), "\n") {
		match := lintLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(match[2])
		colNum, _ := strconv.Atoi(match[3])
		severity := match[4]
		if severity == "" {
			severity = "warning"
		}
		issues = append(issues, Issue{
			Line:     lineNum,
			Column:   colNum,
			Severity: severity,
			Message:  strings.TrimSpace(match[5]),
			Rule:     match[6],
		})
	}
	return issues
}

var (
	functionPattern   = regexp.MustCompile(`\bfunc\b|\bfunction\b|\bdef\b|=>`)
	complexityPattern = regexp.MustCompile(`\bif\b|\belse\b|\bfor\b|\bwhile\b|\bswitch\b|\bcatch\b|&&|\|\|`)
)

func computeMetrics(content string) Metrics {
	lines := strings.Count(content, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		lines++
	}
	return Metrics{
		Lines:      lines,
		Functions:  len(functionPattern.FindAllString(content, -1)),
		Complexity: 1 + len(complexityPattern.FindAllString(content, -1)),
	}
}
