// Package intent maps free-text input to the capability that handles it.
//
// Classification is an explicit ordered list of regex predicates where the
// first match wins. The ordering is part of the observable contract: a
// message containing both "search" and "card" classifies as search because
// the search rule comes first.
package intent

import "regexp"

// Intent is the label a message is classified into.
type Intent string

const (
	Search       Intent = "search"
	Card         Intent = "card"
	Summarize    Intent = "summarize"
	Help         Intent = "help"
	CodeReview   Intent = "code_review"
	CodeAnalysis Intent = "code_analysis"
	CodeGenerate Intent = "code_generate"
	GitStatus    Intent = "git_status"
	GitCommit    Intent = "git_commit"
	GitBranch    Intent = "git_branch"
	ProjectInfo  Intent = "project_info"
	Deployment   Intent = "deployment"
	Environment  Intent = "environment"
	Chat         Intent = "chat"
)

type rule struct {
	pattern *regexp.Regexp
	label   Intent
}

// rules are evaluated top to bottom; do not reorder.
var rules = []rule{
	{regexp.MustCompile(`(?i)^\s*search`), Search},
	{regexp.MustCompile(`(?i)\bcard\b|^\s*generate card`), Card},
	{regexp.MustCompile(`(?i)summary|summarize`), Summarize},
	{regexp.MustCompile(`(?i)help|commands`), Help},
	{regexp.MustCompile(`(?i)^\s*review code|code review`), CodeReview},
	{regexp.MustCompile(`(?i)^\s*analyze|analysis`), CodeAnalysis},
	{regexp.MustCompile(`(?i)^\s*(?:generate code|create code)`), CodeGenerate},
	{regexp.MustCompile(`(?i)^\s*(?:git status|status)`), GitStatus},
	{regexp.MustCompile(`(?i)^\s*commit`), GitCommit},
	{regexp.MustCompile(`(?i)^\s*branch`), GitBranch},
	{regexp.MustCompile(`(?i)^\s*(?:project|dashboard)`), ProjectInfo},
	{regexp.MustCompile(`(?i)^\s*deploy(?:ment)?`), Deployment},
	{regexp.MustCompile(`(?i)^\s*env(?:ironment)?`), Environment},
}

// Classify returns the first matching intent, or Chat when nothing matches.
func Classify(text string) Intent {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.label
		}
	}
	return Chat
}
