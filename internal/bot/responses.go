package bot

import (
	"fmt"
	"strings"

	"devbot/internal/analysis"
	"devbot/internal/gitops"
	"devbot/internal/review"
)

const helpText = `Here is what I can do:

- ` + "`search <query>`" + ` - search the web and show cited results
- ` + "`summarize <topic>`" + ` - search and summarize with sources
- ` + "`review code <code>`" + ` - review a code snippet
- ` + "`generate code <requirement>`" + ` - write code for a requirement
- ` + "`analyze <glob>`" + ` - lint and measure matching files (first 3)
- ` + "`git status`" + ` - show branch and working-tree state
- ` + "`commit <message>`" + ` - stage everything and commit
- ` + "`branch <name>`" + ` - create and switch to a branch
- ` + "`project`" + ` - show the project dashboard
- ` + "`deploy`" + ` - show the deployment overview
- ` + "`environment`" + ` - list configured environments
- ` + "`card`" + ` - show the quick-action card

Anything else is answered by the assistant directly.`

const noSearchResultsText = "No results found. The search service may be unavailable or missing an API key."

func moderationWarning(reasons []string) string {
	if len(reasons) == 0 {
		return "This message was blocked by the moderation policy."
	}
	return fmt.Sprintf("This message was blocked by the moderation policy (%s). Please rephrase and try again.",
		strings.Join(reasons, ", "))
}

func formatAttachmentReply(parts []string) string {
	return fmt.Sprintf("Processed %d file(s)...\n\n%s", len(parts), strings.Join(parts, "\n---\n"))
}

func formatReview(result review.Result) string {
	var sb strings.Builder
	sb.WriteString(result.Summary)
	sb.WriteString(fmt.Sprintf("\n\nScore: %d/10\n", result.Score))
	if len(result.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		for _, issue := range result.Issues {
			sb.WriteString("- " + issue + "\n")
		}
	}
	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, suggestion := range result.Suggestions {
			sb.WriteString("- " + suggestion + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatAnalysis(reports []analysis.FileReport) string {
	if len(reports) == 0 {
		return "No files matched the pattern."
	}
	var sb strings.Builder
	for _, report := range reports {
		sb.WriteString(fmt.Sprintf("%s: %d lines, %d functions, complexity %d\n",
			report.FilePath, report.Metrics.Lines, report.Metrics.Functions, report.Metrics.Complexity))
		for _, issue := range report.Issues {
			rule := ""
			if issue.Rule != "" {
				rule = " (" + issue.Rule + ")"
			}
			sb.WriteString(fmt.Sprintf("  %d:%d %s: %s%s\n", issue.Line, issue.Column, issue.Severity, issue.Message, rule))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatGitStatus(status gitops.Status) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("On branch %s", status.CurrentBranch))
	if status.Ahead > 0 || status.Behind > 0 {
		sb.WriteString(fmt.Sprintf(" (ahead %d, behind %d)", status.Ahead, status.Behind))
	}
	sb.WriteString("\n")
	if len(status.Files) == 0 {
		sb.WriteString("Working tree clean.")
		return sb.String()
	}
	for _, file := range status.Files {
		marker := " "
		if file.Staged {
			marker = "+"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", marker, file.Status, file.Path))
	}
	return strings.TrimRight(sb.String(), "\n")
}
