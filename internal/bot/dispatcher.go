// Package bot routes one inbound message through moderation, attachment
// extraction, intent classification, and exactly one capability, then
// formats the reply. Each message is handled independently and to
// completion; no state is kept across turns.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"devbot/internal/analysis"
	"devbot/internal/attachments"
	"devbot/internal/common"
	"devbot/internal/config"
	"devbot/internal/gitops"
	"devbot/internal/intent"
	"devbot/internal/llm"
	"devbot/internal/moderation"
	"devbot/internal/project"
	"devbot/internal/review"
	"devbot/internal/websearch"
)

// Dispatcher owns the per-message pipeline.
type Dispatcher struct {
	cfg       config.Config
	gate      *moderation.Gate
	extractor *attachments.Extractor
	provider  llm.Provider
	search    *websearch.Client
	reviewer  *review.Service
	analyzer  *analysis.Service
	git       *gitops.Client
	project   *project.Service
}

// Deps bundles the dispatcher's collaborators so tests can substitute
// fakes per concern.
type Deps struct {
	Gate      *moderation.Gate
	Extractor *attachments.Extractor
	Provider  llm.Provider
	Search    *websearch.Client
	Reviewer  *review.Service
	Analyzer  *analysis.Service
	Git       *gitops.Client
	Project   *project.Service
}

func NewDispatcher(cfg config.Config, deps Deps) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		gate:      deps.Gate,
		extractor: deps.Extractor,
		provider:  deps.Provider,
		search:    deps.Search,
		reviewer:  deps.Reviewer,
		analyzer:  deps.Analyzer,
		git:       deps.Git,
		project:   deps.Project,
	}
}

// Handle runs the fixed transition order: moderation, attachments, intent,
// capability, format. Exactly one reply comes back per message.
func (d *Dispatcher) Handle(ctx context.Context, msg IncomingMessage) Reply {
	logger := common.Logger()
	text := msg.Text
	if msg.Value != nil && strings.TrimSpace(msg.Value.Command) != "" {
		// Card action buttons are just pre-filled commands.
		text = msg.Value.Command
	}

	if result := d.gate.Check(ctx, text); result.Flagged {
		logger.Info("bot: message blocked by moderation", "reasons", result.Reasons)
		return Reply{Text: moderationWarning(result.Reasons)}
	}

	if len(msg.Attachments) > 0 {
		parts := d.extractor.ExtractAll(ctx, msg.Attachments)
		return Reply{Text: formatAttachmentReply(parts)}
	}

	label := intent.Classify(text)
	logger.Info("bot: message classified", "intent", string(label))

	switch label {
	case intent.Search:
		return d.handleSearch(ctx, text)
	case intent.Card:
		return Reply{Card: buildCapabilitiesCard()}
	case intent.Summarize:
		return d.handleSummarize(ctx, text)
	case intent.Help:
		return Reply{Text: helpText}
	case intent.CodeReview:
		return d.handleCodeReview(ctx, text)
	case intent.CodeAnalysis:
		return d.handleCodeAnalysis(ctx, text)
	case intent.CodeGenerate:
		return d.handleCodeGenerate(ctx, text)
	case intent.GitStatus:
		return Reply{Text: formatGitStatus(d.git.Status(ctx))}
	case intent.GitCommit:
		return d.handleGitCommit(ctx, text)
	case intent.GitBranch:
		return d.handleGitBranch(ctx, text)
	case intent.ProjectInfo:
		return Reply{Card: buildProjectCard(d.project.Metrics(ctx))}
	case intent.Deployment:
		return Reply{Card: buildDeploymentCard(d.project.ListEnvironments(), d.git.Log(ctx, 5))}
	case intent.Environment:
		return Reply{Card: buildEnvironmentCard(d.project.ListEnvironments())}
	default:
		return d.handleChat(ctx, text)
	}
}

var (
	searchPrefix    = regexp.MustCompile(`(?i)^\s*search(?:\s+for)?\s*`)
	summarizeToken  = regexp.MustCompile(`(?i)\bsummar(?:y|ize)\b(?:\s+of)?`)
	reviewPrefix    = regexp.MustCompile(`(?i)^\s*review code\s*|code review:?\s*`)
	generatePrefix  = regexp.MustCompile(`(?i)^\s*(?:generate|create) code\s*`)
	analyzePrefix   = regexp.MustCompile(`(?i)^\s*analyze\s*`)
	commitPrefix    = regexp.MustCompile(`(?i)^\s*commit\s*`)
	branchPrefix    = regexp.MustCompile(`(?i)^\s*branch\s*`)
	fencedCodeBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\n?(.*?)```")
)

func (d *Dispatcher) handleSearch(ctx context.Context, text string) Reply {
	query := strings.TrimSpace(searchPrefix.ReplaceAllString(text, ""))
	if query == "" {
		return Reply{Text: "What should I search for?"}
	}
	results := d.search.Search(ctx, query, 5)
	if len(results) == 0 {
		return Reply{Text: noSearchResultsText}
	}
	return Reply{Card: buildSearchCard(query, results)}
}

// handleSummarize searches for the topic, asks the model for an objective
// summary with bracketed numeric citations, and appends a Sources block in
// the original result order. Zero results: the model answer is returned
// unmodified.
func (d *Dispatcher) handleSummarize(ctx context.Context, text string) Reply {
	topic := strings.TrimSpace(summarizeToken.ReplaceAllString(text, ""))
	if topic == "" {
		topic = text
	}
	results := d.search.Search(ctx, topic, 3)

	var prompt strings.Builder
	prompt.WriteString("Write an objective summary of the topic below.")
	if len(results) > 0 {
		prompt.WriteString(" Cite the numbered sources inline with bracketed numbers like [1].")
	}
	prompt.WriteString("\n\nTopic: " + topic + "\n")
	for i, r := range results {
		prompt.WriteString(fmt.Sprintf("\n[%d] %s\n%s\n", i+1, r.Title, r.Snippet))
	}

	answer, err := d.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a precise research assistant."},
		{Role: "user", Content: prompt.String()},
	})
	if err != nil {
		common.Logger().Warn("bot: summarize failed", "error", err)
		return Reply{Text: "I could not produce a summary right now."}
	}
	if len(results) == 0 {
		return Reply{Text: answer}
	}
	var sources strings.Builder
	sources.WriteString("\n\nSources:\n")
	for i, r := range results {
		sources.WriteString(fmt.Sprintf("[%d] %s - %s\n", i+1, r.Title, r.URL))
	}
	return Reply{Text: answer + strings.TrimRight(sources.String(), "\n")}
}

func (d *Dispatcher) handleCodeReview(ctx context.Context, text string) Reply {
	code := extractCode(text)
	if code == "" {
		return Reply{Text: "Paste the code you want reviewed after `review code`."}
	}
	return Reply{Text: formatReview(d.reviewer.Review(ctx, code))}
}

func (d *Dispatcher) handleCodeAnalysis(ctx context.Context, text string) Reply {
	pattern := strings.TrimSpace(analyzePrefix.ReplaceAllString(text, ""))
	if pattern == "" {
		pattern = "**/*.go"
	}
	return Reply{Text: formatAnalysis(d.analyzer.AnalyzeBatch(ctx, pattern))}
}

func (d *Dispatcher) handleCodeGenerate(ctx context.Context, text string) Reply {
	requirement := strings.TrimSpace(generatePrefix.ReplaceAllString(text, ""))
	if requirement == "" {
		return Reply{Text: "Describe what the code should do after `generate code`."}
	}
	return Reply{Text: d.reviewer.Generate(ctx, requirement)}
}

func (d *Dispatcher) handleGitCommit(ctx context.Context, text string) Reply {
	message := strings.TrimSpace(commitPrefix.ReplaceAllString(text, ""))
	if message == "" {
		return Reply{Text: "Give the commit a message: `commit <message>`."}
	}
	if d.git.CommitChanges(ctx, nil, message) {
		return Reply{Text: fmt.Sprintf("Committed: %s", message)}
	}
	return Reply{Text: "Commit failed. Is there anything to commit?"}
}

func (d *Dispatcher) handleGitBranch(ctx context.Context, text string) Reply {
	name := strings.TrimSpace(branchPrefix.ReplaceAllString(text, ""))
	if name == "" {
		return Reply{Text: "Give the branch a name: `branch <name>`."}
	}
	if d.git.CreateBranch(ctx, name) {
		return Reply{Text: fmt.Sprintf("Created and switched to branch %s", name)}
	}
	return Reply{Text: fmt.Sprintf("Could not create branch %s.", name)}
}

func (d *Dispatcher) handleChat(ctx context.Context, text string) Reply {
	answer, err := d.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are DevBot, a concise assistant for software teams. Use Markdown sparingly."},
		{Role: "user", Content: text},
	})
	if err != nil {
		common.Logger().Warn("bot: chat fallback failed", "error", err)
		return Reply{Text: "I could not reach the assistant right now. Try `help` for built-in commands."}
	}
	return Reply{Text: answer}
}

// extractCode prefers a fenced code block; otherwise it strips the command
// prefix and uses the remainder.
func extractCode(text string) string {
	if match := fencedCodeBlock.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(reviewPrefix.ReplaceAllString(text, ""))
}
