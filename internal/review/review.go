// Package review asks the hosted model to review or generate code and
// parses its free-text reply into a structured result.
package review

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"devbot/internal/common"
	"devbot/internal/llm"
)

const (
	defaultScore = 5

	unavailableSummary  = "Code review is not available. Configure a model credential to enable it."
	generatePlaceholder = "// Code generation is not configured. Set a model credential to enable it."
)

// Result is a parsed code review.
type Result struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
	Issues      []string `json:"issues"`
	Score       int      `json:"score"`
}

// Service performs review and generation calls against the model provider.
type Service struct {
	provider llm.Provider
	enabled  bool
}

// NewService builds the review service. enabled should be false when code
// review is switched off or no model credential exists.
func NewService(provider llm.Provider, enabled bool) *Service {
	return &Service{provider: provider, enabled: enabled}
}

// Review sends the rubric prompt and parses the reply. Without a usable
// model it returns the fixed unavailable result.
func (s *Service) Review(ctx context.Context, code string) Result {
	logger := common.Logger()
	if s == nil || !s.enabled || s.provider == nil {
		return Result{
			Summary:     unavailableSummary,
			Suggestions: []string{},
			Issues:      []string{},
			Score:       defaultScore,
		}
	}
	prompt := "Review the following code. Consider:\n" +
		"1. Code quality and readability\n" +
		"2. Potential bugs and security problems\n" +
		"3. Performance\n" +
		"4. Maintainability\n\n" +
		"Give a short summary, bullet-pointed findings, and an overall score from 1 to 10.\n\n" +
		"```\n" + code + "\n```"
	reply, err := s.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a senior engineer performing a code review."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		logger.Warn("review: model call failed", "error", err)
		return Result{
			Summary:     "Code review failed.",
			Suggestions: []string{},
			Issues:      []string{},
			Score:       defaultScore,
		}
	}
	return ParseReview(reply)
}

// Generate asks the model for production-ready code for a natural-language
// requirement and returns the raw completion.
func (s *Service) Generate(ctx context.Context, requirement string) string {
	logger := common.Logger()
	if s == nil || s.provider == nil || !s.enabled {
		return generatePlaceholder
	}
	prompt := "Write idiomatic, documented, production-ready code for the following requirement. " +
		"Include brief usage notes.\n\nRequirement: " + requirement
	reply, err := s.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a senior engineer writing production code."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		logger.Warn("review: generation failed", "error", err)
		return generatePlaceholder
	}
	return reply
}

var scorePattern = regexp.MustCompile(`(?i)(?:score|rating)\s*[:=]?\s*(\d+)`)

var issueKeywords = []string{"bug", "error", "issue"}

// ParseReview converts the model's prose into a Result. The first
// non-empty line becomes the summary; bullet lines split into issues and
// suggestions by keyword; the score comes from a score/rating token
// anywhere in the text and is passed through without clamping.
func ParseReview(text string) Result {
	result := Result{
		Suggestions: []string{},
		Issues:      []string{},
		Score:       defaultScore,
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if result.Summary == "" {
			result.Summary = trimmed
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			item := strings.TrimSpace(strings.TrimLeft(trimmed, "-* "))
			if item == "" {
				continue
			}
			if containsAny(strings.ToLower(item), issueKeywords) {
				result.Issues = append(result.Issues, item)
			} else {
				result.Suggestions = append(result.Suggestions, item)
			}
		}
	}
	if match := scorePattern.FindStringSubmatch(text); match != nil {
		if parsed, err := strconv.Atoi(match[1]); err == nil {
			result.Score = parsed
		}
	}
	return result
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
