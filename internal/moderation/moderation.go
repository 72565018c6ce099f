// Package moderation implements the pre-dispatch content gate. A flagged
// message aborts handling before any capability runs.
package moderation

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"devbot/internal/common"
	"devbot/internal/config"
)

// bannedKeywords short-circuit the hosted check. Matching is
// case-insensitive substring.
var bannedKeywords = []string{
	"kys",
	"kill yourself",
	"nsfw",
}

// Result is the outcome of one moderation pass.
type Result struct {
	Flagged bool     `json:"flagged"`
	Reasons []string `json:"reasons"`
}

// Gate checks inbound text before dispatch.
type Gate struct {
	enabled bool
	client  *openai.Client
}

// NewGate builds the gate. The hosted moderation client is only created
// when a moderation credential is configured.
func NewGate(cfg config.Config) *Gate {
	g := &Gate{enabled: cfg.ModerationEnabled}
	if !cfg.ModerationEnabled {
		return g
	}
	if cfg.ModerationKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(cfg.ModerationKey)}
		if cfg.OpenAIEndpoint != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIEndpoint))
		}
		client := openai.NewClient(opts...)
		g.client = &client
	}
	return g
}

// Check classifies text. Keyword matches win immediately; the hosted
// service only runs when no keyword matched and a credential exists. A
// failed hosted call fails open.
func (g *Gate) Check(ctx context.Context, text string) Result {
	if g == nil || !g.enabled {
		return Result{Flagged: false, Reasons: []string{}}
	}
	lowered := strings.ToLower(text)
	for _, keyword := range bannedKeywords {
		if strings.Contains(lowered, keyword) {
			return Result{Flagged: true, Reasons: []string{"keyword"}}
		}
	}
	if g.client == nil {
		return Result{Flagged: false, Reasons: []string{}}
	}
	resp, err := g.client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		common.Logger().Warn("moderation: hosted check failed, failing open", "error", err)
		return Result{Flagged: false, Reasons: []string{}}
	}
	if len(resp.Results) == 0 || !resp.Results[0].Flagged {
		return Result{Flagged: false, Reasons: []string{}}
	}
	return Result{Flagged: true, Reasons: categoryNames(resp.Results[0].Categories)}
}

func categoryNames(categories openai.ModerationCategories) []string {
	var names []string
	for _, c := range []struct {
		name    string
		flagged bool
	}{
		{"harassment", categories.Harassment},
		{"harassment/threatening", categories.HarassmentThreatening},
		{"hate", categories.Hate},
		{"hate/threatening", categories.HateThreatening},
		{"illicit", categories.Illicit},
		{"illicit/violent", categories.IllicitViolent},
		{"self-harm", categories.SelfHarm},
		{"self-harm/instructions", categories.SelfHarmInstructions},
		{"self-harm/intent", categories.SelfHarmIntent},
		{"sexual", categories.Sexual},
		{"sexual/minors", categories.SexualMinors},
		{"violence", categories.Violence},
		{"violence/graphic", categories.ViolenceGraphic},
	} {
		if c.flagged {
			names = append(names, c.name)
		}
	}
	return names
}
