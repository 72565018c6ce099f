// Package config builds the process configuration from the environment.
// The resulting value is constructed once in main and passed into every
// constructor so tests can substitute their own.
package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultChatModel       = "gpt-4o"
	defaultAttachmentMaxMB = 10
)

// Config holds every recognized configuration option.
type Config struct {
	Addr string

	// Hosted chat-completion model.
	OpenAIKey      string
	OpenAIEndpoint string
	ChatModel      string

	// Hosted moderation service.
	ModerationEnabled bool
	ModerationKey     string

	// Hosted web-search service.
	SearchKey      string
	SearchEndpoint string

	// Attachments.
	AttachmentMaxMB int

	// Code review / analysis.
	CodeReviewEnabled bool
	LintCommand       string

	// Source control and project inspection.
	GitToken    string
	ProjectRoot string
	CurrentEnv  string
}

// Load reads the configuration from the environment. Missing optional
// credentials are left empty; the owning capability degrades instead of
// failing at startup.
func Load() Config {
	cfg := Config{
		Addr:              envOr("DEVBOT_ADDR", ":8080"),
		OpenAIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIEndpoint:    strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")),
		ChatModel:         envOr("OPENAI_CHAT_MODEL", defaultChatModel),
		ModerationEnabled: envBool("DEVBOT_MODERATION_ENABLED", true),
		ModerationKey:     strings.TrimSpace(os.Getenv("DEVBOT_MODERATION_KEY")),
		SearchKey:         strings.TrimSpace(os.Getenv("DEVBOT_SEARCH_KEY")),
		SearchEndpoint:    strings.TrimSpace(os.Getenv("DEVBOT_SEARCH_ENDPOINT")),
		AttachmentMaxMB:   envInt("DEVBOT_ATTACHMENT_MAX_MB", defaultAttachmentMaxMB),
		CodeReviewEnabled: envBool("DEVBOT_CODE_REVIEW_ENABLED", true),
		LintCommand:       strings.TrimSpace(os.Getenv("DEVBOT_LINT_CMD")),
		GitToken:          strings.TrimSpace(os.Getenv("DEVBOT_GIT_TOKEN")),
		ProjectRoot:       envOr("DEVBOT_PROJECT_ROOT", "."),
		CurrentEnv:        strings.TrimSpace(os.Getenv("DEVBOT_CURRENT_ENV")),
	}
	return cfg
}

// ModelConfigured reports whether a hosted-model credential is present.
func (c Config) ModelConfigured() bool {
	return c.OpenAIKey != ""
}

// SearchConfigured reports whether a web-search credential is present.
func (c Config) SearchConfigured() bool {
	return c.SearchKey != ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
