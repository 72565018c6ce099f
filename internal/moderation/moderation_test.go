package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"devbot/internal/config"
)

func TestCheckKeywordMatch(t *testing.T) {
	gate := NewGate(config.Config{ModerationEnabled: true})
	cases := []string{
		"kys",
		"please KYS now",
		"this is NSFW content",
		"Kill Yourself",
	}
	for _, text := range cases {
		result := gate.Check(context.Background(), text)
		assert.True(t, result.Flagged, "expected %q to be flagged", text)
		assert.Equal(t, []string{"keyword"}, result.Reasons)
	}
}

func TestCheckKeywordMatchIgnoresHostedCredential(t *testing.T) {
	// A keyword hit must short-circuit before the hosted service is
	// consulted; a bogus credential would otherwise fail the call.
	gate := NewGate(config.Config{ModerationEnabled: true, ModerationKey: "not-a-real-key"})
	result := gate.Check(context.Background(), "utterly nsfw")
	assert.True(t, result.Flagged)
	assert.Equal(t, []string{"keyword"}, result.Reasons)
}

func TestCheckDisabled(t *testing.T) {
	gate := NewGate(config.Config{ModerationEnabled: false})
	result := gate.Check(context.Background(), "kys")
	assert.False(t, result.Flagged)
	assert.Empty(t, result.Reasons)
}

func TestCheckCleanTextWithoutCredential(t *testing.T) {
	gate := NewGate(config.Config{ModerationEnabled: true})
	result := gate.Check(context.Background(), "how do I write a goroutine?")
	assert.False(t, result.Flagged)
	assert.Empty(t, result.Reasons)
}
