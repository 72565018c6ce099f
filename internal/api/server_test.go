package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devbot/internal/analysis"
	"devbot/internal/attachments"
	"devbot/internal/bot"
	"devbot/internal/config"
	"devbot/internal/gitops"
	"devbot/internal/llm"
	"devbot/internal/moderation"
	"devbot/internal/project"
	"devbot/internal/review"
	"devbot/internal/websearch"
)

type mockProvider struct {
	reply     string
	chatCalls int
}

func (m *mockProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	m.chatCalls++
	if m.reply == "" {
		return "mock-response", nil
	}
	return m.reply, nil
}

func (m *mockProvider) Name() string { return "mock" }

func newTestServer(t *testing.T, provider *mockProvider) *Server {
	t.Helper()
	cfg := config.Config{ModerationEnabled: true, ProjectRoot: t.TempDir()}
	git := gitops.NewClient(cfg)
	dispatcher := bot.NewDispatcher(cfg, bot.Deps{
		Gate:      moderation.NewGate(cfg),
		Extractor: attachments.NewExtractor(cfg),
		Provider:  provider,
		Search:    websearch.NewClient(cfg),
		Reviewer:  review.NewService(provider, false),
		Analyzer:  analysis.NewService(cfg),
		Git:       git,
		Project:   project.NewService(cfg, git),
	})
	srv, err := NewServer(dispatcher)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func postActivity(t *testing.T, srv *Server, body string) (*httptest.ResponseRecorder, replyActivity) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	var reply replyActivity
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
			t.Fatalf("decode reply: %v", err)
		}
	}
	return rec, reply
}

func TestMessagesHelp(t *testing.T) {
	provider := &mockProvider{}
	srv := newTestServer(t, provider)

	rec, reply := postActivity(t, srv, `{"type":"message","text":"help"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(reply.Text, "Here is what I can do") {
		t.Fatalf("expected help text, got %q", reply.Text)
	}
	if provider.chatCalls != 0 {
		t.Fatalf("help must not call the model, saw %d calls", provider.chatCalls)
	}
}

func TestMessagesSearchWithoutKey(t *testing.T) {
	provider := &mockProvider{}
	srv := newTestServer(t, provider)

	rec, reply := postActivity(t, srv, `{"type":"message","text":"search typescript"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(reply.Text, "No results found") {
		t.Fatalf("expected no-results message, got %q", reply.Text)
	}
	if provider.chatCalls != 0 {
		t.Fatalf("model must not be called, saw %d calls", provider.chatCalls)
	}
}

func TestMessagesCardPayloadShape(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})

	rec, reply := postActivity(t, srv, `{"type":"message","text":"card"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(reply.Attachments) != 1 {
		t.Fatalf("expected one card attachment, got %d", len(reply.Attachments))
	}
	att := reply.Attachments[0]
	if att.ContentType != adaptiveCardContentType {
		t.Fatalf("unexpected content type %q", att.ContentType)
	}
	if att.Content.Type != "AdaptiveCard" || att.Content.Version != "1.5" {
		t.Fatalf("unexpected card envelope %+v", att.Content)
	}
	if len(att.Content.Actions) == 0 {
		t.Fatalf("expected quick actions on the capabilities card")
	}
}

func TestMessagesCardSubmitRoundTrip(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})

	_, reply := postActivity(t, srv, `{"type":"message","value":{"command":"help"}}`)
	if !strings.Contains(reply.Text, "Here is what I can do") {
		t.Fatalf("submit command should re-enter the dispatcher, got %q", reply.Text)
	}
}

func TestMessagesRejectsEmptyActivity(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rec, _ := postActivity(t, srv, `{"type":"message"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}
