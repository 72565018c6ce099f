package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"devbot/internal/llm"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func TestParseReview(t *testing.T) {
	text := "The code is mostly solid.\n" +
		"\n" +
		"- Potential bug: nil map write in cache path\n" +
		"- Consider extracting the retry loop\n" +
		"* Error handling swallows the root cause\n" +
		"* Add doc comments to exported functions\n" +
		"\n" +
		"Score: 7/10"
	result := ParseReview(text)
	assert.Equal(t, "The code is mostly solid.", result.Summary)
	assert.Equal(t, []string{
		"Potential bug: nil map write in cache path",
		"Error handling swallows the root cause",
	}, result.Issues)
	assert.Equal(t, []string{
		"Consider extracting the retry loop",
		"Add doc comments to exported functions",
	}, result.Suggestions)
	assert.Equal(t, 7, result.Score)
}

func TestParseReviewRatingToken(t *testing.T) {
	result := ParseReview("Looks fine overall.\nRating: 8")
	assert.Equal(t, 8, result.Score)
}

func TestParseReviewDefaultScore(t *testing.T) {
	result := ParseReview("No numeric verdict here.\n- Tidy the imports")
	assert.Equal(t, defaultScore, result.Score)
}

func TestParseReviewScoreNotClamped(t *testing.T) {
	// Out-of-range scores pass through verbatim.
	result := ParseReview("Rating: 97")
	assert.Equal(t, 97, result.Score)
}

func TestReviewUnavailable(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, false)
	result := svc.Review(context.Background(), "func main() {}")
	assert.Equal(t, unavailableSummary, result.Summary)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, defaultScore, result.Score)
	assert.Zero(t, provider.calls, "model must not be called when review is unavailable")
}

func TestReviewModelFailureDegrades(t *testing.T) {
	svc := NewService(&stubProvider{err: errors.New("boom")}, true)
	result := svc.Review(context.Background(), "func main() {}")
	assert.Equal(t, defaultScore, result.Score)
	assert.Empty(t, result.Issues)
}

func TestGeneratePlaceholderWithoutModel(t *testing.T) {
	svc := NewService(nil, false)
	assert.Equal(t, generatePlaceholder, svc.Generate(context.Background(), "a queue"))
}

func TestGenerateReturnsRawCompletion(t *testing.T) {
	svc := NewService(&stubProvider{reply: "package queue\n..."}, true)
	assert.Equal(t, "package queue\n...", svc.Generate(context.Background(), "a queue"))
}
