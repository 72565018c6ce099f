package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devbot/internal/config"
)

func TestSearchWithoutCredential(t *testing.T) {
	client := NewClient(config.Config{})
	results := client.Search(context.Background(), "golang", 5)
	assert.Empty(t, results)
}

func TestSearchMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		fmt.Fprint(w, `{"web":{"results":[
			{"title":"Go","url":"https://go.dev","description":"The Go programming language"},
			{"title":"Tour","url":"https://go.dev/tour","description":"A Tour of Go"}
		]}}`)
	}))
	defer srv.Close()

	client := NewClient(config.Config{SearchKey: "secret", SearchEndpoint: srv.URL})
	results := client.Search(context.Background(), "golang", 2)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Title: "Go", URL: "https://go.dev", Snippet: "The Go programming language"}, results[0])
	assert.Equal(t, "A Tour of Go", results[1].Snippet)
}

func TestSearchFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(config.Config{SearchKey: "secret", SearchEndpoint: srv.URL})
	results := client.Search(context.Background(), "golang", 5)
	assert.Empty(t, results)
}
