package attachments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devbot/internal/config"
)

func serveContent(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractPlainText(t *testing.T) {
	srv := serveContent(t, map[string]string{"notes.txt": "hello crew"})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "notes.txt", ContentURL: srv.URL + "/notes.txt"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "File: notes.txt\nhello crew", out[0])
}

func TestExtractTruncatesAtCap(t *testing.T) {
	long := strings.Repeat("x", maxExtractedChars+500)
	srv := serveContent(t, map[string]string{"big.txt": long})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "big.txt", ContentURL: srv.URL + "/big.txt"},
	})
	require.Len(t, out, 1)
	assert.Len(t, []rune(out[0]), maxExtractedChars)
	assert.True(t, strings.HasPrefix(out[0], "File: big.txt\n"))
}

func TestExtractCSVCapsRows(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&sb, "row%d,a,b\n", i)
	}
	srv := serveContent(t, map[string]string{"data.csv": sb.String()})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "data.csv", ContentURL: srv.URL + "/data.csv"},
	})
	require.Len(t, out, 1)
	lines := strings.Split(out[0], "\n")
	// "File: data.csv" header plus at most 50 joined rows.
	assert.Len(t, lines, 1+maxCSVRows)
	assert.Equal(t, "row0, a, b", lines[1])
}

func TestExtractUnsupportedExtension(t *testing.T) {
	srv := serveContent(t, map[string]string{"report.docx": "binary-ish"})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "report.docx", ContentURL: srv.URL + "/report.docx"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "File: report.docx\n"+unsupportedMarker, out[0])
}

func TestExtractFailureIsolatedPerAttachment(t *testing.T) {
	srv := serveContent(t, map[string]string{"ok.txt": "fine"})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "missing.txt", ContentURL: srv.URL + "/missing.txt"},
		{Name: "ok.txt", ContentURL: srv.URL + "/ok.txt"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, errorMarker, out[0])
	assert.Equal(t, "File: ok.txt\nfine", out[1])
}

func TestDownloadRejectsOversizedBody(t *testing.T) {
	// 1 MB cap; serve slightly more than 1 MB.
	srv := serveContent(t, map[string]string{"huge.txt": strings.Repeat("y", 1024*1024+10)})
	ex := NewExtractor(config.Config{AttachmentMaxMB: 1})

	out := ex.ExtractAll(context.Background(), []Attachment{
		{Name: "huge.txt", ContentURL: srv.URL + "/huge.txt"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, errorMarker, out[0])
}
