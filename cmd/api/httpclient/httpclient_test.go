package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/cmd/api/trace"
)

func TestRoundTripPropagatesTraceHeaders(t *testing.T) {
	var gotReq, gotSpan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Header.Get(trace.HeaderRequestID)
		gotSpan = r.Header.Get(trace.HeaderSpanID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx := trace.WithRequest(context.Background(), "req-42")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/videos?key=secret", nil)
	require.NoError(t, err)

	resp, err := New(Config{Timeout: time.Second}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-42", gotReq)
	assert.Equal(t, "1", gotSpan)
	assert.Empty(t, req.Header.Get(trace.HeaderRequestID), "caller's request must not be mutated")
}

func TestRedactURL(t *testing.T) {
	u, _ := url.Parse("https://www.googleapis.com/youtube/v3/videos?id=abc&key=AIzaSecret")
	got := redactURL(u)
	assert.NotContains(t, got, "AIzaSecret")
	assert.Contains(t, got, "key=REDACTED")
	assert.Contains(t, got, "id=abc")

	plain, _ := url.Parse("https://example.com/a?b=c")
	assert.Equal(t, "https://example.com/a?b=c", redactURL(plain))
	assert.Equal(t, "", redactURL(nil))
}
