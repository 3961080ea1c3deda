package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCounters_HandlerReportsIncrements(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewCounters(rdb)
	ctx := context.Background()
	c.Inc(ctx, AnalysesStarted)
	c.Inc(ctx, AnalysesStarted)
	c.Add(ctx, InvalidCommentsDropped, 7)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "ytinsight_analyses_started_total 2\n")
	assert.Contains(t, body, "ytinsight_invalid_comments_dropped_total 7\n")
	assert.Contains(t, body, "ytinsight_analyses_failed_total 0\n")
	assert.Contains(t, body, "# TYPE ytinsight_credits_deducted_total counter")
}

func TestCounters_HandlerReportsGauges(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	remaining := int64(12)
	c := NewCounters(rdb)
	c.Gauge(GenerationQuotaRemaining, "Model calls left today.", func() int64 { return remaining })

	serve := func() string {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return rec.Body.String()
	}
	body := serve()
	assert.Contains(t, body, "# TYPE ytinsight_generation_quota_remaining gauge")
	assert.Contains(t, body, "ytinsight_generation_quota_remaining 12\n")

	remaining = 11
	assert.Contains(t, serve(), "ytinsight_generation_quota_remaining 11\n")
}

func TestCounters_RedisDownDoesNotPanic(t *testing.T) {
	mr, _ := miniredis.Run()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	c := NewCounters(rdb)
	c.Inc(context.Background(), AnalysesFailed)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "ytinsight_analyses_failed_total 0\n")
}
