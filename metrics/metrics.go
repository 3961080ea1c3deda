package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"

	"yt-insight/config"
)

const (
	AnalysesStarted        = "analyses_started_total"
	AnalysesCompleted      = "analyses_completed_total"
	AnalysesFailed         = "analyses_failed_total"
	AnalysesCancelled      = "analyses_cancelled_total"
	CreditsDeducted        = "credits_deducted_total"
	FallbackReports        = "fallback_reports_total"
	InvalidCommentsDropped = "invalid_comments_dropped_total"

	GenerationQuotaRemaining = "generation_quota_remaining"
)

// MetricDef maps a redis counter onto a Prometheus metric.
type MetricDef struct {
	Name string
	Help string
	Type string // "counter" or "gauge"
}

var Definitions = []MetricDef{
	{AnalysesStarted, "Analysis runs started.", "counter"},
	{AnalysesCompleted, "Analysis runs that produced a stored report.", "counter"},
	{AnalysesFailed, "Analysis runs that ended in a failure state.", "counter"},
	{AnalysesCancelled, "Analysis runs cancelled by the user.", "counter"},
	{CreditsDeducted, "Credits spent on analyses.", "counter"},
	{FallbackReports, "Reports generated without calling the model.", "counter"},
	{InvalidCommentsDropped, "Comments dropped by validation.", "counter"},
}

// Counters keeps pipeline counters in redis so every API instance reports the same totals.
// Gauges registered with Gauge are read from the local process instead.
type Counters struct {
	rdb    *redis.Client
	prefix string
	gauges []gauge
}

type gauge struct {
	def  MetricDef
	read func() int64
}

func NewCounters(rdb *redis.Client) *Counters {
	return &Counters{rdb: rdb, prefix: "ytinsight:metrics:"}
}

func (c *Counters) key(name string) string { return c.prefix + name }

// Add increments name by n. Errors are logged and otherwise ignored.
func (c *Counters) Add(ctx context.Context, name string, n int64) {
	if n == 0 {
		return
	}
	if err := c.rdb.IncrBy(ctx, c.key(name), n).Err(); err != nil {
		config.Logger().Warn("metrics: increment failed", "metric", name, "error", err)
	}
}

// Inc increments name by one.
func (c *Counters) Inc(ctx context.Context, name string) { c.Add(ctx, name, 1) }

// Gauge registers a process-local gauge. Register before Handler starts serving.
func (c *Counters) Gauge(name, help string, read func() int64) {
	c.gauges = append(c.gauges, gauge{def: MetricDef{name, help, "gauge"}, read: read})
}

// Handler exposes every definition in the Prometheus text format.
func (c *Counters) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		for _, m := range Definitions {
			val, err := c.rdb.Get(r.Context(), c.key(m.Name)).Result()
			if errors.Is(err, redis.Nil) {
				val = "0"
			} else if err != nil {
				config.Logger().Warn("metrics: read failed", "metric", m.Name, "error", err)
				val = "0"
			}
			writeMetric(w, m, val)
		}
		for _, g := range c.gauges {
			writeMetric(w, g.def, strconv.FormatInt(g.read(), 10))
		}
	})
}

func writeMetric(w io.Writer, m MetricDef, val string) {
	promName := "ytinsight_" + m.Name
	fmt.Fprintf(w, "# HELP %s %s\n", promName, m.Help)
	fmt.Fprintf(w, "# TYPE %s %s\n", promName, m.Type)
	fmt.Fprintf(w, "%s %s\n\n", promName, val)
}
