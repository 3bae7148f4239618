package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lcyeh/review-relay-go/internal/llm"
)

// Store 累計模型呼叫統計。內部以 atomic 計數供 JSON 快照，
// 同步更新 Prometheus 計數器供 /metrics 抓取。
type Store struct {
	totalCalls         int64
	totalErrors        int64
	totalParseFailures int64
	totalInputTokens   int64
	totalOutputTokens  int64
	totalDurationMs    int64

	promCalls         prometheus.Counter
	promErrors        prometheus.Counter
	promParseFailures prometheus.Counter
	promInputTokens   prometheus.Counter
	promOutputTokens  prometheus.Counter
	promDuration      prometheus.Histogram
}

// NewStore 建立統計儲存並註冊 Prometheus 指標。
func NewStore() *Store {
	return NewStoreWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreWithRegisterer 建立統計儲存並註冊到指定 registerer。
// 測試時以獨立 registry 避免重複註冊。
func NewStoreWithRegisterer(registerer prometheus.Registerer) *Store {
	factory := promauto.With(registerer)
	return &Store{
		promCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_gemini_calls_total",
			Help: "Total Gemini API calls.",
		}),
		promErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_gemini_errors_total",
			Help: "Total failed Gemini API calls.",
		}),
		promParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_reply_parse_failures_total",
			Help: "Total model replies that could not be shaped into a verdict.",
		}),
		promInputTokens: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_input_tokens_total",
			Help: "Total prompt tokens consumed.",
		}),
		promOutputTokens: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_output_tokens_total",
			Help: "Total completion tokens produced.",
		}),
		promDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_gemini_call_duration_seconds",
			Help:    "Gemini API call duration.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// RecordSuccess 記錄一次成功呼叫。
func (s *Store) RecordSuccess(duration time.Duration, usage llm.Usage) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.promCalls.Inc()
	s.promInputTokens.Add(float64(usage.InputTokens))
	s.promOutputTokens.Add(float64(usage.OutputTokens))
	s.promDuration.Observe(duration.Seconds())
}

// RecordError 記錄一次失敗呼叫。
func (s *Store) RecordError(duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.promCalls.Inc()
	s.promErrors.Inc()
	s.promDuration.Observe(duration.Seconds())
}

// RecordParseFailure 記錄一次回覆整形失敗。整形失敗仍回 200，
// 不算呼叫錯誤，單獨計數。
func (s *Store) RecordParseFailure() {
	atomic.AddInt64(&s.totalParseFailures, 1)
	s.promParseFailures.Inc()
}

// UsageTotals 回傳累計 token 用量。
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	return llm.Usage{
		InputTokens:  int(input),
		OutputTokens: int(output),
		TotalTokens:  int(input + output),
	}
}

// Snapshot 回傳統計快照。
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	parseFailures := atomic.LoadInt64(&s.totalParseFailures)
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":          float64(totalCalls),
		"total_errors":         float64(totalErrors),
		"total_parse_failures": float64(parseFailures),
		"total_input_tokens":   float64(input),
		"total_output_tokens":  float64(output),
		"total_tokens":         float64(input + output),
		"total_duration_ms":    float64(durationMs),
		"avg_duration_ms":      avgDuration,
	}
}
