// Package metrics 汇总进程内的 Prometheus 指标，由 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal HTTP 请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trailnote_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPPanicsTotal 被恢复的 panic 数
	HTTPPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_http_panics_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
		[]string{"route"},
	)

	// AuthzDecisionsTotal 权限判断结果
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "object", "action", "decision"},
	)

	// LedgerActionsTotal 计数器账本动作（like/unlike/comment...）及结果
	LedgerActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_ledger_actions_total",
			Help: "Total number of counter ledger actions by outcome",
		},
		[]string{"action", "outcome"},
	)

	// TxRetriesTotal 可重试存储错误导致的事务重试次数
	TxRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_tx_retries_total",
			Help: "Total number of transaction retries on retryable storage errors",
		},
		[]string{"op"},
	)

	// TxExhaustedTotal 重试耗尽后升级为 Fatal 的事务数
	TxExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_tx_exhausted_total",
			Help: "Total number of transactions that exhausted their retry attempts",
		},
		[]string{"op"},
	)

	// ReviewDecisionsTotal 审核决定
	ReviewDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_review_decisions_total",
			Help: "Total number of moderation decisions",
		},
		[]string{"decision", "target"},
	)

	// SearchRequestsTotal 搜索请求按数据源统计（es / db_fallback）
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_search_requests_total",
			Help: "Total number of search requests by backend",
		},
		[]string{"backend"},
	)

	// SearchBreakerState ES 熔断器状态（0=closed, 1=half-open, 2=open）
	SearchBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trailnote_search_breaker_state",
			Help: "State of the Elasticsearch circuit breaker",
		},
	)

	// AffinityCacheTotal 推荐偏好标签缓存命中情况（hit / miss / error）
	AffinityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_affinity_cache_total",
			Help: "Affinity tag cache lookups by result",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal 日记事件发送结果
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_diary_events_published_total",
			Help: "Total number of diary events published by type and result",
		},
		[]string{"type", "result"},
	)

	// EventsConsumedTotal worker 处理日记事件结果
	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailnote_diary_events_consumed_total",
			Help: "Total number of diary events handled by the worker",
		},
		[]string{"type", "result"},
	)
)
