package unifi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsTotal 网关请求总数
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unifi",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of controller API requests.",
		},
		[]string{"operation", "status"},
	)

	// RequestDuration 网关请求耗时
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "unifi",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Controller API request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// FallbackTotal 端点回退次数
	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unifi",
			Subsystem: "gateway",
			Name:      "fallback_total",
			Help:      "Total number of endpoint fallback attempts.",
		},
		[]string{"operation"},
	)

	// ReloginTotal 重登录次数
	ReloginTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unifi",
			Subsystem: "gateway",
			Name:      "relogin_total",
			Help:      "Total number of re-authentication attempts triggered by rejected requests.",
		},
	)
)

// InitMetrics 注册网关指标
func InitMetrics(registerer prometheus.Registerer) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(RequestsTotal, RequestDuration, FallbackTotal, ReloginTotal)
}

// observeRequest 记录一次请求结果
func observeRequest(operation string, status int, seconds float64) {
	RequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(operation).Observe(seconds)
}
