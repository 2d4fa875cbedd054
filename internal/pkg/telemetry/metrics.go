package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricCatchLatency = "feed.catch_latency"
	MetricMapStaleness = "map.aggregation_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricCatchesReported = "business.catches_reported"
	MetricDigestsSent     = "business.digests_sent"
)
