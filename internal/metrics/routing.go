package metrics

import "github.com/prometheus/client_golang/prometheus"

// Routing and collaborator Prometheus metrics.
var (
	RoutingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "routing_decisions_total",
			Help:      "Total routing decisions by final mode and trigger",
		},
		[]string{"mode", "trigger"},
	)

	JudgeVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "judge_verdicts_total",
			Help:      "Relevance judge outcomes",
		},
		[]string{"verdict"}, // "relevant" / "irrelevant" / "unavailable"
	)

	WebSearchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "web_search_failures_total",
			Help:      "Web fallback searches collapsed to empty context",
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "generation_requests_total",
			Help:      "Total text generation requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askora",
			Name:      "generation_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 60, 120, 180},
		},
		[]string{"model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion" / "total"
	)

	SpeechRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "speech_requests_total",
			Help:      "Total speech synthesis requests",
		},
		[]string{"model", "status"},
	)

	SpeechRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askora",
			Name:      "speech_request_duration_seconds",
			Help:      "Speech synthesis request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 60, 120},
		},
		[]string{"model"},
	)

	DispatchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "dispatch_audio_fallbacks_total",
			Help:      "Video dispatches degraded to audio after lip-sync failure",
		},
	)
)

var routingMetricsRegistered bool

// RegisterRoutingMetrics registers routing and collaborator metrics. Must
// be called once from main.
func RegisterRoutingMetrics() {
	if routingMetricsRegistered {
		return
	}
	prometheus.MustRegister(RoutingDecisionsTotal)
	prometheus.MustRegister(JudgeVerdictsTotal)
	prometheus.MustRegister(WebSearchFailuresTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(SpeechRequestsTotal)
	prometheus.MustRegister(SpeechRequestDuration)
	prometheus.MustRegister(DispatchFallbacksTotal)
	routingMetricsRegistered = true
}
