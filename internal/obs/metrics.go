package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP-level metrics shared by every handler.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ready = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "service_ready",
		Help: "1 when the service considers itself ready to serve.",
	})
)

// Identity pipeline metrics. The resolution outcome label distinguishes a
// defaulted role from a store failure so the two are observable apart.
var (
	roleResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_resolutions_total",
			Help: "Role lookups against the profile store.",
		},
		[]string{"outcome"}, // found | defaulted | error
	)

	profileProvisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_provisions_total",
			Help: "Profile provisioning attempts from principal-created events.",
		},
		[]string{"result"}, // created | duplicate | error
	)

	credentialsMintedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credentials_minted_total",
		Help: "Signed session credentials issued.",
	})
)

// Init registers all metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration, ready,
		roleResolutionsTotal, profileProvisionsTotal, credentialsMintedTotal,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetReady flips the readiness gauge.
func SetReady(ok bool) {
	if ok {
		ready.Set(1)
		return
	}
	ready.Set(0)
}

// ObserveRoleResolution records a role lookup outcome.
func ObserveRoleResolution(outcome string) {
	roleResolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveProvision records a provisioning attempt result.
func ObserveProvision(result string) {
	profileProvisionsTotal.WithLabelValues(result).Inc()
}

// ObserveMint counts one issued credential.
func ObserveMint() {
	credentialsMintedTotal.Inc()
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// CanonicalPath collapses per-profile URLs so metric cardinality stays bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	if len(parts) >= 4 && parts[1] == "v1" && parts[2] == "profiles" {
		switch len(parts) {
		case 4:
			return "/v1/profiles/:id"
		case 5:
			if parts[4] == "role" || parts[4] == "verified" {
				return "/v1/profiles/:id/" + parts[4]
			}
		}
	}
	return path
}

// statusWriter captures the response code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
