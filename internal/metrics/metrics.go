package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telehealth",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"service", "method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "telehealth",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "telehealth",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	}, []string{"service"})

	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "telehealth",
		Name:      "signaling_active_rooms",
		Help:      "Number of rooms currently holding at least one participant",
	})

	activeParticipants = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "telehealth",
		Name:      "signaling_active_participants",
		Help:      "Total participants connected across all rooms",
	})

	messagesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telehealth",
		Name:      "signaling_messages_routed_total",
		Help:      "Signaling messages routed, by declared message type",
	}, []string{"type"})

	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "telehealth",
		Name:      "signaling_messages_dropped_total",
		Help:      "Signaling messages dropped (unknown target, closed peer, bad payload)",
	}, []string{"reason"})
)

// ObserveOccupancy records the current room/participant gauges.
func ObserveOccupancy(rooms, participants int) {
	activeRooms.Set(float64(rooms))
	activeParticipants.Set(float64(participants))
}

// MessageRouted counts one inbound signaling message by type.
func MessageRouted(msgType string) {
	messagesRouted.WithLabelValues(msgType).Inc()
}

// MessageDropped counts one undeliverable or unparseable message.
func MessageDropped(reason string) {
	messagesDropped.WithLabelValues(reason).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack is required so the websocket upgrade works through the middleware.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("signaling metrics: underlying ResponseWriter does not support hijacking")
}

func (r *responseRecorder) Push(target string, opts *http.PushOptions) error {
	if p, ok := r.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return http.ErrNotSupported
}

// Middleware records request metrics with Prometheus labels.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.WithLabelValues(service).Inc()
			defer httpInFlight.WithLabelValues(service).Dec()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"service": service,
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
