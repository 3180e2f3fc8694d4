package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgdocs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdocs_uploads_total",
			Help: "Upload requests by final outcome",
		},
		[]string{"outcome"},
	)
	storageWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdocs_storage_writes_total",
			Help: "Object writes by backend and success",
		},
		[]string{"backend", "success"},
	)
	recordInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdocs_record_inserts_total",
			Help: "Document record inserts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncUpload counts an upload outcome such as "created" or "unsupported_media_type".
func IncUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

// IncStorageWrite counts a write attempt against one object store backend.
func IncStorageWrite(backend string, success bool) {
	storageWrites.WithLabelValues(backend, strconv.FormatBool(success)).Inc()
}

// IncRecordInsert counts a document record insert outcome.
func IncRecordInsert(outcome string) {
	recordInserts.WithLabelValues(outcome).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
