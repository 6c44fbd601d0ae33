package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clouddrive"

// Metrics собирает метрики RPC и передачи файлов. Nil *Metrics можно вызывать, он ничего не пишет.
type Metrics struct {
	rpcRequestsTotal *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	uploadedBytes    prometheus.Counter
	downloadedBytes  prometheus.Counter
	uploadsRejected  *prometheus.CounterVec
	uploadsReaped    prometheus.Counter
	trashPurged      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rpcRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of handled RPC calls",
			},
			[]string{"method", "code"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "RPC latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		uploadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes accepted by completed uploads",
		}),
		downloadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes streamed to clients",
		}),
		uploadsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_rejected_total",
				Help:      "Uploads rejected or rolled back, by reason",
			},
			[]string{"reason"},
		),
		uploadsReaped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_reaped_total",
			Help:      "Abandoned uploads removed by the janitor",
		}),
		trashPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trash_purged_total",
			Help:      "Trashed contents removed after the retention period",
		}),
	}
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequestsTotal.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) AddUploaded(n int64) {
	if m == nil {
		return
	}
	m.uploadedBytes.Add(float64(n))
}

func (m *Metrics) AddDownloaded(n int64) {
	if m == nil {
		return
	}
	m.downloadedBytes.Add(float64(n))
}

func (m *Metrics) UploadRejected(reason string) {
	if m == nil {
		return
	}
	m.uploadsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) UploadsReaped(n int) {
	if m == nil {
		return
	}
	m.uploadsReaped.Add(float64(n))
}

func (m *Metrics) TrashPurged(n int) {
	if m == nil {
		return
	}
	m.trashPurged.Add(float64(n))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
