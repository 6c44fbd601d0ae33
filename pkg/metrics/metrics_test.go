package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"clouddrive/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRPC("/drive.PlansService/GetAll", "OK", 10*time.Millisecond)
	m.AddUploaded(600)
	m.UploadRejected("quota")
	m.UploadRejected("quota")

	count, err := testutil.GatherAndCount(reg, "clouddrive_rpc_requests_total", "clouddrive_uploads_rejected_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "clouddrive_uploaded_bytes_total 600")
	assert.Contains(t, rec.Body.String(), `clouddrive_uploads_rejected_total{reason="quota"} 2`)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("x", "OK", time.Second)
		m.AddUploaded(1)
		m.AddDownloaded(1)
		m.UploadRejected("quota")
		m.UploadsReaped(1)
		m.TrashPurged(1)
	})
}
