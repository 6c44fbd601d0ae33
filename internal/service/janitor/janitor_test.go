package janitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clouddrive/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockReaper struct{ mock.Mock }

func (m *mockReaper) ReapStaleUploads(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) PurgeExpiredTrash(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	reaper := new(mockReaper)
	purger := new(mockPurger)
	reaper.On("ReapStaleUploads", mock.Anything, now.Add(-24*time.Hour)).Return(2, nil)
	purger.On("PurgeExpiredTrash", mock.Anything, now.Add(-72*time.Hour)).Return(5, nil)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	j := New(reaper, purger, m, Config{UploadTTL: 24 * time.Hour, TrashRetention: 72 * time.Hour})
	j.now = func() time.Time { return now }

	j.Sweep(context.Background())

	reaper.AssertExpectations(t)
	purger.AssertExpectations(t)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "clouddrive_uploads_reaped_total"))
}

func TestSweepWithoutRetention(t *testing.T) {
	reaper := new(mockReaper)
	purger := new(mockPurger)
	reaper.On("ReapStaleUploads", mock.Anything, mock.Anything).Return(0, errors.New("db is down"))

	j := New(reaper, purger, nil, Config{UploadTTL: time.Hour})
	j.Sweep(context.Background())

	reaper.AssertExpectations(t)
	purger.AssertNotCalled(t, "PurgeExpiredTrash", mock.Anything, mock.Anything)
}

func TestRunStopsOnCancel(t *testing.T) {
	reaper := new(mockReaper)
	var mu sync.Mutex
	calls := 0
	reaper.On("ReapStaleUploads", mock.Anything, mock.Anything).Return(0, nil).Run(func(mock.Arguments) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	j := New(reaper, new(mockPurger), nil, Config{Interval: 5 * time.Millisecond, UploadTTL: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
