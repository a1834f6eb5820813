package health

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubPinger struct {
	err   error
	calls int
}

func (s *stubPinger) Ping(context.Context) error {
	s.calls++
	return s.err
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func TestMonitor_NotReadyBeforeFirstCheck(t *testing.T) {
	logger, _ := test.NewNullLogger()
	monitor := NewMonitor(&stubPinger{}, logger)

	assert.False(t, monitor.Status().Ready)
}

func TestMonitor_CheckTracksPinger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	pinger := &stubPinger{err: errors.New("connection refused")}
	monitor := NewMonitor(pinger, logger)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return fixed }

	status := monitor.Check(context.Background())
	assert.False(t, status.Ready)
	assert.Equal(t, "connection refused", status.Error)
	assert.Equal(t, fixed, status.CheckedAt)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	pinger.err = nil
	status = monitor.Check(context.Background())
	assert.True(t, status.Ready)
	assert.Empty(t, status.Error)
	assert.Equal(t, "backend probe recovered", hook.LastEntry().Message)
	assert.Equal(t, 2, pinger.calls)
}

func TestMonitor_StartRejectsBadSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	pinger := &stubPinger{}
	monitor := NewMonitor(pinger, logger)

	_, err := monitor.Start(context.Background(), "whenever")
	assert.Error(t, err)
	assert.Equal(t, 1, pinger.calls)
}

func TestMonitor_StartProbesImmediately(t *testing.T) {
	logger, _ := test.NewNullLogger()
	monitor := NewMonitor(&stubPinger{}, logger)

	c, err := monitor.Start(context.Background(), "@every 1h")
	require.NoError(t, err)
	defer c.Stop()

	assert.True(t, monitor.Status().Ready)
}

func TestHandleHealth(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := NewHandler(NewMonitor(&stubPinger{}, logger), respondJSON)

	w := httptest.NewRecorder()
	handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   int
		status string
	}{
		{"backend up", nil, http.StatusOK, "ready"},
		{"backend down", errors.New("timeout"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			monitor := NewMonitor(&stubPinger{err: tt.err}, logger)
			monitor.Check(context.Background())
			handler := NewHandler(monitor, respondJSON)

			w := httptest.NewRecorder()
			handler.HandleReady(w, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

			assert.Equal(t, tt.want, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}
