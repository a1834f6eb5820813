package health

import (
	"context"
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

const probeTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Ready     bool      `json:"ready"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// Monitor keeps the outcome of the most recent backend probe.
type Monitor struct {
	pinger Pinger
	logger logrus.FieldLogger
	now    func() time.Time

	mu     sync.RWMutex
	status Status
}

func NewMonitor(pinger Pinger, logger logrus.FieldLogger) *Monitor {
	return &Monitor{
		pinger: pinger,
		logger: logger.WithField("component", "health_monitor"),
		now:    time.Now,
		status: Status{Error: "not checked yet"},
	}
}

func (m *Monitor) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := Status{Ready: true, CheckedAt: m.now().UTC()}
	if err := m.pinger.Ping(ctx); err != nil {
		status.Ready = false
		status.Error = err.Error()
		m.logger.WithError(err).Warn("backend probe failed")
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if status.Ready && !previous.Ready && !previous.CheckedAt.IsZero() {
		m.logger.Info("backend probe recovered")
	}
	return status
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Start probes once and then on schedule. The caller stops the returned cron.
func (m *Monitor) Start(ctx context.Context, schedule string) (*cron.Cron, error) {
	m.Check(ctx)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		m.Check(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule health check %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
