package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/internal/infrastructure/eventlog"
)

// ObserverCounter reports how many observers are currently connected.
type ObserverCounter interface {
	Count() int
}

type Monitor struct {
	pg       *pgxpool.Pool
	redis    *redislib.Client
	eventLog *eventlog.Store
	hub      ObserverCounter

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, log *eventlog.Store, hub ObserverCounter, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		eventLog: log,
		hub:      hub,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	logOK, logSize := m.checkEventLog()
	status := Status{
		PostgreSQL:   m.checkPostgres(),
		Redis:        m.checkRedis(),
		EventLog:     logOK,
		EventLogSize: logSize,
		LastCheck:    time.Now(),
	}
	if m.hub != nil {
		status.Observers = m.hub.Count()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkPostgres() bool {
	if m.pg == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) checkEventLog() (bool, int) {
	if m.eventLog == nil {
		return false, 0
	}
	size, err := m.eventLog.Size()
	if err != nil {
		m.logger.Warn("event log size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
