package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// PoolStats is a snapshot of the connection pool
type PoolStats struct {
	OpenConnections    int   `json:"openConnections"`
	IdleConnections    int   `json:"idleConnections"`
	InUse              int   `json:"inUse"`
	MaxOpenConnections int   `json:"maxOpenConnections"`
	WaitCount          int64 `json:"waitCount"`
	WaitDurationMs     int64 `json:"waitDurationMs"`
}

// statsSource is the part of *sql.DB the monitor reads
type statsSource interface {
	Stats() sql.DBStats
}

// PoolMonitor samples connection pool statistics and warns when the pool
// is close to exhaustion
type PoolMonitor struct {
	source   statsSource
	logger   coreport.Logger
	mu       sync.RWMutex
	last     PoolStats
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewPoolMonitor creates a new pool monitor
func NewPoolMonitor(source statsSource, logger coreport.Logger) *PoolMonitor {
	return &PoolMonitor{
		source:   source,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start samples once and then every interval until Stop is called
func (m *PoolMonitor) Start(interval time.Duration) {
	m.collect()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.collect()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the sampling goroutine; safe to call more than once
func (m *PoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// Stats returns the latest sample
func (m *PoolMonitor) Stats() PoolStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *PoolMonitor) collect() {
	stats := m.source.Stats()
	sample := PoolStats{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		InUse:              stats.InUse,
		MaxOpenConnections: stats.MaxOpenConnections,
		WaitCount:          stats.WaitCount,
		WaitDurationMs:     stats.WaitDuration.Milliseconds(),
	}

	m.mu.Lock()
	m.last = sample
	m.mu.Unlock()

	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > float64(stats.MaxOpenConnections)*0.8 {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
		})
	}
}
