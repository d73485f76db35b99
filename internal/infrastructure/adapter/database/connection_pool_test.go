package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
)

type fixedStats sql.DBStats

func (s fixedStats) Stats() sql.DBStats { return sql.DBStats(s) }

func TestPoolMonitor_Collect(t *testing.T) {
	logger := coremocks.NewMockLogger(t)
	monitor := NewPoolMonitor(fixedStats{MaxOpenConnections: 10, OpenConnections: 4, InUse: 3, Idle: 1}, logger)

	monitor.collect()

	stats := monitor.Stats()
	assert.Equal(t, 4, stats.OpenConnections)
	assert.Equal(t, 3, stats.InUse)
	assert.Equal(t, 10, stats.MaxOpenConnections)
}

func TestPoolMonitor_WarnsNearExhaustion(t *testing.T) {
	logger := coremocks.NewMockLogger(t)
	logger.EXPECT().Warn("Database connection pool nearly exhausted", mock.Anything).Once()
	monitor := NewPoolMonitor(fixedStats{MaxOpenConnections: 10, OpenConnections: 10, InUse: 9}, logger)

	monitor.collect()
	monitor.Stop()
	monitor.Stop()
}
