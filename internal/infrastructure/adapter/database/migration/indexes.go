package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

type indexDef struct {
	name string
	sql  string
}

// ledgerIndexes are the PostgreSQL indexes that struct tags cannot express
var ledgerIndexes = []indexDef{
	{
		name: "idx_transactions_user_seq",
		sql:  `CREATE INDEX IF NOT EXISTS idx_transactions_user_seq ON transactions (user_id, seq)`,
	},
	{
		name: "idx_transactions_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
			ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`,
	},
	{
		// completed visits still owed a reward
		name: "idx_appointments_reward_pending",
		sql: `CREATE INDEX IF NOT EXISTS idx_appointments_reward_pending
			ON appointments (customer_id) WHERE status = 'completed' AND reward_granted = false`,
	},
	{
		name: "idx_appointments_vendor_date",
		sql:  `CREATE INDEX IF NOT EXISTS idx_appointments_vendor_date ON appointments (vendor_id, date)`,
	},
	{
		name: "idx_services_vendor_available",
		sql:  `CREATE INDEX IF NOT EXISTS idx_services_vendor_available ON services (vendor_id) WHERE available = true`,
	},
}

// IndexManager manages PostgreSQL-specific indexes and table settings
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{db: db, logger: logger}
}

// CreateIndexes creates the ledger indexes
func (m *IndexManager) CreateIndexes(ctx context.Context) error {
	m.logger.Info("Creating PostgreSQL indexes", map[string]any{
		"count": len(ledgerIndexes),
	})

	db := m.db.WithContext(ctx)
	for _, idx := range ledgerIndexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}

// ApplyPerformanceTweaks tunes storage settings. Failures are logged, not
// returned.
func (m *IndexManager) ApplyPerformanceTweaks(ctx context.Context) {
	db := m.db.WithContext(ctx)

	// users rows are rewritten on every wallet change
	if err := db.Exec(`ALTER TABLE users SET (fillfactor = 85)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for users table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.Exec(`ALTER TABLE transactions ALTER COLUMN user_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for transactions.user_id", map[string]any{
			"error": err.Error(),
		})
	}
}
