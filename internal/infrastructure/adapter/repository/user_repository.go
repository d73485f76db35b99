package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/model"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func userToModel(u *entity.User) model.User {
	return model.User{
		ID:               u.ID,
		Email:            u.Email,
		Role:             string(u.Role),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Phone:            u.Phone,
		LicensePlate:     u.LicensePlate,
		Banned:           u.Banned,
		Coins:            u.Wallet.Coins,
		ReferralCode:     u.ReferralCode,
		ReferralCount:    u.ReferralCount,
		UsedReferralCode: u.UsedReferralCode,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		Role:             entity.Role(m.Role),
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Phone:            m.Phone,
		LicensePlate:     m.LicensePlate,
		Banned:           m.Banned,
		Wallet:           entity.Wallet{Coins: m.Coins, Transactions: []entity.Transaction{}},
		ReferralCode:     m.ReferralCode,
		ReferralCount:    m.ReferralCount,
		UsedReferralCode: m.UsedReferralCode,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapError(err, EntityUser)
	}
	return userToEntity(&m), nil
}

// GetForUpdate retrieves a user with SELECT ... FOR UPDATE
func (r *UserRepository) GetForUpdate(ctx context.Context, id string) (*entity.User, error) {
	r.logger.Debug("Locking user row", map[string]any{"user_id": id})

	var m model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, MapError(err, EntityUser)
	}
	return userToEntity(&m), nil
}

// GetByReferralCode retrieves the owner of a referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).First(&m, "referral_code = ?", code).Error; err != nil {
		return nil, MapError(err, EntityUser)
	}
	return userToEntity(&m), nil
}

// ReferralCodeExists checks whether a referral code is taken
func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("referral_code = ?", code).Count(&count).Error
	if err != nil {
		return false, MapError(err, EntityUser)
	}
	return count > 0, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	m := userToModel(user)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Warn("Failed to create user", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return MapError(err, EntityUser)
	}

	r.logger.Debug("User row created", map[string]any{"user_id": user.ID})
	return nil
}

// Update writes every mutable column of the user
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":              user.Email,
			"first_name":         user.FirstName,
			"last_name":          user.LastName,
			"phone":              user.Phone,
			"license_plate":      user.LicensePlate,
			"banned":             user.Banned,
			"coins":              user.Wallet.Coins,
			"referral_count":     user.ReferralCount,
			"used_referral_code": user.UsedReferralCode,
			"updated_at":         user.UpdatedAt,
		})
	if result.Error != nil {
		return MapError(result.Error, EntityUser)
	}
	if result.RowsAffected == 0 {
		return MapError(gorm.ErrRecordNotFound, EntityUser)
	}

	r.logger.Debug("User row updated", map[string]any{
		"user_id": user.ID,
		"coins":   user.Wallet.Coins,
	})
	return nil
}
