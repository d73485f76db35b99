package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/vendor"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/idgen"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/memory"
	realtime "github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/time"
	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
)

// fixedCodes hands out referral codes from a list, then falls back to the last one
type fixedCodes struct {
	idgen.UUIDGenerator
	mu    sync.Mutex
	codes []string
}

func (g *fixedCodes) NewReferralCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code
}

type UserUseCaseTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	ledger  *ledger.Ledger
	useCase *UserUseCase
}

func (s *UserUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.useCase = s.newUseCase(idgen.NewUUIDGenerator())
}

func (s *UserUseCaseTestSuite) newUseCase(ids coreport.IDGenerator) *UserUseCase {
	logger := coremocks.NewMockLogger(s.T())
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		logger.On(level, mock.Anything, mock.Anything).Maybe()
	}
	tp := realtime.NewRealTimeProvider()
	s.ledger = ledger.NewLedger(s.store, ids, tp, logger, ledger.RetryConfig{
		MaxRetries:    3,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
	})
	vendors := vendor.NewService(s.ledger, ids, tp, logger)
	return NewUserUseCase(s.ledger, vendors, ledger.DefaultRewards(), ids, tp, logger)
}

func TestUserUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(UserUseCaseTestSuite))
}

func (s *UserUseCaseTestSuite) TestCreateCustomerGetsWelcomeBonus() {
	user, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID:        "cust-1",
		Email:     "cust@example.com",
		FirstName: "Ana",
	})
	s.Require().NoError(err)

	s.Equal(entity.RoleCustomer, user.Role)
	s.Equal(int64(10), user.Balance())
	s.Len(user.ReferralCode, entity.ReferralCodeLength)
	s.Require().Len(user.Wallet.Transactions, 1)
	s.Equal(ledger.DescriptionWelcomeBonus, user.Wallet.Transactions[0].Description)

	wallet, err := s.ledger.GetWallet(s.ctx, "cust-1")
	s.Require().NoError(err)
	s.Equal(int64(10), wallet.Coins)
	s.Equal(wallet.Coins, wallet.LogSum())
}

func (s *UserUseCaseTestSuite) TestCreateAdminGetsWelcomeBonus() {
	user, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID:    "admin-1",
		Email: "admin@example.com",
		Role:  entity.RoleAdmin,
	})
	s.Require().NoError(err)
	s.Equal(int64(10), user.Balance())
}

func (s *UserUseCaseTestSuite) TestCreateVendorStartsEmpty() {
	user, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID:           "vend-1",
		Email:        "vendor@example.com",
		Role:         entity.RoleVendor,
		BusinessName: "Sparkle Wash",
	})
	s.Require().NoError(err)

	s.Zero(user.Balance())
	s.Empty(user.Wallet.Transactions)

	profile, err := s.store.GetVendorRepository(s.ctx).GetByUserID(s.ctx, "vend-1")
	s.Require().NoError(err)
	s.Equal("Sparkle Wash", profile.BusinessName)
	s.Equal("vendor@example.com", profile.Email)

	categories, err := s.store.GetCategoryRepository(s.ctx).ListByVendor(s.ctx, profile.ID)
	s.Require().NoError(err)
	s.Len(categories, len(entity.DefaultCategoryTemplates()))
}

func (s *UserUseCaseTestSuite) TestCreateDuplicateUser() {
	req := usecase.CreateUserRequest{ID: "cust-1", Email: "cust@example.com"}
	_, err := s.useCase.CreateUser(s.ctx, req)
	s.Require().NoError(err)

	_, err = s.useCase.CreateUser(s.ctx, req)
	s.ErrorIs(err, errs.ErrDuplicateUser)

	wallet, err := s.ledger.GetWallet(s.ctx, "cust-1")
	s.Require().NoError(err)
	s.Equal(int64(10), wallet.Coins)
	s.Len(wallet.Transactions, 1)
}

func (s *UserUseCaseTestSuite) TestCreateUserValidation() {
	_, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: " ", Email: "x@example.com"})
	s.ErrorIs(err, errs.ErrInvalidUserID)

	_, err = s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u1"})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u1", Email: "x@example.com", Role: "root"})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.useCase.GetUser(s.ctx, "u1")
	s.ErrorIs(err, errs.ErrUserNotFound)
}

func (s *UserUseCaseTestSuite) TestReferralCodeCollisionIsRetried() {
	s.useCase = s.newUseCase(&fixedCodes{codes: []string{"AAAA1111", "AAAA1111", "BBBB2222"}})

	first, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u1", Email: "u1@example.com"})
	s.Require().NoError(err)
	second, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u2", Email: "u2@example.com"})
	s.Require().NoError(err)

	s.Equal("AAAA1111", first.ReferralCode)
	s.Equal("BBBB2222", second.ReferralCode)
}

func (s *UserUseCaseTestSuite) TestReferralCodeSpaceExhausted() {
	s.useCase = s.newUseCase(&fixedCodes{codes: []string{"AAAA1111"}})

	_, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u1", Email: "u1@example.com"})
	s.Require().NoError(err)
	_, err = s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "u2", Email: "u2@example.com"})
	s.ErrorIs(err, errs.ErrInternalServer)

	_, err = s.useCase.GetUser(s.ctx, "u2")
	s.ErrorIs(err, errs.ErrUserNotFound)
}

func (s *UserUseCaseTestSuite) TestSetUserBannedPropagatesToVendor() {
	_, err := s.useCase.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID:    "vend-1",
		Email: "vendor@example.com",
		Role:  entity.RoleVendor,
	})
	s.Require().NoError(err)

	user, err := s.useCase.SetUserBanned(s.ctx, "vend-1", true)
	s.Require().NoError(err)
	s.True(user.Banned)

	profile, err := s.store.GetVendorRepository(s.ctx).GetByUserID(s.ctx, "vend-1")
	s.Require().NoError(err)
	s.True(profile.Banned)

	_, err = s.useCase.SetUserBanned(s.ctx, "vend-1", false)
	s.Require().NoError(err)
	profile, err = s.store.GetVendorRepository(s.ctx).GetByUserID(s.ctx, "vend-1")
	s.Require().NoError(err)
	s.False(profile.Banned)
}

func (s *UserUseCaseTestSuite) TestSetUserBannedUnknownUser() {
	_, err := s.useCase.SetUserBanned(s.ctx, "ghost", true)
	s.ErrorIs(err, errs.ErrUserNotFound)
}

func (s *UserUseCaseTestSuite) TestEnsureAdminsIsRepeatable() {
	admins := []AdminAccount{{ID: "admin-1", Email: "admin@example.com"}}

	s.Require().NoError(s.useCase.EnsureAdmins(s.ctx, admins))
	s.Require().NoError(s.useCase.EnsureAdmins(s.ctx, admins))

	user, err := s.useCase.GetUser(s.ctx, "admin-1")
	s.Require().NoError(err)
	s.True(user.IsAdmin())

	wallet, err := s.ledger.GetWallet(s.ctx, "admin-1")
	s.Require().NoError(err)
	s.Len(wallet.Transactions, 1)
}

func (s *UserUseCaseTestSuite) TestEnsureAdminsRejectsInvalidAccount() {
	err := s.useCase.EnsureAdmins(s.ctx, []AdminAccount{{ID: "admin-1"}})
	s.ErrorIs(err, errs.ErrValidation)
}
