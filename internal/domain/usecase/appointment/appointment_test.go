package appointment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/appointment"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/referral"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/user"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/vendor"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/idgen"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/memory"
	realtime "github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/time"
	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
)

// scriptedCodes returns the queued referral codes first, then random ones
type scriptedCodes struct {
	idgen.UUIDGenerator
	mu     sync.Mutex
	queued []string
}

func (g *scriptedCodes) NewReferralCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queued) == 0 {
		return g.UUIDGenerator.NewReferralCode()
	}
	code := g.queued[0]
	g.queued = g.queued[1:]
	return code
}

type AppointmentTestSuite struct {
	suite.Suite
	ctx          context.Context
	store        *memory.Store
	ids          *scriptedCodes
	ledger       *ledger.Ledger
	users        *user.UserUseCase
	vendors      *vendor.Service
	referrals    *referral.Service
	appointments *appointment.Service

	vendorID  string
	serviceID string
}

func (s *AppointmentTestSuite) SetupTest() {
	logger := coremocks.NewMockLogger(s.T())
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		logger.On(level, mock.Anything, mock.Anything).Maybe()
	}

	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.ids = &scriptedCodes{}
	tp := realtime.NewRealTimeProvider()
	rewards := ledger.DefaultRewards()

	s.ledger = ledger.NewLedger(s.store, s.ids, tp, logger, ledger.RetryConfig{
		MaxRetries:    5,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
	})
	s.vendors = vendor.NewService(s.ledger, s.ids, tp, logger)
	s.users = user.NewUserUseCase(s.ledger, s.vendors, rewards, s.ids, tp, logger)
	s.referrals = referral.NewService(s.ledger, rewards, tp, logger)
	s.appointments = appointment.NewService(s.ledger, s.ids, tp, logger)

	_, err := s.users.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID: "vend-1", Email: "vendor@example.com", Role: entity.RoleVendor, BusinessName: "Sparkle Wash",
	})
	s.Require().NoError(err)
	v, err := s.vendors.GetVendor(s.ctx, "vend-1")
	s.Require().NoError(err)
	s.vendorID = v.ID

	svc, err := s.vendors.CreateService(s.ctx, usecase.CreateServiceRequest{
		ActorID: "vend-1", VendorID: v.ID, Name: "Full wash", Price: 2500, DurationMinutes: 45, CoinReward: 5,
	})
	s.Require().NoError(err)
	s.serviceID = svc.ID
}

func TestAppointmentTestSuite(t *testing.T) {
	suite.Run(t, new(AppointmentTestSuite))
}

func (s *AppointmentTestSuite) signup(id string) *entity.User {
	u, err := s.users.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID: id, Email: id + "@example.com", FirstName: "Sam", LastName: "Doe", LicensePlate: "AB-123-C",
	})
	s.Require().NoError(err)
	return u
}

func (s *AppointmentTestSuite) book(customerID string, coins int64) *entity.Appointment {
	appt, err := s.appointments.CreateAppointment(s.ctx, usecase.CreateAppointmentRequest{
		CustomerID: customerID,
		VendorID:   s.vendorID,
		ServiceID:  s.serviceID,
		Date:       time.Now().Add(24 * time.Hour),
		CoinsToUse: coins,
	})
	s.Require().NoError(err)
	return appt
}

func (s *AppointmentTestSuite) setStatus(actorID, appointmentID string, status entity.AppointmentStatus) (*usecase.StatusUpdateResult, error) {
	return s.appointments.UpdateStatus(s.ctx, usecase.UpdateStatusRequest{
		ActorID:       actorID,
		AppointmentID: appointmentID,
		Status:        status,
	})
}

func (s *AppointmentTestSuite) wallet(id string) *entity.Wallet {
	w, err := s.ledger.GetWallet(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(w.LogSum(), w.Coins, "balance drifted from ledger")
	return w
}

func (s *AppointmentTestSuite) TestSignupReferralAndCompletionFlow() {
	s.ids.queued = []string{"ABC12345"}
	referrer := s.signup("cust-1")
	s.Equal("ABC12345", referrer.ReferralCode)

	w := s.wallet("cust-1")
	s.Equal(int64(10), w.Coins)
	s.Require().Len(w.Transactions, 1)
	s.Equal(int64(10), w.Transactions[0].Amount)
	s.Equal(entity.TypeCredit, w.Transactions[0].Type)

	s.signup("cust-2")
	result, err := s.referrals.ApplyReferralCode(s.ctx, "cust-2", "ABC12345")
	s.Require().NoError(err)
	s.Equal(int64(30), result.ReferrerBalance)
	s.Equal(int64(25), result.ReferredBalance)

	appt := s.book("cust-2", 0)
	s.Equal(entity.StatusConfirmed, appt.Status)

	res, err := s.setStatus("vend-1", appt.ID, entity.StatusCompleted)
	s.Require().NoError(err)
	s.Require().NotNil(res.Reward)
	s.Equal(int64(5), res.Reward.Amount)
	s.Equal(ledger.ServiceRewardDescription("Full wash"), res.Reward.Description)
	s.True(res.Appointment.RewardGranted)
	s.Equal(int64(30), s.wallet("cust-2").Coins)

	res, err = s.setStatus("vend-1", appt.ID, entity.StatusCompleted)
	s.Require().NoError(err)
	s.Nil(res.Reward)
	s.Equal(int64(30), s.wallet("cust-2").Coins)

	entry, err := s.appointments.CreditForCompletion(s.ctx, "vend-1", appt.ID)
	s.Require().NoError(err)
	s.Nil(entry)
	s.Equal(int64(30), s.wallet("cust-2").Coins)
	s.Equal(int64(30), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestBookingWithCoinsDebitsWallet() {
	s.signup("cust-1")

	appt := s.book("cust-1", 4)
	s.Equal(int64(4), appt.CoinsUsed)
	s.Equal(int64(2500), appt.TotalPrice)
	s.Equal("Sam Doe", appt.CustomerDetails.Name)
	s.Equal("AB-123-C", appt.CustomerDetails.LicensePlate)

	w := s.wallet("cust-1")
	s.Equal(int64(6), w.Coins)
	last := w.Transactions[len(w.Transactions)-1]
	s.Equal(entity.TypeDebit, last.Type)
	s.Equal(ledger.DescriptionBookingDiscount, last.Description)

	stored, err := s.appointments.GetAppointment(s.ctx, "cust-1", appt.ID)
	s.Require().NoError(err)
	s.Equal(appt.ID, stored.ID)
}

func (s *AppointmentTestSuite) TestBookingWithTooManyCoinsWritesNothing() {
	s.signup("cust-1")

	_, err := s.appointments.CreateAppointment(s.ctx, usecase.CreateAppointmentRequest{
		CustomerID: "cust-1",
		VendorID:   s.vendorID,
		ServiceID:  s.serviceID,
		Date:       time.Now().Add(time.Hour),
		CoinsToUse: 11,
	})
	s.ErrorIs(err, errs.ErrInsufficientFunds)

	w := s.wallet("cust-1")
	s.Equal(int64(10), w.Coins)
	s.Len(w.Transactions, 1)
}

func (s *AppointmentTestSuite) TestBookingRejections() {
	s.signup("cust-1")
	other, err := s.vendors.CreateService(s.ctx, usecase.CreateServiceRequest{
		ActorID: "vend-1", VendorID: s.vendorID, Name: "Polish", Price: 4000,
	})
	s.Require().NoError(err)

	tests := []struct {
		name string
		req  usecase.CreateAppointmentRequest
		want error
	}{
		{
			name: "negative coins",
			req:  usecase.CreateAppointmentRequest{CustomerID: "cust-1", VendorID: s.vendorID, ServiceID: s.serviceID, CoinsToUse: -1},
			want: errs.ErrInvalidAmount,
		},
		{
			name: "service of another vendor",
			req:  usecase.CreateAppointmentRequest{CustomerID: "cust-1", VendorID: "other-vendor", ServiceID: other.ID},
			want: errs.ErrValidation,
		},
		{
			name: "missing date",
			req:  usecase.CreateAppointmentRequest{CustomerID: "cust-1", VendorID: s.vendorID, ServiceID: s.serviceID},
			want: errs.ErrValidation,
		},
		{
			name: "unknown service",
			req:  usecase.CreateAppointmentRequest{CustomerID: "cust-1", VendorID: s.vendorID, ServiceID: "nope", Date: time.Now()},
			want: errs.ErrServiceNotFound,
		},
		{
			name: "unknown customer",
			req:  usecase.CreateAppointmentRequest{CustomerID: "ghost", VendorID: s.vendorID, ServiceID: s.serviceID, Date: time.Now()},
			want: errs.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.appointments.CreateAppointment(s.ctx, tt.req)
			s.ErrorIs(err, tt.want)
		})
	}
	s.Equal(int64(10), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestBannedVendorCannotBeBooked() {
	s.signup("cust-1")
	_, err := s.users.SetUserBanned(s.ctx, "vend-1", true)
	s.Require().NoError(err)

	_, err = s.appointments.CreateAppointment(s.ctx, usecase.CreateAppointmentRequest{
		CustomerID: "cust-1", VendorID: s.vendorID, ServiceID: s.serviceID, Date: time.Now(), CoinsToUse: 2,
	})
	s.ErrorIs(err, errs.ErrForbidden)
	s.Equal(int64(10), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestStatusChangePermissions() {
	s.signup("cust-1")
	s.signup("cust-2")
	appt := s.book("cust-1", 0)

	_, err := s.setStatus("cust-1", appt.ID, entity.StatusCompleted)
	s.ErrorIs(err, errs.ErrForbidden)

	_, err = s.setStatus("cust-2", appt.ID, entity.StatusCancelledByCustomer)
	s.ErrorIs(err, errs.ErrForbidden)

	_, err = s.appointments.GetAppointment(s.ctx, "cust-2", appt.ID)
	s.ErrorIs(err, errs.ErrForbidden)

	res, err := s.setStatus("cust-1", appt.ID, entity.StatusCancelledByCustomer)
	s.Require().NoError(err)
	s.Equal(entity.StatusCancelledByCustomer, res.Appointment.Status)
	s.Nil(res.Reward)

	_, err = s.setStatus("vend-1", appt.ID, entity.StatusCompleted)
	s.ErrorIs(err, errs.ErrInvalidStatusTransition)
	s.Equal(int64(10), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestAdminCanCompleteAndNotesAreKept() {
	_, err := s.users.CreateUser(s.ctx, usecase.CreateUserRequest{ID: "admin-1", Email: "admin@example.com", Role: entity.RoleAdmin})
	s.Require().NoError(err)
	s.signup("cust-1")
	appt := s.book("cust-1", 0)

	notes := "Left the keys at reception"
	res, err := s.appointments.UpdateStatus(s.ctx, usecase.UpdateStatusRequest{
		ActorID: "admin-1", AppointmentID: appt.ID, Status: entity.StatusCompleted, Notes: &notes,
	})
	s.Require().NoError(err)
	s.Equal(notes, res.Appointment.Notes)
	s.Equal(int64(15), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestUnknownStatusRejected() {
	s.signup("cust-1")
	appt := s.book("cust-1", 0)

	_, err := s.setStatus("vend-1", appt.ID, "washed")
	s.ErrorIs(err, errs.ErrInvalidStatusTransition)
}

func (s *AppointmentTestSuite) TestConcurrentCompletionCreditsOnce() {
	s.signup("cust-1")
	appt := s.book("cust-1", 0)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.setStatus("vend-1", appt.ID, entity.StatusCompleted)
			s.NoError(err)
		}()
	}
	wg.Wait()

	w := s.wallet("cust-1")
	s.Equal(int64(15), w.Coins)
	s.Len(w.Transactions, 2)
}

func (s *AppointmentTestSuite) TestCreditForCompletion() {
	s.signup("cust-1")
	appt := s.book("cust-1", 0)

	_, err := s.appointments.CreditForCompletion(s.ctx, "vend-1", appt.ID)
	s.ErrorIs(err, errs.ErrInvalidStatusTransition)

	// a completion recorded without settling the reward
	stored, err := s.store.GetAppointmentRepository(s.ctx).GetByID(s.ctx, appt.ID)
	s.Require().NoError(err)
	stored.Status = entity.StatusCompleted
	s.Require().NoError(s.store.GetAppointmentRepository(s.ctx).Update(s.ctx, stored))

	entry, err := s.appointments.CreditForCompletion(s.ctx, "vend-1", appt.ID)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(int64(5), entry.Amount)

	entry, err = s.appointments.CreditForCompletion(s.ctx, "vend-1", appt.ID)
	s.Require().NoError(err)
	s.Nil(entry)
	s.Equal(int64(15), s.wallet("cust-1").Coins)

	_, err = s.appointments.CreditForCompletion(s.ctx, "vend-1", "missing")
	s.ErrorIs(err, errs.ErrAppointmentNotFound)
}

func (s *AppointmentTestSuite) TestCreditForCompletionRequiresOwningVendor() {
	s.signup("cust-1")
	appt := s.book("cust-1", 0)
	_, err := s.users.CreateUser(s.ctx, usecase.CreateUserRequest{
		ID: "vend-2", Email: "other@example.com", Role: entity.RoleVendor, BusinessName: "Foam Factory",
	})
	s.Require().NoError(err)

	stored, err := s.store.GetAppointmentRepository(s.ctx).GetByID(s.ctx, appt.ID)
	s.Require().NoError(err)
	stored.Status = entity.StatusCompleted
	s.Require().NoError(s.store.GetAppointmentRepository(s.ctx).Update(s.ctx, stored))

	_, err = s.appointments.CreditForCompletion(s.ctx, "vend-2", appt.ID)
	s.ErrorIs(err, errs.ErrForbidden)
	_, err = s.appointments.CreditForCompletion(s.ctx, "cust-1", appt.ID)
	s.ErrorIs(err, errs.ErrForbidden)
	s.Equal(int64(10), s.wallet("cust-1").Coins)

	stored, err = s.store.GetAppointmentRepository(s.ctx).GetByID(s.ctx, appt.ID)
	s.Require().NoError(err)
	s.False(stored.RewardGranted)

	entry, err := s.appointments.CreditForCompletion(s.ctx, "vend-1", appt.ID)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(int64(15), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestConcurrentCoinBookingsNeverOverdraw() {
	s.signup("cust-1")

	const bookings = 2
	var wg sync.WaitGroup
	booked := make(chan *entity.Appointment, bookings)
	failed := make(chan error, bookings)
	for i := 0; i < bookings; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			appt, err := s.appointments.CreateAppointment(s.ctx, usecase.CreateAppointmentRequest{
				CustomerID: "cust-1",
				VendorID:   s.vendorID,
				ServiceID:  s.serviceID,
				Date:       time.Now().Add(24 * time.Hour),
				CoinsToUse: 8,
			})
			if err != nil {
				failed <- err
				return
			}
			booked <- appt
		}()
	}
	wg.Wait()
	close(booked)
	close(failed)

	s.Require().Len(booked, 1)
	s.Require().Len(failed, 1)
	s.ErrorIs(<-failed, errs.ErrInsufficientFunds)

	appt := <-booked
	s.Equal(int64(8), appt.CoinsUsed)
	_, err := s.appointments.GetAppointment(s.ctx, "cust-1", appt.ID)
	s.Require().NoError(err)

	w := s.wallet("cust-1")
	s.Equal(int64(2), w.Coins)
	s.Len(w.Transactions, 2)
}

func (s *AppointmentTestSuite) TestRewardFailureRollsBackStatus() {
	s.signup("cust-1")
	appt := s.book("cust-1", 0)

	s.store.InjectConflicts(10)
	_, err := s.setStatus("vend-1", appt.ID, entity.StatusCompleted)
	s.ErrorIs(err, errs.ErrConcurrencyConflict)
	s.store.InjectConflicts(0)

	stored, err := s.appointments.GetAppointment(s.ctx, "cust-1", appt.ID)
	s.Require().NoError(err)
	s.Equal(entity.StatusConfirmed, stored.Status)
	s.False(stored.RewardGranted)
	s.Equal(int64(10), s.wallet("cust-1").Coins)
}

func (s *AppointmentTestSuite) TestFeedbackUpdatesVendorRating() {
	s.signup("cust-1")
	s.signup("cust-2")
	first := s.book("cust-1", 0)
	second := s.book("cust-2", 0)

	_, err := s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-1", AppointmentID: first.ID, Rating: 5})
	s.ErrorIs(err, errs.ErrFeedbackNotAllowed)

	for _, id := range []string{first.ID, second.ID} {
		_, err := s.setStatus("vend-1", id, entity.StatusCompleted)
		s.Require().NoError(err)
	}

	_, err = s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-2", AppointmentID: first.ID, Rating: 5})
	s.ErrorIs(err, errs.ErrForbidden)

	_, err = s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-1", AppointmentID: first.ID, Rating: 6})
	s.ErrorIs(err, errs.ErrValidation)

	appt, err := s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-1", AppointmentID: first.ID, Rating: 5, Comment: "Spotless"})
	s.Require().NoError(err)
	s.Require().NotNil(appt.Feedback)
	s.Equal("Spotless", appt.Feedback.Comment)

	_, err = s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-1", AppointmentID: first.ID, Rating: 1})
	s.ErrorIs(err, errs.ErrFeedbackNotAllowed)

	_, err = s.appointments.AddFeedback(s.ctx, usecase.FeedbackRequest{CustomerID: "cust-2", AppointmentID: second.ID, Rating: 4})
	s.Require().NoError(err)

	v, err := s.vendors.GetVendor(s.ctx, s.vendorID)
	s.Require().NoError(err)
	s.Equal(int64(2), v.RatingCount)
	s.InDelta(4.5, v.Rating, 0.001)
}
