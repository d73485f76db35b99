package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/model"
)

// AppointmentRepository implements AppointmentRepository using GORM
type AppointmentRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAppointmentRepository creates a new AppointmentRepository instance
func NewAppointmentRepository(db *gorm.DB, logger coreport.Logger) *AppointmentRepository {
	return &AppointmentRepository{db: db, logger: logger}
}

func appointmentToModel(a *entity.Appointment) model.Appointment {
	return model.Appointment{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		VendorID:        a.VendorID,
		ServiceID:       a.ServiceID,
		Date:            a.Date,
		Status:          string(a.Status),
		CoinsUsed:       a.CoinsUsed,
		TotalPrice:      a.TotalPrice,
		Notes:           a.Notes,
		RewardGranted:   a.RewardGranted,
		CustomerDetails: a.CustomerDetails,
		Feedback:        a.Feedback,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func appointmentToEntity(m *model.Appointment) *entity.Appointment {
	return &entity.Appointment{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		VendorID:        m.VendorID,
		ServiceID:       m.ServiceID,
		Date:            m.Date,
		Status:          entity.AppointmentStatus(m.Status),
		CoinsUsed:       m.CoinsUsed,
		TotalPrice:      m.TotalPrice,
		Notes:           m.Notes,
		RewardGranted:   m.RewardGranted,
		CustomerDetails: m.CustomerDetails,
		Feedback:        m.Feedback,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Create inserts a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	m := appointmentToModel(appointment)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapError(err, EntityAppointment)
	}
	return nil
}

// GetByID retrieves an appointment
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var m model.Appointment
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapError(err, EntityAppointment)
	}
	return appointmentToEntity(&m), nil
}

// GetForUpdate retrieves an appointment with SELECT ... FOR UPDATE
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id string) (*entity.Appointment, error) {
	var m model.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, MapError(err, EntityAppointment)
	}
	return appointmentToEntity(&m), nil
}

// Update persists the mutable appointment fields
func (r *AppointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	m := appointmentToModel(appointment)
	result := r.db.WithContext(ctx).Model(&model.Appointment{ID: appointment.ID}).
		Select("Status", "Notes", "RewardGranted", "Feedback", "UpdatedAt").
		Updates(&m)
	if result.Error != nil {
		return MapError(result.Error, EntityAppointment)
	}
	if result.RowsAffected == 0 {
		return MapError(gorm.ErrRecordNotFound, EntityAppointment)
	}

	r.logger.Debug("Appointment updated", map[string]any{
		"appointment_id": appointment.ID,
		"status":         string(appointment.Status),
		"reward_granted": appointment.RewardGranted,
	})
	return nil
}

// ServiceRepository implements ServiceRepository using GORM
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new ServiceRepository instance
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func serviceToEntity(m *model.Service) entity.Service {
	return entity.Service{
		ID:              m.ID,
		VendorID:        m.VendorID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		Available:       m.Available,
		CoinReward:      m.CoinReward,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Create inserts a service
func (r *ServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	m := model.Service{
		ID:              service.ID,
		VendorID:        service.VendorID,
		CategoryID:      service.CategoryID,
		Name:            service.Name,
		Description:     service.Description,
		Price:           service.Price,
		DurationMinutes: service.DurationMinutes,
		Available:       service.Available,
		CoinReward:      service.CoinReward,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
	// Available defaults to true in the schema; write false explicitly
	if err := r.db.WithContext(ctx).Select("*").Create(&m).Error; err != nil {
		return MapError(err, EntityService)
	}
	return nil
}

// GetByID retrieves a service
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	var m model.Service
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapError(err, EntityService)
	}
	svc := serviceToEntity(&m)
	return &svc, nil
}

// ListByVendor returns a vendor's services in creation order
func (r *ServiceRepository) ListByVendor(ctx context.Context, vendorID string) ([]entity.Service, error) {
	var rows []model.Service
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("created_at asc, id asc").Find(&rows).Error
	if err != nil {
		return nil, MapError(err, EntityService)
	}

	services := make([]entity.Service, 0, len(rows))
	for i := range rows {
		services = append(services, serviceToEntity(&rows[i]))
	}
	return services, nil
}

// VendorRepository implements VendorRepository using GORM
type VendorRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewVendorRepository creates a new VendorRepository instance
func NewVendorRepository(db *gorm.DB, logger coreport.Logger) *VendorRepository {
	return &VendorRepository{db: db, logger: logger}
}

func vendorToModel(v *entity.Vendor) model.Vendor {
	return model.Vendor{
		ID:             v.ID,
		UserID:         v.UserID,
		BusinessName:   v.BusinessName,
		Description:    v.Description,
		Address:        v.Address,
		City:           v.City,
		PostalCode:     v.PostalCode,
		Phone:          v.Phone,
		Email:          v.Email,
		Verified:       v.Verified,
		Banned:         v.Banned,
		Rating:         v.Rating,
		RatingCount:    v.RatingCount,
		OperatingHours: v.OperatingHours,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func vendorToEntity(m *model.Vendor) *entity.Vendor {
	return &entity.Vendor{
		ID:             m.ID,
		UserID:         m.UserID,
		BusinessName:   m.BusinessName,
		Description:    m.Description,
		Address:        m.Address,
		City:           m.City,
		PostalCode:     m.PostalCode,
		Phone:          m.Phone,
		Email:          m.Email,
		Verified:       m.Verified,
		Banned:         m.Banned,
		Rating:         m.Rating,
		RatingCount:    m.RatingCount,
		OperatingHours: m.OperatingHours,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// Create inserts a vendor profile. A second profile for the same user
// violates the unique user_id index and maps to ErrDuplicateVendor.
func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	m := vendorToModel(vendor)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		r.logger.Warn("Failed to create vendor", map[string]any{
			"vendor_id": vendor.ID,
			"user_id":   vendor.UserID,
			"error":     err.Error(),
		})
		return MapError(err, EntityVendor)
	}
	return nil
}

// GetByID retrieves a vendor by its own ID
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var m model.Vendor
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapError(err, EntityVendor)
	}
	return vendorToEntity(&m), nil
}

// GetByUserID retrieves the vendor owned by a user
func (r *VendorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error) {
	var m model.Vendor
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, MapError(err, EntityVendor)
	}
	return vendorToEntity(&m), nil
}

// GetForUpdate retrieves a vendor with SELECT ... FOR UPDATE
func (r *VendorRepository) GetForUpdate(ctx context.Context, id string) (*entity.Vendor, error) {
	var m model.Vendor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, MapError(err, EntityVendor)
	}
	return vendorToEntity(&m), nil
}

// Update writes every column except the owner and creation time
func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	m := vendorToModel(vendor)
	result := r.db.WithContext(ctx).Model(&model.Vendor{ID: vendor.ID}).
		Select("*").
		Omit("ID", "UserID", "CreatedAt").
		Updates(&m)
	if result.Error != nil {
		return MapError(result.Error, EntityVendor)
	}
	if result.RowsAffected == 0 {
		return MapError(gorm.ErrRecordNotFound, EntityVendor)
	}
	return nil
}

// CategoryRepository implements CategoryRepository using GORM
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository instance
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category; (vendor_id, name) is unique
func (r *CategoryRepository) Create(ctx context.Context, category *entity.ServiceCategory) error {
	m := model.ServiceCategory{
		ID:          category.ID,
		VendorID:    category.VendorID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		SortOrder:   category.Order,
		CreatedAt:   category.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapError(err, EntityCategory)
	}
	return nil
}

// ExistsByName checks whether the vendor has a category with that name
func (r *CategoryRepository) ExistsByName(ctx context.Context, vendorID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ServiceCategory{}).
		Where("vendor_id = ? AND name = ?", vendorID, name).
		Count(&count).Error
	if err != nil {
		return false, MapError(err, EntityCategory)
	}
	return count > 0, nil
}

// ListByVendor returns the vendor's categories in display order
func (r *CategoryRepository) ListByVendor(ctx context.Context, vendorID string) ([]entity.ServiceCategory, error) {
	var rows []model.ServiceCategory
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("sort_order asc, name asc").Find(&rows).Error
	if err != nil {
		return nil, MapError(err, EntityCategory)
	}

	categories := make([]entity.ServiceCategory, 0, len(rows))
	for _, m := range rows {
		categories = append(categories, entity.ServiceCategory{
			ID:          m.ID,
			VendorID:    m.VendorID,
			Name:        m.Name,
			Description: m.Description,
			Icon:        m.Icon,
			Order:       m.SortOrder,
			CreatedAt:   m.CreatedAt,
		})
	}
	return categories, nil
}
