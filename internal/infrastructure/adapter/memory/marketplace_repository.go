package memory

import (
	"context"
	"maps"
	"sort"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

func copyAppointment(a entity.Appointment) entity.Appointment {
	if a.Feedback != nil {
		fb := *a.Feedback
		a.Feedback = &fb
	}
	return a
}

func copyVendor(v entity.Vendor) entity.Vendor {
	v.OperatingHours = maps.Clone(v.OperatingHours)
	return v
}

type appointmentRepository struct {
	store *Store
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.run(ctx, func(d *dataset) error {
		d.appointments.set(appointment.ID, copyAppointment(*appointment))
		return nil
	})
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appointment *entity.Appointment
	err := r.store.run(ctx, func(d *dataset) error {
		a, ok := d.appointments.get(id)
		if !ok {
			return errs.ErrAppointmentNotFound
		}
		a = copyAppointment(a)
		appointment = &a
		return nil
	})
	return appointment, err
}

func (r *appointmentRepository) GetForUpdate(ctx context.Context, id string) (*entity.Appointment, error) {
	return r.GetByID(ctx, id)
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.run(ctx, func(d *dataset) error {
		if !d.appointments.has(appointment.ID) {
			return errs.ErrAppointmentNotFound
		}
		d.appointments.set(appointment.ID, copyAppointment(*appointment))
		return nil
	})
}

type serviceRepository struct {
	store *Store
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	return r.store.run(ctx, func(d *dataset) error {
		d.services.set(service.ID, *service)
		return nil
	})
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	var service *entity.Service
	err := r.store.run(ctx, func(d *dataset) error {
		s, ok := d.services.get(id)
		if !ok {
			return errs.ErrServiceNotFound
		}
		service = &s
		return nil
	})
	return service, err
}

func (r *serviceRepository) ListByVendor(ctx context.Context, vendorID string) ([]entity.Service, error) {
	var services []entity.Service
	err := r.store.run(ctx, func(d *dataset) error {
		services = d.services.filter(func(s entity.Service) bool {
			return s.VendorID == vendorID
		})
		return nil
	})
	return services, err
}

type vendorRepository struct {
	store *Store
}

func (r *vendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	return r.store.run(ctx, func(d *dataset) error {
		if d.vendors.has(vendor.ID) {
			return errs.ErrDuplicateVendor
		}
		owned := d.vendors.filter(func(v entity.Vendor) bool { return v.UserID == vendor.UserID })
		if len(owned) > 0 {
			return errs.ErrDuplicateVendor
		}
		d.vendors.set(vendor.ID, copyVendor(*vendor))
		return nil
	})
}

func (r *vendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var vendor *entity.Vendor
	err := r.store.run(ctx, func(d *dataset) error {
		v, ok := d.vendors.get(id)
		if !ok {
			return errs.ErrVendorNotFound
		}
		v = copyVendor(v)
		vendor = &v
		return nil
	})
	return vendor, err
}

func (r *vendorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error) {
	var vendor *entity.Vendor
	err := r.store.run(ctx, func(d *dataset) error {
		owned := d.vendors.filter(func(v entity.Vendor) bool { return v.UserID == userID })
		if len(owned) == 0 {
			return errs.ErrVendorNotFound
		}
		v := copyVendor(owned[0])
		vendor = &v
		return nil
	})
	return vendor, err
}

func (r *vendorRepository) GetForUpdate(ctx context.Context, id string) (*entity.Vendor, error) {
	return r.GetByID(ctx, id)
}

func (r *vendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	return r.store.run(ctx, func(d *dataset) error {
		if !d.vendors.has(vendor.ID) {
			return errs.ErrVendorNotFound
		}
		d.vendors.set(vendor.ID, copyVendor(*vendor))
		return nil
	})
}

type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.ServiceCategory) error {
	return r.store.run(ctx, func(d *dataset) error {
		if existsByName(d, category.VendorID, category.Name) {
			return errs.ErrDuplicateCategory
		}
		d.categories.set(category.ID, *category)
		return nil
	})
}

func (r *categoryRepository) ExistsByName(ctx context.Context, vendorID, name string) (bool, error) {
	var exists bool
	err := r.store.run(ctx, func(d *dataset) error {
		exists = existsByName(d, vendorID, name)
		return nil
	})
	return exists, err
}

func (r *categoryRepository) ListByVendor(ctx context.Context, vendorID string) ([]entity.ServiceCategory, error) {
	var categories []entity.ServiceCategory
	err := r.store.run(ctx, func(d *dataset) error {
		categories = d.categories.filter(func(c entity.ServiceCategory) bool {
			return c.VendorID == vendorID
		})
		sort.SliceStable(categories, func(i, j int) bool {
			return categories[i].Order < categories[j].Order
		})
		return nil
	})
	return categories, err
}

func existsByName(d *dataset, vendorID, name string) bool {
	return len(d.categories.filter(func(c entity.ServiceCategory) bool {
		return c.VendorID == vendorID && c.Name == name
	})) > 0
}
