package entity

import "time"

// ServiceCategory groups a vendor's services; Name is unique per vendor
type ServiceCategory struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	Icon        string
	Order       int
	CreatedAt   time.Time
}

// CategoryTemplate describes one category every vendor starts with
type CategoryTemplate struct {
	Name        string
	Description string
	Icon        string
	Order       int
}

// DefaultCategoryTemplates returns the categories seeded for a new vendor
func DefaultCategoryTemplates() []CategoryTemplate {
	return []CategoryTemplate{
		{Name: "Basic wash", Description: "Exterior wash and drying", Icon: "car", Order: 1},
		{Name: "Interior cleaning", Description: "Vacuuming and interior surfaces", Icon: "armchair", Order: 2},
		{Name: "Premium", Description: "Full wash with wax and detailing", Icon: "star", Order: 3},
		{Name: "Special services", Description: "Polishing, coating and other extras", Icon: "sparkles", Order: 4},
	}
}
