// internal/models/service_record.go
package models

import "time"

// ServiceType enumerates the wash formulas offered at the station.
type ServiceType string

const (
	ServiceLavageVille    ServiceType = "lavage-ville"
	ServiceInterieur      ServiceType = "interieur"
	ServiceExterieur      ServiceType = "exterieur"
	ServiceCompletPremium ServiceType = "complet-premium"
)

// ServiceRecord is one car-wash job. The engine only reads these; the
// backing store owns them.
type ServiceRecord struct {
	ID              string      `json:"id"`
	LicensePlate    string      `json:"licensePlate"`
	ServiceType     ServiceType `json:"serviceType"`
	Staff           []string    `json:"staff"`
	Date            Day         `json:"date"`
	TotalPrice      float64     `json:"totalPrice"`
	PriceAdjustment float64     `json:"priceAdjustment"`
	VehicleBrand    string      `json:"vehicleBrand,omitempty"`
	VehicleModel    string      `json:"vehicleModel,omitempty"`
	VehicleColor    string      `json:"vehicleColor,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	TimeStarted     *time.Time  `json:"timeStarted,omitempty"`
	TimeFinished    *time.Time  `json:"timeFinished,omitempty"`
	IsActive        bool        `json:"isActive"`
}

// ActiveNow reports whether the wash is in progress. A record dated
// before today is implicitly finished regardless of its IsActive flag.
func (r *ServiceRecord) ActiveNow(now time.Time) bool {
	if !r.IsActive || r.TimeStarted == nil || r.TimeFinished != nil {
		return false
	}
	return !r.Date.Before(DayOf(now))
}

// HasStaff reports whether the given staff id is assigned to the job.
func (r *ServiceRecord) HasStaff(id string) bool {
	for _, s := range r.Staff {
		if s == id {
			return true
		}
	}
	return false
}

// StaffMember is static reference data about one worker.
type StaffMember struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialization []string `json:"specialization"`
}
