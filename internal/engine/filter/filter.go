// internal/engine/filter/filter.go

// Package filter applies a query's entities as predicates over the
// record snapshot and computes the aggregations the composer renders.
// Everything here is a pure function of its inputs.
package filter

import (
	"strings"

	"carwash-assistant/internal/engine/extract"
	"carwash-assistant/internal/models"
)

// Matches is the multi-field search predicate: a conjunction of every
// entity category present in the query. Within one category any
// mentioned value may match. Absent categories impose no constraint,
// so adding a constraint can only shrink the result set.
func Matches(r *models.ServiceRecord, ents *extract.Entities) bool {
	if len(ents.LicensePlates) > 0 && !matchesPlate(r, ents.LicensePlates) {
		return false
	}
	if len(ents.Vehicles) > 0 && !matchesVehicle(r, ents.Vehicles) {
		return false
	}
	if len(ents.Prices) > 0 && !matchesPrice(r, ents.Prices) {
		return false
	}
	if ents.Dates != nil && !ents.Dates.Contains(r.Date) {
		return false
	}
	if len(ents.Services) > 0 && !matchesService(r, ents.Services) {
		return false
	}
	if len(ents.Staff) > 0 && !matchesStaff(r, ents.Staff) {
		return false
	}
	if len(ents.Notes) > 0 && !matchesNotes(r, ents.Notes) {
		return false
	}
	return true
}

// Records returns the snapshot entries satisfying every present
// entity predicate.
func Records(records []models.ServiceRecord, ents *extract.Entities) []models.ServiceRecord {
	out := []models.ServiceRecord{}
	for i := range records {
		if Matches(&records[i], ents) {
			out = append(out, records[i])
		}
	}
	return out
}

// Plate comparison despaces and upper-cases both sides and accepts a
// substring hit in either direction, so "142 TUN 789" finds
// "142TUN789" and vice versa.
func matchesPlate(r *models.ServiceRecord, plates []string) bool {
	recorded := normalizePlate(r.LicensePlate)
	if recorded == "" {
		return false
	}
	for _, p := range plates {
		q := normalizePlate(p)
		if q == "" {
			continue
		}
		if strings.Contains(recorded, q) || strings.Contains(q, recorded) {
			return true
		}
	}
	return false
}

func normalizePlate(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), ""))
}

// Vehicle needles match against brand and model. The record carries no
// separate vehicle-type field; color is deliberately not matched.
func matchesVehicle(r *models.ServiceRecord, needles []string) bool {
	haystack := strings.ToLower(r.VehicleBrand + " " + r.VehicleModel)
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// priceTolerance is the ±2 currency-unit window of the original.
const priceTolerance = 2.0

func matchesPrice(r *models.ServiceRecord, prices []extract.PriceMention) bool {
	for _, p := range prices {
		diff := r.TotalPrice - p.Value
		if diff >= -priceTolerance && diff <= priceTolerance {
			return true
		}
	}
	return false
}

func matchesService(r *models.ServiceRecord, services []models.ServiceType) bool {
	for _, s := range services {
		if r.ServiceType == s {
			return true
		}
	}
	return false
}

func matchesStaff(r *models.ServiceRecord, staff []string) bool {
	for _, id := range staff {
		if r.HasStaff(id) {
			return true
		}
	}
	return false
}

func matchesNotes(r *models.ServiceRecord, keywords []string) bool {
	notes := strings.ToLower(r.Notes)
	if notes == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(notes, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
