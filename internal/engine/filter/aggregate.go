// internal/engine/filter/aggregate.go
package filter

import (
	"math"
	"sort"
	"time"

	"carwash-assistant/internal/catalog"
	qerrors "carwash-assistant/internal/common/errors"
	"carwash-assistant/internal/engine/extract"
	"carwash-assistant/internal/models"
)

// FinancialStats is the revenue aggregation over the filtered set.
// PerStaff splits each record's price evenly across its assigned
// staff, which is the station's explicit attribution policy.
type FinancialStats struct {
	Revenue  float64
	Average  float64
	Count    int
	PerStaff []models.StaffRevenue
}

type StaffStats struct {
	ID         string
	Name       string
	Revenue    float64
	Services   int
	Efficiency int
}

type VehicleStats struct {
	Plate        string
	Brand        string
	Model        string
	Color        string
	Visits       int
	TotalSpent   float64
	AverageSpent float64
	TopServices  []models.ServiceType
	LoyaltyTier  string
	LastVisit    models.Day
}

type ServiceStats struct {
	Type    models.ServiceType
	Count   int
	Revenue float64
	Share   float64
}

type ActiveStats struct {
	Plate          string
	Service        models.ServiceType
	Staff          []string
	ElapsedMinutes int
}

// Result carries the filtered records, every aggregation, and the
// non-fatal warnings raised along the way.
type Result struct {
	Matched   []models.ServiceRecord
	Financial FinancialStats
	Staff     []StaffStats
	Vehicles  []VehicleStats
	Services  []ServiceStats
	Active    []ActiveStats
	Warnings  []qerrors.QueryWarning
}

// Apply filters the snapshot and runs all aggregations. Each section
// is independently guarded: a failure zeroes that section and records
// a warning without aborting the others.
func Apply(all []models.ServiceRecord, ents *extract.Entities, cat *catalog.Catalog, now time.Time) *Result {
	res := &Result{Warnings: []qerrors.QueryWarning{}}

	res.guard("filter", func() {
		res.Matched = Records(all, ents)
	})
	if res.Matched == nil {
		res.Matched = []models.ServiceRecord{}
	}

	res.guard("financial", func() {
		res.Financial = financial(res.Matched, cat)
	})
	res.guard("staff", func() {
		res.Staff = staffStats(res.Matched, all, cat)
	})
	res.guard("vehicles", func() {
		res.Vehicles = vehicleStats(res.Matched)
	})
	res.guard("services", func() {
		res.Services = serviceStats(res.Matched)
	})
	res.guard("active", func() {
		res.Active = activeServices(res.Matched, now)
	})

	return res
}

func (r *Result) guard(section string, fn func()) {
	defer func() {
		if cause := recover(); cause != nil {
			r.Warnings = append(r.Warnings, qerrors.NewAggregationWarning(section, cause))
		}
	}()
	fn()
}

func financial(records []models.ServiceRecord, cat *catalog.Catalog) FinancialStats {
	stats := FinancialStats{Count: len(records)}
	perStaff := map[string]*models.StaffRevenue{}
	order := []string{}

	for i := range records {
		r := &records[i]
		stats.Revenue += r.TotalPrice
		if len(r.Staff) == 0 {
			continue
		}
		split := r.TotalPrice / float64(len(r.Staff))
		for _, id := range r.Staff {
			entry, ok := perStaff[id]
			if !ok {
				entry = &models.StaffRevenue{StaffID: id, Name: cat.StaffName(id)}
				perStaff[id] = entry
				order = append(order, id)
			}
			entry.Revenue += split
			entry.Services++
		}
	}

	if stats.Count > 0 {
		stats.Average = stats.Revenue / float64(stats.Count)
	}

	stats.PerStaff = make([]models.StaffRevenue, 0, len(order))
	for _, id := range order {
		stats.PerStaff = append(stats.PerStaff, *perStaff[id])
	}
	sort.SliceStable(stats.PerStaff, func(i, j int) bool {
		return stats.PerStaff[i].Revenue > stats.PerStaff[j].Revenue
	})
	return stats
}

// staffStats derives a profile per staff member seen in the filtered
// set. Revenue is over the filtered records; the efficiency heuristic
// divides by the member's global service count across the whole
// snapshot.
func staffStats(filtered, all []models.ServiceRecord, cat *catalog.Catalog) []StaffStats {
	fin := financial(filtered, cat)

	globalCounts := map[string]int{}
	for i := range all {
		for _, id := range all[i].Staff {
			globalCounts[id]++
		}
	}

	out := make([]StaffStats, 0, len(fin.PerStaff))
	for _, rev := range fin.PerStaff {
		out = append(out, StaffStats{
			ID:         rev.StaffID,
			Name:       rev.Name,
			Revenue:    rev.Revenue,
			Services:   rev.Services,
			Efficiency: efficiency(rev.Revenue, globalCounts[rev.StaffID]),
		})
	}
	return out
}

// efficiency is the station's heuristic, not a calibrated KPI:
// min(100, round(revenue / totalServices / 30 * 100)).
func efficiency(revenue float64, totalServices int) int {
	if totalServices == 0 {
		return 0
	}
	score := int(math.Round(revenue / float64(totalServices) / 30 * 100))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func vehicleStats(records []models.ServiceRecord) []VehicleStats {
	byPlate := map[string]*VehicleStats{}
	serviceCounts := map[string]map[models.ServiceType]int{}
	serviceOrder := map[string][]models.ServiceType{}
	order := []string{}

	for i := range records {
		r := &records[i]
		if r.LicensePlate == "" {
			continue
		}
		v, ok := byPlate[r.LicensePlate]
		if !ok {
			v = &VehicleStats{Plate: r.LicensePlate}
			byPlate[r.LicensePlate] = v
			serviceCounts[r.LicensePlate] = map[models.ServiceType]int{}
			order = append(order, r.LicensePlate)
		}
		v.Visits++
		v.TotalSpent += r.TotalPrice
		if serviceCounts[r.LicensePlate][r.ServiceType] == 0 {
			serviceOrder[r.LicensePlate] = append(serviceOrder[r.LicensePlate], r.ServiceType)
		}
		serviceCounts[r.LicensePlate][r.ServiceType]++
		if r.VehicleBrand != "" {
			v.Brand = r.VehicleBrand
		}
		if r.VehicleModel != "" {
			v.Model = r.VehicleModel
		}
		if r.VehicleColor != "" {
			v.Color = r.VehicleColor
		}
		if v.LastVisit.IsZero() || r.Date.After(v.LastVisit) {
			v.LastVisit = r.Date
		}
	}

	out := make([]VehicleStats, 0, len(order))
	for _, plate := range order {
		v := byPlate[plate]
		if v.Visits > 0 {
			v.AverageSpent = v.TotalSpent / float64(v.Visits)
		}
		v.TopServices = topServices(serviceCounts[plate], serviceOrder[plate], 3)
		v.LoyaltyTier = loyaltyTier(v.Visits)
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Visits > out[j].Visits
	})
	return out
}

// topServices picks the n most frequent service types, ties broken by
// first appearance.
func topServices(counts map[models.ServiceType]int, seen []models.ServiceType, n int) []models.ServiceType {
	ranked := append([]models.ServiceType{}, seen...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func loyaltyTier(visits int) string {
	switch {
	case visits >= 10:
		return "Fidèle"
	case visits >= 5:
		return "Régulier"
	case visits >= 2:
		return "Nouveau"
	default:
		return ""
	}
}

func serviceStats(records []models.ServiceRecord) []ServiceStats {
	counts := map[models.ServiceType]*ServiceStats{}
	order := []models.ServiceType{}

	for i := range records {
		r := &records[i]
		s, ok := counts[r.ServiceType]
		if !ok {
			s = &ServiceStats{Type: r.ServiceType}
			counts[r.ServiceType] = s
			order = append(order, r.ServiceType)
		}
		s.Count++
		s.Revenue += r.TotalPrice
	}

	total := len(records)
	out := make([]ServiceStats, 0, len(order))
	for _, t := range order {
		s := counts[t]
		if total > 0 {
			s.Share = float64(s.Count) / float64(total)
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// activeServices lists in-progress washes. Elapsed minutes are floored
// and clamped at zero against clock skew.
func activeServices(records []models.ServiceRecord, now time.Time) []ActiveStats {
	out := []ActiveStats{}
	for i := range records {
		r := &records[i]
		if !r.ActiveNow(now) {
			continue
		}
		elapsed := int(math.Floor(now.Sub(*r.TimeStarted).Minutes()))
		if elapsed < 0 {
			elapsed = 0
		}
		out = append(out, ActiveStats{
			Plate:          r.LicensePlate,
			Service:        r.ServiceType,
			Staff:          append([]string{}, r.Staff...),
			ElapsedMinutes: elapsed,
		})
	}
	return out
}
