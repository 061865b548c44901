// internal/engine/filter/aggregate_test.go
package filter

import (
	"testing"
	"time"

	"carwash-assistant/internal/catalog"
	"carwash-assistant/internal/engine/extract"
	"carwash-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aggNow = time.Date(2025, time.March, 13, 15, 30, 0, 0, time.UTC)

// ==========================
// Financial Aggregation
// ==========================

func TestFinancial_EvenStaffSplit(t *testing.T) {
	cat := catalog.Default()
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) {
			r.TotalPrice = 40
			r.Staff = []string{"bilal", "ayoub"}
		}),
		record(func(r *models.ServiceRecord) {
			r.ID = "rec-2"
			r.TotalPrice = 30
			r.Staff = []string{"bilal"}
		}),
	}

	stats := financial(records, cat)

	assert.Equal(t, 70.0, stats.Revenue)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 35.0, stats.Average)

	require.Len(t, stats.PerStaff, 2)
	// Sorted by revenue descending: bilal 20+30, ayoub 20.
	assert.Equal(t, "bilal", stats.PerStaff[0].StaffID)
	assert.Equal(t, "Bilal", stats.PerStaff[0].Name)
	assert.Equal(t, 50.0, stats.PerStaff[0].Revenue)
	assert.Equal(t, 2, stats.PerStaff[0].Services)
	assert.Equal(t, "ayoub", stats.PerStaff[1].StaffID)
	assert.Equal(t, 20.0, stats.PerStaff[1].Revenue)
}

func TestFinancial_SkipsRecordsWithoutStaff(t *testing.T) {
	cat := catalog.Default()
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.Staff = nil; r.TotalPrice = 25 }),
	}

	stats := financial(records, cat)

	// Revenue still counts; attribution does not.
	assert.Equal(t, 25.0, stats.Revenue)
	assert.Empty(t, stats.PerStaff)
}

// ==========================
// Staff Profiles
// ==========================

func TestStaffStats_EfficiencyUsesGlobalCounts(t *testing.T) {
	cat := catalog.Default()
	filtered := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.TotalPrice = 30; r.Staff = []string{"bilal"} }),
	}
	// bilal has one more record outside the filtered set.
	all := append([]models.ServiceRecord{}, filtered...)
	all = append(all, record(func(r *models.ServiceRecord) {
		r.ID = "rec-2"
		r.TotalPrice = 60
		r.Staff = []string{"bilal"}
	}))

	out := staffStats(filtered, all, cat)

	require.Len(t, out, 1)
	assert.Equal(t, "bilal", out[0].ID)
	assert.Equal(t, 30.0, out[0].Revenue)
	assert.Equal(t, 1, out[0].Services)
	// 30 / 2 global services / 30 * 100 = 50
	assert.Equal(t, 50, out[0].Efficiency)
}

func TestEfficiency_Bounds(t *testing.T) {
	assert.Equal(t, 0, efficiency(100, 0))
	assert.Equal(t, 100, efficiency(1000, 1))
	assert.Equal(t, 100, efficiency(30, 1))
	assert.Equal(t, 50, efficiency(15, 1))
	assert.Equal(t, 0, efficiency(-10, 1))
}

// ==========================
// Vehicle Profiles
// ==========================

func TestVehicleStats_GroupingAndLoyalty(t *testing.T) {
	visits := func(plate string, n int) []models.ServiceRecord {
		out := []models.ServiceRecord{}
		for i := 0; i < n; i++ {
			out = append(out, record(func(r *models.ServiceRecord) {
				r.LicensePlate = plate
				r.TotalPrice = 10
				r.Date = models.NewDay(2025, time.March, 1+i)
			}))
		}
		return out
	}

	records := append(visits("AAA111", 10), visits("BBB222", 5)...)
	records = append(records, visits("CCC333", 2)...)
	records = append(records, visits("DDD444", 1)...)

	out := vehicleStats(records)

	require.Len(t, out, 4)
	assert.Equal(t, "AAA111", out[0].Plate)
	assert.Equal(t, "Fidèle", out[0].LoyaltyTier)
	assert.Equal(t, 10, out[0].Visits)
	assert.Equal(t, 100.0, out[0].TotalSpent)
	assert.Equal(t, 10.0, out[0].AverageSpent)
	assert.True(t, out[0].LastVisit.Equal(models.NewDay(2025, time.March, 10)))

	assert.Equal(t, "Régulier", out[1].LoyaltyTier)
	assert.Equal(t, "Nouveau", out[2].LoyaltyTier)
	assert.Equal(t, "", out[3].LoyaltyTier)
}

func TestVehicleStats_TopServicesCappedAtThree(t *testing.T) {
	types := []models.ServiceType{
		models.ServiceLavageVille, models.ServiceLavageVille,
		models.ServiceInterieur, models.ServiceInterieur, models.ServiceInterieur,
		models.ServiceExterieur,
		models.ServiceCompletPremium,
	}
	records := []models.ServiceRecord{}
	for i, st := range types {
		records = append(records, record(func(r *models.ServiceRecord) {
			r.ServiceType = st
			r.Date = models.NewDay(2025, time.March, 1+i)
		}))
	}

	out := vehicleStats(records)

	require.Len(t, out, 1)
	require.Len(t, out[0].TopServices, 3)
	assert.Equal(t, models.ServiceInterieur, out[0].TopServices[0])
	assert.Equal(t, models.ServiceLavageVille, out[0].TopServices[1])
	// Tie between exterieur and complet-premium broken by first appearance.
	assert.Equal(t, models.ServiceExterieur, out[0].TopServices[2])
}

func TestVehicleStats_SkipsEmptyPlates(t *testing.T) {
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.LicensePlate = "" }),
	}
	assert.Empty(t, vehicleStats(records))
}

// ==========================
// Service Breakdown
// ==========================

func TestServiceStats_SharesSumToOne(t *testing.T) {
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.ServiceType = models.ServiceLavageVille; r.TotalPrice = 10 }),
		record(func(r *models.ServiceRecord) { r.ServiceType = models.ServiceLavageVille; r.TotalPrice = 10 }),
		record(func(r *models.ServiceRecord) { r.ServiceType = models.ServiceInterieur; r.TotalPrice = 20 }),
		record(func(r *models.ServiceRecord) { r.ServiceType = models.ServiceInterieur; r.TotalPrice = 20 }),
	}

	out := serviceStats(records)

	require.Len(t, out, 2)
	total := 0.0
	for _, s := range out {
		total += s.Share
		assert.Equal(t, 2, s.Count)
	}
	assert.InDelta(t, 1.0, total, 0.001)
}

// ==========================
// Active Services
// ==========================

func TestActiveServices(t *testing.T) {
	started := aggNow.Add(-25 * time.Minute)
	finished := aggNow.Add(-5 * time.Minute)

	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) {
			r.ID = "active"
			r.IsActive = true
			r.TimeStarted = &started
			r.Date = models.DayOf(aggNow)
		}),
		record(func(r *models.ServiceRecord) {
			r.ID = "finished"
			r.IsActive = true
			r.TimeStarted = &started
			r.TimeFinished = &finished
			r.Date = models.DayOf(aggNow)
		}),
		record(func(r *models.ServiceRecord) {
			r.ID = "stale-yesterday"
			r.IsActive = true
			r.TimeStarted = &started
			r.Date = models.DayOf(aggNow).AddDays(-1)
		}),
		record(func(r *models.ServiceRecord) {
			r.ID = "never-started"
			r.IsActive = true
			r.Date = models.DayOf(aggNow)
		}),
	}

	out := activeServices(records, aggNow)

	require.Len(t, out, 1)
	assert.Equal(t, 25, out[0].ElapsedMinutes)
	assert.Equal(t, "142TUN789", out[0].Plate)
}

func TestActiveServices_ClockSkewClampedToZero(t *testing.T) {
	started := aggNow.Add(90 * time.Second) // starts in the future
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) {
			r.IsActive = true
			r.TimeStarted = &started
			r.Date = models.DayOf(aggNow)
		}),
	}

	out := activeServices(records, aggNow)

	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].ElapsedMinutes)
}

// ==========================
// Apply Orchestration
// ==========================

func TestApply_FiltersAndAggregates(t *testing.T) {
	cat := catalog.Default()
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.TotalPrice = 40; r.Staff = []string{"bilal", "ayoub"} }),
		record(func(r *models.ServiceRecord) {
			r.ID = "rec-2"
			r.Staff = []string{"mehdi"}
			r.Date = models.NewDay(2025, time.February, 1)
		}),
	}

	ents := extract.Entities{
		Dates: &extract.DateRange{
			Start: models.NewDay(2025, time.March, 1),
			End:   models.NewDay(2025, time.March, 31),
		},
	}

	res := Apply(records, &ents, cat, aggNow)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, 40.0, res.Financial.Revenue)
	assert.Len(t, res.Staff, 2)
	assert.Len(t, res.Vehicles, 1)
	assert.Len(t, res.Services, 1)
	assert.Empty(t, res.Warnings)
}

func TestApply_IsIdempotentAndLeavesInputIntact(t *testing.T) {
	cat := catalog.Default()
	records := []models.ServiceRecord{
		record(func(r *models.ServiceRecord) { r.TotalPrice = 40; r.Staff = []string{"bilal", "ayoub"} }),
		record(func(r *models.ServiceRecord) {
			r.ID = "rec-2"
			r.LicensePlate = "555ABC111"
			r.Staff = []string{"mehdi"}
			r.TotalPrice = 60
		}),
	}
	before := make([]models.ServiceRecord, len(records))
	copy(before, records)

	ents := extract.Entities{
		Dates: &extract.DateRange{
			Start: models.NewDay(2025, time.March, 1),
			End:   models.NewDay(2025, time.March, 31),
		},
	}

	first := Apply(records, &ents, cat, aggNow)
	second := Apply(records, &ents, cat, aggNow)

	assert.Equal(t, first, second)
	assert.Equal(t, before, records)
}

func TestApply_EmptySnapshot(t *testing.T) {
	res := Apply(nil, &extract.Entities{}, catalog.Default(), aggNow)

	assert.NotNil(t, res.Matched)
	assert.Empty(t, res.Matched)
	assert.Equal(t, 0.0, res.Financial.Revenue)
	assert.Empty(t, res.Warnings)
}
