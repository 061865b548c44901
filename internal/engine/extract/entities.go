// internal/engine/extract/entities.go

// Package extract holds the independent entity extractors. Each one is
// pure and total: no extractor returns an error or panics; no match
// yields an empty result.
package extract

import (
	"time"

	"carwash-assistant/internal/catalog"
	"carwash-assistant/internal/models"
)

// PriceMention is one price found in the query, with its original
// spelling preserved for display.
type PriceMention struct {
	Value    float64 `json:"value"`
	Original string  `json:"original"`
}

// Entities is everything the extractors found in one query.
type Entities struct {
	LicensePlates []string             `json:"licensePlates"`
	Vehicles      []string             `json:"vehicles"`
	Prices        []PriceMention       `json:"prices"`
	Dates         *DateRange           `json:"dates,omitempty"`
	Services      []models.ServiceType `json:"services"`
	Staff         []string             `json:"staff"`
	Notes         []string             `json:"notes"`
}

// Count is the number of extracted items across all list categories.
// The date range is excluded: it carries its own weight in the
// confidence heuristic.
func (e *Entities) Count() int {
	return len(e.LicensePlates) + len(e.Vehicles) + len(e.Prices) +
		len(e.Services) + len(e.Staff) + len(e.Notes)
}

// Any reports whether at least one entity category is non-empty.
func (e *Entities) Any() bool {
	return e.Count() > 0 || e.Dates != nil
}

// All runs every extractor over the query.
func All(query string, cat *catalog.Catalog, now time.Time) Entities {
	return Entities{
		LicensePlates: LicensePlates(query),
		Vehicles:      Vehicles(query, cat.Brands),
		Prices:        Prices(query),
		Dates:         Dates(query, now),
		Services:      Services(query, cat),
		Staff:         Staff(query, cat),
		Notes:         Notes(query, cat.NoteKeywords),
	}
}

// dedup keeps first occurrences, preserving order.
func dedup(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
