// internal/engine/extract/mentions.go
package extract

import (
	"strings"

	"carwash-assistant/internal/catalog"
	"carwash-assistant/internal/models"
)

// Vehicles finds brand mentions by case-insensitive substring match
// against the catalog brand list.
func Vehicles(query string, brands []string) []string {
	lowered := strings.ToLower(query)
	hits := []string{}
	for _, b := range brands {
		if strings.Contains(lowered, strings.ToLower(b)) {
			hits = append(hits, strings.ToLower(b))
		}
	}
	return dedup(hits)
}

// Services finds service mentions by display-name substring match.
func Services(query string, cat *catalog.Catalog) []models.ServiceType {
	lowered := strings.ToLower(query)
	hits := []models.ServiceType{}
	seen := map[models.ServiceType]bool{}
	for _, s := range cat.Services {
		if seen[s.Type] {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(s.Name)) || strings.Contains(lowered, string(s.Type)) {
			seen[s.Type] = true
			hits = append(hits, s.Type)
		}
	}
	return hits
}

// Staff finds roster mentions by display-name substring match and
// returns staff ids.
func Staff(query string, cat *catalog.Catalog) []string {
	lowered := strings.ToLower(query)
	hits := []string{}
	for _, s := range cat.Staff {
		if strings.Contains(lowered, strings.ToLower(s.Name)) {
			hits = append(hits, s.ID)
		}
	}
	return dedup(hits)
}

// Notes finds note-related keywords in the query.
func Notes(query string, keywords []string) []string {
	lowered := strings.ToLower(query)
	hits := []string{}
	for _, k := range keywords {
		if strings.Contains(lowered, strings.ToLower(k)) {
			hits = append(hits, k)
		}
	}
	return dedup(hits)
}
