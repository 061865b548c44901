// internal/engine/compose/composer.go

// Package compose maps a classified query and its filtered result to
// the display payload. Branch selection follows a fixed priority order
// that must be preserved exactly: search > financial > staff > vehicle
// > timer > service > dashboard.
package compose

import (
	"fmt"

	"carwash-assistant/internal/catalog"
	"carwash-assistant/internal/engine/extract"
	"carwash-assistant/internal/engine/filter"
	"carwash-assistant/internal/engine/intent"
	"carwash-assistant/internal/models"
)

// Query is what the composer needs to know about the interpreted
// request.
type Query struct {
	Raw        string
	Entities   *extract.Entities
	Flags      intent.Flags
	Confidence float64
}

// Branch names the response branch the priority order selects.
func Branch(f intent.Flags) string {
	switch {
	case f.IsSearch:
		return "search"
	case f.IsFinancial:
		return "financial"
	case f.IsStaff:
		return "staff"
	case f.IsVehicle:
		return "vehicle"
	case f.IsTimer:
		return "timer"
	case f.IsService:
		return "service"
	default:
		return "dashboard"
	}
}

// Compose builds the response for a query. Every branch has a no-data
// fallback; none returns a nil response.
func Compose(q *Query, res *filter.Result, cat *catalog.Catalog) *models.Response {
	branch := Branch(q.Flags)
	// A date range alone narrows the record set without making the
	// query a record search: "revenus aujourd'hui" wants the financial
	// summary of today's services, not a flat result list. With no
	// concrete entities the keyword branch presents the filtered set.
	if branch == "search" && q.Entities.Count() == 0 {
		flags := q.Flags
		flags.IsSearch = false
		branch = Branch(flags)
	}

	var resp *models.Response
	switch branch {
	case "search":
		resp = composeSearch(q, res, cat)
	case "financial":
		resp = composeFinancial(q, res)
	case "staff":
		resp = composeStaff(q, res)
	case "vehicle":
		resp = composeVehicle(res)
	case "timer":
		resp = composeActive(res)
	case "service":
		resp = composeServices(res, cat)
	default:
		resp = composeDashboard(res)
	}

	resp.HasAnalysis = len(resp.Cards) > 0
	resp.NLPContext.Intent = branch
	resp.NLPContext.Confidence = q.Confidence
	resp.NLPContext.IsQuestion = q.Flags.IsQuestion
	if q.Entities.Dates != nil {
		resp.NLPContext.Timeframe = q.Entities.Dates.Timeframe
	}
	return resp
}

// Fallback is the generic apology used when composition itself fails.
// The engine boundary returns it after recovering a panic.
func Fallback() *models.Response {
	return &models.Response{
		Content:     "Désolé, je n'ai pas pu traiter cette demande. Pouvez-vous reformuler ?",
		Cards:       []models.Card{},
		Suggestions: genericSuggestions(),
		NLPContext:  models.NLPContext{Intent: "dashboard"},
	}
}

// A plate-only search renders vehicle profiles; any other entity mix
// renders the flat result list.
func composeSearch(q *Query, res *filter.Result, cat *catalog.Catalog) *models.Response {
	plateOnly := len(q.Entities.LicensePlates) > 0 && q.Entities.Count() == len(q.Entities.LicensePlates) && q.Entities.Dates == nil
	if plateOnly {
		return composeVehicle(res)
	}

	if len(res.Matched) == 0 {
		return &models.Response{
			Content:     "Aucun résultat ne correspond à cette recherche.",
			Cards:       []models.Card{},
			Suggestions: []string{"Revenus aujourd'hui", "Services en cours", "Voitures fidèles"},
		}
	}

	const maxHits = 10
	hits := make([]models.SearchHit, 0, len(res.Matched))
	for i := range res.Matched {
		if i == maxHits {
			break
		}
		r := &res.Matched[i]
		hits = append(hits, models.SearchHit{
			LicensePlate: r.LicensePlate,
			Service:      r.ServiceType,
			Date:         r.Date.String(),
			TotalPrice:   r.TotalPrice,
			Staff:        append([]string{}, r.Staff...),
			Brand:        r.VehicleBrand,
			Model:        r.VehicleModel,
		})
	}

	return &models.Response{
		Content: fmt.Sprintf("J'ai trouvé %d service(s) correspondant à votre recherche.", len(res.Matched)),
		Cards: []models.Card{{
			Type:   models.CardSearchResults,
			Title:  "Résultats de recherche",
			Search: &models.SearchResults{Total: len(res.Matched), Items: hits},
		}},
		Suggestions: []string{"Détails d'une plaque", "Revenus de cette période", "Services en cours"},
	}
}

func composeFinancial(q *Query, res *filter.Result) *models.Response {
	fin := res.Financial
	if fin.Count == 0 {
		return &models.Response{
			Content:     "Aucun service enregistré sur cette période, donc pas de revenus à afficher.",
			Cards:       []models.Card{},
			Suggestions: []string{"Revenus cette semaine", "Revenus ce mois", "Services en cours"},
		}
	}

	timeframe := ""
	if q.Entities.Dates != nil {
		timeframe = q.Entities.Dates.Timeframe
	}

	return &models.Response{
		Content: fmt.Sprintf("Revenus : %.2f DT pour %d service(s), soit %.2f DT en moyenne.",
			fin.Revenue, fin.Count, fin.Average),
		Cards: []models.Card{{
			Type:  models.CardFinancial,
			Title: "Résumé financier",
			Financial: &models.FinancialSummary{
				Revenue:        fin.Revenue,
				Services:       fin.Count,
				Average:        fin.Average,
				Timeframe:      timeframe,
				StaffBreakdown: fin.PerStaff,
			},
		}},
		Suggestions: []string{"Répartition par équipe", "Revenus d'hier", "Top véhicules"},
	}
}

func composeStaff(q *Query, res *filter.Result) *models.Response {
	profiles := res.Staff
	if len(q.Entities.Staff) > 0 {
		wanted := map[string]bool{}
		for _, id := range q.Entities.Staff {
			wanted[id] = true
		}
		kept := []filter.StaffStats{}
		for _, s := range profiles {
			if wanted[s.ID] {
				kept = append(kept, s)
			}
		}
		profiles = kept
	}

	if len(profiles) == 0 {
		return &models.Response{
			Content:     "Aucune activité d'équipe trouvée sur cette période.",
			Cards:       []models.Card{},
			Suggestions: []string{"Performance de l'équipe ce mois", "Revenus aujourd'hui", "Services en cours"},
		}
	}

	cards := make([]models.Card, 0, len(profiles))
	for _, s := range profiles {
		cards = append(cards, models.Card{
			Type:  models.CardStaff,
			Title: s.Name,
			Staff: &models.StaffProfile{
				StaffID:    s.ID,
				Name:       s.Name,
				Revenue:    s.Revenue,
				Services:   s.Services,
				Efficiency: s.Efficiency,
			},
		})
	}

	return &models.Response{
		Content:     fmt.Sprintf("Voici l'activité de %d membre(s) de l'équipe.", len(profiles)),
		Cards:       cards,
		Suggestions: []string{"Revenus par personne", "Services en cours", "Revenus cette semaine"},
	}
}

func composeVehicle(res *filter.Result) *models.Response {
	if len(res.Vehicles) == 0 {
		return &models.Response{
			Content:     "Aucun véhicule trouvé pour cette plaque ou cette recherche.",
			Cards:       []models.Card{},
			Suggestions: []string{"Rechercher une autre plaque", "Voitures fidèles", "Revenus aujourd'hui"},
		}
	}

	const maxVehicles = 5
	vehicles := res.Vehicles
	if len(vehicles) > maxVehicles {
		vehicles = vehicles[:maxVehicles]
	}

	cards := make([]models.Card, 0, len(vehicles))
	for _, v := range vehicles {
		cards = append(cards, models.Card{
			Type:  models.CardVehicle,
			Title: v.Plate,
			Vehicle: &models.VehicleProfile{
				LicensePlate:      v.Plate,
				Brand:             v.Brand,
				Model:             v.Model,
				Color:             v.Color,
				Visits:            v.Visits,
				TotalSpent:        v.TotalSpent,
				AverageSpent:      v.AverageSpent,
				PreferredServices: serviceNames(v.TopServices),
				LoyaltyTier:       v.LoyaltyTier,
				LastVisit:         v.LastVisit.String(),
			},
		})
	}

	return &models.Response{
		Content:     fmt.Sprintf("Voici %d profil(s) de véhicule.", len(cards)),
		Cards:       cards,
		Suggestions: []string{"Historique d'une plaque", "Revenus de ce client", "Services en cours"},
	}
}

func composeActive(res *filter.Result) *models.Response {
	if len(res.Active) == 0 {
		return &models.Response{
			Content:     "Aucun service en cours actuellement.",
			Cards:       []models.Card{},
			Suggestions: []string{"Revenus aujourd'hui", "Services d'hier", "Performance de l'équipe"},
		}
	}

	items := make([]models.ActiveService, 0, len(res.Active))
	for _, a := range res.Active {
		items = append(items, models.ActiveService{
			LicensePlate:   a.Plate,
			Service:        a.Service,
			Staff:          a.Staff,
			ElapsedMinutes: a.ElapsedMinutes,
		})
	}

	return &models.Response{
		Content: fmt.Sprintf("%d service(s) en cours en ce moment.", len(items)),
		Cards: []models.Card{{
			Type:   models.CardActiveServices,
			Title:  "Services en cours",
			Active: &models.ActiveServices{Items: items},
		}},
		Suggestions: []string{"Revenus aujourd'hui", "Qui travaille maintenant ?", "Dernière voiture entrée"},
	}
}

func composeServices(res *filter.Result, cat *catalog.Catalog) *models.Response {
	if len(res.Services) == 0 {
		return &models.Response{
			Content:     "Aucun service enregistré sur cette période.",
			Cards:       []models.Card{},
			Suggestions: []string{"Services cette semaine", "Revenus ce mois", "Services en cours"},
		}
	}

	items := make([]models.ServiceCount, 0, len(res.Services))
	for _, s := range res.Services {
		items = append(items, models.ServiceCount{
			Service: s.Type,
			Name:    cat.ServiceName(s.Type),
			Count:   s.Count,
			Revenue: s.Revenue,
			Share:   s.Share,
		})
	}

	return &models.Response{
		Content: fmt.Sprintf("Répartition de %d service(s) par formule.", res.Financial.Count),
		Cards: []models.Card{{
			Type:     models.CardServiceBreakdown,
			Title:    "Répartition des services",
			Services: &models.ServiceBreakdown{Items: items},
		}},
		Suggestions: []string{"Formule la plus demandée", "Revenus par formule", "Services en cours"},
	}
}

func composeDashboard(res *filter.Result) *models.Response {
	return &models.Response{
		Content: fmt.Sprintf(
			"Tableau de bord : %d service(s), %.2f DT de revenus, %d en cours. Demandez-moi les revenus, l'équipe, un véhicule ou les services actifs.",
			res.Financial.Count, res.Financial.Revenue, len(res.Active)),
		Cards:       []models.Card{},
		Suggestions: genericSuggestions(),
	}
}

func genericSuggestions() []string {
	return []string{"Revenus aujourd'hui", "Services en cours", "Performance de l'équipe", "Voitures fidèles"}
}

func serviceNames(types []models.ServiceType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
