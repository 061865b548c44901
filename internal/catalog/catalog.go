// internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"carwash-assistant/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// ServiceInfo maps a service type to its French display name.
type ServiceInfo struct {
	Type models.ServiceType `json:"type"`
	Name string             `json:"name"`
}

// Keywords are the lemma sets driving intent classification.
type Keywords struct {
	Financial []string `json:"financial"`
	Staff     []string `json:"staff"`
	Vehicle   []string `json:"vehicle"`
	Service   []string `json:"service"`
	Timer     []string `json:"timer"`
}

// Catalog is the immutable reference data injected into the engine:
// staff roster, vehicle brands, service names, the synonym table used
// for lemmatization, and the intent keyword sets. It is loaded once at
// startup and never mutated.
type Catalog struct {
	Staff        []models.StaffMember `json:"staff"`
	Services     []ServiceInfo        `json:"services"`
	Brands       []string             `json:"brands"`
	Synonyms     map[string]string    `json:"synonyms"`
	NoteKeywords []string             `json:"noteKeywords"`
	Keywords     Keywords             `json:"keywords"`
}

// catalogSchema validates the loaded file before it reaches the engine.
var catalogSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"staff": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"id", "name"},
				"properties": map[string]interface{}{
					"id":             map[string]interface{}{"type": "string", "minLength": 1},
					"name":           map[string]interface{}{"type": "string", "minLength": 1},
					"specialization": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				},
			},
		},
		"services": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"type", "name"},
				"properties": map[string]interface{}{
					"type": map[string]interface{}{"type": "string", "minLength": 1},
					"name": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
		"brands":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"synonyms":     map[string]interface{}{"type": "object"},
		"noteKeywords": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"keywords":     map[string]interface{}{"type": "object"},
	},
	"required": []string{"staff", "services", "brands"},
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(catalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("catalog validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("catalog validation failed: %v", errs)
	}

	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	cat.fillDefaults()
	return &cat, nil
}

// StaffByID looks up a roster entry. Second return is false on miss.
func (c *Catalog) StaffByID(id string) (models.StaffMember, bool) {
	for _, s := range c.Staff {
		if s.ID == id {
			return s, true
		}
	}
	return models.StaffMember{}, false
}

// StaffName resolves an id to a display name, falling back to the id
// itself so partial data never drops a row.
func (c *Catalog) StaffName(id string) string {
	if s, ok := c.StaffByID(id); ok {
		return s.Name
	}
	return id
}

// ServiceName resolves a service type to its display name.
func (c *Catalog) ServiceName(t models.ServiceType) string {
	for _, s := range c.Services {
		if s.Type == t {
			return s.Name
		}
	}
	return string(t)
}

func (c *Catalog) fillDefaults() {
	if c.Synonyms == nil {
		c.Synonyms = map[string]string{}
	}
	if len(c.NoteKeywords) == 0 {
		c.NoteKeywords = defaultNoteKeywords()
	}
	if len(c.Keywords.Financial) == 0 {
		c.Keywords = defaultKeywords()
	}
}

// Default returns the built-in catalog matching the station's
// production data. Used when no catalog file is configured and as a
// fixture baseline in tests.
func Default() *Catalog {
	return &Catalog{
		Staff: []models.StaffMember{
			{ID: "bilal", Name: "Bilal", Specialization: []string{"interieur", "complet-premium"}},
			{ID: "ayoub", Name: "Ayoub", Specialization: []string{"exterieur"}},
			{ID: "mehdi", Name: "Mehdi", Specialization: []string{"lavage-ville"}},
			{ID: "youssef", Name: "Youssef", Specialization: []string{"exterieur", "interieur"}},
		},
		Services: []ServiceInfo{
			{Type: models.ServiceLavageVille, Name: "Lavage Ville"},
			{Type: models.ServiceInterieur, Name: "Intérieur"},
			{Type: models.ServiceExterieur, Name: "Extérieur"},
			{Type: models.ServiceCompletPremium, Name: "Complet Premium"},
		},
		Brands: []string{
			"renault", "peugeot", "citroën", "citroen", "dacia", "volkswagen",
			"audi", "bmw", "mercedes", "toyota", "honda", "nissan", "hyundai",
			"kia", "mazda", "suzuki", "mitsubishi", "ford", "chevrolet", "opel",
			"fiat", "alfa romeo", "seat", "skoda", "volvo", "jeep", "land rover",
			"range rover", "porsche", "ferrari", "lamborghini", "maserati",
			"tesla", "mini", "smart", "isuzu", "chery", "geely", "byd", "mg",
		},
		Synonyms: map[string]string{
			"revenus":    "revenu",
			"gains":      "gain",
			"recettes":   "recette",
			"voitures":   "voiture",
			"véhicules":  "véhicule",
			"vehicule":   "véhicule",
			"vehicules":  "véhicule",
			"lavages":    "lavage",
			"services":   "service",
			"employés":   "employé",
			"employes":   "employé",
			"employe":    "employé",
			"équipes":    "équipe",
			"equipe":     "équipe",
			"equipes":    "équipe",
			"clients":    "client",
			"plaques":    "plaque",
			"marques":    "marque",
			"interieur":  "intérieur",
			"exterieur":  "extérieur",
		},
		NoteKeywords: defaultNoteKeywords(),
		Keywords:     defaultKeywords(),
	}
}

func defaultNoteKeywords() []string {
	return []string{"note", "urgent", "problème", "probleme", "rappel", "attention", "remarque"}
}

func defaultKeywords() Keywords {
	return Keywords{
		Financial: []string{"revenu", "gain", "recette", "argent", "caisse", "chiffre", "total", "gagné", "gagne", "rapporté", "rapporte"},
		Staff:     []string{"équipe", "staff", "employé", "personnel", "travail", "efficacité", "efficacite", "performance"},
		Vehicle:   []string{"voiture", "véhicule", "client", "plaque", "marque", "immatriculation"},
		Service:   []string{"service", "lavage", "intérieur", "extérieur", "premium", "prestation", "formule"},
		Timer:     []string{"actif", "cours", "chrono", "timer", "minuterie", "encours", "actuellement"},
	}
}
