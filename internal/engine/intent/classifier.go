// internal/engine/intent/classifier.go
package intent

import (
	"math"
	"regexp"

	"carwash-assistant/internal/catalog"
	"carwash-assistant/internal/engine/extract"
)

// Flags are the classified purposes of a query. They are not mutually
// exclusive; the composer resolves overlaps through a fixed priority
// order (search > financial > staff > vehicle > timer > service).
type Flags struct {
	IsFinancial bool `json:"isFinancial"`
	IsStaff     bool `json:"isStaff"`
	IsVehicle   bool `json:"isVehicle"`
	IsService   bool `json:"isService"`
	IsTimer     bool `json:"isTimer"`
	IsQuestion  bool `json:"isQuestion"`
	IsSearch    bool `json:"isSearch"`
}

var questionRe = regexp.MustCompile(`(?i)\b(qui|quoi|quel|quelle|quels|quelles|combien|comment|pourquoi|quand|où)\b|\?`)

// Classify computes the intent flags and the display confidence from
// the lemma sequence and the extracted entities.
func Classify(lemmas []string, ents *extract.Entities, kw catalog.Keywords) (Flags, float64) {
	set := make(map[string]bool, len(lemmas))
	joined := ""
	for _, l := range lemmas {
		set[l] = true
		joined += l + " "
	}

	f := Flags{
		IsFinancial: anyIn(set, kw.Financial) || len(ents.Prices) > 0,
		IsStaff:     anyIn(set, kw.Staff) || len(ents.Staff) > 0,
		IsVehicle:   anyIn(set, kw.Vehicle) || len(ents.Vehicles) > 0 || len(ents.LicensePlates) > 0,
		IsService:   anyIn(set, kw.Service) || len(ents.Services) > 0,
		IsTimer:     anyIn(set, kw.Timer),
		IsQuestion:  questionRe.MatchString(joined),
		IsSearch:    ents.Any(),
	}

	return f, confidence(ents, f)
}

// confidence is a display heuristic only; nothing downstream branches
// on it.
func confidence(ents *extract.Entities, f Flags) float64 {
	c := 0.7 + 0.1*float64(ents.Count())
	if ents.Dates != nil {
		c += 0.15
	}
	if f.IsSearch {
		c += 0.1
	}
	return math.Min(0.95, c)
}

func anyIn(set map[string]bool, words []string) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}
