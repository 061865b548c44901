// internal/engine/extract/prices.go
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches "<number> <currency>" with dt/dinar/euro/€/$ units.
var priceRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(dt|dinars?|euros?|€|\$)`)

// Prices extracts every price mention. Unparseable numbers are skipped
// silently; the extractor never fails.
func Prices(query string) []PriceMention {
	out := []PriceMention{}
	for _, m := range priceRe.FindAllStringSubmatch(query, -1) {
		raw := strings.ReplaceAll(m[1], ",", ".")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		out = append(out, PriceMention{Value: value, Original: m[0]})
	}
	return out
}
