// internal/engine/extract/plates.go
package extract

import "regexp"

// platePatterns are tried in order; all matches from all patterns are
// collected and de-duplicated on the raw match text. No checksum or
// canonical normalization happens here; the filter despaces and
// upper-cases at comparison time.
var platePatterns = []*regexp.Regexp{
	// 142 TUN 789 / 142TUN789 style, optional spaces
	regexp.MustCompile(`\b\d{1,3}\s*[A-Za-z]{2,4}\s*\d{1,4}\b`),
	// dash-separated: 142-TUN-789
	regexp.MustCompile(`\b\d{1,3}-[A-Za-z]{2,4}-\d{1,4}\b`),
	// letters first: TU 1234 56
	regexp.MustCompile(`\b[A-Za-z]{2,4}\s*\d{3,4}\s*\d{1,3}\b`),
	// compact numeric with trailing letters: 1234AB12
	regexp.MustCompile(`\b\d{3,4}[A-Za-z]{2,3}\d{1,4}\b`),
}

// LicensePlates returns the de-duplicated raw plate candidates found
// in the query.
func LicensePlates(query string) []string {
	matches := []string{}
	for _, re := range platePatterns {
		matches = append(matches, re.FindAllString(query, -1)...)
	}
	return dedup(matches)
}
