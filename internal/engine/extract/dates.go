// internal/engine/extract/dates.go
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"carwash-assistant/internal/models"
)

// DateRange is the detected timeframe of a query. For a specific date
// Start equals End and IsRange is false.
type DateRange struct {
	Start     models.Day `json:"start"`
	End       models.Day `json:"end"`
	Timeframe string     `json:"timeframe"`
	IsRange   bool       `json:"isRange"`
}

// Contains implements the range semantics start <= d <= end.
func (r *DateRange) Contains(d models.Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Absolute patterns in priority order. The first pattern whose match
// is structurally valid wins; later patterns are not consulted.
var absolutePatterns = []struct {
	re    *regexp.Regexp
	build func(a, b, c int) (day, month, year int)
}{
	// YYYY/MM/DD
	{regexp.MustCompile(`\b(\d{4})/(\d{1,2})/(\d{1,2})\b`),
		func(a, b, c int) (int, int, int) { return c, b, a }},
	// DD/MM/YYYY
	{regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		func(a, b, c int) (int, int, int) { return a, b, c }},
	// DD/MM/YY, year 20YY
	{regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2})\b`),
		func(a, b, c int) (int, int, int) { return a, b, c + 2000 }},
}

// Relative keywords in insertion order; the first substring hit wins.
// Absolute patterns always take priority over these.
var relativeDates = []struct {
	keyword string
	resolve func(now time.Time) DateRange
}{
	{"aujourd'hui", todayRange},
	{"ajd", todayRange},
	{"hier", yesterdayRange},
	{"semaine", weekRange},
	{"mois", monthRange},
	{"année", yearRange},
}

// Dates detects the query's timeframe, or nil when none is mentioned.
func Dates(query string, now time.Time) *DateRange {
	lowered := strings.ToLower(strings.ReplaceAll(query, "’", "'"))

	for _, p := range absolutePatterns {
		for _, m := range p.re.FindAllStringSubmatch(lowered, -1) {
			a, _ := strconv.Atoi(m[1])
			b, _ := strconv.Atoi(m[2])
			c, _ := strconv.Atoi(m[3])
			day, month, year := p.build(a, b, c)
			if day < 1 || day > 31 || month < 1 || month > 12 || year < 2020 || year > 2030 {
				continue
			}
			d := models.NewDay(year, time.Month(month), day)
			return &DateRange{Start: d, End: d, Timeframe: "specific_date"}
		}
	}

	for _, r := range relativeDates {
		if strings.Contains(lowered, r.keyword) {
			rng := r.resolve(now)
			return &rng
		}
	}

	return nil
}

func todayRange(now time.Time) DateRange {
	d := models.DayOf(now)
	return DateRange{Start: d, End: d, Timeframe: "today"}
}

func yesterdayRange(now time.Time) DateRange {
	d := models.DayOf(now).AddDays(-1)
	return DateRange{Start: d, End: d, Timeframe: "yesterday"}
}

// weekRange is the Monday-start current week.
func weekRange(now time.Time) DateRange {
	d := models.DayOf(now)
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDays(-offset)
	return DateRange{Start: start, End: start.AddDays(6), Timeframe: "this_week", IsRange: true}
}

func monthRange(now time.Time) DateRange {
	start := models.NewDay(now.Year(), now.Month(), 1)
	end := models.NewDay(now.Year(), now.Month()+1, 1).AddDays(-1)
	return DateRange{Start: start, End: end, Timeframe: "this_month", IsRange: true}
}

func yearRange(now time.Time) DateRange {
	return DateRange{
		Start:     models.NewDay(now.Year(), time.January, 1),
		End:       models.NewDay(now.Year(), time.December, 31),
		Timeframe: "this_year",
		IsRange:   true,
	}
}
