// internal/models/response.go
package models

// Response is the payload the rendering layer consumes. The card field
// names are a de facto contract with the UI and must stay stable.
type Response struct {
	Content     string     `json:"content"`
	Cards       []Card     `json:"cards"`
	Suggestions []string   `json:"suggestions"`
	HasAnalysis bool       `json:"hasAnalysis"`
	NLPContext  NLPContext `json:"nlpContext"`
}

// NLPContext mirrors what the assistant understood, for display only.
type NLPContext struct {
	RequestID  string   `json:"requestId"`
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	IsQuestion bool     `json:"isQuestion"`
	Timeframe  string   `json:"timeframe,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// CardType discriminates the closed set of card payloads.
type CardType string

const (
	CardFinancial        CardType = "financial"
	CardStaff            CardType = "staff"
	CardVehicle          CardType = "vehicle"
	CardServiceBreakdown CardType = "serviceBreakdown"
	CardActiveServices   CardType = "activeServices"
	CardSearchResults    CardType = "searchResults"
)

// Card is one unit of result. Exactly one payload pointer is set,
// matching Type.
type Card struct {
	Type      CardType          `json:"type"`
	Title     string            `json:"title"`
	Financial *FinancialSummary `json:"financial,omitempty"`
	Staff     *StaffProfile     `json:"staff,omitempty"`
	Vehicle   *VehicleProfile   `json:"vehicle,omitempty"`
	Services  *ServiceBreakdown `json:"services,omitempty"`
	Active    *ActiveServices   `json:"active,omitempty"`
	Search    *SearchResults    `json:"search,omitempty"`
}

type FinancialSummary struct {
	Revenue        float64        `json:"revenue"`
	Services       int            `json:"services"`
	Average        float64        `json:"average"`
	Timeframe      string         `json:"timeframe,omitempty"`
	StaffBreakdown []StaffRevenue `json:"staffBreakdown,omitempty"`
}

type StaffRevenue struct {
	StaffID  string  `json:"staffId"`
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Services int     `json:"services"`
}

type StaffProfile struct {
	StaffID        string   `json:"staffId"`
	Name           string   `json:"name"`
	Specialization []string `json:"specialization,omitempty"`
	Revenue        float64  `json:"revenue"`
	Services       int      `json:"services"`
	Efficiency     int      `json:"efficiency"`
}

type VehicleProfile struct {
	LicensePlate      string   `json:"licensePlate"`
	Brand             string   `json:"brand,omitempty"`
	Model             string   `json:"model,omitempty"`
	Color             string   `json:"color,omitempty"`
	Visits            int      `json:"visits"`
	TotalSpent        float64  `json:"totalSpent"`
	AverageSpent      float64  `json:"averageSpent"`
	PreferredServices []string `json:"preferredServices"`
	LoyaltyTier       string   `json:"loyaltyTier,omitempty"`
	LastVisit         string   `json:"lastVisit,omitempty"`
}

type ServiceBreakdown struct {
	Items []ServiceCount `json:"items"`
}

type ServiceCount struct {
	Service ServiceType `json:"service"`
	Name    string      `json:"name"`
	Count   int         `json:"count"`
	Revenue float64     `json:"revenue"`
	Share   float64     `json:"share"`
}

type ActiveServices struct {
	Items []ActiveService `json:"items"`
}

type ActiveService struct {
	LicensePlate   string      `json:"licensePlate"`
	Service        ServiceType `json:"service"`
	Staff          []string    `json:"staff"`
	ElapsedMinutes int         `json:"elapsedMinutes"`
}

type SearchResults struct {
	Total int         `json:"total"`
	Items []SearchHit `json:"items"`
}

type SearchHit struct {
	LicensePlate string      `json:"licensePlate"`
	Service      ServiceType `json:"service"`
	Date         string      `json:"date"`
	TotalPrice   float64     `json:"totalPrice"`
	Staff        []string    `json:"staff"`
	Brand        string      `json:"brand,omitempty"`
	Model        string      `json:"model,omitempty"`
}
