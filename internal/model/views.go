package model

import (
	"fmt"
	"strings"
	"time"
)

// ViewName identifies one of the supported report views.
type ViewName string

const (
	ViewOverview        ViewName = "overview"
	ViewCleaning        ViewName = "cleaning"
	ViewEDA             ViewName = "eda"
	ViewInsights        ViewName = "insights"
	ViewRecommendations ViewName = "recommendations"
)

// ViewNames lists the supported views in presentation order.
func ViewNames() []ViewName {
	return []ViewName{ViewOverview, ViewCleaning, ViewEDA, ViewInsights, ViewRecommendations}
}

// ParseViewName resolves a case-insensitive view name.
// Fails with ErrUnknownView for anything outside the supported set.
func ParseViewName(s string) (ViewName, error) {
	name := ViewName(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ViewNames() {
		if name == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// DatasetPreview is the head of one source table, rendered as strings.
type DatasetPreview struct {
	Name      string     `json:"name"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// EDATables bundles every derived table the EDA view renders.
type EDATables struct {
	MonthlyTrend      []MonthlyAggregate   `json:"monthly_trend"`
	TopConfirmed      []CountryRanking     `json:"top_confirmed"`
	TopDeaths         []CountryRanking     `json:"top_deaths"`
	TopRecovered      []CountryRanking     `json:"top_recovered"`
	ContinentCFR      []ContinentAggregate `json:"continent_cfr"`
	ContinentRecovery []ContinentAggregate `json:"continent_recovery"`
	CountryCFR        []CountryRate        `json:"country_cfr"`
	TestsVersusCases  []ScatterPoint       `json:"tests_versus_cases"`
	TestsCasesFit     *RegressionLine      `json:"tests_cases_fit,omitempty"`
	DailyNew          []DailyNewCounts     `json:"daily_new"`
}

// NarrativeItem is one static insight, question/answer, or recommendation.
type NarrativeItem struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ViewPayload bundles exactly the data one view needs. Sections not relevant
// to the view stay nil.
type ViewPayload struct {
	Name        ViewName         `json:"name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Previews    []DatasetPreview `json:"previews,omitempty"`
	Cleaning    *CleaningReport  `json:"cleaning,omitempty"`
	EDA         *EDATables       `json:"eda,omitempty"`
	Narrative   []NarrativeItem  `json:"narrative,omitempty"`
}
