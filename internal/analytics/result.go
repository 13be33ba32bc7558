package analytics

import (
	"encoding/json"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

// DailyStat is the number of responses submitted on one UTC date
type DailyStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Trend compares the last seven days with the seven days before them
type Trend struct {
	Last7Days     int     `json:"last7Days"`
	Previous7Days int     `json:"previous7Days"`
	Percent       float64 `json:"trend"`
}

// OptionStat counts one observed categorical selection
type OptionStat struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RatingStat counts one observed rating value
type RatingStat struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FieldAnalytics is the breakdown for a single field. Categorical fields
// fill Options; rating fields fill Average and Distribution.
type FieldAnalytics struct {
	Type         models.FieldType
	Options      []OptionStat
	Average      float64
	Distribution []RatingStat
}

type categoricalJSON struct {
	Type    models.FieldType `json:"type"`
	Options []OptionStat     `json:"options"`
}

type ratingJSON struct {
	Type         models.FieldType `json:"type"`
	Average      float64          `json:"average"`
	Distribution []RatingStat     `json:"distribution"`
}

// MarshalJSON emits only the keys relevant to the field's type
func (f FieldAnalytics) MarshalJSON() ([]byte, error) {
	if f.Type == models.FieldTypeRating {
		dist := f.Distribution
		if dist == nil {
			dist = []RatingStat{}
		}
		return json.Marshal(ratingJSON{Type: f.Type, Average: f.Average, Distribution: dist})
	}

	opts := f.Options
	if opts == nil {
		opts = []OptionStat{}
	}
	return json.Marshal(categoricalJSON{Type: f.Type, Options: opts})
}

// Result is the full analytics document for one form
type Result struct {
	Total          int                       `json:"total"`
	DailyStats     []DailyStat               `json:"dailyStats"`
	Trends         Trend                     `json:"trends"`
	FieldAnalytics map[string]FieldAnalytics `json:"fieldAnalytics"`
}
