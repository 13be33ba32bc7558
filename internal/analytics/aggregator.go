// Package analytics turns a form's stored responses into daily counts,
// a week-over-week trend and per-field breakdowns.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

const (
	// Window bounds the daily stats and trend computation
	Window = 30 * 24 * time.Hour

	week = 7 * 24 * time.Hour
)

// Record is a single response reduced to what aggregation needs
type Record struct {
	SubmittedAt time.Time
	Answers     Answers
}

// Compute aggregates records for the given field schema. total is the
// form's all-time response count and is the denominator for categorical
// percentages. now anchors the 30-day window and the trend weeks.
//
// Daily stats and the trend only consider records inside the window;
// field analytics cover every record passed in.
func Compute(fields []models.FieldSchema, records []Record, total int, now time.Time) *Result {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	return &Result{
		Total:          total,
		DailyStats:     dailyStats(sorted, now),
		Trends:         trend(sorted, now),
		FieldAnalytics: fieldAnalytics(fields, sorted, total),
	}
}

func dailyStats(records []Record, now time.Time) []DailyStat {
	since := now.Add(-Window)
	stats := []DailyStat{}
	index := make(map[string]int)

	for _, r := range records {
		if r.SubmittedAt.Before(since) {
			continue
		}
		date := r.SubmittedAt.UTC().Format(time.DateOnly)
		if i, ok := index[date]; ok {
			stats[i].Count++
			continue
		}
		index[date] = len(stats)
		stats = append(stats, DailyStat{Date: date, Count: 1})
	}
	return stats
}

func trend(records []Record, now time.Time) Trend {
	lastStart := now.Add(-week)
	prevStart := now.Add(-2 * week)
	windowStart := now.Add(-Window)

	var t Trend
	for _, r := range records {
		at := r.SubmittedAt
		if at.Before(windowStart) {
			continue
		}
		switch {
		case !at.Before(lastStart):
			t.Last7Days++
		case !at.Before(prevStart):
			t.Previous7Days++
		}
	}

	var pct float64
	switch {
	case t.Previous7Days > 0:
		pct = float64(t.Last7Days-t.Previous7Days) / float64(t.Previous7Days) * 100
	case t.Last7Days > 0:
		pct = 100
	}
	t.Percent = roundTenth(pct)
	return t
}

// roundTenth rounds to one decimal place with halves going up
func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

func fieldAnalytics(fields []models.FieldSchema, records []Record, total int) map[string]FieldAnalytics {
	out := make(map[string]FieldAnalytics)

	for _, field := range fields {
		switch {
		case field.Type.IsCategorical():
			out[field.Label] = categorical(field, records, total)
		case field.Type == models.FieldTypeRating:
			if fa, ok := rating(field, records); ok {
				out[field.Label] = fa
			}
		}
	}
	return out
}

func categorical(field models.FieldSchema, records []Record, total int) FieldAnalytics {
	options := []OptionStat{}
	index := make(map[string]int)

	for _, r := range records {
		for _, sel := range r.Answers[field.Label].Selections() {
			if i, ok := index[sel]; ok {
				options[i].Count++
				continue
			}
			index[sel] = len(options)
			options = append(options, OptionStat{Option: sel, Count: 1})
		}
	}

	for i := range options {
		options[i].Percentage = percentage(options[i].Count, total)
	}
	return FieldAnalytics{Type: field.Type, Options: options}
}

func rating(field models.FieldSchema, records []Record) (FieldAnalytics, bool) {
	counts := make(map[int]int)
	valid, sum := 0, 0

	for _, r := range records {
		v, ok := r.Answers[field.Label].Rating()
		if !ok {
			continue
		}
		counts[v]++
		valid++
		sum += v
	}
	if valid == 0 {
		return FieldAnalytics{}, false
	}

	dist := make([]RatingStat, 0, len(counts))
	for v, c := range counts {
		dist = append(dist, RatingStat{Rating: v, Count: c, Percentage: percentage(c, valid)})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].Rating < dist[j].Rating })

	return FieldAnalytics{
		Type:         models.FieldTypeRating,
		Average:      float64(sum) / float64(valid),
		Distribution: dist,
	}, true
}

func percentage(count, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(count) / float64(of) * 100
}
