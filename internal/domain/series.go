package domain

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// DateLayout is the day-precision date format used everywhere a date is
// serialized or compared.
const DateLayout = "2006-01-02"

// TimePoint is one dated observation. Value is always a real number; a
// missing observation is expressed by the point not existing at all.
type TimePoint struct {
	Date  time.Time
	Value float64
}

func (p TimePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}{p.Date.Format(DateLayout), p.Value})
}

func (p *TimePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return err
	}
	p.Date = d.UTC()
	p.Value = raw.Value
	return nil
}

// Series is an ascending, deduplicated-by-date sequence of points for one
// metric. A nil Series marshals as JSON null, which is the published shape
// for a metric no provider could supply.
type Series []TimePoint

// Day truncates a timestamp to day precision in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeSeries sorts points ascending by date and collapses duplicate
// dates, keeping the point that appeared last in the input. Points with a
// non-finite value are dropped.
func NormalizeSeries(points []TimePoint) Series {
	kept := make([]TimePoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		p.Date = Day(p.Date)
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	out := make(Series, 0, len(kept))
	for _, p := range kept {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// Tail returns the most recent n points.
func (s Series) Tail(n int) Series {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// DownsampleMonthly collapses a dense daily series to one point per calendar
// month, keeping the chronologically last observation in each month, and
// returns the most recent `months` of them. Month bucketing is calendar
// based; months are not fixed-width durations.
func DownsampleMonthly(points []TimePoint, months int) Series {
	sorted := NormalizeSeries(points)
	out := make(Series, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && sameMonth(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out.Tail(months)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Splice appends a spot point onto a history series, replacing any existing
// point on the same date. Points before the spot date are unchanged.
func Splice(history Series, spot TimePoint) Series {
	merged := make([]TimePoint, 0, len(history)+1)
	merged = append(merged, history...)
	merged = append(merged, spot)
	return NormalizeSeries(merged)
}
