package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricType identifies what a progress measurement tracks.
type MetricType string

const (
	MetricWeight   MetricType = "weight"
	MetricBodyFat  MetricType = "body_fat"
	MetricChest    MetricType = "chest"
	MetricWaist    MetricType = "waist"
	MetricHips     MetricType = "hips"
	MetricBicep    MetricType = "bicep"
	MetricThigh    MetricType = "thigh"
)

// ValidMetricType reports whether t is one of the known measurement kinds.
func ValidMetricType(t MetricType) bool {
	switch t {
	case MetricWeight, MetricBodyFat, MetricChest, MetricWaist, MetricHips, MetricBicep, MetricThigh:
		return true
	}
	return false
}

// ProgressMetric is one measurement logged by (or for) a client.
type ProgressMetric struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	Type       MetricType         `bson:"type" json:"type"`
	Value      float64            `bson:"value" json:"value"`
	Unit       string             `bson:"unit,omitempty" json:"unit,omitempty"` // e.g., "kg", "%", "cm"
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// MetricPoint is one element of a chart series.
type MetricPoint struct {
	RecordedAt time.Time `json:"recordedAt"`
	Value      float64   `json:"value"`
}

// MetricSeries is a chart-ready view of one metric type for one client.
type MetricSeries struct {
	Type   MetricType    `json:"type"`
	Unit   string        `json:"unit,omitempty"`
	Points []MetricPoint `json:"points"`
	Change float64       `json:"change"` // Last minus first point; 0 for fewer than two points
}

// BuildMetricSeries turns raw measurements of a single type into a
// chronologically sorted series with the overall change precomputed, so the
// app can plot it without reshaping rows.
func BuildMetricSeries(metricType MetricType, metrics []ProgressMetric) MetricSeries {
	series := MetricSeries{Type: metricType, Points: []MetricPoint{}}
	for _, m := range metrics {
		if m.Type != metricType {
			continue
		}
		if series.Unit == "" {
			series.Unit = m.Unit
		}
		series.Points = append(series.Points, MetricPoint{RecordedAt: m.RecordedAt, Value: m.Value})
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].RecordedAt.Before(series.Points[j].RecordedAt)
	})
	if len(series.Points) >= 2 {
		series.Change = series.Points[len(series.Points)-1].Value - series.Points[0].Value
	}
	return series
}
