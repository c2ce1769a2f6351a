// Package normalization turns raw collector rows into ordered TokenSeries.
package normalization

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dexboost-lab/internal/domain"
	"dexboost-lab/internal/idhash"
)

// Normalization errors.
var (
	// ErrEmptyHistory is returned when a record carries no usable price
	// history payload.
	ErrEmptyHistory = errors.New("empty price history")

	// ErrLateHistory is returned when the first sample lands more than
	// lateStartTolerance after detection, which means the collector missed
	// the start of the boost.
	ErrLateHistory = errors.New("price history starts too late after detection")
)

// lateStartTolerance is how far after detection the first sample may land
// for the series to still be anchored at the boost start.
const lateStartTolerance = time.Minute

// rawSample matches one entry of the collector's price history payload.
// Older collector versions capitalize the keys, and prices sometimes
// arrive as JSON strings.
type rawSample struct {
	Time   string          `json:"time"`
	TimeU  string          `json:"Time"`
	Price  json.RawMessage `json:"price"`
	PriceU json.RawMessage `json:"Price"`
}

func (r *rawSample) timestamp() (time.Time, error) {
	raw := r.Time
	if raw == "" {
		raw = r.TimeU
	}
	if raw == "" {
		return time.Time{}, errors.New("sample missing time")
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return ts, nil
	}
	// Older payloads drop the timezone designator.
	ts, err2 := time.Parse("2006-01-02 15:04:05", raw)
	if err2 != nil {
		return time.Time{}, fmt.Errorf("parse sample time %q: %w", raw, err)
	}
	return ts, nil
}

func (r *rawSample) price() (float64, error) {
	raw := r.Price
	if len(raw) == 0 {
		raw = r.PriceU
	}
	if len(raw) == 0 {
		return 0, errors.New("sample missing price")
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var parsed float64
		if _, err := fmt.Sscanf(s, "%g", &parsed); err == nil {
			return parsed, nil
		}
	}
	return 0, fmt.Errorf("unparseable price %s", string(raw))
}

// ParseSeries parses one record's raw price history payload into a
// TokenSeries anchored at the record's detection time.
//
// The payload is the collector's JSON array, possibly wrapped in quotes
// with escaped inner quotes. Samples with missing or unparseable fields
// are dropped; offsets before detection clamp to zero. The series start
// price is the first sample's price.
func ParseSeries(record *domain.TokenRecord) (*domain.TokenSeries, error) {
	payload := cleanPayload(record.PriceHistory)
	if payload == "" {
		return nil, ErrEmptyHistory
	}

	var raw []rawSample
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decode price history: %w", err)
	}

	detectedAt := time.UnixMilli(record.DetectedAt)

	type sample struct {
		at    time.Time
		price float64
	}
	samples := make([]sample, 0, len(raw))
	for i := range raw {
		ts, err := raw[i].timestamp()
		if err != nil {
			continue
		}
		price, err := raw[i].price()
		if err != nil || price <= 0 {
			continue
		}
		samples = append(samples, sample{at: ts, price: price})
	}
	if len(samples) == 0 {
		return nil, ErrEmptyHistory
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].at.Before(samples[j].at)
	})

	if samples[0].at.After(detectedAt.Add(lateStartTolerance)) {
		return nil, fmt.Errorf("%w: first sample %s, detected %s",
			ErrLateHistory, samples[0].at.Format(time.RFC3339), detectedAt.Format(time.RFC3339))
	}

	points := make([]domain.PricePoint, len(samples))
	for i, s := range samples {
		offset := s.at.Sub(detectedAt).Seconds()
		if offset < 0 {
			offset = 0
		}
		points[i] = domain.PricePoint{OffsetSeconds: offset, Price: s.price}
	}

	return &domain.TokenSeries{
		SeriesID:   idhash.ComputeSeriesID(record.TokenMint, record.BoostID),
		TokenMint:  record.TokenMint,
		BoostID:    record.BoostID,
		StartPrice: points[0].Price,
		Points:     points,
	}, nil
}

// FirstSampleTime returns the earliest sample timestamp in a raw payload.
// Used to anchor ad-hoc payloads that carry no detection time of their own.
func FirstSampleTime(payload string) (time.Time, error) {
	cleaned := cleanPayload(payload)
	if cleaned == "" {
		return time.Time{}, ErrEmptyHistory
	}

	var raw []rawSample
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return time.Time{}, fmt.Errorf("decode price history: %w", err)
	}

	var earliest time.Time
	for i := range raw {
		ts, err := raw[i].timestamp()
		if err != nil {
			continue
		}
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
	}
	if earliest.IsZero() {
		return time.Time{}, ErrEmptyHistory
	}
	return earliest, nil
}

// cleanPayload strips the outer quotes and escaped inner quotes some
// collector versions wrap around the JSON array.
func cleanPayload(payload string) string {
	p := strings.TrimSpace(payload)
	if p == "" || p == "nan" || p == "null" {
		return ""
	}
	p = strings.ReplaceAll(p, `\"`, `"`)
	p = strings.Trim(p, `"`)
	return strings.TrimSpace(p)
}
