package carer

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MinRating and MaxRating bound every stored review.
	MinRating = 1
	MaxRating = 5

	// defaultAverage is reported for carers with no reviews.
	defaultAverage = 5.0
)

// ratingFields are probed in order when a review is stored as an object.
var ratingFields = []string{"rating", "score", "value", "amount", "points"}

// NormalizeRating rounds v to the nearest integer (halves round up) and clamps it into
// [MinRating, MaxRating]. It reports false for NaN and infinities, which callers discard.
func NormalizeRating(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	r := math.Floor(v + 0.5)
	switch {
	case r < MinRating:
		return MinRating, true
	case r > MaxRating:
		return MaxRating, true
	default:
		return int(r), true
	}
}

// ExtractRatings coerces a heterogeneous review list into normalized ratings.
// Elements that cannot be coerced are dropped; the order of the rest is preserved.
// Anything that is not a list yields an empty result.
func ExtractRatings(input any) []int {
	values, ok := asList(input)
	if !ok {
		return []int{}
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if r, ok := ParseRating(v); ok {
			out = append(out, r)
		}
	}
	return out
}

// ParseRating coerces a single submitted rating (number, numeric string or review object)
// and normalizes it. It reports false when the value cannot be used.
func ParseRating(v any) (int, bool) {
	f, ok := coerceRating(v)
	if !ok {
		return 0, false
	}
	return NormalizeRating(f)
}

// Average returns the arithmetic mean of reviews, or 5 when there are none.
func Average(reviews []int) float64 {
	if len(reviews) == 0 {
		return defaultAverage
	}
	total := 0
	for _, r := range reviews {
		total += r
	}
	return float64(total) / float64(len(reviews))
}

func coerceRating(v any) (float64, bool) {
	if m, ok := v.(map[string]any); ok {
		for _, field := range ratingFields {
			if f, ok := toFloat(m[field]); ok {
				return f, true
			}
		}
		return 0, false
	}
	return toFloat(v)
}

// toFloat converts numbers and numeric strings to a finite float64.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asList flattens the list shapes Firestore and JSON decoding produce.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []int:
		return widen(l), true
	case []int64:
		return widen(l), true
	case []float64:
		return widen(l), true
	case []string:
		return widen(l), true
	case []map[string]any:
		return widen(l), true
	default:
		return nil, false
	}
}

func widen[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
