package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPoint renders a point-like value as the "lat,lng" text the Baidu API
// expects in its location parameter. Accepted forms: Point, *Point,
// [2]float64, []float64 of length two (latitude first), or a preformatted
// "lat,lng" string (surrounding whitespace around either axis is dropped).
func FormatPoint(v any) (string, error) {
	switch p := v.(type) {
	case Point:
		return formatPair(p.Lat, p.Lng), nil
	case *Point:
		if p == nil {
			return "", fmt.Errorf("format point: nil *Point")
		}
		return formatPair(p.Lat, p.Lng), nil
	case [2]float64:
		return formatPair(p[0], p[1]), nil
	case []float64:
		if len(p) != 2 {
			return "", fmt.Errorf("format point: want 2 coordinates, got %d", len(p))
		}
		return formatPair(p[0], p[1]), nil
	case string:
		return parsePair(p)
	default:
		return "", fmt.Errorf("format point: unsupported type %T", v)
	}
}

func formatPair(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// parsePair normalizes a "lat,lng" string: both axes must parse as floats,
// and any whitespace around them is removed.
func parsePair(s string) (string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("format point: %q is not a \"lat,lng\" pair", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return "", fmt.Errorf("format point: bad latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", fmt.Errorf("format point: bad longitude %q: %w", parts[1], err)
	}
	return formatPair(lat, lng), nil
}
