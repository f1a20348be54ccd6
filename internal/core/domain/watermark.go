package domain

import "time"

// WatermarkLayout is the persisted timestamp form (YYYYMMDDHHMMSS).
const WatermarkLayout = "20060102150405"

// FormatWatermark renders a watermark timestamp in its persisted form.
func FormatWatermark(t time.Time) string {
	return t.Format(WatermarkLayout)
}

// ParseWatermark parses a persisted watermark string.
func ParseWatermark(s string) (time.Time, error) {
	return time.Parse(WatermarkLayout, s)
}
