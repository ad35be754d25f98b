package ui

import (
	"math"
	"testing"

	"tether/internal/settings"
)

func TestFormatScore(t *testing.T) {
	cases := []struct {
		name     string
		score    int64
		notation string
		want     string
	}{
		{"zero", 0, settings.NotationKanji, "0"},
		{"hundreds", 999, settings.NotationKanji, "999"},
		{"thousands", 1000, settings.NotationScientific, "1,000"},
		{"seven digits", 9999999, settings.NotationKanji, "9,999,999"},
		{"eight digits kanji", 12345678, settings.NotationKanji, "1234万5678"},
		{"empty group skipped", 100000000, settings.NotationKanji, "1億"},
		{"mixed groups", 123400005678, settings.NotationKanji, "1234億5678"},
		{"eight digits scientific", 12345678, settings.NotationScientific, "1.23×10^7"},
		{"no round up", 99999999, settings.NotationScientific, "9.99×10^7"},
		{"unknown notation", 12345678, "roman", "12,345,678"},
		{"negative", -1234, settings.NotationKanji, "-1,234"},
		{"max kanji", math.MaxInt64, settings.NotationKanji, "922京3372兆368億5477万5807"},
		{"min scientific", math.MinInt64, settings.NotationScientific, "-9.22×10^18"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatScore(tc.score, tc.notation); got != tc.want {
				t.Fatalf("FormatScore(%d, %q) = %q, want %q", tc.score, tc.notation, got, tc.want)
			}
		})
	}
}
