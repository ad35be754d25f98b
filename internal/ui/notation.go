package ui

import (
	"strconv"
	"strings"

	"tether/internal/settings"
)

// largeDigits is the length at which scores switch to the chosen notation.
const largeDigits = 8

var kanjiUnits = []string{"", "万", "億", "兆", "京", "垓"}

// FormatScore renders score for display. Scores shorter than eight digits use
// thousands separators; longer ones use the requested notation. Unknown
// notations fall back to separators.
func FormatScore(score int64, notation string) string {
	sign := ""
	mag := uint64(score)
	if score < 0 {
		sign = "-"
		mag = uint64(-score)
	}
	digits := strconv.FormatUint(mag, 10)
	if len(digits) < largeDigits {
		return sign + groupThousands(digits)
	}
	switch notation {
	case settings.NotationKanji:
		return sign + kanji(mag)
	case settings.NotationScientific:
		return sign + scientific(digits)
	default:
		return sign + groupThousands(digits)
	}
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// kanji groups by powers of ten thousand, skipping empty groups.
func kanji(mag uint64) string {
	var groups []uint64
	for mag > 0 {
		groups = append(groups, mag%10000)
		mag /= 10000
	}
	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		b.WriteString(strconv.FormatUint(groups[i], 10))
		b.WriteString(kanjiUnits[i])
	}
	return b.String()
}

// scientific truncates to two decimals so the mantissa never rounds up to 10.
func scientific(digits string) string {
	return digits[:1] + "." + digits[1:3] + "×10^" + strconv.Itoa(len(digits)-1)
}
