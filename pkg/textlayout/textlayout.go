// Package textlayout formats and wraps the text shown on a banner.
package textlayout

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxLines is the number of wrapped lines kept; the rest is dropped.
const MaxLines = 8

// MaxFilenameTitle is the number of title characters kept in a filename.
const MaxFilenameTitle = 50

// MetaSeparator joins the parts of the metadata line.
const MetaSeparator = "  |  "

// Wrap splits text into lines of at most maxChars runes, breaking on
// whitespace. A word longer than maxChars is placed on its own line.
// At most MaxLines lines are returned.
func Wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}
	if maxChars < 1 {
		maxChars = 1
	}

	lines := make([]string, 0, MaxLines)
	var cur strings.Builder
	curLen := 0

	for _, word := range words {
		wl := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+wl <= maxChars {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curLen += 1 + wl
			continue
		}
		if curLen > 0 {
			lines = append(lines, cur.String())
			if len(lines) == MaxLines {
				return lines
			}
			cur.Reset()
		}
		cur.WriteString(word)
		curLen = wl
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// FormatDuration renders a runtime in minutes as "2h 5m" or "45m".
// Zero, negative and NaN yield "".
func FormatDuration(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return ""
	}
	total := int(math.Floor(minutes))
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatRating renders a 0-10 score with one decimal, or "N/A".
func FormatRating(rating *float64) string {
	if rating == nil {
		return "N/A"
	}
	r := *rating
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// MetadataLine builds "⭐ 7.8  |  2024  |  Drama  |  2h 5m", skipping empty parts.
func MetadataLine(rating *float64, year, genre string, minutes float64) string {
	parts := []string{"⭐ " + FormatRating(rating)}
	for _, p := range []string{strings.TrimSpace(year), strings.TrimSpace(genre), FormatDuration(minutes)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, MetaSeparator)
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// SanitizeFilename replaces every non-alphanumeric character with "_" and
// keeps at most MaxFilenameTitle characters.
func SanitizeFilename(title string) string {
	s := nonAlnum.ReplaceAllString(title, "_")
	if len(s) > MaxFilenameTitle {
		s = s[:MaxFilenameTitle]
	}
	return s
}

// BannerFilename returns the download name for a banner titled title.
func BannerFilename(title string) string {
	return "banner_" + SanitizeFilename(title) + ".png"
}
