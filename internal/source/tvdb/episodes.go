package tvdb

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"episode_syncer/internal/domain"
)

const firstAiredLayout = "2006-01-02"

// countEpisodes counts the regular episodes of a series document that aired
// on or before today. Season 0 holds specials and never counts.
func countEpisodes(r io.Reader, today time.Time) (int, error) {
	var doc seriesDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: decode series document: %w", domain.ErrParse, err)
	}

	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	count := 0
	for _, ep := range doc.Episodes {
		if ep.SeasonNumber == nil || strings.TrimSpace(*ep.SeasonNumber) == "0" {
			continue
		}
		aired, ok := parseFirstAired(ep.FirstAired)
		if !ok || aired.After(cutoff) {
			continue
		}
		count++
	}

	return count, nil
}

// parseFirstAired parses a YYYY-MM-DD air date. Anything else, including an
// empty value, reports false and is treated as not yet aired.
func parseFirstAired(value string) (time.Time, bool) {
	if len(value) != len(firstAiredLayout) || value[4] != '-' || value[7] != '-' {
		return time.Time{}, false
	}
	t, err := time.Parse(firstAiredLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
