package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rm-hull/tempo-api/internal/models"
)

const (
	RED_DAYS_PER_SEASON   = 22
	WHITE_DAYS_PER_SEASON = 43
)

// Season returns the Tempo season a day belongs to, e.g. "2025-2026" for any
// day between 2025-09-01 and 2026-08-31.
func Season(day time.Time) string {
	start := day.Year()
	if day.Month() < time.September {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// Bounds returns the first and last day of a season, formatted with
// models.DayLayout.
func Bounds(season string) (string, string, error) {
	startStr, endStr, found := strings.Cut(season, "-")
	if !found {
		return "", "", fmt.Errorf("season must look like YYYY-YYYY, got %q", season)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid season start %q: %w", startStr, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil || end != start+1 {
		return "", "", fmt.Errorf("invalid season end %q", endStr)
	}
	return fmt.Sprintf("%04d-09-01", start), fmt.Sprintf("%04d-08-31", end), nil
}

func seasonLength(season string) int {
	first, last, err := Bounds(season)
	if err != nil {
		return 365
	}
	from, _ := time.Parse(models.DayLayout, first)
	to, _ := time.Parse(models.DayLayout, last)
	return int(to.Sub(from).Hours()/24) + 1
}

// Derive counts the days of each colour seen in a season, and how many of
// each the contract still allows. Days outside the season are ignored.
func Derive(days []models.TempoDay, season string) *models.SeasonStatistics {
	stats := &models.SeasonStatistics{
		Season:    season,
		Counts:    make(map[string]int),
		Remaining: make(map[string]int),
	}

	for _, c := range []models.Color{models.Blue, models.White, models.Red} {
		stats.Counts[c.String()] = 0
	}

	seen := 0
	for _, day := range days {
		date, err := time.Parse(models.DayLayout, day.Day)
		if err != nil || Season(date) != season {
			continue
		}
		stats.Counts[day.Color.String()]++
		seen++
	}

	total := seasonLength(season)
	allowance := map[string]int{
		models.Red.String():   RED_DAYS_PER_SEASON,
		models.White.String(): WHITE_DAYS_PER_SEASON,
		models.Blue.String():  total - RED_DAYS_PER_SEASON - WHITE_DAYS_PER_SEASON,
	}
	for color, allowed := range allowance {
		stats.Remaining[color] = max(allowed-stats.Counts[color], 0)
	}
	stats.Unknown = max(total-seen, 0)

	return stats
}
