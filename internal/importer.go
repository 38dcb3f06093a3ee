package internal

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
)

// RTE advises against asking for more than 366 days in one request.
const MAX_DAYS_PER_REQUEST = 366

type BatchCallback[T any] func([]T) (int, error)

// ImportCalendars fetches every day between startDate and endDate, splitting
// the period into windows RTE accepts, and hands each window's days to
// callback. With no dates it imports next-day data.
func ImportCalendars(ctx context.Context, client TempoClient, startDate, endDate *time.Time, callback BatchCallback[models.CalendarValue]) (int, error) {
	if startDate == nil || endDate == nil {
		calendars, err := client.NextDay(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "failed to fetch next day")
		}
		return callback(calendars.Days())
	}

	count := 0
	window := MAX_DAYS_PER_REQUEST * 24 * time.Hour
	for from := *startDate; from.Before(*endDate); from = from.Add(window) {
		to := from.Add(window)
		if to.After(*endDate) {
			to = *endDate
		}

		log.Printf("Fetching tempo calendars from %s to %s", from.Format(models.TimestampLayout), to.Format(models.TimestampLayout))
		calendars, err := client.Calendars(ctx, &from, &to, nil)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to fetch calendars from %s", from.Format(models.DayLayout))
		}

		numRecords, err := callback(calendars.Days())
		if err != nil {
			return 0, errors.Wrap(err, "callback error")
		}
		count += numRecords
	}

	return count, nil
}
