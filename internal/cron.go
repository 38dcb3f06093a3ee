package internal

import (
	"context"
	"time"
	_ "time/tzdata"

	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/rm-hull/tempo-api/internal/notify"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const CRON_SCHEDULE_NEXT_DAY = "45 10 * * *" // Daily, RTE publishes at 10:30
const CRON_SCHEDULE_BACKFILL = "0 3 * * 1"   // Mondays, re-reads the last week

const BACKFILL_DAYS = 7

func StartCron(client TempoClient, repo TempoRepository, notifier notify.Notifier) (*cron.Cron, error) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithLocation(paris))

	log.Print("Starting CRON jobs to import next day and backfill tempo colors")

	if _, err := c.AddFunc(CRON_SCHEDULE_NEXT_DAY, func() {
		if err := ImportNextDay(context.Background(), client, repo, notifier); err != nil {
			log.Printf("Error importing next day: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(CRON_SCHEDULE_BACKFILL, func() {
		now := time.Now().In(paris)
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, paris)
		start := end.AddDate(0, 0, -BACKFILL_DAYS)
		numDays, err := ImportCalendars(context.Background(), client, &start, &end, repo.InsertDays)
		if err != nil {
			log.Printf("Error backfilling tempo days: %v", err)
			return
		}
		log.Printf("Backfilled %d tempo days", numDays)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// ImportNextDay stores the next-day colour and announces it.
func ImportNextDay(ctx context.Context, client TempoClient, repo TempoRepository, notifier notify.Notifier) error {
	calendars, err := client.NextDay(ctx)
	if err != nil {
		return err
	}

	day, ok := calendars.FirstDayValue()
	if !ok {
		log.Print("Next day color is not published yet")
		return nil
	}

	if _, err := repo.InsertDays([]models.CalendarValue{*day}); err != nil {
		return err
	}
	log.Printf("Imported next day %s: %s", day.StartDate.Format(models.DayLayout), day.Value)

	return notifier.NotifyNextDay(ctx, *day)
}
