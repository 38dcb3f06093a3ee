package cmd

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"

	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/models"
)

// Import archives every day from since up to tomorrow. An empty since only
// imports the next day.
func Import(ctx context.Context, opts Options, since string) error {

	client, repo, _, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	var startDate, endDate *time.Time
	if since != "" {
		start, err := time.Parse(models.DayLayout, since)
		if err != nil {
			return errors.Wrapf(err, "invalid --since date %q", since)
		}
		end := time.Now().UTC().AddDate(0, 0, 1)
		startDate, endDate = &start, &end
	}

	numDays, err := internal.ImportCalendars(ctx, client, startDate, endDate, repo.InsertDays)
	if err != nil {
		return errors.Wrap(err, "failed to import tempo days")
	}
	log.Printf("imported %d tempo days", numDays)

	return nil
}
