package cmd

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/rm-hull/tempo-api/internal/models"
)

const displayDateLayout = "02/01/2006"

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Print the colour of every day since last Monday, and tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := bootstrapClient(ctx, opts)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			start := lastMonday(now)
			end := now.AddDate(0, 0, 1)

			calendars, err := client.Calendars(ctx, &start, &end, nil)
			if err != nil {
				return errors.Wrap(err, "failed to fetch this week's calendars")
			}
			printWeek(cmd.OutOrStdout(), calendars)

			nextDay, err := client.NextDay(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to fetch next day")
			}
			printNextDay(cmd.OutOrStdout(), nextDay)

			return nil
		},
	}
}

// lastMonday is midnight UTC on the most recent Monday, today included.
func lastMonday(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// printWeek lists the days oldest first; RTE sends them newest first.
func printWeek(w io.Writer, calendars *models.TempoCalendars) {
	for _, calendar := range calendars.TempoLikeCalendars {
		for _, value := range slices.Backward(calendar.Values) {
			_, _ = fmt.Fprintf(w, "%s (%s) was: %s\n",
				value.StartDate.Weekday(),
				value.StartDate.Format(displayDateLayout),
				value.Value)
		}
	}
}

func printNextDay(w io.Writer, calendars *models.TempoCalendars) {
	day, ok := calendars.FirstDayValue()
	if !ok {
		_, _ = fmt.Fprintln(w, "Tomorrow's color is not published yet")
		return
	}
	_, _ = fmt.Fprintf(w, "Tomorrow (%s) is: %s\n", day.StartDate.Format(displayDateLayout), day.Value)
}
