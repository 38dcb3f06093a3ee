package main

import (
	"context"
	"testing"
	"time"

	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTempoClient struct {
	calendars *models.TempoCalendars
}

func (f *fakeTempoClient) Calendars(ctx context.Context, startDate, endDate *time.Time, fallback *bool) (*models.TempoCalendars, error) {
	return f.calendars, nil
}

func (f *fakeTempoClient) NextDay(ctx context.Context) (*models.TempoCalendars, error) {
	return f.calendars, nil
}

func (f *fakeTempoClient) LastUpdated() *time.Time {
	return nil
}

type recordingNotifier struct {
	days []models.CalendarValue
}

func (r *recordingNotifier) NotifyNextDay(ctx context.Context, day models.CalendarValue) error {
	r.days = append(r.days, day)
	return nil
}

func TestPublishNextDay(t *testing.T) {
	start := time.Date(2025, 11, 18, 0, 0, 0, 0, time.FixedZone("", 3600))
	client := &fakeTempoClient{calendars: &models.TempoCalendars{
		TempoLikeCalendars: models.CalendarList{{Values: []models.CalendarValue{{
			StartDate: models.Timestamp{Time: start},
			EndDate:   models.Timestamp{Time: start.AddDate(0, 0, 1)},
			Value:     models.White,
		}}}},
	}}
	notifier := &recordingNotifier{}

	resp, err := publishNextDay(context.Background(), client, notifier)
	require.NoError(t, err)

	assert.True(t, resp.Published)
	assert.Equal(t, "2025-11-18", resp.Day)
	assert.Equal(t, "white", resp.Color)
	assert.Equal(t, "Tomorrow (Tuesday 18/11/2025) is a white day", resp.Message)
	assert.Len(t, notifier.days, 1)
}

func TestPublishNextDay_NotPublished(t *testing.T) {
	notifier := &recordingNotifier{}
	resp, err := publishNextDay(context.Background(), &fakeTempoClient{calendars: &models.TempoCalendars{}}, notifier)
	require.NoError(t, err)

	assert.False(t, resp.Published)
	assert.Empty(t, notifier.days)
}
