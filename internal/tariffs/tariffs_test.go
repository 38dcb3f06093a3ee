package tariffs

import (
	"testing"
	"time"

	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTariffsList(t *testing.T) {
	list, err := GetTariffsList()
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestGetTariffs(t *testing.T) {
	prices, err := GetTariffs()
	require.NoError(t, err)

	for _, color := range []models.Color{models.Blue, models.White, models.Red} {
		peak, ok := prices.Price(color, models.Peak)
		require.True(t, ok, color.String())
		offPeak, ok := prices.Price(color, models.OffPeak)
		require.True(t, ok, color.String())
		assert.Greater(t, peak, offPeak, color.String())
	}

	redPeak, _ := prices.Price(models.Red, models.Peak)
	bluePeak, _ := prices.Price(models.Blue, models.Peak)
	assert.Greater(t, redPeak, bluePeak)
}

func TestPeriodAt(t *testing.T) {
	day := func(hour, minute int) time.Time {
		return time.Date(2025, 11, 17, hour, minute, 0, 0, time.UTC)
	}

	assert.Equal(t, models.OffPeak, PeriodAt(day(5, 59)))
	assert.Equal(t, models.Peak, PeriodAt(day(6, 0)))
	assert.Equal(t, models.Peak, PeriodAt(day(21, 59)))
	assert.Equal(t, models.OffPeak, PeriodAt(day(22, 0)))
	assert.Equal(t, models.OffPeak, PeriodAt(day(0, 0)))
}

func TestPriceAt(t *testing.T) {
	prices, err := GetTariffs()
	require.NoError(t, err)

	price, ok := prices.PriceAt(models.Red, time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 0.7562, price)

	price, ok = prices.PriceAt(models.Blue, time.Date(2025, 11, 17, 23, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 0.1296, price)
}

func TestAnnotate(t *testing.T) {
	prices, err := GetTariffs()
	require.NoError(t, err)

	days := []models.TempoDay{{Day: "2025-11-17", Color: models.White}, {Day: "2025-11-18", Color: models.Color(9)}}
	prices.Annotate(days)

	require.NotNil(t, days[0].PeakPrice)
	require.NotNil(t, days[0].OffPeakPrice)
	assert.Equal(t, 0.1894, *days[0].PeakPrice)
	assert.Equal(t, 0.1486, *days[0].OffPeakPrice)

	assert.Nil(t, days[1].PeakPrice)
	assert.Nil(t, days[1].OffPeakPrice)
}
