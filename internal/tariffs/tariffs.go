package tariffs

import (
	_ "embed"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/models"
)

//go:embed tariffs.csv
var tariffsCSV string

const (
	peakStartHour = 6
	peakEndHour   = 22
)

type tariffKey struct {
	color  models.Color
	period models.Period
}

type Tariffs map[tariffKey]float64

func GetTariffsList() ([]*models.Tariff, error) {
	arr := make([]*models.Tariff, 0, 6)
	reader := strings.NewReader(tariffsCSV)

	for record := range internal.ParseCSV(reader, true, models.TariffFromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load tempo tariffs")
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

func GetTariffs() (Tariffs, error) {
	list, err := GetTariffsList()
	if err != nil {
		return nil, err
	}

	m := make(Tariffs, len(list))
	for _, tariff := range list {
		key := tariffKey{tariff.Color, tariff.Period}
		if _, ok := m[key]; ok {
			return nil, errors.Newf("duplicate tariff detected: %s/%s", tariff.Color, tariff.Period)
		}
		m[key] = tariff.Price
	}

	return m, nil
}

// PeriodAt tells whether t falls in peak or off-peak hours, in t's own
// location.
func PeriodAt(t time.Time) models.Period {
	if hour := t.Hour(); hour >= peakStartHour && hour < peakEndHour {
		return models.Peak
	}
	return models.OffPeak
}

func (t Tariffs) Price(color models.Color, period models.Period) (float64, bool) {
	price, ok := t[tariffKey{color, period}]
	return price, ok
}

// PriceAt is the price per kWh at instant at, given the colour of the
// Tempo day in force. Note the tariff day starts at 06:00, so the hours
// before that belong to the previous day's colour.
func (t Tariffs) PriceAt(color models.Color, at time.Time) (float64, bool) {
	return t.Price(color, PeriodAt(at))
}

// Annotate fills in the peak and off-peak prices of each day.
func (t Tariffs) Annotate(days []models.TempoDay) {
	for i := range days {
		if price, ok := t.Price(days[i].Color, models.Peak); ok {
			days[i].PeakPrice = &price
		}
		if price, ok := t.Price(days[i].Color, models.OffPeak); ok {
			days[i].OffPeakPrice = &price
		}
	}
}
