package models

import (
	"fmt"
	"strconv"
)

type Period string

const (
	Peak    Period = "peak"
	OffPeak Period = "off_peak"
)

// Tariff is the price of one kWh for a Tempo colour during a period.
type Tariff struct {
	Color  Color
	Period Period
	Price  float64
}

func TariffFromCSV(record, headers []string) (*Tariff, error) {
	if len(record) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	color, err := ColorFromName(record[0])
	if err != nil {
		return nil, err
	}

	period := Period(record[1])
	if period != Peak && period != OffPeak {
		return nil, fmt.Errorf("unknown period: %q", record[1])
	}

	price, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", record[2], err)
	}

	return &Tariff{Color: color, Period: period, Price: price}, nil
}
