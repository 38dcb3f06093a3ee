package models

import "time"

// DayLayout identifies a Tempo day by its local calendar date.
const DayLayout = "2006-01-02"

// TempoDay is an archived Tempo day, as stored by the importer.
type TempoDay struct {
	Day          string    `json:"day"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	UpdatedDate  time.Time `json:"updated_date"`
	Color        Color     `json:"color"`
	Fallback     *bool     `json:"fallback,omitempty"`
	PeakPrice    *float64  `json:"peak_price,omitempty"`
	OffPeakPrice *float64  `json:"off_peak_price,omitempty"`
}

func NewTempoDay(value CalendarValue) TempoDay {
	return TempoDay{
		Day:         value.StartDate.Format(DayLayout),
		StartDate:   value.StartDate.Time,
		EndDate:     value.EndDate.Time,
		UpdatedDate: value.UpdatedDate.Time,
		Color:       value.Value,
		Fallback:    value.Fallback,
	}
}

func (td *TempoDay) ToTuple() []any {
	return []any{
		td.Day,
		td.StartDate.UTC(),
		td.EndDate.UTC(),
		td.UpdatedDate.UTC(),
		td.Color.String(),
		td.Fallback,
	}
}

type HistoryResponse struct {
	Days        []TempoDay        `json:"days"`
	Statistics  *SeasonStatistics `json:"statistics,omitempty"`
	Attribution []string          `json:"attribution"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

// SeasonStatistics summarises one Tempo season (1st September to 31st
// August) against the contractual allowance of each colour.
type SeasonStatistics struct {
	Season    string         `json:"season"`
	Counts    map[string]int `json:"counts"`
	Remaining map[string]int `json:"remaining"`
	Unknown   int            `json:"unknown"`
}
