package internal

import (
	"database/sql"
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
	"github.com/tavsec/gin-healthcheck/checks"
)

//go:embed sql/insert_day.sql
var insertDaySQL string

//go:embed sql/search_days.sql
var searchDaysSQL string

type TempoRepository interface {
	InsertDays(batch []models.CalendarValue) (int, error)
	History(fromDay, toDay string) ([]models.TempoDay, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewTempoRepository(db *sql.DB) TempoRepository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) InsertDays(batch []models.CalendarValue) (n int, err error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.Prepare(insertDaySQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare statement")
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	for _, value := range batch {
		day := models.NewTempoDay(value)
		if _, err = stmt.Exec(day.ToTuple()...); err != nil {
			return 0, errors.Wrapf(err, "failed to insert day %s", day.Day)
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	return n, nil
}

func (repo *sqliteRepository) History(fromDay, toDay string) ([]models.TempoDay, error) {
	rows, err := repo.db.Query(searchDaysSQL, fromDay, toDay)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute history query")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	results := make([]models.TempoDay, 0)
	for rows.Next() {
		var result models.TempoDay
		var color string
		var fallback sql.NullBool
		if err := rows.Scan(
			&result.Day, &result.StartDate, &result.EndDate, &result.UpdatedDate, &color, &fallback,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		if result.Color, err = models.ColorFromName(color); err != nil {
			return nil, errors.Wrapf(err, "bad color stored for %s", result.Day)
		}
		if fallback.Valid {
			result.Fallback = &fallback.Bool
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over rows")
	}

	return results, nil
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}
