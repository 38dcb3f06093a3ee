package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kofalt/go-memoize"
	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/rm-hull/tempo-api/internal/stats"
	"github.com/rm-hull/tempo-api/internal/tariffs"
	log "github.com/sirupsen/logrus"
)

const MAX_HISTORY_DAYS = 366

// History serves archived days between the from and to query parameters
// (inclusive, YYYY-MM-DD, defaulting to the current season), with prices
// and the statistics of the season the range ends in.
func History(repo internal.TempoRepository, client internal.TempoClient, prices tariffs.Tariffs) func(c *gin.Context) {
	cache := memoize.NewMemoizer(time.Hour, 10*time.Minute)

	seasonStats := func(season string) (*models.SeasonStatistics, error) {
		result, err, cached := cache.Memoize(season, func() (any, error) {
			first, last, err := stats.Bounds(season)
			if err != nil {
				return nil, err
			}
			days, err := repo.History(first, last)
			if err != nil {
				return nil, err
			}
			return stats.Derive(days, season), nil
		})
		if err != nil {
			return nil, err
		}
		log.Debugf("season statistics for %s (cached: %t)", season, cached)
		return result.(*models.SeasonStatistics), nil
	}

	return func(c *gin.Context) {
		season := stats.Season(time.Now())
		defaultFrom, defaultTo, _ := stats.Bounds(season)

		from, err := parseDay(c.DefaultQuery("from", defaultFrom))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from parameter: " + err.Error()})
			return
		}
		to, err := parseDay(c.DefaultQuery("to", defaultTo))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to parameter: " + err.Error()})
			return
		}
		if to.Before(from) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
			return
		}
		if to.Sub(from) > MAX_HISTORY_DAYS*24*time.Hour {
			c.JSON(http.StatusBadRequest, gin.H{"error": "history is limited to 366 days per request"})
			return
		}

		days, err := repo.History(from.Format(models.DayLayout), to.Format(models.DayLayout))
		if err != nil {
			log.Printf("error while fetching tempo history: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}
		prices.Annotate(days)

		statistics, err := seasonStats(stats.Season(to))
		if err != nil {
			log.Printf("error while deriving season statistics: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, models.HistoryResponse{
			Days:        days,
			Statistics:  statistics,
			Attribution: internal.ATTRIBUTION,
			LastUpdated: client.LastUpdated(),
		})
	}
}

func parseDay(value string) (time.Time, error) {
	return time.Parse(models.DayLayout, value)
}
