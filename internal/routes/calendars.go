package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
)

// Calendars proxies a live query to RTE.
func Calendars(client internal.TempoClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		startDate, err := parseTimestamp(c.Query("start_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date: " + err.Error()})
			return
		}
		endDate, err := parseTimestamp(c.Query("end_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date: " + err.Error()})
			return
		}
		if (startDate == nil) != (endDate == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date must be supplied together"})
			return
		}

		var fallback *bool
		if fallbackStr := c.Query("fallback"); fallbackStr != "" {
			f, ferr := strconv.ParseBool(fallbackStr)
			if ferr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fallback parameter"})
				return
			}
			fallback = &f
		}

		calendars, err := client.Calendars(c.Request.Context(), startDate, endDate, fallback)
		if err != nil {
			upstreamError(c, err)
			return
		}

		c.JSON(http.StatusOK, calendars)
	}
}

// NextDay serves tomorrow's colour, or 404 before RTE has published it.
func NextDay(client internal.TempoClient) func(c *gin.Context) {
	return func(c *gin.Context) {
		calendars, err := client.NextDay(c.Request.Context())
		if err != nil {
			upstreamError(c, err)
			return
		}

		day, ok := calendars.FirstDayValue()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "next day color is not published yet"})
			return
		}

		c.JSON(http.StatusOK, day)
	}
}

func parseTimestamp(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(models.TimestampLayout, value)
	if err != nil {
		// Also accept RFC 3339 with a trailing Z, which is easier to type.
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func upstreamError(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)

	var badRequest *internal.BadRequestError
	switch {
	case internal.IsFatal(err):
		log.WithField("request_id", requestID).Errorf("unhandled upstream response: %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadGateway, gin.H{"error": badRequest.Code, "description": badRequest.Description})
	case errors.Is(err, internal.ErrTransport):
		log.WithField("request_id", requestID).Warnf("upstream transport error: %v", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream unavailable"})
	default:
		log.WithField("request_id", requestID).Errorf("error while fetching tempo calendars: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream error"})
	}
}
