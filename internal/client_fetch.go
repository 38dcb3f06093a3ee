package internal

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	RTE_API_AUTH_URL        = "https://digital.iservices.rte-france.com/token/oauth/"
	RTE_API_TEMPO_CALENDARS = "https://digital.iservices.rte-france.com/open_api/tempo_like_supply_contract/v1/tempo_like_calendars"
	TEMPO_SCOPE             = "tempo_like_supply_contract"
)

type ClientConfig struct {
	TokenURL     string
	CalendarsURL string
	Timeout      time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		TokenURL:     RTE_API_AUTH_URL,
		CalendarsURL: RTE_API_TEMPO_CALENDARS,
		Timeout:      30 * time.Second,
	}
}

type TempoClient interface {
	// Calendars requests historical data. Supply both dates for a period, or
	// neither to get next-day data. RTE does not recommend asking for more
	// than 366 days at a time, and has nothing before 2014-09-01.
	Calendars(ctx context.Context, startDate, endDate *time.Time, fallback *bool) (*models.TempoCalendars, error)

	// NextDay is Calendars with every parameter left out.
	NextDay(ctx context.Context) (*models.TempoCalendars, error)

	// LastUpdated is when a call last succeeded, nil before the first one.
	LastUpdated() *time.Time
}

type tempoManager struct {
	config      ClientConfig
	tokens      *tokenStore
	client      *http.Client
	lastUpdated atomic.Pointer[time.Time]
}

// NewTempoClient authorizes against RTE and returns a client holding the
// issued token.
func NewTempoClient(ctx context.Context, creds models.Credentials, config ClientConfig) (TempoClient, error) {
	mgr := newTempoManager(creds, config)
	if err := mgr.tokens.authorize(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to authenticate")
	}
	return mgr, nil
}

// AuthorizeWithFile is NewTempoClient with the credentials read from the
// file given by the RTE data portal.
func AuthorizeWithFile(ctx context.Context, path string, config ClientConfig) (TempoClient, error) {
	creds, err := ReadCredentialsFile(path)
	if err != nil {
		return nil, err
	}
	return NewTempoClient(ctx, creds, config)
}

func newTempoManager(creds models.Credentials, config ClientConfig) *tempoManager {
	defaults := DefaultClientConfig()
	if config.TokenURL == "" {
		config.TokenURL = defaults.TokenURL
	}
	if config.CalendarsURL == "" {
		config.CalendarsURL = defaults.CalendarsURL
	}

	client := &http.Client{
		Timeout: config.Timeout,
		// The bearer token must never be forwarded to another host.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &tempoManager{
		config: config,
		tokens: newTokenStore(creds, config.TokenURL, client),
		client: client,
	}
}

func (mgr *tempoManager) Calendars(ctx context.Context, startDate, endDate *time.Time, fallback *bool) (*models.TempoCalendars, error) {
	query := neturl.Values{}
	if startDate != nil {
		query.Set("start_date", startDate.Format(models.TimestampLayout))
	}
	if endDate != nil {
		query.Set("end_date", endDate.Format(models.TimestampLayout))
	}
	if fallback != nil {
		query.Set("fallback_status", strconv.FormatBool(*fallback))
	}

	var calendars models.TempoCalendars
	if err := mgr.authenticatedCall(ctx, http.MethodGet, mgr.config.CalendarsURL, query, &calendars); err != nil {
		return nil, err
	}
	return &calendars, nil
}

func (mgr *tempoManager) NextDay(ctx context.Context) (*models.TempoCalendars, error) {
	return mgr.Calendars(ctx, nil, nil, nil)
}

func (mgr *tempoManager) LastUpdated() *time.Time {
	return mgr.lastUpdated.Load()
}

// authenticatedCall performs one bearer-authenticated request and decodes a
// successful body into out. Every failure is one of: ErrAuth, ErrTransport,
// ErrDecoding, *BadRequestError or an unhandled status assertion failure.
func (mgr *tempoManager) authenticatedCall(ctx context.Context, method, url string, query neturl.Values, out any) (err error) {
	ctx, span := startSpan(ctx, "tempo.authenticated_call",
		attribute.String("http.method", method),
		attribute.String("http.url", url),
	)
	defer func() { endSpan(span, err) }()

	token, err := mgr.tokens.getValidToken(ctx)
	if err != nil {
		apiCalls.WithLabelValues(outcomeAuth).Inc()
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	logger := log.WithField("component", "authenticated_call")
	logger.Debugf("Request: %s %s", method, req.URL)

	resp, err := mgr.client.Do(req)
	if err != nil {
		apiCalls.WithLabelValues(outcomeTransport).Inc()
		return errors.Mark(errors.Wrapf(err, "failed to fetch from %s", url), ErrTransport)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("failed to close body: %v", err)
		}
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	logger.Debugf("Response status: %s", resp.Status)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiCalls.WithLabelValues(outcomeUnauthorized).Inc()
		if code, description, ok := parseWWWAuthenticate(resp.Header.Get("WWW-Authenticate")); ok {
			logger.Errorf("Server returned 401: %s - %s", code, description)
			return &BadRequestError{Code: code, Description: description}
		}

		body, err := readBody(resp)
		if err != nil {
			return err
		}
		logger.Errorf("Server returned 401, logging response body:\n%s", body)
		return &BadRequestError{Description: body}

	case resp.StatusCode >= 400 && resp.StatusCode <= 599:
		body, err := readBody(resp)
		if err != nil {
			return err
		}

		var apiErr models.ApiErrorBody
		if err := json.UnmarshalFromString(body, &apiErr); err != nil {
			apiCalls.WithLabelValues(outcomeDecoding).Inc()
			return errors.Mark(errors.Wrapf(err, "failed to unmarshal error response (%s)", resp.Status), ErrDecoding)
		}
		apiCalls.WithLabelValues(outcomeApiError).Inc()
		return &BadRequestError{Code: apiErr.Error, Description: apiErr.ErrorDescription}

	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		body, err := readBody(resp)
		if err != nil {
			return err
		}
		logger.Trace(body)

		if err := json.UnmarshalFromString(body, out); err != nil {
			apiCalls.WithLabelValues(outcomeDecoding).Inc()
			return errors.Mark(errors.Wrap(err, "failed to unmarshal response"), ErrDecoding)
		}
		apiCalls.WithLabelValues(outcomeSuccess).Inc()
		now := time.Now()
		mgr.lastUpdated.Store(&now)
		return nil

	default:
		apiCalls.WithLabelValues(outcomeUnhandled).Inc()
		logger.Warnf("Got response with unhandled status: %s", resp.Status)
		body, err := readBody(resp)
		if err != nil {
			return err
		}
		logger.Warnf("Unhandled status - body:\n%s", body)
		return newUnhandledStatusError(url, resp.StatusCode, body)
	}
}

func readBody(resp *http.Response) (string, error) {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "failed to read response body"), ErrTransport)
	}
	return string(bodyBytes), nil
}

// parseWWWAuthenticate extracts the error and error_description parameters
// of a WWW-Authenticate header made of semicolon-separated key=value pairs,
// e.g. `error=invalid_token; error_description=expired`. Both must be present.
func parseWWWAuthenticate(header string) (string, string, bool) {
	var code, description string
	var hasCode, hasDescription bool

	for i, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if i == 0 {
			part = strings.TrimSpace(strings.TrimPrefix(part, "Bearer "))
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimSpace(key) {
		case "error":
			code, hasCode = value, true
		case "error_description":
			description, hasDescription = value, true
		}
	}

	return code, description, hasCode && hasDescription
}

var ATTRIBUTION = []string{
	"Tempo day colors: RTE, Tempo-like supply contract API (https://data.rte-france.com/)",
}
