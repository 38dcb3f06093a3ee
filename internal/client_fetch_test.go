package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarsJSON = `{
  "tempo_like_calendars": {
    "start_date": "2025-11-17T00:00:00+01:00",
    "end_date": "2025-11-19T00:00:00+01:00",
    "values": [
      {
        "start_date": "2025-11-18T00:00:00+01:00",
        "end_date": "2025-11-19T00:00:00+01:00",
        "value": "RED",
        "updated_date": "2025-11-17T10:20:00+01:00"
      },
      {
        "start_date": "2025-11-17T00:00:00+01:00",
        "end_date": "2025-11-18T00:00:00+01:00",
        "value": "WHITE",
        "updated_date": "2025-11-16T10:20:00+01:00"
      }
    ]
  }
}`

// newTestClient wires a client against a fake RTE serving tokens on /token
// and delegating /calendars to handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) (TempoClient, *tokenServer) {
	ts := &tokenServer{expiresIn: 3600}

	mux := http.NewServeMux()
	mux.Handle("/token", ts)
	mux.HandleFunc("/calendars", handler)
	mux.HandleFunc("/elsewhere", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("redirect was followed to %s", r.URL)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewTempoClient(context.Background(), models.NewCredentials("id", "secret"), ClientConfig{
		TokenURL:     srv.URL + "/token",
		CalendarsURL: srv.URL + "/calendars",
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return client, ts
}

func TestCalendars_Success(t *testing.T) {
	var gotQuery, gotAuth, gotAccept string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, calendarsJSON)
	})

	assert.Nil(t, client.LastUpdated())

	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)
	fallback := false
	calendars, err := client.Calendars(context.Background(), &start, &end, &fallback)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Contains(t, gotQuery, "start_date=2025-11-17T00%3A00%3A00%2B00%3A00")
	assert.Contains(t, gotQuery, "end_date=2025-11-19T00%3A00%3A00%2B00%3A00")
	assert.Contains(t, gotQuery, "fallback_status=false")

	require.Len(t, calendars.TempoLikeCalendars, 1)
	days := calendars.Days()
	require.Len(t, days, 2)
	assert.Equal(t, models.Red, days[0].Value)
	assert.Equal(t, models.White, days[1].Value)

	assert.NotNil(t, client.LastUpdated())
}

func TestNextDay_SendsNoParameters(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = fmt.Fprint(w, calendarsJSON)
	})

	calendars, err := client.NextDay(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	day, ok := calendars.FirstDayValue()
	require.True(t, ok)
	assert.Equal(t, models.Red, day.Value)
}

func TestCalendars_UnauthorizedWithHeader(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", "error=invalid_token; error_description=expired")
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.NextDay(context.Background())
	require.Error(t, err)

	var badRequest *BadRequestError
	require.True(t, errors.As(err, &badRequest))
	assert.Equal(t, "invalid_token", badRequest.Code)
	assert.Equal(t, "expired", badRequest.Description)
	assert.False(t, IsFatal(err))
	assert.Nil(t, client.LastUpdated())
}

func TestCalendars_UnauthorizedWithoutHeader(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, "go away")
	})

	_, err := client.NextDay(context.Background())

	var badRequest *BadRequestError
	require.True(t, errors.As(err, &badRequest))
	assert.Empty(t, badRequest.Code)
	assert.Equal(t, "go away", badRequest.Description)
}

func TestCalendars_ClientError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"error":"TMPLIKSUPCON_TMPLIKCAL_F04","error_description":"The end date must be greater than the start date"}`)
	})

	_, err := client.NextDay(context.Background())

	var badRequest *BadRequestError
	require.True(t, errors.As(err, &badRequest))
	assert.Equal(t, "TMPLIKSUPCON_TMPLIKCAL_F04", badRequest.Code)
	assert.Equal(t, "The end date must be greater than the start date", badRequest.Description)
	assert.Equal(t, "bad request - The end date must be greater than the start date (TMPLIKSUPCON_TMPLIKCAL_F04)", badRequest.Error())
}

func TestCalendars_ServerErrorWithUnreadableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, "<html>upstream down</html>")
	})

	_, err := client.NextDay(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecoding))

	var badRequest *BadRequestError
	assert.False(t, errors.As(err, &badRequest))
}

func TestCalendars_SuccessWithUnexpectedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"tempo_like_calendars": 42}`)
	})

	_, err := client.NextDay(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecoding))
	assert.Nil(t, client.LastUpdated())
}

func TestCalendars_RedirectIsFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})

	_, err := client.NextDay(context.Background())
	require.Error(t, err)
	assert.True(t, IsFatal(err))

	var unhandled *UnhandledStatusError
	require.True(t, errors.As(err, &unhandled))
	assert.Equal(t, http.StatusFound, unhandled.StatusCode)
}

func TestCalendars_RefreshesExpiredToken(t *testing.T) {
	var gotAuth []string
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, calendarsJSON)
	})

	mgr := client.(*tempoManager)
	expired := time.Now().Add(2 * time.Hour)
	mgr.tokens.now = func() time.Time { return expired }

	_, err := client.NextDay(context.Background())
	require.NoError(t, err)
	_, err = client.NextDay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-2", "Bearer tok-2"}, gotAuth)
	assert.Len(t, ts.Requests(), 2)
}

func TestCalendars_RefreshFailureIsAuthError(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("resource must not be called without a token")
	})

	mgr := client.(*tempoManager)
	expired := time.Now().Add(2 * time.Hour)
	mgr.tokens.now = func() time.Time { return expired }
	ts.fail.Store(true)

	_, err := client.NextDay(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestCalendars_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	calendarsURL := srv.URL + "/calendars"
	srv.Close()

	mgr := newTempoManager(models.NewCredentials("id", "secret"), ClientConfig{
		CalendarsURL: calendarsURL,
		Timeout:      time.Second,
	})
	mgr.tokens.state = tokenState{accessToken: "tok"}

	_, err := mgr.NextDay(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, IsFatal(err))
}

func TestParseWWWAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		code        string
		description string
		ok          bool
	}{
		{"plain pairs", "error=invalid_token; error_description=expired", "invalid_token", "expired", true},
		{"no spaces", "error=invalid_token;error_description=expired", "invalid_token", "expired", true},
		{"bearer prefix and quotes", `Bearer error="invalid_token"; error_description="The access token expired"`, "invalid_token", "The access token expired", true},
		{"reversed order", "error_description=expired; error=invalid_token", "invalid_token", "expired", true},
		{"extra parameters", "realm=rte; error=invalid_token; error_description=expired", "invalid_token", "expired", true},
		{"missing description", "error=invalid_token", "", "", false},
		{"missing code", "error_description=expired", "", "", false},
		{"empty", "", "", "", false},
		{"garbage", "Basic", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, description, ok := parseWWWAuthenticate(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.code, code)
				assert.Equal(t, tt.description, description)
			}
		})
	}
}

func TestCalendars_SuccessWithMissingFields(t *testing.T) {
	for name, body := range map[string]string{
		"empty object": `{}`,
		"empty day":    `{"tempo_like_calendars": {"start_date": "2025-11-17T00:00:00+01:00", "end_date": "2025-11-18T00:00:00+01:00", "values": [{}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, body)
			})

			calendars, err := client.NextDay(context.Background())
			require.Error(t, err)
			assert.Nil(t, calendars)
			assert.True(t, errors.Is(err, ErrDecoding))
			assert.Nil(t, client.LastUpdated())
		})
	}
}
