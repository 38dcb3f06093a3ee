package internal

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type tokenExpiry struct {
	at       time.Time
	validity time.Duration
}

type tokenState struct {
	accessToken string
	expiry      *tokenExpiry // nil: token never expires
}

// tokenStore owns the single bearer token of a client. Reads and refreshes
// both happen under mu, so callers never see a half-updated state and at
// most one exchange is in flight at a time.
type tokenStore struct {
	mu    sync.Mutex
	state tokenState

	authorizeCfg *clientcredentials.Config
	refreshCfg   *clientcredentials.Config
	client       *http.Client
	now          func() time.Time
}

func newTokenStore(creds models.Credentials, tokenURL string, client *http.Client) *tokenStore {
	authorizeCfg := &clientcredentials.Config{
		ClientID:     creds.ClientId,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{TEMPO_SCOPE},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Silent refreshes rely on the server's default scope.
	refreshCfg := *authorizeCfg
	refreshCfg.Scopes = nil

	return &tokenStore{
		authorizeCfg: authorizeCfg,
		refreshCfg:   &refreshCfg,
		client:       client,
		now:          time.Now,
	}
}

func (s *tokenStore) authorize(ctx context.Context) error {
	state, err := s.exchange(ctx, s.authorizeCfg, "authorize")
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = *state
	s.mu.Unlock()

	return nil
}

func (s *tokenStore) getValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.expiry == nil {
		return s.state.accessToken, nil
	}

	now := s.now()
	delta := int64(s.state.expiry.at.Sub(now) / time.Second)
	log.WithField("component", "token_store").
		Debugf("Time is %s and token expires in %d seconds", now.Format(time.RFC3339), delta)

	if delta > 0 {
		return s.state.accessToken, nil
	}

	state, err := s.exchange(ctx, s.refreshCfg, "refresh")
	if err != nil {
		return "", err
	}
	s.state = *state
	log.WithField("component", "token_store").Debug("Successfully renewed token")

	return s.state.accessToken, nil
}

// exchange performs a client-credentials grant. It never touches s.state.
func (s *tokenStore) exchange(ctx context.Context, cfg *clientcredentials.Config, kind string) (state *tokenState, err error) {
	ctx, span := startSpan(ctx, "tempo.token."+kind, attribute.String("oauth2.token_url", cfg.TokenURL))
	defer func() { endSpan(span, err) }()

	issuedAt := s.now()
	token, err := cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, s.client))
	if err != nil {
		tokenExchanges.WithLabelValues(kind, "failure").Inc()
		return nil, errors.Mark(errors.Wrapf(err, "client credentials exchange (%s) failed", kind), ErrAuth)
	}
	tokenExchanges.WithLabelValues(kind, "success").Inc()

	state = &tokenState{accessToken: token.AccessToken}
	if seconds := expiresIn(token); seconds > 0 {
		validity := time.Duration(seconds) * time.Second
		state.expiry = &tokenExpiry{
			at:       issuedAt.Add(validity),
			validity: validity,
		}
		log.Printf("Token %s completed successfully, token expires in %d seconds", kind, int64(validity/time.Second))
	} else {
		log.Printf("Token %s completed successfully, token has no expiry", kind)
	}

	return state, nil
}

// expiresIn is the token lifetime in seconds announced by the server, or 0
// when it sent none.
func expiresIn(token *oauth2.Token) int64 {
	if token.ExpiresIn > 0 {
		return token.ExpiresIn
	}
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}
