package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tempo",
		Name:      "token_exchanges_total",
		Help:      "Client-credentials exchanges against the RTE authorization server, by kind and result.",
	}, []string{"kind", "result"})

	apiCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tempo",
		Name:      "api_calls_total",
		Help:      "Authenticated calls to the RTE API, by outcome.",
	}, []string{"outcome"})
)

const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeApiError     = "api_error"
	outcomeDecoding     = "decoding_error"
	outcomeTransport    = "transport_error"
	outcomeAuth         = "auth_error"
	outcomeUnhandled    = "unhandled_status"
)
