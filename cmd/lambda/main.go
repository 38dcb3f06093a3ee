package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/models"
	"github.com/rm-hull/tempo-api/internal/notify"
)

type Response struct {
	Published bool   `json:"published"`
	Day       string `json:"day,omitempty"`
	Color     string `json:"color,omitempty"`
	Message   string `json:"message,omitempty"`
}

func setup() (*internal.Config, error) {
	if _, err := maxprocs.Set(); err != nil {
		return nil, errors.Wrap(err, "error setting GOMAXPROCS")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.TopicARN == "" {
		return nil, errors.New("TOPIC_ARN must be set")
	}

	internal.ConfigureLogging(cfg.LogLevel, "json")
	return cfg, nil
}

// HandleRequest announces tomorrow's colour on the configured SNS topic. It is
// meant to be triggered by a daily EventBridge rule after RTE publishes.
func HandleRequest(ctx context.Context) (Response, error) {
	logger := log.WithField("component", "tempo-lambda")
	logger.Info("starting up")
	defer logger.Info("shutting down")

	cfg, err := setup()
	if err != nil {
		return Response{}, err
	}

	creds, err := cfg.Credentials("")
	if err != nil {
		return Response{}, err
	}

	client, err := internal.NewTempoClient(ctx, creds, cfg.ClientConfig())
	if err != nil {
		return Response{}, err
	}

	notifier, err := notify.NewSNSNotifier(ctx, cfg.TopicARN)
	if err != nil {
		return Response{}, err
	}

	return publishNextDay(ctx, client, notifier)
}

func publishNextDay(ctx context.Context, client internal.TempoClient, notifier notify.Notifier) (Response, error) {
	calendars, err := client.NextDay(ctx)
	if err != nil {
		return Response{}, err
	}

	day, ok := calendars.FirstDayValue()
	if !ok {
		log.Warn("next day color is not published yet")
		return Response{Published: false}, nil
	}

	if err := notifier.NotifyNextDay(ctx, *day); err != nil {
		return Response{}, err
	}

	return Response{
		Published: true,
		Day:       day.StartDate.Format(models.DayLayout),
		Color:     day.Value.String(),
		Message:   notify.Message(*day),
	}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
