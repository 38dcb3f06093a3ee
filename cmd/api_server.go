package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/tempo-api/internal"
	"github.com/rm-hull/tempo-api/internal/notify"
	"github.com/rm-hull/tempo-api/internal/routes"
	"github.com/rm-hull/tempo-api/internal/tariffs"
)

func ApiServer(ctx context.Context, opts Options, port int, debug bool) error {

	client, repo, cfg, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	prices, err := tariffs.GetTariffs()
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.TopicARN != "" {
		if notifier, err = notify.NewSNSNotifier(ctx, cfg.TopicARN); err != nil {
			return err
		}
	}

	if _, err := internal.StartCron(client, repo, notifier); err != nil {
		return errors.Wrap(err, "failed to start CRON jobs")
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		routes.RequestID(),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize healthcheck")
	}

	v1 := r.Group("/v1/tempo")
	v1.GET("/calendars", routes.Calendars(client))
	v1.GET("/next-day", routes.NextDay(client))
	v1.GET("/history", routes.History(repo, client, prices))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "HTTP API Server failed to start on port %d", port)
	}

	return nil
}
