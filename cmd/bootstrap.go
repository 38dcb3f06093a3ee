package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"
	log "github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/rm-hull/tempo-api/internal"
)

type Options struct {
	DbPath          string
	CredentialsFile string
}

// loadConfig reads .env and the environment, and configures logging.
func loadConfig() (*internal.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	internal.ConfigureLogging(cfg.LogLevel, cfg.LogFormat)

	return cfg, nil
}

// bootstrapClient authorizes against RTE with whichever credentials are
// configured.
func bootstrapClient(ctx context.Context, opts Options) (internal.TempoClient, *internal.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	creds, err := cfg.Credentials(opts.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	client, err := internal.NewTempoClient(ctx, creds, cfg.ClientConfig())
	if err != nil {
		return nil, nil, errors.Wrap(err, "RTE authentication failed")
	}

	return client, cfg, nil
}

// bootstrap initialises shared resources used by both the API server and import
// commands. It returns the authenticated client, a repository, the loaded
// configuration, and an error if something failed during startup.
func bootstrap(ctx context.Context, opts Options) (internal.TempoClient, internal.TempoRepository, *internal.Config, error) {
	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Warnf("failed to set GOMAXPROCS: %v", err)
	}

	client, cfg, err := bootstrapClient(ctx, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	db, err := internal.Connect(opts.DbPath)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to initialize database")
	}

	if err := internal.Migrate("migrations", opts.DbPath); err != nil {
		_ = db.Close()
		return nil, nil, nil, errors.Wrap(err, "failed to migrate SQL")
	}

	repo := internal.NewTempoRepository(db)

	return client, repo, cfg, nil
}
