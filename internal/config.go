package internal

import (
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/cockroachdb/errors"
	"github.com/rm-hull/tempo-api/internal/models"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	ClientId        string        `env:"CLIENT_ID"`
	ClientSecret    string        `env:"CLIENT_SECRET"`
	CredentialsFile string        `env:"CREDENTIALS_FILE"`
	TokenURL        string        `env:"TOKEN_URL"`
	CalendarsURL    string        `env:"CALENDARS_URL"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	TopicARN        string        `env:"TOPIC_ARN"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing environment variables")
	}
	return cfg, nil
}

// ClientConfig leaves unset URLs empty; the client falls back to the RTE
// production endpoints.
func (cfg *Config) ClientConfig() ClientConfig {
	return ClientConfig{
		TokenURL:     cfg.TokenURL,
		CalendarsURL: cfg.CalendarsURL,
		Timeout:      cfg.HTTPTimeout,
	}
}

// Credentials prefers an explicit credentials file (flag over environment),
// then CLIENT_ID / CLIENT_SECRET.
func (cfg *Config) Credentials(credentialsFile string) (models.Credentials, error) {
	if credentialsFile == "" {
		credentialsFile = cfg.CredentialsFile
	}
	if credentialsFile != "" {
		return ReadCredentialsFile(credentialsFile)
	}
	if cfg.ClientId == "" || cfg.ClientSecret == "" {
		return models.Credentials{}, errors.New("no credentials: set CLIENT_ID and CLIENT_SECRET, or CREDENTIALS_FILE")
	}
	return models.NewCredentials(cfg.ClientId, cfg.ClientSecret), nil
}

func ConfigureLogging(level, format string) {
	log.SetOutput(os.Stdout)
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, defaulting to info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
