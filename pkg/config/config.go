// Package config reads the TOML service configuration.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"feedback/pkg/wordlist"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

var ErrInvalidConfig = fmt.Errorf("invalid configuration")

type Config struct {
	ServiceName string `toml:"serviceName"`
	HTTPAddr    string `toml:"httpAddr"`
	LogLevel    string `toml:"logLevel"`

	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`

	WordSource  string               `toml:"wordSource"`
	Words       wordlist.FileSource  `toml:"words"`
	PostgresURL string               `toml:"postgresURL"`
	Mongo       wordlist.MongoConfig `toml:"mongo"`
}

// Load decodes the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		ServiceName: "feedback",
		HTTPAddr:    ":8055",
		LogLevel:    "info",
		WordSource:  SourceFile,
	}
}

func (c *Config) Validate() error {
	if !strings.Contains(c.HTTPAddr, ":") {
		return fmt.Errorf("%w: use ':' before port number, e.g. ':8080', got %q", ErrInvalidConfig, c.HTTPAddr)
	}

	switch c.WordSource {
	case SourceFile:
		if c.Words.Stopwords == "" || c.Words.Positive == "" || c.Words.Negative == "" || c.Words.Abusive == "" {
			return fmt.Errorf("%w: words paths are required for the file source", ErrInvalidConfig)
		}
	case SourcePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("%w: postgresURL is required for the postgres source", ErrInvalidConfig)
		}
	case SourceMongo:
		if err := c.Mongo.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: %q", wordlist.ErrUnknownSource, c.WordSource)
	}

	return nil
}

// SetLogLevel applies LogLevel to the standard logrus logger.
func (c *Config) SetLogLevel() {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("[config] unknown log level %q, keeping %s", c.LogLevel, log.GetLevel())
	}
}

// LoadWords loads the vocabularies from the configured source.
func (c *Config) LoadWords(ctx context.Context) (*wordlist.Lists, error) {
	switch c.WordSource {
	case SourceFile:
		return c.Words.Load(ctx)

	case SourcePostgres:
		src, err := wordlist.NewPostgresSource(ctx, c.PostgresURL)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Load(ctx)

	case SourceMongo:
		src, err := wordlist.NewMongoSource(ctx, &c.Mongo)
		if err != nil {
			return nil, err
		}
		defer src.Close(ctx)
		return src.Load(ctx)
	}

	return nil, fmt.Errorf("%w: %q", wordlist.ErrUnknownSource, c.WordSource)
}
