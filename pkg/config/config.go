package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"equipbook/pkg/client"
	"equipbook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoCollection   string
	MongoConnTimeout  time.Duration

	Port string

	// Empty broker list disables booking change events.
	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	StoreReadTimeout  time.Duration
	StoreWriteTimeout time.Duration

	ServerReadTimeout time.Duration
	ServerIdleTimeout time.Duration
	ShutdownTimeout   time.Duration

	NotificationTTL time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoCollection:   getEnvStr(EnvMongoCollection, DefaultMongoCollection),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		StoreReadTimeout:  getEnvDuration(EnvStoreReadTimeout, DefaultStoreReadTimeout),
		StoreWriteTimeout: getEnvDuration(EnvStoreWriteTimeout, DefaultStoreWriteTimeout),

		ServerReadTimeout: getEnvDuration(EnvServerReadTimeout, DefaultServerReadTimeout),
		ServerIdleTimeout: getEnvDuration(EnvServerIdleTimeout, DefaultServerIdleTimeout),
		ShutdownTimeout:   getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		NotificationTTL: getEnvDuration(EnvNotificationTTL, DefaultNotificationTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoCollection == "" {
		errs = append(errs, "MongoCollection cannot be empty")
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errs = append(errs, "KafkaTopic cannot be empty when brokers are configured")
	}

	durations := map[string]time.Duration{
		"MongoConnTimeout":   cfg.MongoConnTimeout,
		"RateLimitWindow":    cfg.RateLimitWindow,
		"RequestTimeout":     cfg.RequestTimeout,
		"StoreReadTimeout":   cfg.StoreReadTimeout,
		"StoreWriteTimeout":  cfg.StoreWriteTimeout,
		"ServerReadTimeout": cfg.ServerReadTimeout,
		"ServerIdleTimeout": cfg.ServerIdleTimeout,
		"ShutdownTimeout":   cfg.ShutdownTimeout,
		"NotificationTTL":   cfg.NotificationTTL,
	}
	for name, d := range durations {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_collection", cfg.MongoCollection,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
		"events_enabled", len(cfg.KafkaBrokers) > 0,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"store_read_timeout", cfg.StoreReadTimeout,
		"store_write_timeout", cfg.StoreWriteTimeout,
		"server_read_timeout", cfg.ServerReadTimeout,
		"server_idle_timeout", cfg.ServerIdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"notification_ttl", cfg.NotificationTTL,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
