package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoCollection   = "MONGO_COLLECTION"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvStoreReadTimeout  = "STORE_READ_TIMEOUT"
	EnvStoreWriteTimeout = "STORE_WRITE_TIMEOUT"

	EnvServerReadTimeout = "SERVER_READ_TIMEOUT"
	EnvServerIdleTimeout = "SERVER_IDLE_TIMEOUT"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"

	EnvNotificationTTL = "NOTIFICATION_TTL"
)
