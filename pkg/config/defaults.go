package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "equipbook"
	DefaultMongoCollection   = "bookings"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaTopic = "equipbook.bookings"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024 // bookings are tiny documents

	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 5 * time.Second

	DefaultServerReadTimeout = 15 * time.Second
	DefaultServerIdleTimeout = 60 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second

	// Transient notifications auto-dismiss after this long unless replaced.
	DefaultNotificationTTL = 4 * time.Second
)
