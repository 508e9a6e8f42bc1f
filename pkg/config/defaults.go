package config

import "time"

const (
	DefaultEnvFile = ".env"

	DefaultMongoURI             = "mongodb://localhost:27017"
	DefaultMongoDatabaseName    = "college_appointments"
	DefaultMongoConnTimeout     = 10 * time.Second
	DefaultMongoUseTransactions = false

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	MinJWTSecretLength     = 16

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

const (
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

const (
	StatusBooked    = "Booked"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)
