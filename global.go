package api

import (
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	DB     *gorm.DB
	Logger zerolog.Logger
	Redis  *redis.Client

	// Nats is nil when NATS_URL is unset; event publishing degrades to a
	// no-op in that case.
	Nats *nats.Conn
)
