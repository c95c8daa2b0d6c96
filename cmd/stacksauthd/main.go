package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/layer-3/stacksauth/adapters/accounts"
	"github.com/layer-3/stacksauth/adapters/events"
	"github.com/layer-3/stacksauth/adapters/store"
	"github.com/layer-3/stacksauth/adapters/tokenizer"
	"github.com/layer-3/stacksauth/config"
	"github.com/layer-3/stacksauth/service"
	"github.com/layer-3/stacksauth/transport/http"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Generate a signing key pair. A deployment would load this from a
	// secret store instead so tokens survive restarts.
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate signing key")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis URL")
	}
	redisClient := redis.NewClient(opts)

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create event publisher")
	}

	authService := service.NewAuthService(
		store.NewRedisChallengeStore(redisClient, cfg.AppName, cfg.ChallengeTTL),
		accounts.NewRedisAccounts(redisClient),
		tokenizer.NewJWTTokenizer(signKey),
		store.NewRedisStore(redisClient),
		events.NewWatermillPublisher(publisher),
		logger,
		service.WithTokenTTLs(cfg.AccessTTL, cfg.RefreshTTL),
	)

	router := http.SetupRouter(authService)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("starting stacksauth")
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
