package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"fraud-vision-api/src/analyze"
	"fraud-vision-api/src/config"
	"fraud-vision-api/src/providers"
	"fraud-vision-api/src/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config")
	}

	level, err := strconv.Atoi(config.LogLevel)
	if err != nil {
		log.Fatal().Msgf("FRAUD_LOG_LEVEL must be an integer zerolog level, got %q", config.LogLevel)
	}
	zerolog.SetGlobalLevel(zerolog.Level(level))

	ctx := context.Background()

	webDetector, err := providers.NewGoogleWebDetector(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vision client")
	}

	classifier, err := providers.NewVertexClassifier(ctx,
		config.VertexProject, config.VertexLocation, config.VertexEndpointID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vertex client")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("shutting down")
		webDetector.Close()
		classifier.Close()
		os.Exit(0)
	}()

	s := server.New(analyze.New(webDetector, classifier))
	log.Fatal().Msg(s.Run(config.Port).Error())
}
