package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func SetupLogger(config *Config) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

type ConnectionLogger struct {
	zerolog zerolog.Logger
}

func GetConnectionLogger(ip string, roomID string) ConnectionLogger {
	return ConnectionLogger{log.With().Str("ip", ip).Str("room-id", roomID).Logger()}
}

func (l ConnectionLogger) Connected() {
	l.zerolog.Info().Msg("Connected")
}

func (l ConnectionLogger) Disconnected(err error) {
	l.zerolog.Info().Err(err).Msg("Disconnected")
}

func (l ConnectionLogger) RejectedByDispatcher(err error) {
	l.zerolog.Warn().Err(err).Msg("Dispatcher rejected connection")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogStoppingServer() {
	log.Info().Msg("Stopping server")
}

func LogServerError(err error) {
	log.Error().Err(err).Msg("Server error")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}

func LogInvalidInvite(err error) {
	log.Warn().Err(err).Msg("Rejected invite")
}
