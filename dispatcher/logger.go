package dispatcher

import (
	"github.com/rs/zerolog"
)

type sessionLogger struct {
	zerolog zerolog.Logger
}

func newSessionLogger(base *zerolog.Logger, userID, roomID string) sessionLogger {
	return sessionLogger{base.With().Str("user-id", userID).Str("room-id", roomID).Logger()}
}

func (l sessionLogger) Joined(users int) {
	l.zerolog.Info().Int("users", users).Msg("Joined room")
}

func (l sessionLogger) JoinRefused(err error) {
	l.zerolog.Warn().Err(err).Msg("Join refused")
}

func (l sessionLogger) Left(users int) {
	l.zerolog.Info().Int("users", users).Msg("Left room")
}

func (l sessionLogger) RoomsReclaimed(ids []string) {
	l.zerolog.Info().Strs("rooms", ids).Msg("Reclaimed empty rooms")
}

func (l sessionLogger) DroppedMalformed(err error) {
	l.zerolog.Warn().Err(err).Msg("Dropping malformed message")
}

func (l sessionLogger) IgnoredUnknown(messageType string) {
	l.zerolog.Debug().Str("type", messageType).Msg("Ignoring unknown message type")
}

func (l sessionLogger) SendFailed(err error) {
	l.zerolog.Warn().Err(err).Msg("Send failed")
}

func (l sessionLogger) BroadcastFailed(err error) {
	l.zerolog.Error().Err(err).Msg("Broadcast failed")
}
