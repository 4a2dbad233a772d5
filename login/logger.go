package login

import "github.com/rs/zerolog"

// Logger is the notification sink the login machinery writes warnings and
// errors to. Implementations adapt it to the embedding platform's logging
// system.
type Logger interface {
	Warning(message string)
	Error(message string, err error)
}

// ZerologLogger adapts a zerolog.Logger to the Logger contract.
type ZerologLogger struct {
	logger zerolog.Logger
}

var _ Logger = ZerologLogger{}

// NewZerologLogger returns a ZerologLogger that writes through logger.
func NewZerologLogger(logger zerolog.Logger) ZerologLogger {
	return ZerologLogger{logger: logger}
}

func (zl ZerologLogger) Warning(message string) {
	zl.logger.Warn().Msg(message)
}

func (zl ZerologLogger) Error(message string, err error) {
	zl.logger.Error().Err(err).Msg(message)
}
