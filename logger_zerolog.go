package tenancy

import (
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the package Logger interface.
// Printf-style formats pass through Msgf; key-value argument pairs become
// structured fields.
type ZerologLogger struct {
	log zerolog.Logger
}

// Verify interface compliance
var _ Logger = (*ZerologLogger)(nil)

func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (l *ZerologLogger) Debug(format string, args ...any) {
	emit(l.log.Debug(), format, args)
}

func (l *ZerologLogger) Info(format string, args ...any) {
	emit(l.log.Info(), format, args)
}

func (l *ZerologLogger) Warn(format string, args ...any) {
	emit(l.log.Warn(), format, args)
}

func (l *ZerologLogger) Error(format string, args ...any) {
	emit(l.log.Error(), format, args)
}

func emit(evt *zerolog.Event, format string, args []any) {
	if len(args) == 0 {
		evt.Msg(format)
		return
	}

	if strings.Contains(format, "%") {
		evt.Msgf(format, args...)
		return
	}

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			evt = evt.Interface("args", args[i:])
			break
		}
		evt = evt.Interface(key, args[i+1])
	}
	evt.Msg(format)
}
