package confcore

import (
	"os"

	"github.com/rs/zerolog"
)

// LogSink receives the non-fatal diagnostics: every warn-and-skip path in
// env import, file loading and section merging reports through this single
// method rather than returning an error.
type LogSink interface {
	Warn(msg string, kv ...any)
}

// ZerologSink is the default LogSink, backed by github.com/rs/zerolog. kv
// is treated as alternating key/value pairs, same convention as
// zerolog.Event.Fields.
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink builds a ZerologSink writing to stderr in console format.
func NewZerologSink() *ZerologSink {
	return &ZerologSink{logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

func (s *ZerologSink) Warn(msg string, kv ...any) {
	evt := s.logger.Warn()
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		evt = evt.Interface(key, kv[i+1])
	}
	evt.Msg(msg)
}

// discardSink is used when resetLog is requested or no sink is configured;
// it drops every warning, same as passing io.Discard to a logger.
type discardSink struct{}

func (discardSink) Warn(string, ...any) {}
