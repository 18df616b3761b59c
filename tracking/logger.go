package tracking

import (
	"github.com/rs/zerolog"

	"github.com/tychoish/lazy"
)

type logTracker struct {
	logger zerolog.Logger
}

// Logger returns a tracker that writes every replay buffer event to
// the logger. Rejected consumers are logged at warn level, all other
// events at debug level.
func Logger(logger zerolog.Logger) lazy.ReplayTracker {
	return &logTracker{logger: logger.With().Str("component", "replay").Logger()}
}

func (l *logTracker) ConsumerAdmitted(live int) {
	l.logger.Debug().Int("live", live).Msg("consumer admitted")
}

func (l *logTracker) ConsumerRejected(limit int) {
	l.logger.Warn().Int("limit", limit).Msg("consumer limit reached")
}

func (l *logTracker) ConsumerReleased(live int, early bool) {
	l.logger.Debug().Int("live", live).Bool("early", early).Msg("consumer released")
}

func (l *logTracker) EntryBuffered(index, retained int) {
	l.logger.Debug().Int("index", index).Int("retained", retained).Msg("entry buffered")
}

func (l *logTracker) EntryEvicted(index, retained int) {
	l.logger.Debug().Int("index", index).Int("retained", retained).Msg("entry evicted")
}
