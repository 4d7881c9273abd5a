package store

import "github.com/rs/zerolog"

// Notifier surfaces user-visible outcomes of store operations.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(message string) {
	n.log.Info().Msg(message)
}

func (n *LogNotifier) Error(message string) {
	n.log.Error().Msg(message)
}
