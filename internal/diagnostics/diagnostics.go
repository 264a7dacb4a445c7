// Package diagnostics delivers runtime failure events to external sinks.
package diagnostics

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// KindExtrinsicFailed marks an extrinsic whose call returned an error.
	KindExtrinsicFailed = "extrinsic_failed"
	// KindBlockAborted marks a block rejected before execution.
	KindBlockAborted = "block_aborted"
)

// Event describes one failure. Index is -1 for block level events.
type Event struct {
	ID          string
	Kind        string
	BlockNumber uint64
	Index       int
	Caller      string
	ErrorKind   string
	Error       string
	At          time.Time
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(kind string) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Index: -1, At: time.Now().UTC()}
}

// Sink delivers events downstream.
type Sink interface {
	Report(ctx context.Context, event Event) error
}

// LoggerSink writes events to a structured logger.
type LoggerSink struct {
	logger *slog.Logger
}

// NewLoggerSink builds a sink that only logs.
func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Report logs the event at warn level, using its kind as the message.
func (s *LoggerSink) Report(_ context.Context, event Event) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Warn(strings.ReplaceAll(event.Kind, "_", " "),
		slog.String("id", event.ID),
		slog.Uint64("block_number", event.BlockNumber),
		slog.Int("extrinsic_index", event.Index),
		slog.String("caller", event.Caller),
		slog.String("error_kind", event.ErrorKind),
		slog.String("error", event.Error),
	)
	return nil
}

// Fanout reports every event to all of its sinks.
type Fanout []Sink

// Report delivers to each sink and joins their errors.
func (f Fanout) Report(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Report(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
