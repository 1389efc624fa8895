// Package events delivers the per-operation notification stream:
// Started, any number of Progress, then exactly one Finished.
package events

import (
	"context"
	"sync"

	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/rs/zerolog"
)

// Sink receives operation events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Send(ctx context.Context, ev types.OperationEvent) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Send(context.Context, types.OperationEvent) error { return nil }

// ChannelSink forwards events to a channel, blocking until the receiver
// takes them or ctx ends
type ChannelSink struct {
	ch chan<- types.OperationEvent
}

// NewChannelSink wraps ch
func NewChannelSink(ch chan<- types.OperationEvent) *ChannelSink {
	return &ChannelSink{ch: ch}
}

func (c *ChannelSink) Send(ctx context.Context, ev types.OperationEvent) error {
	select {
	case c.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSink writes events to a zerolog logger
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink logs under the "events" component
func NewLogSink() *LogSink {
	return &LogSink{logger: logging.GetLogger("events")}
}

func (l *LogSink) Send(_ context.Context, ev types.OperationEvent) error {
	var e *zerolog.Event
	switch {
	case ev.Kind == types.EventFinished && !ev.Success:
		e = l.logger.Warn()
	case ev.Kind == types.EventProgress:
		e = l.logger.Debug().Float64("progress", ev.Progress)
	default:
		e = l.logger.Info()
	}
	e.Str("event", string(ev.Kind)).
		Str("operation", ev.Operation).
		Str("mod", ev.ModName).
		Msg(ev.Message)
	return nil
}

// Multi fans an event out to several sinks, returning the first error
type Multi []Sink

func (m Multi) Send(ctx context.Context, ev types.OperationEvent) error {
	var first error
	for _, s := range m {
		if err := s.Send(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Recorder keeps every event in memory
type Recorder struct {
	mu     sync.Mutex
	events []types.OperationEvent
}

func (r *Recorder) Send(_ context.Context, ev types.OperationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of what was recorded
func (r *Recorder) Events() []types.OperationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.OperationEvent(nil), r.events...)
}
