package events

import (
	"context"
	"sync"

	"github.com/fossmodmanager/fmm/pkg/types"
)

// Tracker emits the events of one (operation, mod) pair in order. After
// Finish it drops further calls. Delivery failures are ignored: a
// notification consumer going away must not fail the operation.
type Tracker struct {
	sink      Sink
	ctx       context.Context
	operation string
	mod       string

	mu       sync.Mutex
	finished bool
}

// Start sends the Started event and returns the tracker
func Start(ctx context.Context, sink Sink, operation, mod string) *Tracker {
	if sink == nil {
		sink = Nop{}
	}
	// Finished must still be delivered after the operation's ctx is
	// cancelled, so events use a context detached from cancellation.
	t := &Tracker{sink: sink, ctx: context.WithoutCancel(ctx), operation: operation, mod: mod}
	_ = sink.Send(t.ctx, types.OperationEvent{
		Kind:      types.EventStarted,
		Operation: operation,
		ModName:   mod,
	})
	return t
}

// Progress reports fraction (clamped to [0,1]) with a message
func (t *Tracker) Progress(fraction float64, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	_ = t.sink.Send(t.ctx, types.OperationEvent{
		Kind:      types.EventProgress,
		Operation: t.operation,
		ModName:   t.mod,
		Progress:  fraction,
		Message:   message,
	})
}

// Finish sends the Finished event. err decides success; message defaults
// to the error text on failure.
func (t *Tracker) Finish(err error, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	if err != nil && message == "" {
		message = err.Error()
	}
	_ = t.sink.Send(t.ctx, types.OperationEvent{
		Kind:      types.EventFinished,
		Operation: t.operation,
		ModName:   t.mod,
		Success:   err == nil,
		Message:   message,
	})
}
