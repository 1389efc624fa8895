package events_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Send(ctx context.Context, ev types.OperationEvent) error {
	return m.Called(ev.Kind, ev.ModName).Error(0)
}

func kinds(evs []types.OperationEvent) []types.EventKind {
	out := make([]types.EventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestTracker_Order(t *testing.T) {
	rec := &events.Recorder{}

	tr := events.Start(context.Background(), rec, "toggle", "CoolPlugin")
	tr.Progress(0.5, "renaming")
	tr.Progress(2, "done")
	tr.Finish(nil, "enabled")
	tr.Progress(0.9, "ignored")
	tr.Finish(stderrors.New("ignored"), "")

	evs := rec.Events()
	assert.Equal(t, []types.EventKind{types.EventStarted, types.EventProgress, types.EventProgress, types.EventFinished}, kinds(evs))
	assert.Equal(t, 1.0, evs[2].Progress)
	assert.True(t, evs[3].Success)
	for _, ev := range evs {
		assert.Equal(t, "toggle", ev.Operation)
		assert.Equal(t, "CoolPlugin", ev.ModName)
	}
}

func TestTracker_FailureMessage(t *testing.T) {
	rec := &events.Recorder{}

	tr := events.Start(context.Background(), rec, "install", "Red")
	tr.Finish(stderrors.New("disk full"), "")

	evs := rec.Events()
	require.Len(t, evs, 2)
	assert.False(t, evs[1].Success)
	assert.Equal(t, "disk full", evs[1].Message)
}

func TestTracker_FinishesAfterCancellation(t *testing.T) {
	ch := make(chan types.OperationEvent, 4)
	ctx, cancel := context.WithCancel(context.Background())

	tr := events.Start(ctx, events.NewChannelSink(ch), "toggle", "A")
	cancel()
	tr.Finish(ctx.Err(), "")

	require.Len(t, ch, 2)
	<-ch
	last := <-ch
	assert.Equal(t, types.EventFinished, last.Kind)
	assert.False(t, last.Success)
}

func TestTracker_SinkErrorsDoNotPropagate(t *testing.T) {
	sink := &mockSink{}
	sink.On("Send", types.EventStarted, "A").Return(stderrors.New("closed")).Once()
	sink.On("Send", types.EventFinished, "A").Return(stderrors.New("closed")).Once()

	tr := events.Start(context.Background(), sink, "delete", "A")
	tr.Finish(nil, "")

	sink.AssertExpectations(t)
}

func TestChannelSink_RespectsContext(t *testing.T) {
	sink := events.NewChannelSink(make(chan types.OperationEvent))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := sink.Send(ctx, types.OperationEvent{Kind: types.EventStarted})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMulti(t *testing.T) {
	a, b := &events.Recorder{}, &events.Recorder{}

	tr := events.Start(context.Background(), events.Multi{a, b, events.Nop{}, events.NewLogSink()}, "scan", "")
	tr.Finish(nil, "")

	assert.Len(t, a.Events(), 2)
	assert.Len(t, b.Events(), 2)
}
