package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type testEvent struct{}

func (testEvent) Name() EventName { return "test_event" }

type recordingListener struct {
	calls int
	err   error
	panic bool
}

func (*recordingListener) ForEvent() EventName { return "test_event" }

func (l *recordingListener) Handle(ctx context.Context, ev Event) error {
	l.calls++
	if l.panic {
		panic("boom")
	}
	return l.err
}

func TestDispatchReachesAllListeners(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	failing := &recordingListener{err: errors.New("nope")}
	panicking := &recordingListener{panic: true}
	ok := &recordingListener{}
	d.Register(failing, panicking, ok)

	assert.Equal(t, 3, d.Listeners("test_event"))
	assert.NotPanics(t, func() { d.Dispatch(context.Background(), testEvent{}) })
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, panicking.calls)
	assert.Equal(t, 1, ok.calls)
}

func TestDispatchWithoutListeners(t *testing.T) {
	d := NewDispatcher(zaptest.NewLogger(t))
	assert.Equal(t, 0, d.Listeners("test_event"))
	assert.NotPanics(t, func() { d.Dispatch(context.Background(), testEvent{}) })
}
