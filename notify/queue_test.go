package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shoecreatify/shoecreatify-api/mailing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeComposer struct {
	mu    sync.Mutex
	calls []string
	fail  bool
	block chan struct{}
}

func (f *fakeComposer) record(name string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (f *fakeComposer) SendVerificationOTP(to mailing.Recipient, otp string, linkToken string) error {
	return f.record("verification:" + otp)
}

func (f *fakeComposer) SendWelcome(to mailing.Recipient) error {
	return f.record("welcome")
}

func (f *fakeComposer) SendLoginAlert(to mailing.Recipient, ip string, userAgent string, at time.Time) error {
	return f.record("login_alert:" + ip)
}

func (f *fakeComposer) SendPasswordResetOTP(to mailing.Recipient, otp string) error {
	return f.record("reset:" + otp)
}

func (f *fakeComposer) SendPasswordChanged(to mailing.Recipient) error {
	return f.record("changed")
}

func (f *fakeComposer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func TestQueueDeliversAll(t *testing.T) {
	composer := &fakeComposer{}
	q, err := NewQueue(zaptest.NewLogger(t), composer, 2, 10, prometheus.NewRegistry())
	require.NoError(t, err)

	to := mailing.Recipient{Email: "jane@shoecreatify.local", Name: "Jane", Locale: "en"}
	q.VerificationOTP(to, "123456", "tok")
	q.Welcome(to)
	q.LoginAlert(to, "1.2.3.4", "agent", time.Now())
	q.PasswordResetOTP(to, "654321")
	q.PasswordChanged(to)

	require.NoError(t, q.Close(context.Background()))
	assert.ElementsMatch(t, []string{
		"verification:123456",
		"welcome",
		"login_alert:1.2.3.4",
		"reset:654321",
		"changed",
	}, composer.Calls())
	assert.Equal(t, float64(1), testutil.ToFloat64(q.outcomes.WithLabelValues("welcome", "sent")))
}

func TestQueueFailuresAreSwallowed(t *testing.T) {
	composer := &fakeComposer{fail: true}
	q, err := NewQueue(zaptest.NewLogger(t), composer, 1, 1, nil)
	require.NoError(t, err)
	q.Welcome(mailing.Recipient{Email: "jane@shoecreatify.local"})
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, float64(1), testutil.ToFloat64(q.outcomes.WithLabelValues("welcome", "failed")))
}

func TestQueueDropsWhenFullOrClosed(t *testing.T) {
	composer := &fakeComposer{block: make(chan struct{})}
	q, err := NewQueue(zaptest.NewLogger(t), composer, 1, 0, nil)
	require.NoError(t, err)

	to := mailing.Recipient{Email: "jane@shoecreatify.local"}
	// unbuffered: the first job is only accepted once the worker is receiving
	require.Eventually(t, func() bool {
		q.Welcome(to)
		return testutil.ToFloat64(q.outcomes.WithLabelValues("welcome", "queued")) == 1
	}, time.Second, 5*time.Millisecond)

	q.PasswordChanged(to)
	assert.Equal(t, float64(1), testutil.ToFloat64(q.outcomes.WithLabelValues("password_changed", "dropped")))

	close(composer.block)
	require.NoError(t, q.Close(context.Background()))
	assert.ErrorIs(t, q.Close(context.Background()), ErrQueueClosed)

	q.Welcome(to)
	assert.GreaterOrEqual(t, testutil.ToFloat64(q.outcomes.WithLabelValues("welcome", "dropped")), float64(1))
}

func TestRegisterOutcomesTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := registerOutcomes(reg)
	require.NoError(t, err)
	b, err := registerOutcomes(reg)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
