package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shoecreatify/shoecreatify-api/mailing"
	"github.com/shoecreatify/shoecreatify-api/metrics"
	"github.com/shoecreatify/shoecreatify-api/sanitize"
	"go.uber.org/zap"
)

// ErrQueueClosed is returned by Close when called twice
var ErrQueueClosed = errors.New("notification queue already closed")

// Kind names a notification for logs and metrics
type Kind string

const (
	KindVerification    Kind = "verification"
	KindWelcome         Kind = "welcome"
	KindLoginAlert      Kind = "login_alert"
	KindPasswordReset   Kind = "password_reset"
	KindPasswordChanged Kind = "password_changed"
)

// Composer renders and sends the individual emails
type Composer interface {
	SendVerificationOTP(to mailing.Recipient, otp string, linkToken string) error
	SendWelcome(to mailing.Recipient) error
	SendLoginAlert(to mailing.Recipient, ip string, userAgent string, at time.Time) error
	SendPasswordResetOTP(to mailing.Recipient, otp string) error
	SendPasswordChanged(to mailing.Recipient) error
}

type job struct {
	kind Kind
	to   mailing.Recipient
	run  func() error
}

// Queue hands notifications to a fixed pool of workers so callers never wait on delivery.
// Delivery errors are logged and counted, never returned.
type Queue struct {
	log      *zap.Logger
	composer Composer
	jobs     chan job
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	outcomes *prometheus.CounterVec
}

// NewQueue starts workers goroutines reading from a buffer of the given size
func NewQueue(log *zap.Logger, composer Composer, workers int, buffer int, reg prometheus.Registerer) (*Queue, error) {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	outcomes, err := registerOutcomes(reg)
	if err != nil {
		return nil, err
	}
	q := &Queue{
		log:      log,
		composer: composer,
		jobs:     make(chan job, buffer),
		outcomes: outcomes,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q, nil
}

func registerOutcomes(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	return metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shoecreatify",
		Subsystem: "notifications",
		Name:      "total",
		Help:      "Notifications partitioned by kind and outcome.",
	}, []string{"kind", "outcome"}))
}

func (q *Queue) work() {
	defer q.wg.Done()
	for j := range q.jobs {
		q.deliver(j)
	}
}

func (q *Queue) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			q.outcomes.WithLabelValues(string(j.kind), "panic").Inc()
			q.log.Error("recovered from panicing notification",
				zap.Any("recoverer", r),
				zap.String("kind", string(j.kind)))
		}
	}()
	if err := j.run(); err != nil {
		q.outcomes.WithLabelValues(string(j.kind), "failed").Inc()
		q.log.Warn("notification delivery failed",
			zap.String("kind", string(j.kind)),
			sanitize.MaskedEmail("to", j.to.Email),
			zap.Error(err))
		return
	}
	q.outcomes.WithLabelValues(string(j.kind), "sent").Inc()
	q.log.Debug("notification delivered", zap.String("kind", string(j.kind)))
}

func (q *Queue) enqueue(j job) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.outcomes.WithLabelValues(string(j.kind), "dropped").Inc()
		q.log.Warn("notification dropped, queue closed", zap.String("kind", string(j.kind)))
		return
	}
	select {
	case q.jobs <- j:
		q.outcomes.WithLabelValues(string(j.kind), "queued").Inc()
	default:
		q.outcomes.WithLabelValues(string(j.kind), "dropped").Inc()
		q.log.Warn("notification dropped, queue full", zap.String("kind", string(j.kind)))
	}
}

func (q *Queue) VerificationOTP(to mailing.Recipient, otp string, linkToken string) {
	q.enqueue(job{kind: KindVerification, to: to, run: func() error {
		return q.composer.SendVerificationOTP(to, otp, linkToken)
	}})
}

func (q *Queue) Welcome(to mailing.Recipient) {
	q.enqueue(job{kind: KindWelcome, to: to, run: func() error {
		return q.composer.SendWelcome(to)
	}})
}

func (q *Queue) LoginAlert(to mailing.Recipient, ip string, userAgent string, at time.Time) {
	q.enqueue(job{kind: KindLoginAlert, to: to, run: func() error {
		return q.composer.SendLoginAlert(to, ip, userAgent, at)
	}})
}

func (q *Queue) PasswordResetOTP(to mailing.Recipient, otp string) {
	q.enqueue(job{kind: KindPasswordReset, to: to, run: func() error {
		return q.composer.SendPasswordResetOTP(to, otp)
	}})
}

func (q *Queue) PasswordChanged(to mailing.Recipient) {
	q.enqueue(job{kind: KindPasswordChanged, to: to, run: func() error {
		return q.composer.SendPasswordChanged(to)
	}})
}

// Close stops accepting notifications and waits for the workers to drain the buffer
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
