package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shoecreatify/shoecreatify-api/metrics"
	"go.uber.org/zap"
)

// Rule is a fixed window limit per client ip
type Rule struct {
	Name    string
	Limit   int64
	Window  time.Duration
	Message string
	// SkipSuccessful only counts requests answered with a status >= 400
	SkipSuccessful bool
}

var (
	// Auth guards the password login
	Auth = Rule{
		Name:           "auth",
		Limit:          5,
		Window:         15 * time.Minute,
		Message:        "Too many attempts, please try again later.",
		SkipSuccessful: true,
	}
	// OTP guards the endpoints that send a reset code
	OTP = Rule{
		Name:    "otp",
		Limit:   3,
		Window:  15 * time.Minute,
		Message: "Too many OTP requests. Please try again later.",
	}
	// OTPVerify guards every endpoint accepting a code or link
	OTPVerify = Rule{
		Name:    "otp_verify",
		Limit:   5,
		Window:  5 * time.Minute,
		Message: "Too many verification attempts. Please request a new OTP.",
	}
	// Registration guards sign up and resend
	Registration = Rule{
		Name:    "registration",
		Limit:   5,
		Window:  30 * time.Minute,
		Message: "Too many registration OTP requests. Please try again later.",
	}
)

// counter is the storage behind a limiter
type counter interface {
	hit(ctx context.Context, rule Rule, id string) (Result, error)
	undo(ctx context.Context, rule Rule, id string) error
}

// Limiter counts requests per rule and client
type Limiter struct {
	counter  counter
	log      *zap.Logger
	rejected *prometheus.CounterVec
}

func newLimiter(c counter, log *zap.Logger, reg prometheus.Registerer) (*Limiter, error) {
	rejected, err := metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shoecreatify",
		Subsystem: "ratelimit",
		Name:      "rejected_total",
		Help:      "Requests rejected by the rate limiter partitioned by rule.",
	}, []string{"rule"}))
	if err != nil {
		return nil, err
	}
	return &Limiter{counter: c, log: log, rejected: rejected}, nil
}

// New returns a limiter sharing its counters through redis
func New(client redis.UniversalClient, log *zap.Logger, reg prometheus.Registerer) (*Limiter, error) {
	return newLimiter(&redisCounter{client: client}, log, reg)
}

// NewInMemory returns a limiter keeping its counters in this process,
// used when no redis is configured
func NewInMemory(log *zap.Logger, reg prometheus.Registerer) (*Limiter, error) {
	return newLimiter(newMemoryCounter(), log, reg)
}

// Result of a single hit
type Result struct {
	Allowed    bool
	Count      int64
	Remaining  int64
	RetryAfter time.Duration
}

func newResult(rule Rule, count int64) Result {
	res := Result{Allowed: count <= rule.Limit, Count: count, Remaining: rule.Limit - count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	return res
}

// Hit counts one request of id against the rule
func (l *Limiter) Hit(ctx context.Context, rule Rule, id string) (Result, error) {
	return l.counter.hit(ctx, rule, id)
}

// Undo takes back one counted request
func (l *Limiter) Undo(ctx context.Context, rule Rule, id string) error {
	return l.counter.undo(ctx, rule, id)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Middleware enforces the rule per client ip, a nil limiter lets everything through.
// Counter failures are logged and the request is allowed.
func (l *Limiter) Middleware(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientIP(r)
			res, err := l.Hit(r.Context(), rule, id)
			if err != nil {
				l.log.Warn("rate limiter unavailable, allowing request", zap.String("rule", rule.Name), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rule.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				l.rejected.WithLabelValues(rule.Name).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, errorResponse{Success: false, Message: rule.Message})
				return
			}
			if !rule.SkipSuccessful {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() < http.StatusBadRequest {
				if err := l.Undo(r.Context(), rule, id); err != nil {
					l.log.Warn("could not release rate limit hit", zap.String("rule", rule.Name), zap.Error(err))
				}
			}
		})
	}
}
