package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/shoecreatify/shoecreatify-api/metrics"
	"github.com/shoecreatify/shoecreatify-api/session"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type healthyStore struct{}

func (healthyStore) Ping(context.Context) error { return nil }

func testConfig() *config.Configuration {
	return &config.Configuration{
		Server:    &config.ServerConfiguration{},
		Behaviour: &config.BehaviourConfiguration{DefaultLocale: "en"},
		Session:   &config.SessionConfiguration{},
		Metrics:   &config.MetricsConfiguration{Enable: true, Path: "/metrics"},
	}
}

func testRouter(t *testing.T, cfg *config.Configuration) http.Handler {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewHTTPMetrics(reg)
	require.NoError(t, err)
	r, err := compose(zaptest.NewLogger(t), cfg, &Dependencies{
		Sessions: session.NewManager(nil, zap.NewNop(), cfg.Session, false),
		Store:    healthyStore{},
		Metrics:  m,
		Gatherer: reg,
	})
	require.NoError(t, err)
	return r
}

func TestUnknownRouteIsJSON(t *testing.T) {
	apitest.New().
		Handler(testRouter(t, testConfig())).
		Get("/api/designs").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"success":false,"message":"Route not found"}`).
		End()
}

func TestHealthAndMetricsMounted(t *testing.T) {
	h := testRouter(t, testConfig())
	apitest.New().
		Handler(h).
		Get("/api/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
			return nil
		}).
		End()

	apitest.New().
		Handler(h).
		Get("/metrics").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			buf := new(strings.Builder)
			_, err := io.Copy(buf, res.Body)
			assert.Contains(t, buf.String(), `shoecreatify_http_requests_total{method="GET",route="/api/health`)
			return err
		}).
		End()
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = &config.CORSConfiguration{
		AllowCredentials: true,
		AllowedOrigins:   []string{"https://shoecreatify.example"},
	}
	apitest.New().
		Handler(testRouter(t, cfg)).
		Method(http.MethodOptions).
		URL("/api/auth/login").
		Header("Origin", "https://shoecreatify.example").
		Header("Access-Control-Request-Method", "POST").
		Expect(t).
		Header("Access-Control-Allow-Origin", "https://shoecreatify.example").
		Header("Access-Control-Allow-Credentials", "true").
		End()
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CSRFToken = "0123456789abcdef0123456789abcdef"
	apitest.New().
		Handler(testRouter(t, cfg)).
		Post("/api/auth/login").
		JSON(`{"email":"a@x.com","password":"secret1"}`).
		Expect(t).
		Status(http.StatusForbidden).
		Body(`{"success":false,"message":"Invalid CSRF token"}`).
		End()
}

func TestLanguageMiddleware(t *testing.T) {
	reg, err := i18n.NewTranslationRegistry(fstest.MapFS{
		"templates/i18n/email.en.json": &fstest.MapFile{Data: []byte(`{"a":"b"}`)},
		"templates/i18n/email.de.json": &fstest.MapFile{Data: []byte(`{"a":"c"}`)},
	}, zap.NewNop())
	require.NoError(t, err)

	var got string
	h := languageMiddleware("en", reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = account.LocaleFrom(r.Context(), "")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-AT,de;q=0.9,en;q=0.5")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "de", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de")
	req.AddCookie(&http.Cookie{Name: langCookie, Value: "en"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", got)
}
