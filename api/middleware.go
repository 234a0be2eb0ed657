package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/i18n"
	"github.com/shoecreatify/shoecreatify-api/sanitize"
	"go.uber.org/zap"
)

const langCookie = "lang"

// languageMiddleware stores the locale used for outgoing emails in the request context
func languageMiddleware(defaultLang string, registry *i18n.TranslationRegistry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			lang := defaultLang
			if c, err := r.Cookie(langCookie); err == nil && registry.ContainsLanguage(c.Value) {
				lang = c.Value
			} else {
				lang = registry.Match(r.Header.Get("Accept-Language"), defaultLang)
			}
			next.ServeHTTP(w, r.WithContext(account.WithLocale(r.Context(), lang)))
		}
		return http.HandlerFunc(fn)
	}
}

// Logger is a middleware that logs the start and end of each request, along
// with some useful data about what was requested, what the response status was,
// and how long it took to return.
// bluntly stolen from https://github.com/treastech/logger/blob/master/logger.go

func loggerMiddleware(l *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t1 := time.Now()
			defer func() {
				path := sanitize.NoLineBreaks(r.URL.Path)
				l.Info(fmt.Sprintf("[%s] %s", r.Method, path),
					zap.String("proto", r.Proto),
					sanitize.UserInputString("path", r.URL.Path),
					zap.Duration("latency", time.Since(t1)),
					zap.Int("status", ww.Status()),
					zap.Int("size", ww.BytesWritten()),
					zap.String("requestID", middleware.GetReqID(r.Context())))
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

type problem struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	status  int
}

func (p *problem) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.status)
	return nil
}

// jsonProblem answers with the shared error envelope
func jsonProblem(l *zap.Logger, status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, &problem{Message: message, status: status}); err != nil {
			l.Error("unable to render response", zap.Error(err))
		}
	}
}
