package meta

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Pinger checks the connection to the backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetaRessource contains the health endpoint
type MetaRessource struct {
	log         *zap.Logger
	store       Pinger
	environment string
	now         func() time.Time
}

func (m *MetaRessource) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", m.health)
	return r
}

func (m *MetaRessource) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := &healthStatus{
		Success:     true,
		Message:     "Server is running",
		Database:    "Connected",
		Environment: m.environment,
		Time:        m.now().UTC(),
	}
	if err := m.store.Ping(ctx); err != nil {
		m.log.Warn("database ping failed", zap.Error(err))
		status.Success = false
		status.Message = "Database unavailable"
		status.Database = "Disconnected"
	}
	if err := render.Render(w, r, status); err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func NewMetaRessource(log *zap.Logger, store Pinger, production bool) *MetaRessource {
	env := "development"
	if production {
		env = "production"
	}
	return &MetaRessource{log: log, store: store, environment: env, now: time.Now}
}
