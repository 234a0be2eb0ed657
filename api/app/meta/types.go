package meta

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type healthStatus struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Database    string    `json:"database"`
	Environment string    `json:"environment"`
	Time        time.Time `json:"time"`
}

func (h *healthStatus) Render(_ http.ResponseWriter, r *http.Request) error {
	if !h.Success {
		render.Status(r, http.StatusServiceUnavailable)
	}
	return nil
}
