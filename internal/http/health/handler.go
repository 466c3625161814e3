// Package health serves the liveness probe.
package health

import (
	"encoding/json"
	"net/http"

	"github.com/janisto/carer-directory/internal/service/carers"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status    string `json:"status"`
	Directory string `json:"directory,omitempty"`
}

// StateReader reports the carer directory state.
type StateReader interface {
	State() carers.State
}

// NewHandler returns the health check handler. The process is healthy whenever it can
// answer; the directory status is informational and never fails the probe.
func NewHandler(dir StateReader) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := Response{Status: "healthy"}
		if dir != nil {
			resp.Directory = string(dir.State().Status())
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
