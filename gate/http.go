package gate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// StatusResponse is the JSON body of the status endpoint.
type StatusResponse struct {
	Gate        string               `json:"gate,omitempty"`
	State       string               `json:"state"`
	Ready       bool                 `json:"ready"`
	Wait        string               `json:"wait,omitempty"`
	Index       *int                 `json:"index,omitempty"`
	Error       string               `json:"error,omitempty"`
	Since       string               `json:"since"`
	Transitions []TransitionResponse `json:"transitions,omitempty"`
}

// TransitionResponse is one entry of StatusResponse.Transitions.
type TransitionResponse struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Wait  string `json:"wait,omitempty"`
	Error string `json:"error,omitempty"`
	At    string `json:"at"`
}

// LivenessHandler returns a handler that always reports OK.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns a handler that reports OK once every wait has
// succeeded and 503 with the current state otherwise.
func ReadinessHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := t.Snapshot()

		w.Header().Set("Content-Type", "text/plain")
		if snap.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(snap.State.String()))
	}
}

// StatusHandler returns a handler that describes the tracker's state as JSON.
func StatusHandler(t *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := t.Snapshot()

		response := StatusResponse{
			Gate:        snap.Gate,
			State:       snap.State.String(),
			Ready:       snap.Ready(),
			Wait:        snap.Description,
			Since:       snap.Since.UTC().Format(time.RFC3339),
			Transitions: make([]TransitionResponse, 0, len(snap.History)),
		}
		if snap.Index >= 0 {
			index := snap.Index
			response.Index = &index
		}
		if snap.Err != nil {
			response.Error = snap.Err.Error()
		}
		for _, tr := range snap.History {
			entry := TransitionResponse{
				From: tr.From.String(),
				To:   tr.To.String(),
				Wait: tr.Description,
				At:   tr.At.UTC().Format(time.RFC3339Nano),
			}
			if tr.Err != nil {
				entry.Error = tr.Err.Error()
			}
			response.Transitions = append(response.Transitions, entry)
		}

		w.Header().Set("Content-Type", "application/json")
		if snap.State == StateFailed {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Routes registers /healthz, /readyz and /status on r.
func Routes(r chi.Router, t *Tracker) {
	r.Get("/healthz", LivenessHandler())
	r.Get("/readyz", ReadinessHandler(t))
	r.Get("/status", StatusHandler(t))
}

// NewHandler returns a router serving the tracker's endpoints.
func NewHandler(t *Tracker) http.Handler {
	r := chi.NewRouter()
	Routes(r, t)
	return r
}
