package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundialhq/sundial-platform/internal/clock"
	"github.com/sundialhq/sundial-platform/internal/colorspace"
	"github.com/sundialhq/sundial-platform/internal/solar"
)

// APIServer exposes the pull-side HTTP API over the agent's state. The same
// payloads flow over MQTT; the API exists for clients that poll instead of
// subscribing.
type APIServer struct {
	agent  *Agent
	logger *slog.Logger
	server *http.Server
}

// NewAPIServer creates an API server bound to the given address
func NewAPIServer(agent *Agent, addr string, logger *slog.Logger) *APIServer {
	api := &APIServer{
		agent:  agent,
		logger: logger,
	}
	api.server = &http.Server{
		Addr:    addr,
		Handler: api.Handler(),
	}
	return api
}

// Handler returns the routing table for the API
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/zones", s.handleZones)
	mux.HandleFunc("GET /api/clocks", s.handleClocks)
	mux.HandleFunc("GET /api/terminator", s.handleTerminator)
	mux.HandleFunc("GET /api/schemes", s.handleSchemes)
	mux.HandleFunc("PUT /api/scheme/{name}", s.handleSetScheme)
	mux.HandleFunc("GET /api/pins", s.handlePins)
	mux.HandleFunc("POST /api/pins/{band}", s.handleAddPin)
	mux.HandleFunc("DELETE /api/pins/{band}", s.handleRemovePin)

	return mux
}

// Start begins serving the API. It blocks until the server stops.
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// Stop shuts the API server down
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *APIServer) handleZones(w http.ResponseWriter, r *http.Request) {
	a := s.agent
	state := buildZoneState(a.bands, a.state, a.palette, time.Now())
	s.writeJSON(w, http.StatusOK, state)
}

func (s *APIServer) handleClocks(w http.ResponseWriter, r *http.Request) {
	a := s.agent
	now := time.Now()
	cards := clock.Snapshot(a.bands, now)

	states := make([]ClockState, 0, len(cards))
	for i, card := range cards {
		band := a.bands[i]
		states = append(states, ClockState{
			Card:     card,
			Daylight: solar.DaylightAt(now.UTC(), band.RefLat, band.RefLon),
		})
	}
	s.writeJSON(w, http.StatusOK, states)
}

func (s *APIServer) handleTerminator(w http.ResponseWriter, r *http.Request) {
	state := buildTerminatorState(s.agent.bands, time.Now())
	s.writeJSON(w, http.StatusOK, state)
}

// SchemeList is the response body for the scheme listing endpoint
type SchemeList struct {
	Active  string   `json:"active"`
	Schemes []string `json:"schemes"`
}

func (s *APIServer) handleSchemes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SchemeList{
		Active:  s.agent.state.Scheme(),
		Schemes: colorspace.Names(),
	})
}

func (s *APIServer) handleSetScheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.agent.switchScheme(r.Context(), name); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, SchemeList{
		Active:  s.agent.state.Scheme(),
		Schemes: colorspace.Names(),
	})
}

// PinList is the response body for the pin listing endpoint
type PinList struct {
	Pins []string `json:"pins"`
}

func (s *APIServer) handlePins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, PinList{Pins: s.agent.state.Pins()})
}

func (s *APIServer) handleAddPin(w http.ResponseWriter, r *http.Request) {
	label, ok := s.agent.resolveBand(r.PathValue("band"))
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown band %q", r.PathValue("band")))
		return
	}
	s.agent.pinBand(r.Context(), label)
	s.writeJSON(w, http.StatusOK, PinList{Pins: s.agent.state.Pins()})
}

func (s *APIServer) handleRemovePin(w http.ResponseWriter, r *http.Request) {
	label, ok := s.agent.resolveBand(r.PathValue("band"))
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown band %q", r.PathValue("band")))
		return
	}
	s.agent.unpinBand(r.Context(), label)
	s.writeJSON(w, http.StatusOK, PinList{Pins: s.agent.state.Pins()})
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Error("Failed to encode API response", "error", err)
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
