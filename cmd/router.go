package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/constants"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/midi"
	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/playback"
	"github.com/jsphweid/progstudio/progression"
	"github.com/jsphweid/progstudio/studio"
	"github.com/jsphweid/progstudio/theory"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

type requestIDKey struct{}

type server struct {
	// playback outlives the request that started it
	ctx     context.Context
	session *studio.Session
}

// NewRouter exposes a session over HTTP. Mutating routes share limiter.
func NewRouter(ctx context.Context, s *studio.Session, limiter *rate.Limiter) http.Handler {
	srv := &server{ctx: ctx, session: s}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(requestID)

	limit := rateLimit(limiter)
	router.Handle("/progression", limit(http.HandlerFunc(srv.handleGenerate))).Methods("POST")
	router.Handle("/play", limit(http.HandlerFunc(srv.handlePlay))).Methods("POST")
	router.Handle("/export", limit(http.HandlerFunc(srv.handleExport))).Methods("POST")
	router.HandleFunc("/progression", srv.handleProgression).Methods("GET")
	router.HandleFunc("/progression/midi", srv.handleProgressionMidi).Methods("GET")
	router.HandleFunc("/stop", srv.handleStop).Methods("POST")
	router.HandleFunc("/state", srv.handleState).Methods("GET")
	router.HandleFunc("/templates", srv.handleTemplates).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
	})
	return c.Handler(router)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		logger.Debug("API request completed", logger.Fields{
			"request_id":  id,
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

func rateLimit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow() {
				writeError(w, r, http.StatusTooManyRequests, errors.New("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		id, _ := r.Context().Value(requestIDKey{}).(string)
		logger.Error("Request failed", err, logger.Fields{"request_id": id, "path": r.URL.Path})
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func writeMidi(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", constants.MidiContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExportFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func progressionResponse(p model.Progression) model.ProgressionResponse {
	return model.ProgressionResponse{
		ID:       p.ID.String(),
		Key:      p.Key.String(),
		Scale:    p.Scale.String(),
		Template: p.Template,
		Chords:   p.Symbols(),
		Insights: progression.Insights(p),
		Summary:  progression.Summary(p),
	}
}

func stateResponse(st model.PlaybackState) model.StateResponse {
	res := model.StateResponse{Playing: st.Playing, Index: st.Index}
	if st.ProgressionID != uuid.Nil {
		res.ProgressionID = st.ProgressionID.String()
	}
	return res
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var input model.GenerateRequestBody
	// An empty body generates from the current selection.
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("could not decode request body: %w", err))
		return
	}

	key, scale := s.session.Selection()
	var err error
	if input.Key != "" {
		if key, err = theory.ParseKey(input.Key); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	if input.Scale != "" {
		if scale, err = theory.ParseScale(input.Scale); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	s.session.Select(key, scale)

	p, err := s.session.Generate(input.Template)
	switch {
	case errors.Is(err, studio.ErrUnknownTemplate):
		writeError(w, r, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(p))
}

func (s *server) handleProgression(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session.Progression()
	if !ok {
		writeError(w, r, http.StatusNotFound, studio.ErrNoProgression)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(p))
}

func (s *server) handleProgressionMidi(w http.ResponseWriter, r *http.Request) {
	data, err := s.session.Export()
	switch {
	case errors.Is(err, studio.ErrNoProgression):
		writeError(w, r, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeMidi(w, data)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	var input model.ExportRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("could not decode request body: %w", err))
		return
	}
	chords, err := chord.ParseSymbols(input.Chords)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	data, err := midi.Export(chords)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeMidi(w, data)
}

func (s *server) handlePlay(w http.ResponseWriter, r *http.Request) {
	err := s.session.Play(s.ctx)
	switch {
	case errors.Is(err, studio.ErrNoProgression):
		writeError(w, r, http.StatusConflict, err)
		return
	case errors.Is(err, playback.ErrNoBackend):
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, stateResponse(s.session.State()))
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.session.Stop()
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse(s.session.State()))
}

func (s *server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	res := make([]model.TemplateResponse, 0)
	for _, t := range s.session.Library() {
		res = append(res, model.TemplateResponse{Name: t.Name, Degrees: t.Degrees})
	}
	writeJSON(w, http.StatusOK, res)
}
