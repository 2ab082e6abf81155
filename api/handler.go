// Package api serves adoption summaries as JSON.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/balboard/balboard/adoption"
	"github.com/balboard/balboard/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Source provides the persisted documents the API projects.
type Source interface {
	LoadFork(fork string) (model.ForkManifest, error)
	EIP(fork, eip string) (model.EIPMetadata, error)
	LoadResults(fork, eip string) (model.TestResults, error)
	LoadClients() ([]model.Client, error)
}

// Options configure the handler.
type Options struct {
	// CurrentFork is used for EIP lookups
	CurrentFork string
	// MaxAge and SharedMaxAge populate Cache-Control, in seconds
	MaxAge       int
	SharedMaxAge int
}

type handler struct {
	logger zerolog.Logger
	source Source
	opts   Options
}

// NewHandler returns the router serving
//
//	GET /adoption/{eip}
//	GET /adoption/fork/{fork}
func NewHandler(logger zerolog.Logger, source Source, opts Options) http.Handler {
	h := &handler{logger: logger, source: source, opts: opts}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		h.logRequests,
	)

	r.Route("/adoption", func(r chi.Router) {
		r.Get("/fork/{fork}", h.forkAdoption)
		r.Get("/{eip}", h.eipAdoption)
	})

	return r
}

func (h *handler) eipAdoption(w http.ResponseWriter, r *http.Request) {
	eip := chi.URLParam(r, "eip")

	body, err := h.buildEIP(eip)
	if err != nil {
		h.logger.Error().Err(err).Str("eip", eip).Msg("Error loading EIP")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "EIP not found", "eip": eip})
		return
	}

	h.setCacheHeaders(w)
	writeJSON(w, http.StatusOK, body)
}

func (h *handler) buildEIP(eip string) (model.EIPAdoption, error) {
	doc, err := h.source.LoadResults(h.opts.CurrentFork, eip)
	if err != nil {
		return model.EIPAdoption{}, err
	}
	meta, err := h.source.EIP(h.opts.CurrentFork, eip)
	if err != nil {
		return model.EIPAdoption{}, err
	}
	clients, err := h.source.LoadClients()
	if err != nil {
		return model.EIPAdoption{}, err
	}
	return adoption.BuildEIPAdoption(eip, meta.Spec, doc, clients), nil
}

func (h *handler) forkAdoption(w http.ResponseWriter, r *http.Request) {
	fork := chi.URLParam(r, "fork")

	manifest, err := h.source.LoadFork(fork)
	if err == nil {
		var clients []model.Client
		clients, err = h.source.LoadClients()
		if err == nil {
			body := adoption.BuildForkAdoption(h.logger, fork, manifest, h.source, clients)
			h.setCacheHeaders(w)
			writeJSON(w, http.StatusOK, body)
			return
		}
	}

	h.logger.Error().Err(err).Str("fork", fork).Msg("Error loading fork")
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Fork not found", "fork": fork})
}

func (h *handler) setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", h.opts.MaxAge, h.opts.SharedMaxAge))
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
