package polls

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lordralex/ballot/api/logger"
)

type adminHandler struct {
	service *Service
	sweeper *Sweeper
}

// NewAdminRouter serves the operator API. Every route except /healthz requires the bearer token
// when one is configured.
func NewAdminRouter(service *Service, sweeper *Sweeper, token string) http.Handler {
	h := &adminHandler{service: service, sweeper: sweeper}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireToken(token))

		r.Get("/polls/{id}", h.getPoll)
		r.Get("/polls/{id}/results", h.getResults)
		r.Delete("/polls/{id}", h.deletePoll)
		r.Post("/sweep", h.sweep)
	})

	return r
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				given := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *adminHandler) getPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

// getResults ignores the creator restriction, operators can always see results.
func (h *adminHandler) getResults(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ComputeResults(poll))
}

func (h *adminHandler) deletePoll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeServiceError(w, ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *adminHandler) sweep(w http.ResponseWriter, r *http.Request) {
	closed, err := h.sweeper.RunOnce(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"closed": closed})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyClosed), errors.Is(err, ErrPollClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOptionNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		logger.Err().Printf("Poll admin API storage failure: %s\n", err.Error())
		writeError(w, http.StatusServiceUnavailable, ErrStorageUnavailable.Error())
	default:
		logger.Err().Printf("Poll admin API failure: %s\n", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Err().Printf("Error writing admin response: %s\n", err.Error())
	}
}
