package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/store"
	"github.com/muurk/gymlog/internal/urls"
	"github.com/muurk/gymlog/internal/version"
	"go.uber.org/zap"
)

// maxBodySize bounds request bodies; a record is a few dozen bytes
const maxBodySize = 64 << 10

// errorResponse is the body of every non-2xx answer
type errorResponse struct {
	Error string `json:"error"`
}

// api serves the record routes on top of a repository
type api struct {
	repo     store.Repository
	hub      *Hub
	basePath string
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
		"clients": a.hub.Clients(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := a.repo.Page(ctx, 0, 1); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		logging.Error("Health check failed", zap.Error(err))
	}

	writeJSON(w, status, body)
}

func (a *api) listAll(w http.ResponseWriter, r *http.Request) {
	all, err := a.repo.All(r.Context())
	if err != nil {
		writeStoreError(w, "list", err)
		return
	}
	if all == nil {
		all = []records.Record{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (a *api) page(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}
	p, err := a.repo.Page(r.Context(), page, size)
	if err != nil {
		writeStoreError(w, "page", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("query") {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}
	p, err := a.repo.Search(r.Context(), q.Get("query"), page, size)
	if err != nil {
		writeStoreError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) get(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	rec, err := a.repo.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) create(w http.ResponseWriter, r *http.Request) {
	var in records.Input
	if !decodeBody(w, r, &in) {
		return
	}
	rec, err := a.repo.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, "create", err)
		return
	}

	logging.Info("Record created",
		zap.Int64("id", rec.ID),
		zap.String("exercise", rec.Exercise),
		zap.Int("weight", rec.Weight),
	)
	a.publish(records.EventCreated, rec)

	w.Header().Set("Location", urls.RecordPath(a.basePath, rec.ID))
	writeJSON(w, http.StatusCreated, rec)
}

func (a *api) update(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var in records.Input
	if !decodeBody(w, r, &in) {
		return
	}
	rec, err := a.repo.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, "update", err)
		return
	}

	logging.Info("Record updated", zap.Int64("id", rec.ID))
	a.publish(records.EventUpdated, rec)
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var p records.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	rec, err := a.repo.Patch(r.Context(), id, p)
	if err != nil {
		writeStoreError(w, "patch", err)
		return
	}

	logging.Info("Record patched", zap.Int64("id", rec.ID))
	a.publish(records.EventUpdated, rec)
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	rec, err := a.repo.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, "delete", err)
		return
	}

	logging.Info("Record deleted", zap.Int64("id", rec.ID))
	a.publish(records.EventDeleted, rec)
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) publish(t records.EventType, rec *records.Record) {
	a.hub.Publish(records.Event{
		Type:   t,
		ID:     rec.ID,
		Record: rec,
		At:     time.Now().UTC(),
	})
}

// pageParams reads the required page and size query parameters
func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return 0, 0, false
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "size must be an integer")
		return 0, 0, false
	}
	return page, size, true
}

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "empty request body"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// writeStoreError maps repository errors onto status codes
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, err.Error())
	case records.IsValidationError(err):
		var recErr *records.Error
		msg := err.Error()
		if errors.As(err, &recErr) {
			msg = recErr.Message
		}
		writeError(w, http.StatusBadRequest, msg)
	default:
		logging.Error("Store operation failed", zap.String("operation", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}
