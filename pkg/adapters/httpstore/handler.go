package httpstore

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/graft/pkg/core"
)

// NewHandler wires a store into the graft-kv HTTP surface:
//
//	GET    /health    liveness probe
//	GET    /kv        list keys
//	GET    /kv/{key}  fetch one value (404 when absent)
//	PUT    /kv/{key}  write one value
//	DELETE /kv/{key}  remove one key
//	POST   /clear     remove everything
func NewHandler(store core.Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/kv", h.list)
	r.Get("/kv/{key}", h.get)
	r.Put("/kv/{key}", h.put)
	r.Delete("/kv/{key}", h.delete)
	r.Post("/clear", h.clear)
	return r
}

type handler struct {
	store  core.Store
	logger *slog.Logger
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, "list keys", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	v, ok, err := h.store.Get(r.Context(), key)
	if err != nil {
		h.fail(w, "get value", err)
		return
	}
	if !ok {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	payload, err := EncodeValue(v)
	if err != nil {
		h.fail(w, "encode value", err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	v, err := payload.Decode()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Put(r.Context(), key, v); err != nil {
		h.fail(w, "put value", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.store.Delete(r.Context(), key); err != nil {
		h.fail(w, "delete key", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.fail(w, "clear store", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("request failed", "op", op, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
