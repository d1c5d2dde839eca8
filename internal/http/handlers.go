package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/smartmarket-catalog/internal/config"
	httpopenapi "github.com/fairyhunter13/smartmarket-catalog/internal/http/openapi"
	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
	"github.com/fairyhunter13/smartmarket-catalog/internal/service"
	"github.com/fairyhunter13/smartmarket-catalog/internal/store"
)

// App holds the dependencies shared by every handler.
type App struct {
	Cfg     config.Config
	Store   *store.Store
	Catalog *service.Catalog
	Tracer  *obs.Tracer
	Metrics *obs.Metrics
	closing atomic.Bool
	started time.Time
}

// NewApp wires an App with the global tracer and meter providers.
func NewApp(cfg config.Config, st *store.Store, cat *service.Catalog) *App {
	return &App{
		Cfg:     cfg,
		Store:   st,
		Catalog: cat,
		Tracer:  obs.DefaultTracer(),
		Metrics: obs.DefaultMetrics(),
		started: time.Now(),
	}
}

// StartShutdown makes the health check fail so load balancers stop routing
// here while in-flight requests drain.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

// resource serves the five CRUD routes of one entity under /{path}.
type resource[T any] struct {
	path string
	svc  *service.Service[T]
}

func (res resource[T]) register(mux *http.ServeMux) {
	collection := "/" + res.path
	item := collection + "/{id}"
	mux.HandleFunc("GET "+collection, res.list)
	mux.HandleFunc("POST "+collection, res.create)
	mux.HandleFunc("GET "+item, res.get)
	mux.HandleFunc("PUT "+item, res.update)
	mux.HandleFunc("DELETE "+item, res.delete)
}

func (res resource[T]) list(w http.ResponseWriter, r *http.Request) {
	recs, err := res.svc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, recs)
}

func (res resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, found, err := res.svc.Get(r.Context(), id)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	writeJSON(w, r, rec)
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if !decodeBody(w, r, &rec) {
		return
	}
	created, err := res.svc.Create(r.Context(), rec)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, created)
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch T
	if !decodeBody(w, r, &patch) {
		return
	}
	rec, found, err := res.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	writeJSON(w, r, rec)
}

func (res resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := res.svc.Delete(r.Context(), id); err != nil {
		writeInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if dec.More() {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", "unexpected data after JSON body")
		return false
	}
	return true
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	obs.Logger.ErrorContext(r.Context(), "request_failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.Store.Ping(ctx); err != nil {
		obs.Logger.Warn("health_store_unreachable", "error", err)
		WriteJSONError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"driver":     a.Cfg.DBDriver,
		"uptime_sec": time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Catalog API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: 'openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
