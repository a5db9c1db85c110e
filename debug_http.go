package servicelayer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DebugHandler returns a read-only HTTP handler exposing the layer's
// dependency graph as JSON:
//
//	GET /graph          full graph snapshot
//	GET /services       all service nodes
//	GET /services/{id}  one node by id
//
// It is a diagnostics surface, not part of the layer contract; hosts
// mount it on whatever debug mux they already run.
func (l *ServiceLayer) DebugHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/graph", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, l.Snapshot())
	})
	r.Get("/services", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, l.Snapshot().Services)
	})
	r.Get("/services/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		for _, svc := range l.Snapshot().Services {
			if svc.ID == id {
				writeJSON(w, svc)
				return
			}
		}
		http.NotFound(w, req)
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
