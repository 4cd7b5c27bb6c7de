package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// An empty token disables Bearer auth. sseHandler, if non-nil, is mounted at
// GET /events behind the same auth.
func NewRouter(h *Handler, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(token))

	r.Get("/snapshot", h.Snapshot)

	// Links.
	r.Post("/links", h.CreateLink)
	r.Patch("/links/{id}", h.UpdateLink)
	r.Delete("/links/{id}", h.DeleteLink)
	r.Post("/links/{id}/move", h.MoveLink)

	// Groups and categories.
	r.Post("/groups/move", h.MoveGroup)
	r.Put("/groups/{name}", h.RenameGroup)
	r.Delete("/groups/{name}", h.DeleteGroup)
	r.Post("/categories", h.AddCategory)

	r.Post("/import", h.Import)
	r.Get("/preview", h.Preview)
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
