package api

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MASHINC1/LinkMan/internal/importer"
	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/preview"
	"github.com/MASHINC1/LinkMan/internal/search"
	"github.com/MASHINC1/LinkMan/internal/session"
)

const (
	maxImportBytes     = 10 << 20
	defaultSearchLimit = 20
)

// Handler holds API route handlers.
type Handler struct {
	sess    *session.Session
	fetcher *preview.Fetcher
	tracker *preview.Tracker
}

// NewHandler creates a new Handler.
func NewHandler(sess *session.Session, fetcher *preview.Fetcher, tracker *preview.Tracker) *Handler {
	if tracker == nil {
		tracker = preview.NewTracker()
	}
	return &Handler{sess: sess, fetcher: fetcher, tracker: tracker}
}

// pathParam returns a decoded URL parameter. chi matches on RawPath when the
// request has one, and on the already decoded Path otherwise, so only the
// former needs unescaping.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}

// Snapshot handles GET /api/snapshot.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", strconv.Quote(h.sess.Checksum()))
	writeJSON(w, http.StatusOK, h.sess.Snapshot())
}

// CreateLink handles POST /api/links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	link, err := h.sess.AddLink(req.params())
	if err != nil {
		writeError(w, "create link", err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// UpdateLink handles PATCH /api/links/{id}.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req model.LinkUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	link, err := h.sess.UpdateLink(chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "update link", err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// DeleteLink handles DELETE /api/links/{id}. Unknown ids also yield 204.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sess.DeleteLink(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete link", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveLink handles POST /api/links/{id}/move.
func (h *Handler) MoveLink(w http.ResponseWriter, r *http.Request) {
	var req MoveLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	moved, err := h.sess.MoveLink(chi.URLParam(r, "id"), req.Group, req.BeforeID)
	if err != nil {
		writeError(w, "move link", err)
		return
	}
	writeJSON(w, http.StatusOK, MovedResponse{Moved: moved})
}

// MoveGroup handles POST /api/groups/move.
func (h *Handler) MoveGroup(w http.ResponseWriter, r *http.Request) {
	var req MoveGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	var moved bool
	var err error
	if req.ToEnd {
		moved, err = h.sess.MoveGroupToEnd(req.Group)
	} else {
		moved, err = h.sess.MoveGroup(req.Group, req.Target, req.insertAfter())
	}
	if err != nil {
		writeError(w, "move group", err)
		return
	}
	writeJSON(w, http.StatusOK, MovedResponse{Moved: moved})
}

// RenameGroup handles PUT /api/groups/{name}.
func (h *Handler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	var req RenameGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	renamed, err := h.sess.RenameGroup(pathParam(r, "name"), req.Name)
	if err != nil {
		writeError(w, "rename group", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"renamed": renamed})
}

// DeleteGroup handles DELETE /api/groups/{name}.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	removed, err := h.sess.DeleteGroup(pathParam(r, "name"))
	if err != nil {
		writeError(w, "delete group", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// AddCategory handles POST /api/categories.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	category, err := h.sess.AddCategory(req.Category)
	if err != nil {
		writeError(w, "add category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": category})
}

// Import handles POST /api/import. The body is a JSON batch, or Netscape
// bookmark HTML when sent as text/html.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var batch model.ImportBatch
	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/html" {
		batch, err = importer.ParseHTMLBookmarks(r.Body)
		if err == nil {
			err = importer.ValidateBatch(batch)
		}
	} else {
		batch, err = importer.ParseBatch(r.Body)
	}
	if err != nil {
		writeError(w, "import", err)
		return
	}

	result, err := h.sess.Import(batch)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Preview handles GET /api/preview?url=&target=. A newer request for the
// same target makes this one answer 409.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawURL := q.Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url is required"))
		return
	}

	res, err := h.tracker.Do(r.Context(), q.Get("target"), func(ctx context.Context) (preview.Result, error) {
		return h.fetcher.Fetch(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			slog.Debug("preview client went away", slog.String("url", rawURL))
			return
		}
		writeError(w, "preview", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /api/search?q=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := search.FuzzySearchLinks(h.sess.Snapshot().Links, q.Get("q"))
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []search.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
