package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/preview"
	"github.com/MASHINC1/LinkMan/internal/session"
	"github.com/MASHINC1/LinkMan/internal/storage"
)

// testEnv sets up a temp snapshot file, session and router.
func testEnv(t *testing.T, token string) (*session.Session, http.Handler) {
	t.Helper()

	st := storage.NewJSONStorage(filepath.Join(t.TempDir(), "linkman.json"))
	sess, err := session.Open(session.Params{Storage: st})
	assert.NilError(t, err)

	h := NewHandler(sess, preview.NewFetcher(preview.FetcherParams{}), preview.NewTracker())
	return sess, NewRouter(h, token, nil)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		assert.NilError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateLinkAndSnapshot(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/links", map[string]string{"url": "example.com", "category": "Work"})
	assert.Equal(t, w.Code, http.StatusCreated, w.Body.String())

	var link model.Link
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.Equal(t, link.URL, "https://example.com/")
	assert.Equal(t, link.Name, "Example")

	w = do(t, router, http.MethodGet, "/snapshot", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Assert(t, w.Header().Get("ETag") != "")

	var snap model.Store
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, len(snap.Links), 1)
	assert.DeepEqual(t, snap.GroupOrder, []string{"Work"})
}

func TestCreateLinkValidation(t *testing.T) {
	_, router := testEnv(t, "")

	tests := []struct {
		name string
		body any
	}{
		{"bad json", "{"},
		{"missing url", map[string]string{"name": "x"}},
		{"invalid url", map[string]string{"url": "http://"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/links", tt.body)
			assert.Equal(t, w.Code, http.StatusBadRequest, w.Body.String())
		})
	}
}

func TestUpdateAndDeleteLink(t *testing.T) {
	sess, router := testEnv(t, "")
	link, err := sess.AddLink(model.NewLinkParams{URL: "https://a.com", Category: "Work"})
	assert.NilError(t, err)

	w := do(t, router, http.MethodPatch, "/links/"+link.ID, map[string]string{"name": "Renamed"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, sess.Snapshot().Links[0].Name, "Renamed")

	w = do(t, router, http.MethodPatch, "/links/missing", map[string]string{"name": "x"})
	assert.Equal(t, w.Code, http.StatusNotFound)

	w = do(t, router, http.MethodPatch, "/links/"+link.ID, map[string]string{"url": "http://"})
	assert.Equal(t, w.Code, http.StatusBadRequest)

	w = do(t, router, http.MethodDelete, "/links/"+link.ID, nil)
	assert.Equal(t, w.Code, http.StatusNoContent)
	assert.Equal(t, len(sess.Snapshot().Links), 0)

	w = do(t, router, http.MethodDelete, "/links/"+link.ID, nil)
	assert.Equal(t, w.Code, http.StatusNoContent)
}

func TestMoveLinkAndGroups(t *testing.T) {
	sess, router := testEnv(t, "")
	work, err := sess.AddLink(model.NewLinkParams{URL: "https://w.com", Category: "Work / Docs"})
	assert.NilError(t, err)
	_, err = sess.AddLink(model.NewLinkParams{URL: "https://p.com", Category: "Play"})
	assert.NilError(t, err)

	w := do(t, router, http.MethodPost, "/links/"+work.ID+"/move", map[string]string{"group": "Play"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"moved":true}`)
	moved := sess.Snapshot().GetLinkByID(work.ID)
	assert.Equal(t, moved.Category, "Play / Docs")

	w = do(t, router, http.MethodPost, "/links/"+work.ID+"/move", map[string]string{})
	assert.Equal(t, w.Code, http.StatusBadRequest)

	_, err = sess.AddCategory("Later")
	assert.NilError(t, err)
	// The emptied Work group survives through its "Work / Docs" category.
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Work", "Play", "Later"})

	w = do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Later", Target: "Play"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Work", "Later", "Play"})

	w = do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Later", ToEnd: true})
	assert.Equal(t, w.Code, http.StatusOK)
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Work", "Play", "Later"})

	w = do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Later"})
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestMoveGroupByDropPosition(t *testing.T) {
	sess, router := testEnv(t, "")
	for _, c := range []string{"Work", "Play", "Later"} {
		_, err := sess.AddCategory(c)
		assert.NilError(t, err)
	}
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Work", "Play", "Later"})

	// Released near the right edge of Later: after it.
	drop := &DropPosition{X: 190, Y: 50, Width: 200, Height: 100}
	w := do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Work", Target: "Later", Drop: drop})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Play", "Later", "Work"})

	// Released near the left edge: before it, even with insertAfter set.
	drop = &DropPosition{X: 10, Y: 50, Width: 200, Height: 100}
	w = do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Work", Target: "Later", InsertAfter: true, Drop: drop})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Play", "Work", "Later"})

	drop = &DropPosition{Width: -1}
	w = do(t, router, http.MethodPost, "/groups/move", MoveGroupRequest{Group: "Work", Target: "Later", Drop: drop})
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestGroupRoutesDecodeNameOnce(t *testing.T) {
	sess, router := testEnv(t, "")
	_, err := sess.AddLink(model.NewLinkParams{URL: "https://a.com", Category: "Sale 50%41"})
	assert.NilError(t, err)
	_, err = sess.AddLink(model.NewLinkParams{URL: "https://b.com", Category: "Sale 50A"})
	assert.NilError(t, err)

	w := do(t, router, http.MethodPut, "/groups/Sale%2050%2541", RenameGroupRequest{Name: "Deals"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.DeepEqual(t, sess.Snapshot().GroupOrder, []string{"Deals", "Sale 50A"})

	w = do(t, router, http.MethodDelete, "/groups/Deals", nil)
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"removed":1}`)

	snap := sess.Snapshot()
	assert.DeepEqual(t, snap.GroupOrder, []string{"Sale 50A"})
	assert.Equal(t, len(snap.Links), 1)
	assert.Equal(t, snap.Links[0].Category, "Sale 50A")
}

func TestRenameAndDeleteGroup(t *testing.T) {
	sess, router := testEnv(t, "")
	_, err := sess.AddLink(model.NewLinkParams{URL: "https://a.com", Category: "Side Projects / Ideas"})
	assert.NilError(t, err)

	w := do(t, router, http.MethodPut, "/groups/Side%20Projects", RenameGroupRequest{Name: "Hobby"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, sess.Snapshot().Links[0].Category, "Hobby / Ideas")

	w = do(t, router, http.MethodPut, "/groups/Hobby", RenameGroupRequest{})
	assert.Equal(t, w.Code, http.StatusBadRequest)

	w = do(t, router, http.MethodDelete, "/groups/Hobby", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"removed":1}`)
	assert.Equal(t, len(sess.Snapshot().GroupOrder), 0)
}

func TestAddCategory(t *testing.T) {
	sess, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/categories", CategoryRequest{Category: "Work/Allgemein"})
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"category":"Work"}`)
	assert.DeepEqual(t, sess.Snapshot().Categories, []string{"Work"})
}

func TestImport(t *testing.T) {
	sess, router := testEnv(t, "")
	batch := `{"groups":[{"key":"News","sections":[{"title":"Tech","links":[{"url":"site.com"}]}]}]}`

	w := do(t, router, http.MethodPost, "/import", batch)
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"created":1,"skipped":0}`)
	assert.Equal(t, sess.Snapshot().Links[0].Category, "News / Tech")

	w = do(t, router, http.MethodPost, "/import", batch)
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"created":0,"skipped":1}`)

	before := sess.Checksum()
	w = do(t, router, http.MethodPost, "/import", `{"groups":[{"key":"X"}]}`)
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, sess.Checksum(), before)
}

func TestImportHTML(t *testing.T) {
	sess, router := testEnv(t, "")
	body := `<DL><p><DT><H3>Dev</H3><DL><p><DT><A HREF="https://go.dev">Go</A></DL><p></DL><p>`

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	assert.Equal(t, sess.Snapshot().Links[0].Category, "Dev")
}

func TestPreview(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Page"></head></html>`)
	}))
	defer page.Close()

	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/preview?target=form&url="+page.URL, nil)
	assert.Equal(t, w.Code, http.StatusOK, w.Body.String())
	var res preview.Result
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, res.Name, "Page")
	assert.Equal(t, res.Fallback, false)

	w = do(t, router, http.MethodGet, "/preview?url=mailto:me@example.com", nil)
	assert.Equal(t, w.Code, http.StatusBadRequest)

	w = do(t, router, http.MethodGet, "/preview", nil)
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestSearch(t *testing.T) {
	sess, router := testEnv(t, "")
	for _, u := range []string{"https://github.com", "https://gitlab.com", "https://news.ycombinator.com"} {
		_, err := sess.AddLink(model.NewLinkParams{URL: u, Category: "Dev"})
		assert.NilError(t, err)
	}

	w := do(t, router, http.MethodGet, "/search?q=git&limit=1", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	var body struct {
		Results []struct {
			Link model.Link `json:"link"`
		} `json:"results"`
	}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(body.Results), 1)

	w = do(t, router, http.MethodGet, "/search", nil)
	assert.Equal(t, strings.TrimSpace(w.Body.String()), `{"results":[]}`)
}

func TestAuth(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/snapshot", nil)
	assert.Equal(t, w.Code, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)
}
