package tui_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/MASHINC1/LinkMan/internal/session"
	"github.com/MASHINC1/LinkMan/internal/storage"
	"github.com/MASHINC1/LinkMan/internal/tui"
	"github.com/MASHINC1/LinkMan/internal/tui/layout"
)

func render(app tui.App) string {
	return layout.StripANSI(app.WithDimensions(100, 30).View())
}

func TestView_ShowsGroupsAndLinks(t *testing.T) {
	app, _ := newTestApp(t, defaultLinks...)
	view := render(app)

	for _, want := range []string{"Groups", "Work (3)", "Play (1)", "A", "C [Tools]", "j/k:move"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\n%s", want, view)
		}
	}
}

func TestView_ShowsSelectedURL(t *testing.T) {
	app, _ := newTestApp(t, defaultLinks...)
	app = press(t, app, "l", "j")

	view := render(app)
	if !strings.Contains(view, "b.example.com") {
		t.Errorf("expected selected link URL in view\n%s", view)
	}
	if !strings.Contains(view, "y:yank") {
		t.Errorf("expected links pane hints in view\n%s", view)
	}
}

func TestView_EmptyStore(t *testing.T) {
	st := storage.NewJSONStorage(filepath.Join(t.TempDir(), "linkman.json"))
	sess, err := session.Open(session.Params{Storage: st})
	if err != nil {
		t.Fatal(err)
	}
	view := render(tui.NewApp(tui.AppParams{Session: sess}))

	if !strings.Contains(view, "(no groups, A to add)") {
		t.Errorf("expected empty groups hint\n%s", view)
	}
	if !strings.Contains(view, "(no links, a to add)") {
		t.Errorf("expected empty links hint\n%s", view)
	}
}

func TestView_CutIndicator(t *testing.T) {
	app, _ := newTestApp(t, defaultLinks...)
	app = press(t, app, "l", "x")

	view := render(app)
	if !strings.Contains(view, "cut: A") {
		t.Errorf("expected cut indicator\n%s", view)
	}
	if !strings.Contains(view, "p/P:paste") {
		t.Errorf("expected paste hint while cut is pending\n%s", view)
	}
}

func TestView_DeleteConfirmModal(t *testing.T) {
	app, _ := newTestApp(t, defaultLinks...)
	app = press(t, app, "d")

	view := render(app)
	for _, want := range []string{"Delete Group?", `"Work" and its 3 links`, "Enter confirm", "Esc cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected modal to contain %q\n%s", want, view)
		}
	}
}

func TestView_AddLinkModal(t *testing.T) {
	app, _ := newTestApp(t, defaultLinks...)
	app = press(t, app, "a")

	view := render(app)
	for _, want := range []string{"Add Link", "URL:", "Category:", "Work", "Tab:next"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected modal to contain %q\n%s", want, view)
		}
	}
}
