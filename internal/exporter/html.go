package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MASHINC1/LinkMan/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/linkman-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("linkman-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the store to Netscape bookmark HTML format. Groups
// become top-level folders in ledger order; sections other than the default
// one become nested folders after the group's own links.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	order := model.ReconcileGroupOrder(store.GroupOrder, model.GroupNamesFromState(store.Categories, store.Links))
	for _, group := range order {
		openFolder(&b, group, 1)
		writeLinks(&b, store, group, model.DefaultSection, 2)
		for _, section := range store.GetSections(group) {
			if section == model.DefaultSection {
				continue
			}
			openFolder(&b, section, 2)
			writeLinks(&b, store, group, section, 3)
			closeFolder(&b, 2)
		}
		closeFolder(&b, 1)
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

func openFolder(b *strings.Builder, name string, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
}

func closeFolder(b *strings.Builder, indent int) {
	fmt.Fprintf(b, "%s</DL><p>\n", strings.Repeat("    ", indent))
}

func writeLinks(b *strings.Builder, store *model.Store, group, section string, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, l := range store.GetLinksInGroup(group) {
		if l.Section() != section {
			continue
		}
		icon := ""
		if l.Icon != "" {
			icon = fmt.Sprintf(" ICON_URI=\"%s\"", html.EscapeString(l.Icon))
		}
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\"%s>%s</A>\n",
			prefix,
			html.EscapeString(l.URL),
			icon,
			html.EscapeString(l.Name),
		)
	}
}
