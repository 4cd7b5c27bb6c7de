package importer

import (
	"io"
	"strings"

	"github.com/MASHINC1/LinkMan/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into an import batch.
// Top-level folders become groups; nested folders become sections, with
// deeper levels joined into one section title. Links outside any folder
// land in the default group.
func ParseHTMLBookmarks(r io.Reader) (model.ImportBatch, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return model.ImportBatch{}, err
	}

	b := newBatchBuilder()

	var folderStack []string
	var pendingFolder string // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}
				group, section := "", ""
				if len(folderStack) > 0 {
					group = folderStack[0]
					section = strings.Join(folderStack[1:], " / ")
				}
				b.add(group, section, model.ImportLink{URL: href, Title: getTextContent(n)})
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return b.batch, nil
}

// batchBuilder collects links into groups and sections in first-seen order.
type batchBuilder struct {
	batch    model.ImportBatch
	groups   map[string]int
	sections map[[2]string]int
}

func newBatchBuilder() *batchBuilder {
	return &batchBuilder{
		groups:   make(map[string]int),
		sections: make(map[[2]string]int),
	}
}

func (b *batchBuilder) add(group, section string, link model.ImportLink) {
	gi, ok := b.groups[group]
	if !ok {
		gi = len(b.batch.Groups)
		b.groups[group] = gi
		b.batch.Groups = append(b.batch.Groups, model.ImportGroup{Key: group})
	}
	g := &b.batch.Groups[gi]

	key := [2]string{group, section}
	si, ok := b.sections[key]
	if !ok {
		si = len(g.Sections)
		b.sections[key] = si
		g.Sections = append(g.Sections, model.ImportSection{Title: section})
	}
	g.Sections[si].Links = append(g.Sections[si].Links, link)
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
