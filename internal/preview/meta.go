package preview

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

type pageMeta struct {
	title string
	image string
	icon  string
}

// parseMeta extracts the title, preview image and icon from an HTML page.
// Open Graph beats Twitter cards, which beat the plain <title>.
func parseMeta(r io.Reader) (pageMeta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return pageMeta{}, err
	}

	var (
		ogTitle, twTitle, docTitle string
		ogImage, twImage           string
		icon, touchIcon            string
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "title":
				if docTitle == "" {
					docTitle = textContent(n)
				}
				return
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				content := strings.TrimSpace(attr(n, "content"))
				switch key {
				case "og:title":
					setOnce(&ogTitle, content)
				case "twitter:title":
					setOnce(&twTitle, content)
				case "og:image", "og:image:url":
					setOnce(&ogImage, content)
				case "twitter:image", "twitter:image:src":
					setOnce(&twImage, content)
				}
			case "link":
				rels := strings.Fields(strings.ToLower(attr(n, "rel")))
				href := strings.TrimSpace(attr(n, "href"))
				for _, rel := range rels {
					switch rel {
					case "icon":
						setOnce(&icon, href)
					case "apple-touch-icon":
						setOnce(&touchIcon, href)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return pageMeta{
		title: firstNonEmpty(ogTitle, twTitle, collapseSpace(docTitle)),
		image: firstNonEmpty(ogImage, twImage),
		icon:  firstNonEmpty(icon, touchIcon),
	}, nil
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
