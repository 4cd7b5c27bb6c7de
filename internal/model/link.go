package model

import (
	"strings"

	"github.com/MASHINC1/LinkMan/internal/weburl"
)

// Link is a saved URL. Its group and section are encoded in Category.
type Link struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Icon     string `json:"icon"`
}

// Group returns the decoded group of the link.
func (l Link) Group() string {
	return GroupOf(l.Category)
}

// Section returns the decoded section of the link.
func (l Link) Section() string {
	return DecodeCategory(l.Category).Section
}

// NewLinkParams holds parameters for creating a new Link.
type NewLinkParams struct {
	URL      string
	Name     string
	Category string
	Image    string
}

// NewLink normalizes the URL and creates a Link with a generated UUID.
// An empty name is derived from the URL's host.
func NewLink(params NewLinkParams) (Link, bool) {
	u, ok := weburl.Normalize(params.URL)
	if !ok {
		return Link{}, false
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = weburl.DisplayName(u)
	}

	return Link{
		ID:       GenerateUUID(),
		URL:      u,
		Name:     name,
		Category: CanonicalCategory(params.Category),
		Image:    params.Image,
		Icon:     weburl.FaviconURL(u),
	}, true
}

// LinkUpdate lists the fields to change on a Link. Nil fields are kept.
type LinkUpdate struct {
	URL      *string `json:"url,omitempty"`
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Image    *string `json:"image,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}
