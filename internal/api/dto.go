package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MASHINC1/LinkMan/internal/model"
)

// CreateLinkRequest is the body of POST /links.
type CreateLinkRequest struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

func (r CreateLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.Length(1, 4096)),
		validation.Field(&r.Name, validation.Length(0, 500)),
		validation.Field(&r.Category, validation.Length(0, 200)),
	)
}

func (r CreateLinkRequest) params() model.NewLinkParams {
	return model.NewLinkParams{URL: r.URL, Name: r.Name, Category: r.Category, Image: r.Image}
}

// MoveLinkRequest is the body of POST /links/{id}/move.
type MoveLinkRequest struct {
	Group    string `json:"group"`
	BeforeID string `json:"beforeId"`
}

func (r MoveLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Group, validation.Required),
	)
}

// MoveGroupRequest is the body of POST /groups/move. With ToEnd set, Target
// and InsertAfter are ignored. Drop, when present, decides InsertAfter from
// where the pointer was released over the target.
type MoveGroupRequest struct {
	Group       string        `json:"group"`
	Target      string        `json:"target"`
	InsertAfter bool          `json:"insertAfter"`
	ToEnd       bool          `json:"toEnd"`
	Drop        *DropPosition `json:"drop,omitempty"`
}

// DropPosition is the pointer position and the target's bounding box at the
// end of a drag gesture.
type DropPosition struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// InsertAfter reports whether the drop lands after the target.
func (d DropPosition) InsertAfter() bool {
	return model.InsertAfter(
		model.Point{X: d.X, Y: d.Y},
		model.Rect{Left: d.Left, Top: d.Top, Width: d.Width, Height: d.Height},
	)
}

func (r MoveGroupRequest) insertAfter() bool {
	if r.Drop != nil {
		return r.Drop.InsertAfter()
	}
	return r.InsertAfter
}

func (r MoveGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Group, validation.Required),
		validation.Field(&r.Target, validation.When(!r.ToEnd, validation.Required)),
		validation.Field(&r.Drop),
	)
}

func (d DropPosition) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Width, validation.Min(0.0)),
		validation.Field(&d.Height, validation.Min(0.0)),
	)
}

// RenameGroupRequest is the body of PUT /groups/{name}.
type RenameGroupRequest struct {
	Name string `json:"name"`
}

func (r RenameGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// CategoryRequest is the body of POST /categories.
type CategoryRequest struct {
	Category string `json:"category"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required, validation.Length(1, 200)),
	)
}

// MovedResponse reports whether a move changed anything.
type MovedResponse struct {
	Moved bool `json:"moved"`
}
