package model

import (
	"errors"
	"fmt"
)

// ErrInvalidItem is returned when a media item cannot be built from its parameters.
var ErrInvalidItem = errors.New("invalid media item")

// ItemID identifies a gallery entry. It is stable across re-layouts.
type ItemID string

// Kind distinguishes image entries from video entries.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Media is the kind-specific payload of a MediaItem. It is implemented only by
// Image and Video.
type Media interface {
	Kind() Kind
	Source() string
	isMedia()
}

// Image is a still picture.
type Image struct {
	Src string
}

func (Image) Kind() Kind       { return KindImage }
func (i Image) Source() string { return i.Src }
func (Image) isMedia()         {}

// Video is a muted inline clip. Loop is true unless the catalog disables it.
type Video struct {
	Src  string
	Loop bool
}

func (Video) Kind() Kind       { return KindVideo }
func (v Video) Source() string { return v.Src }
func (Video) isMedia()         {}

// Dimensions holds pixel dimensions. A zero value means unknown.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both dimensions are positive.
func (d Dimensions) Known() bool {
	return d.Width > 0 && d.Height > 0
}

// MediaItem is one gallery entry. Items are never mutated; resolving natural
// dimensions produces a new value via WithNatural.
type MediaItem struct {
	ID       ItemID
	Media    Media
	Caption  string // optional
	Link     string // optional outbound link
	Declared Dimensions
	Natural  Dimensions // zero until resolved
}

// NewMediaItemParams holds parameters for creating a new MediaItem.
type NewMediaItemParams struct {
	ID       ItemID // generated when empty
	Media    Media
	Caption  string
	Link     string
	Declared Dimensions
}

// NewMediaItem creates a MediaItem, generating an ID when none is given.
func NewMediaItem(params NewMediaItemParams) (MediaItem, error) {
	if params.Media == nil {
		return MediaItem{}, fmt.Errorf("%w: missing media", ErrInvalidItem)
	}
	if params.Media.Source() == "" {
		return MediaItem{}, fmt.Errorf("%w: empty source", ErrInvalidItem)
	}
	if params.Declared.Width < 0 || params.Declared.Height < 0 {
		return MediaItem{}, fmt.Errorf("%w: negative declared size", ErrInvalidItem)
	}

	id := params.ID
	if id == "" {
		id = ItemID(GenerateUUID())
	}

	return MediaItem{
		ID:       id,
		Media:    params.Media,
		Caption:  params.Caption,
		Link:     params.Link,
		Declared: params.Declared,
	}, nil
}

// Kind returns the item's media kind.
func (m MediaItem) Kind() Kind {
	return m.Media.Kind()
}

// Source returns the item's media URL or path.
func (m MediaItem) Source() string {
	return m.Media.Source()
}

// IsVideo returns true for video entries.
func (m MediaItem) IsVideo() bool {
	return m.Media.Kind() == KindVideo
}

// WithNatural returns a copy of the item carrying resolved natural dimensions.
func (m MediaItem) WithNatural(d Dimensions) MediaItem {
	m.Natural = d
	return m
}

// AspectRatio returns height/width. Resolved natural dimensions win; otherwise
// each missing declared side falls back to defaultDimension, so an item with
// no size information at all is square.
func (m MediaItem) AspectRatio(defaultDimension int) float64 {
	if m.Natural.Known() {
		return float64(m.Natural.Height) / float64(m.Natural.Width)
	}

	w := m.Declared.Width
	if w <= 0 {
		w = defaultDimension
	}
	h := m.Declared.Height
	if h <= 0 {
		h = defaultDimension
	}
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(h) / float64(w)
}

// IndexOf returns the position of the item with the given ID, or -1.
func IndexOf(items []MediaItem, id ItemID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
