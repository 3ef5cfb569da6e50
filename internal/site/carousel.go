package site

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoMedia is returned for a carousel with nothing to show.
var ErrNoMedia = errors.New("carousel has no media")

var videoExt = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)

// IsVideo guesses from a media URL whether it is a video: a video file
// extension, or "video" anywhere in the URL.
func IsVideo(url string) bool {
	return videoExt.MatchString(url) || strings.Contains(url, "video")
}

// Carousel steps through a product card's media list with wraparound.
type Carousel struct {
	media []string
	index int
}

// NewCarousel creates a carousel showing the first entry.
func NewCarousel(media []string) (*Carousel, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}
	return &Carousel{media: media}, nil
}

// Navigate moves dir steps (negative for back), wrapping at both ends, and
// returns the newly shown URL.
func (c *Carousel) Navigate(dir int) string {
	n := len(c.media)
	c.index = ((c.index+dir)%n + n) % n
	return c.media[c.index]
}

// Current returns the URL being shown.
func (c *Carousel) Current() string {
	return c.media[c.index]
}

// Index returns the 0-based position being shown.
func (c *Carousel) Index() int {
	return c.index
}

// Len returns the number of media entries.
func (c *Carousel) Len() int {
	return len(c.media)
}
