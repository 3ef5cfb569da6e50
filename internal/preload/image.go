package preload

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nikbrunner/folio/internal/model"
)

// probeImage decodes only the image header.
func probeImage(r io.Reader) (model.Dimensions, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return model.Dimensions{}, err
	}
	d := model.Dimensions{Width: cfg.Width, Height: cfg.Height}
	if !d.Known() {
		return model.Dimensions{}, ErrNoDimensions
	}
	return d, nil
}
