package model

// HeroImage is one candidate for the home page hero slot.
type HeroImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Catalog is the static configuration of the site: gallery entries in display
// order plus the hero image pool. It is loaded once at startup.
type Catalog struct {
	Items  []MediaItem
	Heroes []HeroImage
}

// NewCatalog creates an empty Catalog with initialized slices.
func NewCatalog() *Catalog {
	return &Catalog{
		Items:  []MediaItem{},
		Heroes: []HeroImage{},
	}
}

// ItemByID finds a gallery item by ID, returns nil if not found.
func (c *Catalog) ItemByID(id ItemID) *MediaItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Videos returns the video entries in display order.
func (c *Catalog) Videos() []MediaItem {
	var result []MediaItem
	for _, item := range c.Items {
		if item.IsVideo() {
			result = append(result, item)
		}
	}
	return result
}
