package importer_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/folio/internal/importer"
	"github.com/nikbrunner/folio/internal/model"
)

const sitePage = `<!DOCTYPE html>
<html>
<body>
  <input type="radio" name="tabs" id="tab-home" checked>
  <input type="radio" name="tabs" id="tab-gallery">
  <input type="radio" name="tabs" id="tab-shop">
  <input type="radio" name="tabs" id="tab-contact">

  <section class="tab-content tab-home">
    <a class="hero-image-link" data-tab-target="Gallery">
      <div class="hero-slideshow">
        <img src="https://example.com/peaches.jpg" alt="Featured Photograph - Peaches">
      </div>
    </a>
  </section>

  <section class="tab-content tab-gallery">
    <h2 id="gallery-heading">Gallery</h2>
    <div class="grid-3">
      <div class="card"><img src="moab.jpg"><h3>Moab   - Digital 2025</h3></div>
      <div class="card"><img src="ducky-video.mov"><h3>Ducky</h3><a href="https://shop.example.com/ducky">Buy</a></div>
      <div class="card"><h3>Text only</h3></div>
    </div>
  </section>

  <section class="tab-content tab-shop">
    <div id="shop-grid">
      <div class="card" data-section="Best sellers">
        <h3>Print A</h3>
        <div class="image-carousel">
          <div class="media-container">
            <img src="a1.jpg" data-media='["a1.jpg","a2.jpg","clip.mp4"]'>
          </div>
          <button class="arrow left"></button><button class="arrow right"></button>
        </div>
      </div>
      <div class="card" data-section="Extra 1">
        <h3>Print B</h3>
        <div class="image-carousel">
          <div class="media-container"><img src="b.jpg" data-media='not json'></div>
        </div>
      </div>
    </div>
  </section>

  <section class="tab-content tab-contact">
    <form id="contact-form"></form>
  </section>
</body>
</html>`

func TestParsePage(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(sitePage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.DeepEqual(t, page.Tabs, []string{"home", "gallery", "shop", "contact"})

	if page.Anchors["gallery-heading"] != "gallery" {
		t.Errorf("expected gallery-heading in gallery tab, got %q", page.Anchors["gallery-heading"])
	}
	if page.Anchors["contact-form"] != "contact" {
		t.Errorf("expected contact-form in contact tab, got %q", page.Anchors["contact-form"])
	}
	if _, ok := page.Anchors["shop-grid"]; !ok {
		t.Error("expected shop-grid anchor")
	}

	assert.DeepEqual(t, page.TabLinks, []importer.TabLink{{Target: "gallery", Text: ""}})
	assert.DeepEqual(t, page.Heroes, []model.HeroImage{
		{Src: "https://example.com/peaches.jpg", Alt: "Featured Photograph - Peaches"},
	})
}

func TestParsePage_Cards(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(sitePage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.GalleryCards) != 3 {
		t.Fatalf("expected 3 gallery cards, got %d", len(page.GalleryCards))
	}
	if page.GalleryCards[0].Title != "Moab - Digital 2025" {
		t.Errorf("expected collapsed whitespace in title, got %q", page.GalleryCards[0].Title)
	}
	if page.GalleryCards[1].Link != "https://shop.example.com/ducky" {
		t.Errorf("unexpected link %q", page.GalleryCards[1].Link)
	}

	if len(page.ShopCards) != 2 {
		t.Fatalf("expected 2 shop cards, got %d", len(page.ShopCards))
	}
	if page.ShopCards[0].Section != "Best sellers" || page.ShopCards[1].Section != "Extra 1" {
		t.Errorf("unexpected sections: %+v", page.ShopCards)
	}
}

func TestParsePage_Carousels(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(sitePage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Carousels) != 2 {
		t.Fatalf("expected 2 carousels, got %d", len(page.Carousels))
	}
	assert.DeepEqual(t, page.Carousels[0].Media, []string{"a1.jpg", "a2.jpg", "clip.mp4"})
	assert.Assert(t, !page.Carousels[0].Invalid)

	assert.Assert(t, page.Carousels[1].Invalid)
	assert.Equal(t, len(page.Carousels[1].Media), 0)
}

func TestParsePage_CarouselWithoutContainer(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(`<div class="image-carousel"><img data-media='["x.jpg"]'></div>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Carousels) != 1 || len(page.Carousels[0].Media) != 0 {
		t.Errorf("expected one empty carousel, got %+v", page.Carousels)
	}
}

func TestCatalogFromPage(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(sitePage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	catalog, err := importer.CatalogFromPage(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(catalog.Items) != 2 {
		t.Fatalf("expected 2 items (text-only card skipped), got %d", len(catalog.Items))
	}

	moab := catalog.Items[0]
	assert.Equal(t, moab.Kind(), model.KindImage)
	assert.Equal(t, moab.Caption, "Moab - Digital 2025")
	assert.Assert(t, moab.ID != "")

	duck := catalog.Items[1]
	assert.Equal(t, duck.Media, model.Media(model.Video{Src: "ducky-video.mov", Loop: true}))
	assert.Equal(t, duck.Link, "https://shop.example.com/ducky")

	assert.Equal(t, len(catalog.Heroes), 1)
}

func TestParsePage_Empty(t *testing.T) {
	page, err := importer.ParsePage(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Tabs) != 0 || len(page.Carousels) != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
}
