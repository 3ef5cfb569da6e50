package importer

import (
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/html"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/site"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Page is what the portfolio markup exposes outside the masonry gallery.
type Page struct {
	Tabs         []string          // from <input id="tab-NAME">
	Anchors      map[string]string // element id -> tab of the enclosing section
	TabLinks     []TabLink
	Carousels    []Carousel
	GalleryCards []Card
	ShopCards    []Card
	Heroes       []model.HeroImage
}

// TabLink is an element carrying data-tab-target.
type TabLink struct {
	Target string
	Text   string
}

// Carousel is one .image-carousel and the media list from its data-media attribute.
type Carousel struct {
	Media   []string
	Invalid bool // data-media was present but not a JSON string array
}

// Card is one .card inside a tab section.
type Card struct {
	Title   string
	Section string // data-section
	Image   string
	Link    string
}

// ParsePage parses the site HTML.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	page := &Page{Anchors: map[string]string{}}

	var parse func(n *html.Node, tab string)
	parse = func(n *html.Node, tab string) {
		if n.Type == html.ElementNode {
			if n.Data == "section" {
				if t := tabClass(n); t != "" {
					tab = t
				}
			}

			if id := strings.ToLower(getAttr(n, "id")); id != "" {
				if n.Data == "input" && strings.HasPrefix(id, "tab-") {
					page.Tabs = append(page.Tabs, strings.TrimPrefix(id, "tab-"))
				} else if tab != "" {
					page.Anchors[id] = tab
				}
			}

			if target := getAttr(n, "data-tab-target"); target != "" {
				page.TabLinks = append(page.TabLinks, TabLink{
					Target: strings.ToLower(target),
					Text:   getTextContent(n),
				})
			}

			switch {
			case hasClass(n, "image-carousel"):
				page.Carousels = append(page.Carousels, parseCarousel(n))
			case hasClass(n, "card"):
				card := parseCard(n)
				switch tab {
				case "gallery":
					page.GalleryCards = append(page.GalleryCards, card)
				case "shop":
					page.ShopCards = append(page.ShopCards, card)
				}
			case hasClass(n, "hero-slideshow"):
				for _, img := range findAll(n, isElement("img")) {
					if src := getAttr(img, "src"); src != "" {
						page.Heroes = append(page.Heroes, model.HeroImage{Src: src, Alt: getAttr(img, "alt")})
					}
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c, tab)
		}
	}

	parse(doc, "")
	return page, nil
}

// parseCarousel reads the data-media list from the first image in the
// carousel's media container.
func parseCarousel(n *html.Node) Carousel {
	container := findFirst(n, func(n *html.Node) bool { return hasClass(n, "media-container") })
	if container == nil {
		return Carousel{}
	}
	img := findFirst(container, isElement("img"))
	if img == nil {
		return Carousel{}
	}
	raw := getAttr(img, "data-media")
	if raw == "" {
		return Carousel{}
	}

	var media []string
	if err := json.Unmarshal([]byte(raw), &media); err != nil {
		return Carousel{Invalid: true}
	}
	return Carousel{Media: media}
}

func parseCard(n *html.Node) Card {
	card := Card{Section: getAttr(n, "data-section")}
	if h := findFirst(n, isElement("h2", "h3", "h4")); h != nil {
		card.Title = getTextContent(h)
	}
	if img := findFirst(n, isElement("img")); img != nil {
		card.Image = getAttr(img, "src")
	}
	if a := findFirst(n, isElement("a")); a != nil {
		card.Link = getAttr(a, "href")
	}
	return card
}

// CatalogFromPage builds a catalog from the gallery cards and hero images.
// Cards without an image are skipped.
func CatalogFromPage(page *Page) (*model.Catalog, error) {
	catalog := model.NewCatalog()

	for _, card := range page.GalleryCards {
		if card.Image == "" {
			continue
		}
		var media model.Media = model.Image{Src: card.Image}
		if site.IsVideo(card.Image) {
			media = model.Video{Src: card.Image, Loop: true}
		}
		item, err := model.NewMediaItem(model.NewMediaItemParams{
			Media:   media,
			Caption: card.Title,
			Link:    card.Link,
		})
		if err != nil {
			return nil, err
		}
		catalog.Items = append(catalog.Items, item)
	}

	if page.Heroes != nil {
		catalog.Heroes = page.Heroes
	}
	return catalog, nil
}

// tabClass returns NAME for a section with a tab-NAME class naming a known tab.
func tabClass(n *html.Node) string {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if name, ok := strings.CutPrefix(strings.ToLower(c), "tab-"); ok && site.IsTab(name) {
			return name
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(tags ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	}
}

// findFirst returns the first element below n (depth first) matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			out = append(out, c)
		}
		out = append(out, findAll(c, pred)...)
	}
	return out
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
	return strings.Join(strings.Fields(text.String()), " ")
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
