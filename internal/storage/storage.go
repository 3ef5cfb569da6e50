package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/nikbrunner/folio/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrCatalogEmpty is returned when a catalog holds no gallery items.
	ErrCatalogEmpty = errors.New("catalog has no gallery items")

	// ErrReadOnly is returned when saving to the embedded catalog.
	ErrReadOnly = errors.New("catalog storage is read-only")
)

//go:embed default_catalog.json
var defaultCatalog []byte

// Storage defines the interface for loading and persisting the catalog.
type Storage interface {
	Load() (*model.Catalog, error)
	Save(catalog *model.Catalog) error
}

// catalogFile is the on-disk catalog layout.
type catalogFile struct {
	Items  []itemRecord      `json:"items"`
	Heroes []model.HeroImage `json:"heroes,omitempty"`
}

// itemRecord is one gallery entry as written by hand in the catalog file.
// Numeric and string ids are both accepted.
type itemRecord struct {
	ID      flexID `json:"id,omitempty"`
	Type    string `json:"type,omitempty"`
	Img     string `json:"img,omitempty"`
	Video   string `json:"video,omitempty"`
	Loop    *bool  `json:"loop,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Caption string `json:"caption,omitempty"`
	URL     string `json:"url,omitempty"`
}

type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*f = flexID(unquoted)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid item id %s", s)
	}
	*f = flexID(s)
	return nil
}

// DecodeCatalog parses catalog JSON. Entries without an id get a generated one.
func DecodeCatalog(data []byte) (*model.Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, ErrCatalogEmpty
	}

	catalog := model.NewCatalog()
	seen := make(map[model.ItemID]bool, len(file.Items))

	for i, rec := range file.Items {
		item, err := rec.toItem()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("item %d: %w: duplicate id %q", i, model.ErrInvalidItem, item.ID)
		}
		seen[item.ID] = true
		catalog.Items = append(catalog.Items, item)
	}

	if file.Heroes != nil {
		catalog.Heroes = file.Heroes
	}
	return catalog, nil
}

// EncodeCatalog renders a catalog in the on-disk layout.
func EncodeCatalog(catalog *model.Catalog) ([]byte, error) {
	file := catalogFile{
		Items:  make([]itemRecord, 0, len(catalog.Items)),
		Heroes: catalog.Heroes,
	}
	for _, item := range catalog.Items {
		file.Items = append(file.Items, fromItem(item))
	}
	return json.MarshalIndent(file, "", "  ")
}

func (r itemRecord) toItem() (model.MediaItem, error) {
	var media model.Media
	if r.Type == "video" || r.Video != "" {
		src := r.Video
		if src == "" {
			src = r.Img
		}
		media = model.Video{Src: src, Loop: r.Loop == nil || *r.Loop}
	} else {
		media = model.Image{Src: r.Img}
	}

	return model.NewMediaItem(model.NewMediaItemParams{
		ID:       model.ItemID(r.ID),
		Media:    media,
		Caption:  r.Caption,
		Link:     r.URL,
		Declared: model.Dimensions{Width: r.Width, Height: r.Height},
	})
}

func fromItem(item model.MediaItem) itemRecord {
	rec := itemRecord{
		ID:      flexID(item.ID),
		Width:   item.Declared.Width,
		Height:  item.Declared.Height,
		Caption: item.Caption,
		URL:     item.Link,
	}
	switch m := item.Media.(type) {
	case model.Video:
		rec.Type = "video"
		rec.Video = m.Src
		loop := m.Loop
		rec.Loop = &loop
	case model.Image:
		rec.Img = m.Src
	}
	return rec
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the catalog from the JSON file.
func (s *JSONStorage) Load() (*model.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeCatalog(data)
}

// Save writes the catalog to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(catalog *model.Catalog) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := EncodeCatalog(catalog)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// EmbeddedStorage serves the catalog compiled into the binary.
type EmbeddedStorage struct{}

// Load decodes the embedded catalog.
func (EmbeddedStorage) Load() (*model.Catalog, error) {
	return DecodeCatalog(defaultCatalog)
}

// Save always fails; the embedded catalog cannot change.
func (EmbeddedStorage) Save(*model.Catalog) error {
	return ErrReadOnly
}

// OpenStorage opens the catalog at path, or the embedded catalog when path is empty.
func OpenStorage(path string) (Storage, error) {
	if path == "" {
		return EmbeddedStorage{}, nil
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(expanded), nil
}
