package site_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/folio/internal/site"
)

func TestPager_GalleryPages(t *testing.T) {
	p := site.NewPager(10, 4)

	assert.Equal(t, p.TotalPages(), 3)
	assert.Assert(t, !p.Hidden())
	assert.Assert(t, !p.CanPrev())
	assert.Assert(t, p.CanNext())

	start, end := p.Range()
	assert.Equal(t, start, 0)
	assert.Equal(t, end, 4)

	assert.Assert(t, !p.Prev(), "prev on first page is a no-op")
	assert.Equal(t, p.Current, 1)

	assert.Assert(t, p.Next())
	assert.Assert(t, p.Next())
	assert.Equal(t, p.Current, 3)
	assert.Assert(t, !p.Next(), "next on last page is a no-op")

	start, end = p.Range()
	assert.Equal(t, start, 8)
	assert.Equal(t, end, 10)
	assert.Assert(t, p.Visible(9))
	assert.Assert(t, !p.Visible(7))
	assert.Assert(t, !p.CanNext())
}

func TestPager_Show(t *testing.T) {
	p := site.NewPager(7, 3)

	assert.Assert(t, !p.Show(0))
	assert.Assert(t, !p.Show(4))
	assert.Equal(t, p.Current, 1)

	assert.Assert(t, p.Show(3))
	assert.Equal(t, p.Current, 3)
}

func TestPager_Hidden(t *testing.T) {
	tests := []struct {
		total, perPage int
		hidden         bool
	}{
		{0, 4, true},
		{4, 4, true},
		{5, 4, false},
		{3, 3, true},
		{4, 3, false},
	}

	for _, tt := range tests {
		p := site.NewPager(tt.total, tt.perPage)
		if p.Hidden() != tt.hidden {
			t.Errorf("NewPager(%d, %d).Hidden() = %v, want %v", tt.total, tt.perPage, p.Hidden(), tt.hidden)
		}
	}
}

func TestPager_SectionLabels(t *testing.T) {
	sections := []string{"Best sellers", "Best sellers", "Extra 1", "Extra 1", "Extra 2", "Extra 1", "Extra 2"}
	p := site.NewPager(len(sections), 3)

	assert.DeepEqual(t, p.SectionLabels(sections), []string{"Best sellers", "Extra 1"})

	p.Next()
	assert.DeepEqual(t, p.SectionLabels(sections), []string{"Extra 1", "Extra 2"})

	p.Next()
	assert.DeepEqual(t, p.SectionLabels(sections), []string{"Extra 2"})
}
