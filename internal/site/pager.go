package site

// Pager pages through a fixed list of cards. Pages are 1-based.
type Pager struct {
	PerPage int
	Total   int
	Current int
}

// NewPager creates a Pager on page 1. perPage below 1 is treated as 1.
func NewPager(total, perPage int) *Pager {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	return &Pager{PerPage: perPage, Total: total, Current: 1}
}

// TotalPages returns ceil(Total/PerPage).
func (p *Pager) TotalPages() int {
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Hidden reports whether pagination controls should be hidden: everything
// fits on one page.
func (p *Pager) Hidden() bool {
	return p.TotalPages() <= 1
}

// Show moves to page. Out-of-range pages are ignored and return false.
func (p *Pager) Show(page int) bool {
	if page < 1 || page > p.TotalPages() {
		return false
	}
	p.Current = page
	return true
}

// Next advances one page; a no-op on the last page.
func (p *Pager) Next() bool {
	return p.Show(p.Current + 1)
}

// Prev goes back one page; a no-op on the first page.
func (p *Pager) Prev() bool {
	return p.Show(p.Current - 1)
}

func (p *Pager) CanPrev() bool { return p.Current > 1 }
func (p *Pager) CanNext() bool { return p.Current < p.TotalPages() }

// Range returns the half-open index range [start, end) of the current page.
func (p *Pager) Range() (int, int) {
	start := (p.Current - 1) * p.PerPage
	end := start + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	if start > end {
		start = end
	}
	return start, end
}

// Visible reports whether card i is on the current page.
func (p *Pager) Visible(i int) bool {
	start, end := p.Range()
	return i >= start && i < end
}

// SectionLabels returns the distinct section names of the cards on the
// current page, in first-seen order. sections[i] is card i's section.
func (p *Pager) SectionLabels(sections []string) []string {
	start, end := p.Range()
	if end > len(sections) {
		end = len(sections)
	}

	seen := map[string]bool{}
	var labels []string
	for i := start; i < end; i++ {
		if seen[sections[i]] {
			continue
		}
		seen[sections[i]] = true
		labels = append(labels, sections[i])
	}
	return labels
}
