package console

// Pager tracks the position in a paged listing. Page numbers start at 1.
type Pager struct {
	Page  int
	Limit int
	Count int
}

// TotalPages is ceil(Count/Limit), and at least 1.
func (p Pager) TotalPages() int {
	if p.Limit <= 0 || p.Count <= 0 {
		return 1
	}
	return (p.Count + p.Limit - 1) / p.Limit
}

func (p Pager) HasPrev() bool {
	return p.Page > 1
}

func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages()
}

// GoTo moves to page n clamped into the valid range.
func (p *Pager) GoTo(n int) {
	if n > p.TotalPages() {
		n = p.TotalPages()
	}
	if n < 1 {
		n = 1
	}
	p.Page = n
}

func (p *Pager) Next()  { p.GoTo(p.Page + 1) }
func (p *Pager) Prev()  { p.GoTo(p.Page - 1) }
func (p *Pager) First() { p.GoTo(1) }
func (p *Pager) Last()  { p.GoTo(p.TotalPages()) }

// Showing returns the 1-based range of rows on the current page, or 0, 0
// when the listing is empty.
func (p Pager) Showing() (from, to int) {
	if p.Count == 0 || p.Limit <= 0 {
		return 0, 0
	}
	from = (p.Page-1)*p.Limit + 1
	to = from + p.Limit - 1
	if to > p.Count {
		to = p.Count
	}
	if from > p.Count {
		return 0, 0
	}
	return from, to
}
