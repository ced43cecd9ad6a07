package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_TotalPages(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pager{Page: 1, Limit: tt.limit, Count: tt.count}.TotalPages(), "count=%d limit=%d", tt.count, tt.limit)
	}
}

func TestPager_Navigation(t *testing.T) {
	p := Pager{Page: 1, Limit: 10, Count: 25}

	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.Prev()
	assert.Equal(t, 1, p.Page)

	p.Last()
	assert.Equal(t, 3, p.Page)
	assert.False(t, p.HasNext())

	p.Next()
	assert.Equal(t, 3, p.Page)

	p.GoTo(2)
	from, to := p.Showing()
	assert.Equal(t, []int{11, 20}, []int{from, to})

	p.Last()
	from, to = p.Showing()
	assert.Equal(t, []int{21, 25}, []int{from, to})

	p.GoTo(-4)
	assert.Equal(t, 1, p.Page)
}

func TestPager_Empty(t *testing.T) {
	p := Pager{Page: 1, Limit: 10}
	from, to := p.Showing()
	assert.Zero(t, from)
	assert.Zero(t, to)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}
