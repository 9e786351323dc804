package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, floor int
		want               int
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 1},
		{1, 10, 0, 1},
		{10, 10, 0, 1},
		{11, 10, 0, 2},
		{25, 10, 0, 3},
		{25, 0, 0, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.size, tt.floor), "total=%d size=%d floor=%d", tt.total, tt.size, tt.floor)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-5, 3))
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(99, 3))
	assert.Equal(t, 1, ClampPage(4, 0))
}

func TestPagination_Bounds(t *testing.T) {
	for n := -3; n <= 40; n++ {
		for page := -2; page <= 6; page++ {
			p := Pagination{Page: ClampPage(page, PageCount(max(n, 0), 10, 0)), PageSize: 10}
			start, end := p.Bounds(max(n, 0))
			assert.GreaterOrEqual(t, start, 0)
			assert.LessOrEqual(t, start, end)
			assert.LessOrEqual(t, end-start, 10)
			assert.LessOrEqual(t, end, max(n, 0))
		}
	}
}

func TestPagination_Window(t *testing.T) {
	p := Pagination{Page: 5, TotalPages: 10}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.Window(5))

	p.Page = 1
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Window(5))

	p.Page = 10
	assert.Equal(t, []int{6, 7, 8, 9, 10}, p.Window(5))

	assert.Equal(t, []int{1, 2}, Pagination{Page: 1, TotalPages: 2}.Window(5))
	assert.Nil(t, Pagination{}.Window(5))
}
