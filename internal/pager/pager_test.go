package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		length, size, want int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{120, 50, 3},
		{150, 50, 3},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.length, tt.size), "TotalPages(%d, %d)", tt.length, tt.size)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		page       int
		wantNumber int
		wantStart  int
		wantEnd    int
		wantPages  int
	}{
		{name: "empty", length: 0, page: 1, wantNumber: 1, wantStart: 0, wantEnd: 0, wantPages: 0},
		{name: "single partial page", length: 7, page: 1, wantNumber: 1, wantStart: 0, wantEnd: 7, wantPages: 1},
		{name: "middle page", length: 120, page: 2, wantNumber: 2, wantStart: 50, wantEnd: 100, wantPages: 3},
		{name: "last partial page", length: 120, page: 3, wantNumber: 3, wantStart: 100, wantEnd: 120, wantPages: 3},
		{name: "last full page", length: 100, page: 2, wantNumber: 2, wantStart: 50, wantEnd: 100, wantPages: 2},
		{name: "page past end clamps", length: 120, page: 9, wantNumber: 3, wantStart: 100, wantEnd: 120, wantPages: 3},
		{name: "page zero clamps", length: 120, page: 0, wantNumber: 1, wantStart: 0, wantEnd: 50, wantPages: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.length, tt.page, DefaultSize)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.length, p.Total)
		})
	}
}

func TestLastPageSize(t *testing.T) {
	for length := 1; length <= 260; length++ {
		p := Paginate(length, TotalPages(length, DefaultSize), DefaultSize)
		want := length % DefaultSize
		if want == 0 {
			want = DefaultSize
		}
		if p.Len() != want {
			t.Fatalf("length %d: last page has %d items, want %d", length, p.Len(), want)
		}
	}
}

func TestSlice(t *testing.T) {
	seq := make([]int, 120)
	for i := range seq {
		seq[i] = i + 1
	}
	got := Slice(seq, Paginate(len(seq), 2, DefaultSize))
	assert.Len(t, got, 50)
	assert.Equal(t, 51, got[0])
	assert.Equal(t, 100, got[len(got)-1])

	assert.Empty(t, Slice([]int{}, Paginate(0, 1, DefaultSize)))
	// a stale page against a shorter sequence never panics
	assert.Len(t, Slice(seq[:10], Paginate(120, 3, DefaultSize)), 0)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Showing 0 cars", Paginate(0, 1, DefaultSize).Status("cars"))
	assert.Equal(t, "Showing 7 cars", Paginate(7, 1, DefaultSize).Status("cars"))
	assert.Equal(t, "Showing 50 cars", Paginate(50, 1, DefaultSize).Status("cars"))
	assert.Equal(t, "Showing 51-100 of 120 cars", Paginate(120, 2, DefaultSize).Status("cars"))
	assert.Equal(t, "Showing 101-120 of 120 cars", Paginate(120, 3, DefaultSize).Status("cars"))
	assert.Equal(t, "Showing 1-50 of 51 items", Paginate(51, 1, DefaultSize).Status(""))
}

func TestHasPrevNext(t *testing.T) {
	p := Paginate(120, 2, DefaultSize)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	p = Paginate(120, 1, DefaultSize)
	assert.False(t, p.HasPrev())
	p = Paginate(120, 3, DefaultSize)
	assert.False(t, p.HasNext())
}
