package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalWindow(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  PageWindow
	}{
		{
			name:  "first of three",
			page:  1,
			total: 85,
			want:  PageWindow{Page: 1, PageSize: 30, TotalItems: 85, TotalPages: 3, HasNext: true},
		},
		{
			name:  "last page",
			page:  3,
			total: 85,
			want:  PageWindow{Page: 3, PageSize: 30, TotalItems: 85, TotalPages: 3, HasPrev: true},
		},
		{
			name:  "exact multiple",
			page:  2,
			total: 60,
			want:  PageWindow{Page: 2, PageSize: 30, TotalItems: 60, TotalPages: 2, HasPrev: true},
		},
		{
			name:  "empty list",
			page:  1,
			total: 0,
			want:  PageWindow{Page: 1, PageSize: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalWindow(tt.page, tt.total))
		})
	}
}

func TestServerPagingWindow(t *testing.T) {
	p := &ServerPaging{Page: 2, PageSize: 40, TotalItems: 100, TotalPages: 3}
	assert.Equal(t, PageWindow{Page: 2, PageSize: 40, TotalItems: 100, TotalPages: 3, HasPrev: true, HasNext: true}, p.Window(5))

	// Missing fields fall back to the requested page and the local page size.
	p = &ServerPaging{TotalItems: 100, TotalPages: 4}
	w := p.Window(4)
	assert.Equal(t, 4, w.Page)
	assert.Equal(t, PageSize, w.PageSize)
	assert.False(t, w.HasNext)
}

func TestAttachmentKey(t *testing.T) {
	assert.Equal(t, int64(9), ProceduralEvent{ID: 1, AttachmentGroupID: 9}.AttachmentKey())
	assert.Equal(t, int64(1), ProceduralEvent{ID: 1}.AttachmentKey())
	assert.Zero(t, ProceduralEvent{}.AttachmentKey())
}
