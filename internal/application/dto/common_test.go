package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          Page
	}{
		{"por defecto", 0, 0, Page{Limit: DefaultPageLimit}},
		{"tope", 500, 10, Page{Limit: MaxPageLimit, Offset: 10}},
		{"offset negativo", 5, -3, Page{Limit: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.limit, tt.offset))
		})
	}
	assert.Equal(t, PageResponse{Limit: 5, Offset: 0, Count: 2}, NewPage(5, 0).Response(2))
}
