package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkBounds(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want [][2]int
	}{
		{"empty", 0, nil},
		{"single op", 1, [][2]int{{0, 1}}},
		{"exactly one chunk", 450, [][2]int{{0, 450}}},
		{"one over", 451, [][2]int{{0, 450}, {450, 451}}},
		{"two full chunks", 900, [][2]int{{0, 450}, {450, 900}}},
		{"partial tail", 1000, [][2]int{{0, 450}, {450, 900}, {900, 1000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkBounds(tt.n))
		})
	}
}
