package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParetoEfficient(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		want   []int
	}{
		{
			name:   "single point",
			points: [][]float64{{1, 1}},
			want:   []int{0},
		},
		{
			name:   "dominated point removed",
			points: [][]float64{{2, 2}, {1, 1}},
			want:   []int{0},
		},
		{
			name:   "trade-off points both kept",
			points: [][]float64{{2, 1}, {1, 2}},
			want:   []int{0, 1},
		},
		{
			name:   "mixed front",
			points: [][]float64{{3, 1}, {2, 2}, {1, 3}, {1, 1}, {2, 1}},
			want:   []int{0, 1, 2},
		},
		{
			name:   "duplicates are mutually non-dominating",
			points: [][]float64{{1, 1}, {1, 1}},
			want:   []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParetoEfficient(tt.points))
		})
	}
}

func TestHypervolume(t *testing.T) {
	ref := []float64{0, 0}

	tests := []struct {
		name   string
		points [][]float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single box", [][]float64{{2, 3}}, 6},
		{"dominated adds nothing", [][]float64{{2, 3}, {1, 1}}, 6},
		{"two step front", [][]float64{{3, 1}, {1, 3}}, 3 + 1*2},
		{"below reference ignored", [][]float64{{-1, 5}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Hypervolume(tt.points, ref), 1e-12)
		})
	}
}

func TestHypervolume_MonotoneInFrontSize(t *testing.T) {
	ref := []float64{0, 0}
	small := Hypervolume([][]float64{{3, 1}}, ref)
	large := Hypervolume([][]float64{{3, 1}, {1, 3}}, ref)
	assert.Greater(t, large, small)
}
