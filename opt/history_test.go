package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(key string, features, objectives []float64) Observation {
	return Observation{
		Candidate:  Candidate{Key: key, Features: features},
		Objectives: objectives,
	}
}

func TestHistory_AppendBatchGrowsByWholeBatches(t *testing.T) {
	h := NewHistory(2, 2)

	require.NoError(t, h.AppendBatch([]Observation{
		obs("a", []float64{1, 2}, []float64{10, 0.5}),
		obs("b", []float64{3, 4}, []float64{20, 0.6}),
	}))
	assert.Equal(t, 2, h.Len())

	require.NoError(t, h.AppendBatch([]Observation{
		obs("c", []float64{5, 6}, []float64{30, 0.7}),
		obs("a", []float64{1, 2}, []float64{11, 0.4}),
	}))
	assert.Equal(t, 4, h.Len())
}

func TestHistory_AppendBatchIsAtomic(t *testing.T) {
	h := NewHistory(2, 2)
	require.NoError(t, h.AppendBatch([]Observation{
		obs("a", []float64{1, 2}, []float64{10, 0.5}),
	}))

	// Second entry is malformed; the whole batch must be rejected.
	err := h.AppendBatch([]Observation{
		obs("b", []float64{3, 4}, []float64{20, 0.6}),
		obs("c", []float64{5}, []float64{30, 0.7}),
	})
	assert.Error(t, err)
	assert.Equal(t, 1, h.Len())

	err = h.AppendBatch([]Observation{
		obs("b", []float64{3, 4}, []float64{20}),
	})
	assert.Error(t, err)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_MatrixViews(t *testing.T) {
	h := NewHistory(2, 2)
	require.NoError(t, h.AppendBatch([]Observation{
		obs("a", []float64{1, 2}, []float64{10, 0.5}),
		obs("b", []float64{3, 4}, []float64{20, 0.6}),
		obs("c", []float64{5, 6}, []float64{30, 0.7}),
	}))

	x := h.X()
	rows, cols := x.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 3.0, x.At(1, 0))

	y := h.Y()
	rows, cols = y.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 0.7, y.At(2, 1))

	assert.Equal(t, []float64{10, 20, 30}, h.YColumn(0))
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, h.YColumn(1))
}

func TestHistory_EmptyViews(t *testing.T) {
	h := NewHistory(2, 2)
	assert.Nil(t, h.X())
	assert.Nil(t, h.Y())
	assert.Empty(t, h.Observations())
}
