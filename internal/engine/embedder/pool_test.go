package embedder

import (
	"math"
	"testing"
)

func TestMeanPoolSingleSequence(t *testing.T) {
	// 1 sequence, 3 positions, dim 2; last position is padding.
	hidden := []float32{
		1, 2,
		3, 4,
		99, 99,
	}
	mask := []int64{1, 1, 0}

	got := meanPool(hidden, mask, 1, 3, 2)

	want := []float32{2, 3} // mean of (1,2) and (3,4)
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("got[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestMeanPoolBatch(t *testing.T) {
	// 2 sequences, 2 positions, dim 2.
	hidden := []float32{
		2, 4,
		6, 8,

		10, 20,
		50, 50, // padding, ignored
	}
	mask := []int64{
		1, 1,
		1, 0,
	}

	got := meanPool(hidden, mask, 2, 2, 2)

	want := []float32{4, 6, 10, 20}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("got[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestMeanPoolAllPadding(t *testing.T) {
	hidden := []float32{5, 5, 5, 5}
	mask := []int64{0, 0}

	got := meanPool(hidden, mask, 1, 2, 2)

	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %f, want 0 for all-padding sequence", i, v)
		}
	}
}
