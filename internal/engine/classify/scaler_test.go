package classify

import (
	"math"
	"testing"
)

func TestScalerStandardizes(t *testing.T) {
	rows := [][]float64{
		{1, 100},
		{3, 100},
	}

	s := fitScaler(rows)
	scaled := s.transformAll(rows)

	// First dimension: mean 2, std 1.
	if math.Abs(scaled[0][0]+1) > 1e-9 || math.Abs(scaled[1][0]-1) > 1e-9 {
		t.Errorf("first dim = %f, %f, want -1, 1", scaled[0][0], scaled[1][0])
	}
	// Zero-variance dimension passes through centred.
	if scaled[0][1] != 0 || scaled[1][1] != 0 {
		t.Errorf("constant dim = %f, %f, want 0, 0", scaled[0][1], scaled[1][1])
	}
}

func TestPCAProjectsToDominantDirection(t *testing.T) {
	// Points spread along the x axis with tiny y noise; one component should
	// capture nearly all variance.
	rows := [][]float64{
		{-4, 0.01}, {-2, -0.02}, {0, 0.01}, {2, -0.01}, {4, 0.02},
	}

	p, err := fitPCA(rows, 1)
	if err != nil {
		t.Fatalf("fitPCA failed: %v", err)
	}

	projected := p.transformAll(rows)
	for i, row := range projected {
		if len(row) != 1 {
			t.Fatalf("projected[%d] has dim %d, want 1", i, len(row))
		}
	}
	// Projections of the extreme points should sit far apart.
	spread := math.Abs(projected[0][0] - projected[4][0])
	if spread < 7 {
		t.Errorf("spread = %f, want close to 8", spread)
	}
}

func TestPCARejectsTooManyComponents(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}}
	if _, err := fitPCA(rows, 3); err == nil {
		t.Fatal("expected error for k > dim")
	}
}
