package classify

import "math"

// scaler standardizes feature vectors to zero mean and unit variance per
// dimension, using statistics from the training matrix.
type scaler struct {
	mean []float64
	std  []float64
}

// fitScaler computes per-dimension mean and population standard deviation.
// Dimensions with zero variance scale by 1 so they pass through centred.
func fitScaler(rows [][]float64) *scaler {
	n := len(rows)
	dim := len(rows[0])

	mean := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	std := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(n))
		if std[j] == 0 {
			std[j] = 1
		}
	}

	return &scaler{mean: mean, std: std}
}

func (s *scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

func (s *scaler) transformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.transform(row)
	}
	return out
}
