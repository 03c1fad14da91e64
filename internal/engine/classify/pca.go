package classify

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// pca projects feature vectors onto their top principal components.
type pca struct {
	mean []float64
	proj *mat.Dense // dim x components
	k    int
}

// fitPCA computes the top k principal components of the training matrix.
// k must not exceed min(rows, dim).
func fitPCA(rows [][]float64, k int) (*pca, error) {
	n := len(rows)
	dim := len(rows[0])
	if k <= 0 || k > n || k > dim {
		return nil, fmt.Errorf("classify: cannot extract %d components from %dx%d matrix", k, n, dim)
	}

	flat := make([]float64, 0, n*dim)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	m := mat.NewDense(n, dim, flat)

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("classify: principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	proj := mat.NewDense(dim, k, nil)
	proj.Copy(vecs.Slice(0, dim, 0, k))

	mean := make([]float64, dim)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	return &pca{mean: mean, proj: proj, k: k}, nil
}

func (p *pca) transform(row []float64) []float64 {
	centred := make([]float64, len(row))
	for j, v := range row {
		centred[j] = v - p.mean[j]
	}

	out := make([]float64, p.k)
	v := mat.NewVecDense(len(centred), centred)
	res := mat.NewVecDense(p.k, out)
	res.MulVec(p.proj.T(), v)
	return out
}

func (p *pca) transformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = p.transform(row)
	}
	return out
}
