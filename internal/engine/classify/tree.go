package classify

import "sort"

// treeNode is one node of a binary CART decision tree. Leaf nodes carry a
// class label; internal nodes route on feature <= threshold.
type treeNode struct {
	leaf      bool
	label     int
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// fitTree grows an unpruned decision tree minimizing Gini impurity. Splits
// are chosen deterministically: among equal-impurity candidates the lowest
// feature index and then the lowest threshold wins. Leaf label ties resolve
// to the smallest label index.
func fitTree(rows [][]float64, labels []int, numClasses int) *treeNode {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return growNode(rows, labels, idx, numClasses)
}

func growNode(rows [][]float64, labels []int, idx []int, numClasses int) *treeNode {
	counts := classCounts(labels, idx, numClasses)
	if isPure(counts) {
		return &treeNode{leaf: true, label: majority(counts)}
	}

	feature, threshold, ok := bestSplit(rows, labels, idx, numClasses)
	if !ok {
		return &treeNode{leaf: true, label: majority(counts)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if rows[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growNode(rows, labels, leftIdx, numClasses),
		right:     growNode(rows, labels, rightIdx, numClasses),
	}
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, returning the split with the lowest weighted Gini impurity. ok is
// false when no split separates the samples.
func bestSplit(rows [][]float64, labels []int, idx []int, numClasses int) (feature int, threshold float64, ok bool) {
	dim := len(rows[idx[0]])
	bestImpurity := 2.0 // above any possible weighted Gini

	values := make([]float64, 0, len(idx))
	for f := 0; f < dim; f++ {
		values = values[:0]
		for _, i := range idx {
			values = append(values, rows[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			t := (values[v] + values[v-1]) / 2

			leftCounts := make([]int, numClasses)
			rightCounts := make([]int, numClasses)
			nLeft, nRight := 0, 0
			for _, i := range idx {
				if rows[i][f] <= t {
					leftCounts[labels[i]]++
					nLeft++
				} else {
					rightCounts[labels[i]]++
					nRight++
				}
			}
			if nLeft == 0 || nRight == 0 {
				continue
			}

			total := float64(nLeft + nRight)
			impurity := float64(nLeft)/total*gini(leftCounts, nLeft) +
				float64(nRight)/total*gini(rightCounts, nRight)

			if impurity < bestImpurity {
				bestImpurity = impurity
				feature = f
				threshold = t
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func gini(counts []int, total int) float64 {
	imp := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		imp -= p * p
	}
	return imp
}

func classCounts(labels []int, idx []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[labels[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// majority returns the most frequent class; ties go to the smaller index.
func majority(counts []int) int {
	best, bestCount := 0, counts[0]
	for i, c := range counts[1:] {
		if c > bestCount {
			best = i + 1
			bestCount = c
		}
	}
	return best
}

// predict routes a feature vector to a leaf and returns its label.
func (n *treeNode) predict(row []float64) int {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.label
}
