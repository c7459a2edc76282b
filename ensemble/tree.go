package ensemble

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// regNode is one node of a regression tree.
type regNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *regNode
	right     *regNode

	value float64 // leaf prediction (mean of node targets)
	n     int
}

// regTree is a single extremely randomized regression tree: at every node
// each candidate feature gets exactly one threshold, drawn uniformly
// between the feature's min and max over the node's rows, and the best of
// those random cuts by variance reduction wins.
type regTree struct {
	root        *regNode
	importances []float64 // per-feature SSE decrease, normalized to sum 1
}

type treeParams struct {
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means all features at every split
	maxDepth        int // 0 means unlimited
}

func buildTree(X *mat.Dense, y []float64, params treeParams, rng *rand.Rand) *regTree {
	_, p := X.Dims()
	t := &regTree{importances: make([]float64, p)}

	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.buildNode(X, y, idx, 0, params, rng)
	normalize(t.importances)
	return t
}

func (t *regTree) buildNode(X *mat.Dense, y []float64, idx []int, depth int, params treeParams, rng *rand.Rand) *regNode {
	node := &regNode{n: len(idx)}

	sum, sse := sumAndSSE(y, idx)
	node.value = sum / float64(len(idx))

	if len(idx) < params.minSamplesSplit || sse == 0 {
		node.isLeaf = true
		return node
	}
	if params.maxDepth > 0 && depth >= params.maxDepth {
		node.isLeaf = true
		return node
	}

	_, p := X.Dims()
	features := candidateFeatures(p, params.maxFeatures, rng)

	bestFeature := -1
	bestThreshold := 0.0
	bestChildSSE := math.Inf(1)
	var bestLeft, bestRight []int

	for _, f := range features {
		lo, hi := featureRange(X, idx, f)
		if !(hi > lo) {
			continue // constant feature in this node
		}
		thr := lo + rng.Float64()*(hi-lo)

		left := make([]int, 0, len(idx))
		right := make([]int, 0, len(idx))
		for _, i := range idx {
			if X.At(i, f) <= thr {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
		}
		if len(left) < params.minSamplesLeaf || len(right) < params.minSamplesLeaf {
			continue
		}

		_, leftSSE := sumAndSSE(y, left)
		_, rightSSE := sumAndSSE(y, right)
		if childSSE := leftSSE + rightSSE; childSSE < bestChildSSE {
			bestChildSSE = childSSE
			bestFeature = f
			bestThreshold = thr
			bestLeft = left
			bestRight = right
		}
	}

	if bestFeature == -1 || bestChildSSE >= sse {
		node.isLeaf = true
		return node
	}

	t.importances[bestFeature] += sse - bestChildSSE

	node.feature = bestFeature
	node.threshold = bestThreshold
	node.left = t.buildNode(X, y, bestLeft, depth+1, params, rng)
	node.right = t.buildNode(X, y, bestRight, depth+1, params, rng)
	return node
}

func (t *regTree) predict(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// candidateFeatures returns all features when maxFeatures is 0 or covers
// them all, otherwise a random subset of that size.
func candidateFeatures(p, maxFeatures int, rng *rand.Rand) []int {
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if maxFeatures <= 0 || maxFeatures >= p {
		return features
	}
	rng.Shuffle(p, func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:maxFeatures]
}

func featureRange(X *mat.Dense, idx []int, f int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := X.At(i, f)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// sumAndSSE returns the target sum and the sum of squared deviations from
// the mean over the given rows.
func sumAndSSE(y []float64, idx []int) (sum, sse float64) {
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sum, sse
}

func normalize(v []float64) {
	var total float64
	for _, x := range v {
		total += x
	}
	if total == 0 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}
