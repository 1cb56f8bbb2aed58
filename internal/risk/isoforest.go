package risk

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Isolation forest parameters. The seed is fixed so that fitting the same
// observations always yields the same outlier decisions.
const (
	isoForestTrees = 100
	isoForestSeed  = 42
)

// IsolationForest flags observations whose anomaly score exceeds the
// contamination quantile of the fitted reference sample.
//
// Known limitation carried over from the platform's original behavior
// analysis: callers fit the forest on a single aggregate observation per
// request, so the reference distribution collapses to that one point and the
// outlier test is vacuous (the point always scores exactly at the threshold
// and is labeled an inlier). This is intentional until the product decides
// to maintain a persisted population baseline.
type IsolationForest struct {
	contamination float64
	trees         []*isoNode
	threshold     float64
	sampleSize    int
}

type isoNode struct {
	splitDim   int
	splitValue float64
	left       *isoNode
	right      *isoNode
	size       int
}

// NewIsolationForest creates a forest expecting the given outlier proportion
func NewIsolationForest(contamination float64) *IsolationForest {
	return &IsolationForest{contamination: contamination}
}

// Fit builds the forest from the reference observations and derives the
// outlier threshold from the contamination quantile of their scores.
func (f *IsolationForest) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("cannot fit isolation forest on empty sample set")
	}
	dims := len(samples[0])
	for _, s := range samples {
		if len(s) != dims {
			return fmt.Errorf("inconsistent feature dimensions: got %d, want %d", len(s), dims)
		}
	}

	rng := rand.New(rand.NewSource(isoForestSeed))
	f.sampleSize = len(samples)
	maxDepth := int(math.Ceil(math.Log2(float64(len(samples)) + 1)))

	f.trees = make([]*isoNode, isoForestTrees)
	for i := range f.trees {
		f.trees[i] = buildIsoTree(samples, 0, maxDepth, rng)
	}

	// Threshold at the (1 - contamination) quantile of reference scores.
	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = f.Score(s)
	}
	sort.Float64s(scores)
	idx := int(math.Ceil(float64(len(scores))*(1-f.contamination))) - 1
	if idx < 0 {
		idx = 0
	}
	f.threshold = scores[idx]
	return nil
}

// Score returns the anomaly score of an observation in [0, 1]; higher means
// more isolated.
func (f *IsolationForest) Score(sample []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(tree, sample, 0)
	}
	avgPath := total / float64(len(f.trees))

	norm := avgPathLength(f.sampleSize)
	if norm == 0 {
		return 0.5
	}
	return math.Pow(2, -avgPath/norm)
}

// Predict returns -1 when the observation is an outlier relative to the
// fitted reference sample, 1 otherwise.
func (f *IsolationForest) Predict(sample []float64) int {
	if f.Score(sample) > f.threshold {
		return -1
	}
	return 1
}

func buildIsoTree(samples [][]float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	if len(samples) <= 1 || depth >= maxDepth {
		return &isoNode{size: len(samples)}
	}

	dims := len(samples[0])
	dim := rng.Intn(dims)

	lo, hi := samples[0][dim], samples[0][dim]
	for _, s := range samples[1:] {
		lo = math.Min(lo, s[dim])
		hi = math.Max(hi, s[dim])
	}
	if lo == hi {
		return &isoNode{size: len(samples)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, s := range samples {
		if s[dim] < split {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &isoNode{
		splitDim:   dim,
		splitValue: split,
		left:       buildIsoTree(left, depth+1, maxDepth, rng),
		right:      buildIsoTree(right, depth+1, maxDepth, rng),
		size:       len(samples),
	}
}

func pathLength(node *isoNode, sample []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if sample[node.splitDim] < node.splitValue {
		return pathLength(node.left, sample, depth+1)
	}
	return pathLength(node.right, sample, depth+1)
}

// avgPathLength is the expected path length of an unsuccessful BST search
// over n points, the standard isolation-forest normalization term.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
