package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/mr1hm/go-fire-risk/internal/models"
)

// Params are the boosting hyperparameters.
type Params struct {
	NumLeaves    int     `json:"num_leaves"`
	Rounds       int     `json:"rounds"`
	MinLeaf      int     `json:"min_samples_leaf"`
	LearningRate float64 `json:"learning_rate"`
}

func DefaultParams() Params {
	return Params{NumLeaves: 31, Rounds: 200, MinLeaf: 20, LearningRate: 0.15}
}

// hessian regularizer; keeps leaf values finite on tiny nodes.
const lambda = 1e-6

// treeNode is one node of a regression tree. Leaf values are stored
// already scaled by the learning rate, so prediction is a plain sum.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
	Leaf      bool    `json:"leaf"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

func (t *tree) predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// GradientBoosted is a boosted ensemble of regression trees under logistic
// loss, with Newton leaf values, over min-max normalized features.
type GradientBoosted struct {
	params  Params
	base    float64
	trees   []tree
	featMin []float64
	featMax []float64
}

func NewGradientBoosted(p Params) *GradientBoosted {
	return &GradientBoosted{params: p}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains on the first 80% of samples and logs held-out diagnostics on
// the remaining 20%. The split is positional, so a seed-shuffled input
// yields the same split every run.
func (m *GradientBoosted) Fit(samples []models.RiskSample) error {
	if len(samples) == 0 {
		return errors.New("no training samples")
	}

	split := len(samples) * 4 / 5
	if split == 0 {
		split = len(samples)
	}
	train, holdout := samples[:split], samples[split:]

	m.fitNormalization(train)

	n := len(train)
	x := make([][]float64, n)
	y := make([]float64, n)
	for i, s := range train {
		x[i] = m.normalize(vectorize(s))
		if s.Label {
			y[i] = 1
		}
	}

	// Log-odds prior as the starting score.
	pos := 0.0
	for _, v := range y {
		pos += v
	}
	prior := clampProb(pos / float64(n))
	m.base = math.Log(prior / (1 - prior))
	m.trees = m.trees[:0]

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = m.base
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	for round := 0; round < m.params.Rounds; round++ {
		for i := range scores {
			p := sigmoid(scores[i])
			grad[i] = y[i] - p
			hess[i] = p * (1 - p)
		}

		t := m.growTree(x, grad, hess, indices)
		m.trees = append(m.trees, t)

		for i := range scores {
			scores[i] += t.predict(x[i])
		}
	}

	if len(holdout) > 0 {
		mtr := Evaluate(m, holdout)
		slog.Info("classifier trained",
			"trainSamples", n,
			"holdoutSamples", len(holdout),
			"rounds", m.params.Rounds,
			"accuracy", mtr.Accuracy,
			"auc", mtr.AUC,
			"f1", mtr.F1,
			"precision", mtr.Precision,
			"recall", mtr.Recall,
			"logLoss", mtr.LogLoss,
		)
	} else {
		slog.Info("classifier trained without holdout", "trainSamples", n, "rounds", m.params.Rounds)
	}
	return nil
}

// PredictProbability scores one sample. An untrained model returns the
// neutral 0.5.
func (m *GradientBoosted) PredictProbability(s models.RiskSample) float64 {
	if len(m.trees) == 0 {
		return 0.5
	}
	x := m.normalize(vectorize(s))
	score := m.base
	for i := range m.trees {
		score += m.trees[i].predict(x)
	}
	return sigmoid(score)
}

func (m *GradientBoosted) fitNormalization(samples []models.RiskSample) {
	m.featMin = make([]float64, numFeatures)
	m.featMax = make([]float64, numFeatures)
	for j := 0; j < numFeatures; j++ {
		m.featMin[j] = math.Inf(1)
		m.featMax[j] = math.Inf(-1)
	}
	for _, s := range samples {
		v := vectorize(s)
		for j, f := range v {
			if f < m.featMin[j] {
				m.featMin[j] = f
			}
			if f > m.featMax[j] {
				m.featMax[j] = f
			}
		}
	}
}

func (m *GradientBoosted) normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	for j, f := range v {
		span := m.featMax[j] - m.featMin[j]
		if span == 0 {
			continue
		}
		out[j] = (f - m.featMin[j]) / span
	}
	return out
}

func clampProb(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}

// pending is a leaf node awaiting its best split.
type pending struct {
	node    int
	gain    float64
	feature int
	thr     float64
	left    []int
	right   []int
}

// growTree builds one regression tree best-first: the expandable leaf with
// the highest split gain is split until the leaf budget or the gain runs
// out.
func (m *GradientBoosted) growTree(x [][]float64, grad, hess []float64, indices []int) tree {
	t := tree{Nodes: []treeNode{{Leaf: true, Value: m.leafValue(grad, hess, indices)}}}

	frontier := []pending{m.findSplit(x, grad, hess, indices, 0)}
	leaves := 1

	for leaves < m.params.NumLeaves {
		best := -1
		for i, c := range frontier {
			if c.gain > 0 && (best < 0 || c.gain > frontier[best].gain) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		c := frontier[best]
		frontier = append(frontier[:best], frontier[best+1:]...)

		leftIdx := len(t.Nodes)
		t.Nodes = append(t.Nodes,
			treeNode{Leaf: true, Value: m.leafValue(grad, hess, c.left)},
			treeNode{Leaf: true, Value: m.leafValue(grad, hess, c.right)},
		)
		t.Nodes[c.node] = treeNode{
			Feature:   c.feature,
			Threshold: c.thr,
			Left:      leftIdx,
			Right:     leftIdx + 1,
		}
		leaves++

		frontier = append(frontier,
			m.findSplit(x, grad, hess, c.left, leftIdx),
			m.findSplit(x, grad, hess, c.right, leftIdx+1),
		)
	}
	return t
}

// leafValue is the Newton step for logistic loss, scaled by the learning
// rate at store time.
func (m *GradientBoosted) leafValue(grad, hess []float64, indices []int) float64 {
	var g, h float64
	for _, i := range indices {
		g += grad[i]
		h += hess[i]
	}
	return m.params.LearningRate * g / (h + lambda)
}

// findSplit scans every feature for the gain-maximizing threshold that
// leaves at least MinLeaf samples on each side.
func (m *GradientBoosted) findSplit(x [][]float64, grad, hess []float64, indices []int, node int) pending {
	out := pending{node: node, gain: -1}
	n := len(indices)
	if n < 2*m.params.MinLeaf {
		return out
	}

	var totalG, totalH float64
	for _, i := range indices {
		totalG += grad[i]
		totalH += hess[i]
	}
	parentScore := totalG * totalG / (totalH + lambda)

	sorted := make([]int, n)
	for f := 0; f < numFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var gl, hl float64
		for pos := 0; pos < n-1; pos++ {
			i := sorted[pos]
			gl += grad[i]
			hl += hess[i]

			left := pos + 1
			if left < m.params.MinLeaf || n-left < m.params.MinLeaf {
				continue
			}
			v, next := x[i][f], x[sorted[pos+1]][f]
			if v == next {
				continue
			}

			gr, hr := totalG-gl, totalH-hl
			gain := gl*gl/(hl+lambda) + gr*gr/(hr+lambda) - parentScore
			if gain > out.gain {
				out.gain = gain
				out.feature = f
				out.thr = (v + next) / 2
			}
		}
	}

	if out.gain <= 0 {
		return out
	}
	for _, i := range indices {
		if x[i][out.feature] <= out.thr {
			out.left = append(out.left, i)
		} else {
			out.right = append(out.right, i)
		}
	}
	return out
}

// sanity guard used by Load.
func (m *GradientBoosted) validate() error {
	if len(m.featMin) != numFeatures || len(m.featMax) != numFeatures {
		return fmt.Errorf("artifact feature width %d, want %d", len(m.featMin), numFeatures)
	}
	if len(m.trees) == 0 {
		return errors.New("artifact holds no trees")
	}
	for ti := range m.trees {
		for _, n := range m.trees[ti].Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= numFeatures ||
				n.Left <= 0 || n.Left >= len(m.trees[ti].Nodes) ||
				n.Right <= 0 || n.Right >= len(m.trees[ti].Nodes) {
				return fmt.Errorf("malformed node in tree %d", ti)
			}
		}
	}
	return nil
}
