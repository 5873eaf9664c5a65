package artifact

import (
	"context"
	"slices"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
)

// Model evaluates a validated artifact. It is read-only and safe for concurrent use.
type Model struct {
	artifact Artifact
}

// Name returns the artifact's name.
func (m *Model) Name() string { return m.artifact.Name }

// Kind returns the artifact's model kind.
func (m *Model) Kind() string { return m.artifact.Kind }

// Features returns a copy of the artifact's feature columns.
func (m *Model) Features() []string { return slices.Clone(m.artifact.Features) }

// Predict implements domain.Model.
func (m *Model) Predict(_ context.Context, features domain.FeatureVector) (float64, error) {
	x := features.Values()
	if m.artifact.Kind == KindLinear {
		return m.predictLinear(x), nil
	}
	return m.predictTrees(x), nil
}

func (m *Model) predictLinear(x []float64) float64 {
	sum := m.artifact.Intercept
	for i, c := range m.artifact.Coefficients {
		sum += c * x[i]
	}
	return sum
}

func (m *Model) predictTrees(x []float64) float64 {
	sum := m.artifact.BaseScore
	for _, tree := range m.artifact.Trees {
		sum += tree.leafValue(x)
	}
	return sum
}

func (t Tree) leafValue(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
