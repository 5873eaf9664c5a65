// Package artifact loads a trained demand model from its serialized artifact
// and evaluates it against derived feature vectors.
//
// Artifacts are JSON documents. Two model kinds are supported:
//
//	tree_ensemble  base_score + the sum of one leaf value per tree
//	linear         intercept + coefficients · features
//
// Every artifact lists the feature columns it was trained on. The list must
// equal domain.FeatureNames exactly, in order, or the artifact is rejected.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
)

// Model kinds.
const (
	KindTreeEnsemble = "tree_ensemble"
	KindLinear       = "linear"
)

var (
	// ErrArtifactMissing is returned when no file exists at the artifact path.
	ErrArtifactMissing = errors.New("model artifact not found")

	// ErrFeatureMismatch is returned when the artifact's feature columns differ
	// from the ones the deriver produces.
	ErrFeatureMismatch = errors.New("artifact features do not match feature vector")

	// ErrInvalidArtifact is returned for a structurally broken artifact.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Artifact is the serialized form of a trained model.
type Artifact struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Features []string `json:"features"`

	// Tree ensemble.
	BaseScore float64 `json:"base_score,omitempty"`
	Trees     []Tree  `json:"trees,omitempty"`

	// Linear.
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
}

// Tree is a binary regression tree stored as a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either a split (Leaf == nil) or a leaf. A split sends a feature
// value <= Threshold to Left and everything else to Right.
type Node struct {
	Feature   int      `json:"feature,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Left      int      `json:"left,omitempty"`
	Right     int      `json:"right,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// Load reads and validates the artifact at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a serialized artifact.
func Parse(data []byte) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &Model{artifact: a}, nil
}

// Validate checks the feature contract and the model structure.
func (a Artifact) Validate() error {
	if !slices.Equal(a.Features, domain.FeatureNames) {
		return fmt.Errorf("%w: got %v, want %v", ErrFeatureMismatch, a.Features, domain.FeatureNames)
	}

	switch a.Kind {
	case KindTreeEnsemble:
		if len(a.Trees) == 0 {
			return fmt.Errorf("%w: tree ensemble has no trees", ErrInvalidArtifact)
		}
		for i, tree := range a.Trees {
			if err := tree.validate(len(a.Features)); err != nil {
				return fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
			}
		}
	case KindLinear:
		if len(a.Coefficients) != len(a.Features) {
			return fmt.Errorf("%w: %d coefficients for %d features",
				ErrInvalidArtifact, len(a.Coefficients), len(a.Features))
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
	return nil
}

// validate requires children to point forward in the node list, which rules
// out cycles and guarantees every walk ends at a leaf.
func (t Tree) validate(numFeatures int) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf != nil {
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return nil
}
