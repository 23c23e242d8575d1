package rules

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrReservedPose is returned when a configured pose reuses a built-in id.
	ErrReservedPose = errors.New("pose id is reserved")
	// ErrDuplicatePose is returned when a configured pose id is already registered.
	ErrDuplicatePose = errors.New("duplicate pose id")
)

// #region registry
// Registry maps pose ids to their rule sets. It is not safe for concurrent writes;
// register everything before handing it to a classifier.
type Registry struct {
	poses map[PoseID]PoseType
}

// NewRegistry returns a registry holding both built-in bicep variants.
func NewRegistry(bicep BicepConfig, basic BasicConfig) *Registry {
	r := &Registry{poses: make(map[PoseID]PoseType)}
	r.Register(NewFrontDoubleBicep(bicep))
	r.Register(NewFrontDoubleBicepBasic(basic))
	return r
}

// Register adds or replaces a pose type.
func (r *Registry) Register(pt PoseType) {
	r.poses[pt.ID] = pt
}

// RegisterSpecs compiles and registers configured pose types. Unlike Register it
// never replaces an existing pose.
func (r *Registry) RegisterSpecs(specs []PoseSpec) error {
	for _, spec := range specs {
		pt, err := CompilePose(spec)
		if err != nil {
			return fmt.Errorf("register pose: %w", err)
		}
		if _, ok := r.poses[pt.ID]; ok {
			return fmt.Errorf("register pose %s: %w", pt.ID, ErrDuplicatePose)
		}
		r.Register(pt)
	}
	return nil
}

// Lookup returns the pose type for id.
func (r *Registry) Lookup(id PoseID) (PoseType, bool) {
	pt, ok := r.poses[id]
	return pt, ok
}

// IDs returns the registered pose ids, sorted.
func (r *Registry) IDs() []PoseID {
	ids := make([]PoseID, 0, len(r.poses))
	for id := range r.poses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// #endregion registry
