// Package random implements an agent that selects actions uniformly
// at random from a continuous action space
package random

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"sfneuman.com/govss/agent"
	"sfneuman.com/govss/environment"
	"sfneuman.com/govss/timestep"
)

// Uniform selects actions uniformly at random within the bounds of a
// continuous action spec. It learns nothing: the Learner methods are
// no-ops so that the agent can drive an experiment as a baseline.
type Uniform struct {
	dims int
	dist *distmv.Uniform
}

// New returns a new Uniform agent acting within the bounds of the
// given action spec
func New(actionSpec environment.Spec, seed uint64) agent.Agent {
	dims := actionSpec.Shape.Len()
	bounds := make([]r1.Interval, dims)
	for i := range bounds {
		bounds[i] = r1.Interval{
			Min: actionSpec.LowerBound.AtVec(i),
			Max: actionSpec.UpperBound.AtVec(i),
		}
	}

	src := rand.NewSource(seed)
	return &Uniform{dims: dims, dist: distmv.NewUniform(bounds, src)}
}

// SelectAction returns an action drawn uniformly from the action
// bounds, ignoring the timestep
func (u *Uniform) SelectAction(timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(u.dims, u.dist.Rand(nil))
}

// Step performs a single update to the learner. Uniform has no weights
// to update.
func (u *Uniform) Step() error { return nil }

// Observe records that an action lead to some timestep
func (u *Uniform) Observe(_ mat.Vector, _ timestep.TimeStep) error {
	return nil
}

// ObserveFirst records the first timestep in an episode
func (u *Uniform) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode performs cleanup at the end of an episode
func (u *Uniform) EndEpisode() {}
