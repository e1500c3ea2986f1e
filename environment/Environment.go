// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
	"sfneuman.com/govss/timestep"
)

// Ender determines when and how episodes end
type Ender interface {
	// End takes the last TimeStep in an environment, modifying its
	// StepType field to timestep.Last if the episode should end and
	// returning whether the episode ended
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment in which an agent
// takes actions and receives rewards.
//
// Reset and Step return an error when an external collaborator of the
// environment fails (e.g. the physics backend rejects a command batch,
// or a legal starting state cannot be sampled). Such errors are fatal
// to the episode: the environment must be Reset before further use.
// Misuse of the interface itself, such as stepping a finished episode
// or passing an action of the wrong shape, panics.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action, returning the
	// next timestep and whether it is the last in the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the most recent TimeStep of the environment
	LastTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
