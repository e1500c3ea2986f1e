// Package envconfig provides configuration structs for constructing
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "sfneuman.com/govss/environment"
	"sfneuman.com/govss/environment/vss"
	"sfneuman.com/govss/environment/vss/sim"
	ts "sfneuman.com/govss/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration. VSSStrat exposes the
// decomposed reward component vector; VSSOri exposes only its
// fixed-weight scalar sum.
const (
	VSSStrat EnvName = "VSSStrat"
	VSSOri   EnvName = "VSSOri"
)

// Config implements a specific configuration of a specific
// environment. All fields are fixed at construction time; there is no
// runtime reconfiguration.
type Config struct {
	Environment   EnvName
	NRobotsBlue   int
	NRobotsYellow int
	EpisodeCutoff int
	Discount      float64
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, nBlue, nYellow, episodeCutoff int,
	discount float64) Config {
	return Config{
		Environment:   envName,
		NRobotsBlue:   nBlue,
		NRobotsYellow: nYellow,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Default returns the default 3v3 configuration of the named
// environment, with the standard 30-second episode cutoff
func Default(envName EnvName) Config {
	return NewConfig(envName, 3, 3, vss.EpisodeSteps, 0.99)
}

// Create returns the environment described by the Config, backed by
// the Box2D engine, as well as the first timestep of the environment
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	var stratified bool
	switch c.Environment {
	case VSSStrat:
		stratified = true
	case VSSOri:
		stratified = false
	default:
		return nil, ts.TimeStep{}, fmt.Errorf("create: no such "+
			"environment %v", c.Environment)
	}

	field := vss.Field1()
	engine := sim.New(field, c.NRobotsBlue, c.NRobotsYellow, vss.TimeStep)

	return vss.New(engine, field, stratified, c.NRobotsBlue,
		c.NRobotsYellow, c.EpisodeCutoff, c.Discount, seed)
}
