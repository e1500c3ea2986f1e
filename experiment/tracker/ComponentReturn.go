package tracker

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"

	ts "sfneuman.com/govss/timestep"
)

// ComponentReturn tracks and saves per-component episodic returns for
// environments that decompose their rewards. Each tracked episode
// produces one vector of component returns: the sum of the unweighted
// reward component vectors over the episode's timesteps.
//
// Timesteps without reward components (the first step of an episode,
// or steps of an environment that does not decompose rewards) add
// nothing to the accumulated returns.
type ComponentReturn struct {
	components     int
	currentReturn  []float64
	episodeReturns [][]float64
	filename       string
}

// NewComponentReturn creates a new ComponentReturn Tracker for an
// environment with the given number of reward components
func NewComponentReturn(filename string, components int) Tracker {
	return &ComponentReturn{
		components:    components,
		currentReturn: make([]float64, components),
		filename:      filename,
	}
}

// Track accumulates the reward components of a timestep into the
// current episode's component returns, caching the totals when the
// episode ends
func (c *ComponentReturn) Track(step ts.TimeStep) {
	if step.RewardComponents != nil {
		if step.RewardComponents.Len() != c.components {
			panic(fmt.Sprintf("track: expected %v reward components, got %v",
				c.components, step.RewardComponents.Len()))
		}
		for i := 0; i < c.components; i++ {
			c.currentReturn[i] += step.RewardComponents.AtVec(i)
		}
	}

	if step.Last() {
		c.episodeReturns = append(c.episodeReturns, c.currentReturn)
		c.currentReturn = make([]float64, c.components)
	}
}

// Save saves the data tracked by the ComponentReturn Tracker to disk
func (c *ComponentReturn) Save() {
	file, err := os.Create(c.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(c.episodeReturns); err != nil {
		log.Fatalf("could not encode component return data: %v", err)
	}
}

// LoadComponentData loads and returns the data saved by a
// ComponentReturn Tracker: one component-return vector per episode
func LoadComponentData(filename string) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadComponentData: could not open data "+
			"file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data [][]float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadComponentData: could not decode "+
			"data: %v", err)
	}

	return data, nil
}
