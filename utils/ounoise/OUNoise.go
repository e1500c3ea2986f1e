// Package ounoise implements Ornstein-Uhlenbeck action noise for
// driving non-learning actors with temporally correlated exploration
package ounoise

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
	"sfneuman.com/govss/utils/floatutils"
)

// Default process parameters
const (
	Theta float64 = 0.15
	Sigma float64 = 0.2
	Mu    float64 = 0.0
)

// OUNoise implements a discretized Ornstein-Uhlenbeck process over a
// fixed number of action dimensions. Each call to Sample advances the
// process by one time interval and returns the new state clipped to
// the action bounds. Successive samples are correlated in time, which
// makes the process useful as a stand-in policy for robots that are
// not controlled by the learning agent.
//
// An OUNoise is not safe for concurrent use.
type OUNoise struct {
	theta  float64
	sigma  float64
	mu     float64
	dt     float64
	bounds r1.Interval
	state  []float64
	norm   distuv.Normal
}

// New creates a new OUNoise over dims action dimensions, producing
// samples within bounds. The dt argument is the time interval between
// consecutive samples.
func New(dims int, bounds r1.Interval, dt float64, seed uint64) *OUNoise {
	src := rand.NewSource(seed)
	norm := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: src}

	return &OUNoise{
		theta:  Theta,
		sigma:  Sigma,
		mu:     Mu,
		dt:     dt,
		bounds: bounds,
		state:  make([]float64, dims),
		norm:   norm,
	}
}

// Reset clears the correlation state of the process, returning it to
// the process mean. Reset should be called once per episode.
func (o *OUNoise) Reset() {
	for i := range o.state {
		o.state[i] = o.mu
	}
}

// Sample advances the process by one time interval and returns the new
// sample as an action vector within the action bounds
func (o *OUNoise) Sample() *mat.VecDense {
	action := make([]float64, len(o.state))
	for i, x := range o.state {
		x += o.theta*(o.mu-x)*o.dt +
			o.sigma*math.Sqrt(o.dt)*o.norm.Rand()
		o.state[i] = x
		action[i] = floatutils.ClipInterval(x, o.bounds)
	}
	return mat.NewVecDense(len(action), action)
}
