package vss

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"sfneuman.com/govss/environment"
	"sfneuman.com/govss/timestep"
	"sfneuman.com/govss/utils/ounoise"
)

// Environment defaults
const (
	// TimeStep is the control interval in seconds between consecutive
	// frames
	TimeStep float64 = 0.025

	// EpisodeSteps is the default episode cutoff: 30 seconds of match
	// time
	EpisodeSteps int = 1200

	ActionDims int = 2

	MaxAction float64 = 1.0
	MinAction float64 = -MaxAction
)

// Env controls a single robot (blue, id 0) in a VSS match. All other
// robots are driven by independent Ornstein-Uhlenbeck noise sources.
// The physical simulation is delegated to an Engine; Env owns only
// the per-episode state: the current and previous frames, the last
// sent commands, the noise sources, and the reward accumulator of its
// Match task.
//
// Env implements environment.Environment. It is not safe for
// concurrent use; parallel training should use one Env per worker.
type Env struct {
	*Match

	field   Field
	engine  Engine
	placer  *Placer
	nBlue   int
	nYellow int

	ouActions []*ounoise.OUNoise

	discount  float64
	prevFrame *Frame
	frame     Frame
	sent      []Command
	lastStep  timestep.TimeStep
}

// New returns a new Env backed by the given engine, along with the
// first timestep of its first episode. The stratified flag selects
// the reward exposure mode of the underlying Match and cannot change
// afterwards. New fails only when no legal starting placement exists
// for the requested robot counts.
func New(engine Engine, field Field, stratified bool, nBlue, nYellow int,
	episodeSteps int, discount float64, seed uint64) (*Env,
	timestep.TimeStep, error) {
	env := &Env{
		Match:    NewMatch(field, stratified, episodeSteps),
		field:    field,
		engine:   engine,
		placer:   NewPlacer(field, nBlue, nYellow, seed),
		nBlue:    nBlue,
		nYellow:  nYellow,
		discount: discount,
	}

	// One noise source per non-learning robot. Blue robot 0 is the
	// learning agent and gets no source; index i-1 below accounts for
	// that.
	bounds := r1.Interval{Min: MinAction, Max: MaxAction}
	for i := 1; i < nBlue+nYellow; i++ {
		env.ouActions = append(env.ouActions,
			ounoise.New(ActionDims, bounds, TimeStep, seed+uint64(i)))
	}

	step, err := env.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}
	return env, step, nil
}

// Reset starts a new episode: the reward accumulator, cached frames
// and commands are cleared, every noise source is reset, and a fresh
// collision-free placement is sampled and pushed to the engine. Reset
// returns the first timestep of the new episode.
func (e *Env) Reset() (timestep.TimeStep, error) {
	e.Match.Reset()
	e.sent = nil
	e.prevFrame = nil
	for _, ou := range e.ouActions {
		ou.Reset()
	}

	frame, err := e.placer.Start()
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	e.engine.Reset(frame)
	e.frame = frame

	obs := Observation(e.field, e.frame)
	e.lastStep = timestep.New(timestep.First, 0, e.discount, obs, 0)
	return e.lastStep, nil
}

// Step advances the match by one control interval under the agent's
// action. The action is the agent robot's normalized wheel command
// pair; every other robot is commanded from its noise source. Step
// returns the next timestep and whether it ends the episode.
//
// Step panics when called on a finished episode or with an action
// that is not 2-dimensional. Engine errors are returned unmodified
// and are fatal to the episode.
func (e *Env) Step(action *mat.VecDense) (timestep.TimeStep, bool, error) {
	if e.lastStep.Last() {
		panic("step: cannot step the environment on a finished episode, " +
			"call Reset first")
	}

	e.sent = e.commands(action)

	frame, err := e.engine.Step(e.sent)
	if err != nil {
		return timestep.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	// The previous frame for reward deltas is the frame the last Step
	// produced; right after Reset there is none, and the move and
	// gradient components must be zero for that step.
	prev := e.prevFrame
	e.frame = frame

	rewards := e.Match.GetReward(prev, e.frame, e.sent)
	cached := frame.Clone()
	e.prevFrame = &cached
	nextStep := timestep.TimeStep{
		StepType:         timestep.Mid,
		Reward:           e.Match.Scalar(rewards),
		RewardComponents: rewards,
		Discount:         e.discount,
		Observation:      Observation(e.field, e.frame),
		Number:           e.lastStep.Number + 1,
		Info:             e.Match.Info(rewards),
	}
	e.Match.End(&nextStep)

	e.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// commands builds the command batch for a step: the agent's action
// through the actuator mapping for blue robot 0, then a noise sample
// through the same mapping for every other robot.
func (e *Env) commands(action *mat.VecDense) []Command {
	cmds := make([]Command, 0, e.nBlue+e.nYellow)

	left, right := ActionToWheels(action, e.field.MaxV(), e.field.WheelRadius)
	cmds = append(cmds, Command{ID: 0, WheelLeft: left, WheelRight: right})

	for i := 1; i < e.nBlue; i++ {
		sample := e.ouActions[i-1].Sample()
		left, right := ActionToWheels(sample, e.field.MaxV(),
			e.field.WheelRadius)
		cmds = append(cmds, Command{ID: i, WheelLeft: left,
			WheelRight: right})
	}
	for i := 0; i < e.nYellow; i++ {
		sample := e.ouActions[e.nBlue-1+i].Sample()
		left, right := ActionToWheels(sample, e.field.MaxV(),
			e.field.WheelRadius)
		cmds = append(cmds, Command{ID: i, Yellow: true, WheelLeft: left,
			WheelRight: right})
	}

	return cmds
}

// LastTimeStep returns the last timestep of the environment
func (e *Env) LastTimeStep() timestep.TimeStep {
	return e.lastStep
}

// CurrentFrame returns a copy of the environment's current physical
// frame
func (e *Env) CurrentFrame() Frame {
	return e.frame.Clone()
}

// ObservationSpec returns the observation specification of the
// environment
func (e *Env) ObservationSpec() environment.Spec {
	dims := ObservationLen(e.nBlue, e.nYellow)
	shape := mat.NewVecDense(dims, nil)

	bounds := make([]float64, dims)
	for i := range bounds {
		bounds[i] = NormBounds
	}
	upperBound := mat.NewVecDense(dims, bounds)
	lowerBound := mat.NewVecDense(dims, nil)
	lowerBound.ScaleVec(-1, upperBound)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinAction,
		MinAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxAction,
		MaxAction})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (e *Env) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{e.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}
