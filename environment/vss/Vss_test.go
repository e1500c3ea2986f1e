package vss_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
	"sfneuman.com/govss/environment/vss"
	"sfneuman.com/govss/timestep"
)

// scriptEngine is an Engine stub that replays a fixed sequence of
// frames, so that reward and termination logic can be tested against
// exact physical states. When the script is exhausted the last frame
// repeats.
type scriptEngine struct {
	frames   []vss.Frame
	i        int
	initial  vss.Frame
	lastSent []vss.Command
	err      error
}

func (s *scriptEngine) Reset(initial vss.Frame) {
	s.initial = initial
	s.i = 0
}

func (s *scriptEngine) Step(commands []vss.Command) (vss.Frame, error) {
	if s.err != nil {
		return vss.Frame{}, s.err
	}
	s.lastSent = commands

	if len(s.frames) == 0 {
		return s.initial, nil
	}
	frame := s.frames[s.i]
	if s.i < len(s.frames)-1 {
		s.i++
	}
	return frame, nil
}

// staticFrame returns a motionless 3v3 frame with the ball at centre
func staticFrame() vss.Frame {
	frame := vss.Frame{}
	for i := 0; i < 3; i++ {
		frame.RobotsBlue = append(frame.RobotsBlue,
			vss.Robot{ID: i, X: -0.3, Y: 0.2 * float64(i-1)})
		frame.RobotsYellow = append(frame.RobotsYellow,
			vss.Robot{ID: i, Yellow: true, X: 0.3, Y: 0.2 * float64(i-1)})
	}
	return frame
}

func newTestEnv(t *testing.T, engine vss.Engine, stratified bool,
	episodeSteps int) (*vss.Env, timestep.TimeStep) {
	t.Helper()
	env, first, err := vss.New(engine, vss.Field1(), stratified, 3, 3,
		episodeSteps, 0.99, 1223)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return env, first
}

func zeroAction() *mat.VecDense {
	return mat.NewVecDense(2, nil)
}

func TestEnvFirstStep(t *testing.T) {
	env, first := newTestEnv(t, &scriptEngine{}, true, 10)

	if !first.First() {
		t.Error("the first timestep should have type First")
	}
	if first.Number != 0 {
		t.Errorf("the first timestep should be step 0, got %v", first.Number)
	}
	if first.Observation.Len() != vss.ObservationLen(3, 3) {
		t.Errorf("expected a %v-dimensional observation, got %v",
			vss.ObservationLen(3, 3), first.Observation.Len())
	}
	if env.Stratified() != true {
		t.Error("expected a stratified environment")
	}
}

// Stepping a static scene with a zero action must accumulate exactly
// nothing: zero commands mean zero energy penalty, a motionless robot
// earns no move reward, a motionless ball no gradient, and no goal
// occurs
func TestEnvZeroActionStaticScene(t *testing.T) {
	// An empty script replays the placement frame: the world never
	// moves
	engine := &scriptEngine{}
	env, _ := newTestEnv(t, engine, true, 20)

	if _, err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	for i := 1; i <= 20; i++ {
		step, done, err := env.Step(zeroAction())
		if err != nil {
			t.Fatalf("step %v: %v", i, err)
		}

		for j := 0; j < vss.NumRewards; j++ {
			if got := step.RewardComponents.AtVec(j); got != 0 {
				t.Errorf("step %v component %v: expected 0, got %v", i, j,
					got)
			}
		}
		if step.Info[vss.InfoEnergy] != 0 {
			t.Errorf("step %v: energy total should stay 0, got %v", i,
				step.Info[vss.InfoEnergy])
		}

		if done != (i == 20) {
			t.Errorf("step %v: done should be %v", i, i == 20)
		}
	}
}

// The first step after a reset has no previous frame, so the move and
// gradient components must be exactly zero even when the entry frame
// already shows a moving robot and a displaced ball. From the second
// step on the deltas are paid.
func TestEnvFirstStepDeltaComponentsZero(t *testing.T) {
	moving := staticFrame()
	moving.Ball.X = 0.4
	moving.RobotsBlue[0].VX = 0.5

	moved := staticFrame()
	moved.Ball.X = 0.45
	moved.RobotsBlue[0].VX = 0.5

	engine := &scriptEngine{frames: []vss.Frame{moving, moved}}
	env, _ := newTestEnv(t, engine, true, 100)

	step, _, err := env.Step(zeroAction())
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if got := step.RewardComponents.AtVec(vss.RewardMove); got != 0 {
		t.Errorf("step 1: expected move component 0, got %v", got)
	}
	if got := step.RewardComponents.AtVec(vss.RewardBallGrad); got != 0 {
		t.Errorf("step 1: expected gradient component 0, got %v", got)
	}

	step, _, err = env.Step(zeroAction())
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if got := step.RewardComponents.AtVec(vss.RewardMove); got == 0 {
		t.Error("step 2: expected a non-zero move component")
	}
	if got := step.RewardComponents.AtVec(vss.RewardBallGrad); got == 0 {
		t.Error("step 2: expected a non-zero gradient component")
	}

	// Reset discards the cached frame: the property holds again on the
	// next episode's first step
	if _, err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	step, _, err = env.Step(zeroAction())
	if err != nil {
		t.Fatalf("step after reset: %v", err)
	}
	if got := step.RewardComponents.AtVec(vss.RewardMove); got != 0 {
		t.Errorf("step after reset: expected move component 0, got %v", got)
	}
	if got := step.RewardComponents.AtVec(vss.RewardBallGrad); got != 0 {
		t.Errorf("step after reset: expected gradient component 0, got %v",
			got)
	}
}

func TestEnvGoalEndsEpisode(t *testing.T) {
	field := vss.Field1()
	goalFrame := staticFrame()
	goalFrame.Ball.X = field.Length/2 + 0.02

	engine := &scriptEngine{frames: []vss.Frame{goalFrame}}
	env, _ := newTestEnv(t, engine, true, 100)

	step, done, err := env.Step(zeroAction())
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	if !done || !step.Last() {
		t.Error("a goal should end the episode")
	}
	if got := step.RewardComponents.AtVec(vss.RewardGoal); got != 1 {
		t.Errorf("expected goal component 1, got %v", got)
	}
	if step.Info[vss.InfoGoalBlue] != 1 || step.Info[vss.InfoGoalYellow] != 0 {
		t.Errorf("expected goal indicators (1, 0), got (%v, %v)",
			step.Info[vss.InfoGoalBlue], step.Info[vss.InfoGoalYellow])
	}
}

func TestEnvStepAfterDonePanics(t *testing.T) {
	goalFrame := staticFrame()
	goalFrame.Ball.X = vss.Field1().Length/2 + 0.02

	engine := &scriptEngine{frames: []vss.Frame{goalFrame}}
	env, _ := newTestEnv(t, engine, true, 100)

	if _, done, err := env.Step(zeroAction()); err != nil || !done {
		t.Fatalf("expected the first step to end the episode")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic when stepping a finished episode")
		}
	}()
	env.Step(zeroAction())
}

func TestEnvResetAfterDone(t *testing.T) {
	goalFrame := staticFrame()
	goalFrame.Ball.X = vss.Field1().Length/2 + 0.02

	engine := &scriptEngine{frames: []vss.Frame{goalFrame}}
	env, _ := newTestEnv(t, engine, true, 100)

	if _, _, err := env.Step(zeroAction()); err != nil {
		t.Fatalf("step: %v", err)
	}

	first, err := env.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !first.First() || first.Number != 0 {
		t.Error("reset should return a fresh first timestep")
	}

	// The engine replays the goal frame, so the new episode's totals
	// must restart from zero before the goal lands again
	step, _, err := env.Step(zeroAction())
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := step.Info[vss.InfoGoal]; got != 1 {
		t.Errorf("expected goal total 1 in the fresh episode, got %v", got)
	}
}

func TestEnvScalarRewardMatchesComponents(t *testing.T) {
	moved := staticFrame()
	moved.Ball.X = 0.2
	moved.RobotsBlue[0].VX = 0.5

	for _, stratified := range []bool{true, false} {
		engine := &scriptEngine{frames: []vss.Frame{moved}}
		env, _ := newTestEnv(t, engine, stratified, 100)

		step, _, err := env.Step(zeroAction())
		if err != nil {
			t.Fatalf("step: %v", err)
		}

		// The scalar reward must be reproducible from the same step's
		// component vector
		if want := env.Scalar(step.RewardComponents); step.Reward != want {
			t.Errorf("stratified %v: expected scalar reward %v, got %v",
				stratified, want, step.Reward)
		}
	}
}

func TestEnvCommandBatch(t *testing.T) {
	engine := &scriptEngine{frames: []vss.Frame{staticFrame()}}
	env, _ := newTestEnv(t, engine, true, 100)

	if _, _, err := env.Step(zeroAction()); err != nil {
		t.Fatalf("step: %v", err)
	}

	if len(engine.lastSent) != 6 {
		t.Fatalf("expected 6 commands, got %v", len(engine.lastSent))
	}

	// The agent's zero action lies inside the dead-zone: robot 0 gets
	// exactly zero wheel speeds
	agent := engine.lastSent[0]
	if agent.ID != 0 || agent.Yellow {
		t.Errorf("the first command should address blue robot 0, got "+
			"id %v (yellow: %v)", agent.ID, agent.Yellow)
	}
	if agent.WheelLeft != 0 || agent.WheelRight != 0 {
		t.Errorf("expected zero wheel speeds, got (%v, %v)",
			agent.WheelLeft, agent.WheelRight)
	}

	// Blue robots by id, then yellow robots by id
	for i, cmd := range engine.lastSent {
		wantYellow := i >= 3
		wantID := i % 3
		if cmd.ID != wantID || cmd.Yellow != wantYellow {
			t.Errorf("command %v addresses id %v (yellow: %v)", i, cmd.ID,
				cmd.Yellow)
		}
	}
}

func TestEnvEngineErrorPropagates(t *testing.T) {
	engineErr := errors.New("physics state corrupted")
	engine := &scriptEngine{err: engineErr}

	// The constructor's Reset never steps the engine, so construction
	// succeeds
	env, _ := newTestEnv(t, engine, true, 100)

	if _, _, err := env.Step(zeroAction()); !errors.Is(err, engineErr) {
		t.Errorf("expected the engine error to propagate, got %v", err)
	}
}

func TestEnvSpecs(t *testing.T) {
	env, _ := newTestEnv(t, &scriptEngine{}, true, 100)

	actionSpec := env.ActionSpec()
	if actionSpec.Shape.Len() != 2 {
		t.Errorf("expected 2 action dimensions, got %v",
			actionSpec.Shape.Len())
	}
	if actionSpec.LowerBound.AtVec(0) != -1 ||
		actionSpec.UpperBound.AtVec(0) != 1 {
		t.Error("actions should be bounded by [-1, 1]")
	}

	obsSpec := env.ObservationSpec()
	if obsSpec.Shape.Len() != 40 {
		t.Errorf("expected 40 observation dimensions, got %v",
			obsSpec.Shape.Len())
	}
	for i := 0; i < obsSpec.Shape.Len(); i++ {
		if obsSpec.LowerBound.AtVec(i) != -vss.NormBounds ||
			obsSpec.UpperBound.AtVec(i) != vss.NormBounds {
			t.Fatalf("observations should be bounded by ±%v",
				vss.NormBounds)
		}
	}

	rewardSpec := env.RewardSpec()
	if rewardSpec.Shape.Len() != vss.NumRewards {
		t.Errorf("expected %v reward components, got %v", vss.NumRewards,
			rewardSpec.Shape.Len())
	}
}
