package vss

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"sfneuman.com/govss/environment"
	"sfneuman.com/govss/timestep"
)

// Reward component indices. The order is part of the contract:
// external weighting and stratified consumers index by position.
const (
	RewardMove int = iota
	RewardBallGrad
	RewardEnergy
	RewardGoal

	NumRewards
)

// Reward scales
const (
	// MoveScale divides the robot-velocity/ball-direction cosine
	MoveScale float64 = 120

	// GradScale divides the per-step change in ball-goal distance
	GradScale float64 = 0.75

	// EnergyScale divides the summed magnitudes of the sent wheel
	// commands
	EnergyScale float64 = 40000
)

// oriWeights are the fixed weights of the legacy scalar reward, in
// component order [move, ballGrad, energy, goal]
var oriWeights = []float64{0.6600, 0.3200, 0.0053, 0.0080}

// Per-component reward bounds, used for the reward spec
var (
	rewardMin = []float64{0.0, 0.0, -2.0, 0.0}
	rewardMax = []float64{0.5, 1.0, -1.0, 1.0}
)

// Info keys reported on every step
const (
	InfoMove       string = "reward_move"
	InfoBallGrad   string = "reward_ball_grad"
	InfoEnergy     string = "reward_energy"
	InfoGoal       string = "reward_goal"
	InfoOriginal   string = "Original_reward"
	InfoGoalBlue   string = "goal_blue"
	InfoGoalYellow string = "goal_yellow"
)

// Match implements the reward scheme of a VSS match for the learning
// agent, blue robot 0. Each step the reward is decomposed into four
// components:
//
//	move:     cosine between the robot velocity and the robot-to-ball
//	          direction, over MoveScale
//	ballGrad: decrease of the ball's distance to the opponent goal
//	          mouth since the previous frame, over GradScale
//	energy:   negative summed magnitude of the wheel commands last
//	          sent to the robot, over EnergyScale
//	goal:     +1 when the ball crosses the opponent goal line, -1 when
//	          it crosses the team's own, else 0
//
// A non-zero goal component ends the episode and zeroes the other
// three components for that step, so no movement shaping is paid on a
// terminal frame. The move and ballGrad components require a previous
// frame and are zero on the first step after a reset.
//
// Whether the match is stratified is fixed at construction: stratified
// consumers read the raw component vector, legacy consumers the
// weighted scalar. The running totals of the unweighted components and
// of the weighted scalar are accumulated in both modes.
type Match struct {
	field      Field
	stratified bool
	stepLimit  environment.StepLimit
	totals     map[string]float64
}

// NewMatch returns a new Match task on the given field. Episodes end
// after episodeSteps steps when no goal is scored.
func NewMatch(field Field, stratified bool, episodeSteps int) *Match {
	return &Match{
		field:      field,
		stratified: stratified,
		stepLimit:  environment.NewStepLimit(episodeSteps),
	}
}

// Stratified returns whether consumers of the match should read the
// component vector rather than the weighted scalar
func (m *Match) Stratified() bool {
	return m.stratified
}

// Reset clears the episode accumulator. The accumulator is then
// recreated lazily on the first reward computation of the new episode.
func (m *Match) Reset() {
	m.totals = nil
}

// GetReward computes the reward component vector for the transition
// from prev to cur, given the commands sent to the engine for the
// step. The prev frame is nil only on the first step after a reset.
// Running totals are updated from the unweighted components and from
// the weighted scalar.
func (m *Match) GetReward(prev *Frame, cur Frame, sent []Command) *mat.VecDense {
	if m.totals == nil {
		m.totals = map[string]float64{
			InfoMove:     0,
			InfoBallGrad: 0,
			InfoEnergy:   0,
			InfoGoal:     0,
			InfoOriginal: 0,
		}
	}

	rewards := mat.NewVecDense(NumRewards, nil)

	if goal := m.goalReward(cur); goal != 0 {
		rewards.SetVec(RewardGoal, goal)
	} else {
		if prev != nil {
			rewards.SetVec(RewardMove, m.moveReward(cur))
			rewards.SetVec(RewardBallGrad, m.ballGrad(*prev, cur))
		}
		rewards.SetVec(RewardEnergy, m.energyPenalty(sent))
	}

	m.totals[InfoMove] += rewards.AtVec(RewardMove)
	m.totals[InfoBallGrad] += rewards.AtVec(RewardBallGrad)
	m.totals[InfoEnergy] += rewards.AtVec(RewardEnergy)
	m.totals[InfoGoal] += rewards.AtVec(RewardGoal)
	m.totals[InfoOriginal] += m.Scalar(rewards)

	return rewards
}

// Scalar returns the legacy scalar equivalent of a component vector:
// its dot product with the fixed original weights
func (m *Match) Scalar(rewards *mat.VecDense) float64 {
	return floats.Dot(oriWeights, rewards.RawVector().Data)
}

// Info returns the reporting map for a step whose components are
// rewards: the running totals plus the binary per-side goal indicators
// derived from the goal component's sign
func (m *Match) Info(rewards *mat.VecDense) map[string]float64 {
	info := make(map[string]float64, len(m.totals)+2)
	for k, v := range m.totals {
		info[k] = v
	}

	info[InfoGoalBlue] = 0
	info[InfoGoalYellow] = 0
	if rewards.AtVec(RewardGoal) == 1 {
		info[InfoGoalBlue] = 1
	} else if rewards.AtVec(RewardGoal) == -1 {
		info[InfoGoalYellow] = 1
	}

	return info
}

// AtGoal returns whether the ball in the frame is past either goal
// line
func (m *Match) AtGoal(f Frame) bool {
	return m.goalReward(f) != 0
}

// End ends the episode when a goal was scored on the step or when the
// step limit is reached, setting the timestep's StepType to
// timestep.Last
func (m *Match) End(t *timestep.TimeStep) bool {
	if t.RewardComponents != nil &&
		t.RewardComponents.AtVec(RewardGoal) != 0 {
		t.StepType = timestep.Last
		return true
	}
	return m.stepLimit.End(t)
}

// RewardSpec returns the reward specification of the match: the
// 4-component reward vector and its per-component bounds
func (m *Match) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(NumRewards, nil)
	lowerBound := mat.NewVecDense(NumRewards, rewardMin)
	upperBound := mat.NewVecDense(NumRewards, rewardMax)

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

func (m *Match) goalReward(f Frame) float64 {
	if f.Ball.X > m.field.Length/2 {
		return 1
	} else if f.Ball.X < -m.field.Length/2 {
		return -1
	}
	return 0
}

// moveReward is the cosine between the agent's velocity vector and the
// unit vector from the agent to the ball, scaled by the agent's speed
func (m *Match) moveReward(cur Frame) float64 {
	robot := cur.RobotsBlue[0]
	dx := cur.Ball.X - robot.X
	dy := cur.Ball.Y - robot.Y
	dist := math.Hypot(dx, dy)

	move := (dx*robot.VX + dy*robot.VY) / dist
	return move / MoveScale
}

// ballGrad is the decrease in the ball's distance to the centre of the
// opponent goal mouth since the previous frame
func (m *Match) ballGrad(prev, cur Frame) float64 {
	goalX := m.field.Length / 2

	lastDist := math.Hypot(goalX-prev.Ball.X, -prev.Ball.Y)
	dist := math.Hypot(goalX-cur.Ball.X, -cur.Ball.Y)

	return (lastDist - dist) / GradScale
}

// energyPenalty is the negative summed magnitude of the wheel speeds
// last commanded to the agent's robot
func (m *Match) energyPenalty(sent []Command) float64 {
	return -(math.Abs(sent[0].WheelLeft) + math.Abs(sent[0].WheelRight)) /
		EnergyScale
}
