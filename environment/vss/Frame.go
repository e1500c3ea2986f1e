// Package vss implements an IEEE Very Small Size Soccer environment
// in which a learning agent controls a single robot in a match against
// noise-driven opponents. The environment decomposes its reward into
// named components so that agents can be trained either against the
// component vector or against its weighted scalar sum.
package vss

// Ball is the position and velocity of the match ball
type Ball struct {
	X  float64
	Y  float64
	VX float64
	VY float64
}

// Robot is the physical state of a single robot. Theta is the heading
// in degrees and VTheta the angular velocity in degrees per second.
type Robot struct {
	ID     int
	Yellow bool
	X      float64
	Y      float64
	Theta  float64
	VX     float64
	VY     float64
	VTheta float64
}

// Frame is one simulated timestep's full physical state. Frames are
// produced by the physics engine; the reward and observation layers
// only ever read them. Robots appear in id order within each side.
type Frame struct {
	Ball         Ball
	RobotsBlue   []Robot
	RobotsYellow []Robot
}

// Clone returns a deep copy of the frame
func (f Frame) Clone() Frame {
	blue := make([]Robot, len(f.RobotsBlue))
	copy(blue, f.RobotsBlue)
	yellow := make([]Robot, len(f.RobotsYellow))
	copy(yellow, f.RobotsYellow)
	return Frame{Ball: f.Ball, RobotsBlue: blue, RobotsYellow: yellow}
}

// Command is a physical actuator instruction for a single robot. Wheel
// speeds are angular, in radians per second, left wheel first.
type Command struct {
	ID         int
	Yellow     bool
	WheelLeft  float64
	WheelRight float64
}

// Engine is the physics engine boundary. Reset places the world in the
// given initial configuration. Step advances the simulation by one
// control interval under the given actuator commands, one command per
// robot, and returns the resulting frame. Errors returned by Step
// indicate a violated engine invariant (e.g. a malformed command
// batch) and are fatal to the episode.
type Engine interface {
	Reset(initial Frame)
	Step(commands []Command) (Frame, error)
}
