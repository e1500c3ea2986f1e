// Package sim provides a Box2D implementation of the vss physics
// engine boundary. Robots are dynamic square bodies driven by
// differential-drive kinematics, the ball a dynamic circle damped to
// imitate rolling friction, and the field a static edge loop with
// goal pockets behind each goal line so that the ball can cross it.
package sim

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"sfneuman.com/govss/environment/vss"
)

// Physical tuning of the Box2D world
const (
	velocityIterations int = 8
	positionIterations int = 3

	ballDensity     float64 = 0.1
	ballDamping     float64 = 0.8
	ballRestitution float64 = 0.5
	robotDensity    float64 = 5.0
	wallFriction    float64 = 0.1
)

// Sim implements vss.Engine on a Box2D world
type Sim struct {
	field   vss.Field
	nBlue   int
	nYellow int
	dt      float64

	world  box2d.B2World
	ball   *box2d.B2Body
	blue   []*box2d.B2Body
	yellow []*box2d.B2Body
}

// New returns a new Sim for the given field and robot counts,
// advancing dt seconds per Step call. The world starts empty; Reset
// must be called with an initial frame before the first Step.
func New(field vss.Field, nBlue, nYellow int, dt float64) *Sim {
	s := &Sim{
		field:   field,
		nBlue:   nBlue,
		nYellow: nYellow,
		dt:      dt,
		world:   box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
	}
	s.createWalls()
	return s
}

// createWalls builds the static field boundary: top and bottom walls,
// and side walls broken by goal pockets of depth GoalDepth so the
// ball can travel past each goal line
func (s *Sim) createWalls() {
	hl := s.field.Length / 2
	hw := s.field.Width / 2
	hg := s.field.GoalWidth / 2
	gd := s.field.GoalDepth

	segments := [][4]float64{
		// Top and bottom walls
		{-hl, hw, hl, hw},
		{-hl, -hw, hl, -hw},
		// Right side walls and goal pocket
		{hl, hw, hl, hg},
		{hl, hg, hl + gd, hg},
		{hl + gd, hg, hl + gd, -hg},
		{hl + gd, -hg, hl, -hg},
		{hl, -hg, hl, -hw},
		// Left side walls and goal pocket
		{-hl, hw, -hl, hg},
		{-hl, hg, -hl - gd, hg},
		{-hl - gd, hg, -hl - gd, -hg},
		{-hl - gd, -hg, -hl, -hg},
		{-hl, -hg, -hl, -hw},
	}

	wallDef := box2d.NewB2BodyDef()
	wallDef.Type = 0 // Static body
	wall := s.world.CreateBody(wallDef)

	for _, seg := range segments {
		edge := box2d.NewB2EdgeShape()
		edge.Set(box2d.MakeB2Vec2(seg[0], seg[1]),
			box2d.MakeB2Vec2(seg[2], seg[3]))

		fix := box2d.MakeB2FixtureDef()
		fix.Shape = edge
		fix.Friction = wallFriction
		wall.CreateFixtureFromDef(&fix)
	}
}

// destroy removes the ball and robot bodies of the previous episode,
// leaving the static walls in place
func (s *Sim) destroy() {
	if s.ball != nil {
		s.world.DestroyBody(s.ball)
		s.ball = nil
	}
	for _, b := range s.blue {
		s.world.DestroyBody(b)
	}
	for _, b := range s.yellow {
		s.world.DestroyBody(b)
	}
	s.blue = nil
	s.yellow = nil
}

// Reset rebuilds the dynamic bodies of the world at the positions and
// orientations of the given frame, with all velocities zeroed
func (s *Sim) Reset(initial vss.Frame) {
	s.destroy()

	ballDef := box2d.NewB2BodyDef()
	ballDef.Type = 2 // Dynamic body
	ballDef.Position = box2d.MakeB2Vec2(initial.Ball.X, initial.Ball.Y)
	ballDef.LinearDamping = ballDamping
	s.ball = s.world.CreateBody(ballDef)

	ballShape := box2d.NewB2CircleShape()
	ballShape.M_radius = s.field.BallRadius

	ballFix := box2d.MakeB2FixtureDef()
	ballFix.Shape = ballShape
	ballFix.Density = ballDensity
	ballFix.Restitution = ballRestitution
	s.ball.CreateFixtureFromDef(&ballFix)

	deg2rad := math.Pi / 180
	createRobot := func(r vss.Robot) *box2d.B2Body {
		robotDef := box2d.NewB2BodyDef()
		robotDef.Type = 2 // Dynamic body
		robotDef.Position = box2d.MakeB2Vec2(r.X, r.Y)
		robotDef.Angle = r.Theta * deg2rad
		body := s.world.CreateBody(robotDef)

		shape := box2d.NewB2PolygonShape()
		shape.SetAsBox(s.field.RobotRadius, s.field.RobotRadius)

		fix := box2d.MakeB2FixtureDef()
		fix.Shape = shape
		fix.Density = robotDensity
		fix.Friction = wallFriction
		body.CreateFixtureFromDef(&fix)

		return body
	}

	s.blue = make([]*box2d.B2Body, 0, s.nBlue)
	for _, r := range initial.RobotsBlue {
		s.blue = append(s.blue, createRobot(r))
	}
	s.yellow = make([]*box2d.B2Body, 0, s.nYellow)
	for _, r := range initial.RobotsYellow {
		s.yellow = append(s.yellow, createRobot(r))
	}
}

// Step applies one command per robot and advances the world by one
// control interval, returning the resulting frame. The command batch
// must hold exactly one command per robot with a valid id; anything
// else is an error, fatal to the episode.
func (s *Sim) Step(commands []vss.Command) (vss.Frame, error) {
	if s.ball == nil {
		return vss.Frame{}, fmt.Errorf("sim: step called before reset")
	}
	if len(commands) != s.nBlue+s.nYellow {
		return vss.Frame{}, fmt.Errorf("sim: expected %v commands, got %v",
			s.nBlue+s.nYellow, len(commands))
	}

	type robotKey struct {
		id     int
		yellow bool
	}
	seen := make(map[robotKey]bool, len(commands))

	for _, cmd := range commands {
		bodies := s.blue
		if cmd.Yellow {
			bodies = s.yellow
		}
		if cmd.ID < 0 || cmd.ID >= len(bodies) {
			return vss.Frame{}, fmt.Errorf("sim: no robot with id %v "+
				"(yellow: %v)", cmd.ID, cmd.Yellow)
		}

		key := robotKey{cmd.ID, cmd.Yellow}
		if seen[key] {
			return vss.Frame{}, fmt.Errorf("sim: robot with id %v "+
				"(yellow: %v) commanded twice", cmd.ID, cmd.Yellow)
		}
		seen[key] = true

		s.drive(bodies[cmd.ID], cmd)
	}

	s.world.Step(s.dt, velocityIterations, positionIterations)

	return s.frame(), nil
}

// drive converts a wheel-speed command into the body velocities of a
// differential-drive robot: the wheel angular speeds give the linear
// speed of each wheel, whose mean drives the body forward and whose
// difference turns it about its centre
func (s *Sim) drive(body *box2d.B2Body, cmd vss.Command) {
	left := cmd.WheelLeft * s.field.WheelRadius
	right := cmd.WheelRight * s.field.WheelRadius

	linear := (left + right) / 2
	angular := (right - left) / (2 * s.field.RobotRadius)

	angle := body.GetAngle()
	body.SetLinearVelocity(box2d.MakeB2Vec2(linear*math.Cos(angle),
		linear*math.Sin(angle)))
	body.SetAngularVelocity(angular)
}

// frame extracts the current physical state of the world
func (s *Sim) frame() vss.Frame {
	rad2deg := 180 / math.Pi

	readRobot := func(id int, yellow bool, body *box2d.B2Body) vss.Robot {
		pos := body.GetPosition()
		vel := body.GetLinearVelocity()
		theta := math.Mod(body.GetAngle()*rad2deg, 360)
		if theta < 0 {
			theta += 360
		}
		return vss.Robot{
			ID:     id,
			Yellow: yellow,
			X:      pos.X,
			Y:      pos.Y,
			Theta:  theta,
			VX:     vel.X,
			VY:     vel.Y,
			VTheta: body.GetAngularVelocity() * rad2deg,
		}
	}

	var frame vss.Frame
	ballPos := s.ball.GetPosition()
	ballVel := s.ball.GetLinearVelocity()
	frame.Ball = vss.Ball{X: ballPos.X, Y: ballPos.Y, VX: ballVel.X,
		VY: ballVel.Y}

	frame.RobotsBlue = make([]vss.Robot, 0, s.nBlue)
	for i, body := range s.blue {
		frame.RobotsBlue = append(frame.RobotsBlue, readRobot(i, false, body))
	}
	frame.RobotsYellow = make([]vss.Robot, 0, s.nYellow)
	for i, body := range s.yellow {
		frame.RobotsYellow = append(frame.RobotsYellow,
			readRobot(i, true, body))
	}

	return frame
}
