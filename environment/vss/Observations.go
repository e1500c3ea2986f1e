package vss

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormBounds is the declared symmetric bound of the observation space.
// The encoder never clips: normalized values may transiently exceed
// their nominal unit range (e.g. velocities during a collision), and
// the declared bound is wide enough that this remains a soft
// constraint.
const NormBounds float64 = 1.25

// ObservationLen returns the length of the observation vector for the
// given robot counts
func ObservationLen(nBlue, nYellow int) int {
	return 4 + 7*nBlue + 5*nYellow
}

// Observation flattens a frame into a fixed-length normalized vector.
// Layout (3v3 shown):
//
//	Num             Observation
//	0               Ball X
//	1               Ball Y
//	2               Ball Vx
//	3               Ball Vy
//	4 + (7 * i)     id i Blue Robot X
//	5 + (7 * i)     id i Blue Robot Y
//	6 + (7 * i)     id i Blue Robot sin(theta)
//	7 + (7 * i)     id i Blue Robot cos(theta)
//	8 + (7 * i)     id i Blue Robot Vx
//	9 + (7 * i)     id i Blue Robot Vy
//	10 + (7 * i)    id i Blue Robot v_theta
//	25 + (5 * i)    id i Yellow Robot X
//	26 + (5 * i)    id i Yellow Robot Y
//	27 + (5 * i)    id i Yellow Robot Vx
//	28 + (5 * i)    id i Yellow Robot Vy
//	29 + (5 * i)    id i Yellow Robot v_theta
//
// Yellow robots deliberately omit the heading trig terms: the agent is
// not allowed to exploit opponent orientation.
func Observation(field Field, frame Frame) *mat.VecDense {
	obs := make([]float64, 0, ObservationLen(len(frame.RobotsBlue),
		len(frame.RobotsYellow)))

	normPos := func(p float64) float64 { return p / field.MaxPos() }
	normV := func(v float64) float64 { return v / field.MaxV() }
	normW := func(w float64) float64 { return w / field.MaxW() }
	deg2rad := math.Pi / 180

	obs = append(obs,
		normPos(frame.Ball.X),
		normPos(frame.Ball.Y),
		normV(frame.Ball.VX),
		normV(frame.Ball.VY),
	)

	for _, r := range frame.RobotsBlue {
		obs = append(obs,
			normPos(r.X),
			normPos(r.Y),
			math.Sin(r.Theta*deg2rad),
			math.Cos(r.Theta*deg2rad),
			normV(r.VX),
			normV(r.VY),
			normW(r.VTheta),
		)
	}

	for _, r := range frame.RobotsYellow {
		obs = append(obs,
			normPos(r.X),
			normPos(r.Y),
			normV(r.VX),
			normV(r.VY),
			normW(r.VTheta),
		)
	}

	return mat.NewVecDense(len(obs), obs)
}
