package vss

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"sfneuman.com/govss/utils/floatutils"
)

// WheelDeadzone is the commanded linear wheel speed (m/s) below which
// a wheel is forced to exactly zero, preventing actuator chatter near
// a zero command
const WheelDeadzone float64 = 0.05

// ActionToWheels converts a normalized action in [-1, 1]^2 into the
// two wheel angular speeds (rad/s, left then right) to send to a
// robot. Each action component is scaled by maxV, clipped to
// [-maxV, maxV], zeroed when strictly inside the dead-zone, then
// divided by the wheel radius.
//
// ActionToWheels panics if the action is not 2-dimensional; malformed
// actions are rejected here, before any command reaches the physics
// engine.
func ActionToWheels(action *mat.VecDense, maxV, wheelRadius float64) (float64, float64) {
	if action.Len() != 2 {
		panic(fmt.Sprintf("actionToWheels: actions should be 2-dimensional, "+
			"got %v-dimensional", action.Len()))
	}

	left := floatutils.Clip(action.AtVec(0)*maxV, -maxV, maxV)
	right := floatutils.Clip(action.AtVec(1)*maxV, -maxV, maxV)

	if math.Abs(left) < WheelDeadzone {
		left = 0
	}
	if math.Abs(right) < WheelDeadzone {
		right = 0
	}

	return left / wheelRadius, right / wheelRadius
}
