package vss

import "math"

// Field holds the geometry of a VSS field and the physical constants
// of the robots that play on it. All lengths are in metres.
type Field struct {
	Length        float64
	Width         float64
	PenaltyLength float64
	PenaltyWidth  float64
	GoalWidth     float64
	GoalDepth     float64
	BallRadius    float64
	RobotRadius   float64
	WheelRadius   float64
	MotorMaxRPM   float64
}

// Field1 returns the geometry of a division-1 (3v3) VSS field
func Field1() Field {
	return Field{
		Length:        1.5,
		Width:         1.3,
		PenaltyLength: 0.15,
		PenaltyWidth:  0.7,
		GoalWidth:     0.4,
		GoalDepth:     0.1,
		BallRadius:    0.0215,
		RobotRadius:   0.0375,
		WheelRadius:   0.026,
		MotorMaxRPM:   440,
	}
}

// MaxV returns the maximum linear wheel speed in m/s, reached when a
// motor spins at its maximum rated speed
func (f Field) MaxV() float64 {
	maxWheelRadS := f.MotorMaxRPM / 60 * 2 * math.Pi
	return maxWheelRadS * f.WheelRadius
}

// MaxW returns the maximum robot angular speed in deg/s. The 0.04
// term is the half distance between wheel contact points (robot
// radius plus wheel thickness).
func (f Field) MaxW() float64 {
	return f.MaxV() / 0.04 * 180 / math.Pi
}

// MaxPos returns the position normalization scale: the largest
// coordinate magnitude reachable on the field, which occurs along the
// x axis inside the penalty area
func (f Field) MaxPos() float64 {
	return math.Max(f.Width/2, f.Length/2+f.PenaltyLength)
}
