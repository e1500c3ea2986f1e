package vss

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinPlacementDist is the minimum separation between any two placed
// entities (ball included) in a starting frame
const MinPlacementDist float64 = 0.1

// maxPlacementRetries bounds the rejection sampling loop for a single
// entity. The original placement procedure retries forever; a bound
// this large is unreachable on a standard field with 3v3 robots, so
// hitting it means the field geometry cannot legally hold the
// requested robots and is surfaced as a configuration error rather
// than silently relaxing the separation.
const maxPlacementRetries int = 1000

// Placer samples collision-free starting frames: a ball and robot
// positions drawn uniformly over the field such that all pairwise
// distances are at least MinPlacementDist. Robot orientations are
// drawn uniformly over [0°, 360°) and are unconstrained by separation.
type Placer struct {
	nBlue   int
	nYellow int
	x       distuv.Uniform
	y       distuv.Uniform
	theta   distuv.Uniform
}

// NewPlacer returns a Placer for the given field and robot counts
func NewPlacer(field Field, nBlue, nYellow int, seed uint64) *Placer {
	src := rand.NewSource(seed)
	halfLength := field.Length / 2
	halfWidth := field.Width / 2

	return &Placer{
		nBlue:   nBlue,
		nYellow: nYellow,
		x: distuv.Uniform{
			Min: -halfLength + MinPlacementDist,
			Max: halfLength - MinPlacementDist,
			Src: src,
		},
		y: distuv.Uniform{
			Min: -halfWidth + MinPlacementDist,
			Max: halfWidth - MinPlacementDist,
			Src: src,
		},
		theta: distuv.Uniform{Min: 0, Max: 360, Src: src},
	}
}

// Start samples a new starting frame. The ball is placed first, then
// all blue robots in id order, then all yellow robots in id order,
// rejection-sampling each position against a nearest-neighbour index
// of the points already placed.
func (p *Placer) Start() (Frame, error) {
	var frame Frame
	frame.Ball = Ball{X: p.x.Rand(), Y: p.y.Rand()}

	places := kdtree.New(kdtree.Points{}, false)
	places.Insert(kdtree.Point{frame.Ball.X, frame.Ball.Y}, false)

	place := func() (float64, float64, error) {
		for i := 0; i < maxPlacementRetries; i++ {
			pos := kdtree.Point{p.x.Rand(), p.y.Rand()}
			// kd-tree distances are squared Euclidean
			if _, d := places.Nearest(pos); math.Sqrt(d) < MinPlacementDist {
				continue
			}
			places.Insert(pos, false)
			return pos[0], pos[1], nil
		}
		return 0, 0, fmt.Errorf("placement: no legal position found in %v "+
			"attempts, field cannot hold %v robots with separation %v",
			maxPlacementRetries, p.nBlue+p.nYellow, MinPlacementDist)
	}

	frame.RobotsBlue = make([]Robot, p.nBlue)
	for i := 0; i < p.nBlue; i++ {
		x, y, err := place()
		if err != nil {
			return Frame{}, err
		}
		frame.RobotsBlue[i] = Robot{ID: i, X: x, Y: y, Theta: p.theta.Rand()}
	}

	frame.RobotsYellow = make([]Robot, p.nYellow)
	for i := 0; i < p.nYellow; i++ {
		x, y, err := place()
		if err != nil {
			return Frame{}, err
		}
		frame.RobotsYellow[i] = Robot{ID: i, Yellow: true, X: x, Y: y,
			Theta: p.theta.Rand()}
	}

	return frame, nil
}
