package vss

import (
	"math"
	"testing"
)

// points flattens a frame into the list of placed entity positions,
// ball first
func points(f Frame) [][2]float64 {
	pts := [][2]float64{{f.Ball.X, f.Ball.Y}}
	for _, r := range f.RobotsBlue {
		pts = append(pts, [2]float64{r.X, r.Y})
	}
	for _, r := range f.RobotsYellow {
		pts = append(pts, [2]float64{r.X, r.Y})
	}
	return pts
}

func TestPlacerSeparation(t *testing.T) {
	field := Field1()
	placer := NewPlacer(field, 3, 3, 42)

	for trial := 0; trial < 100; trial++ {
		frame, err := placer.Start()
		if err != nil {
			t.Fatalf("start: %v", err)
		}

		pts := points(frame)
		if len(pts) != 7 {
			t.Fatalf("expected 7 placed entities, got %v", len(pts))
		}

		for i := 0; i < len(pts); i++ {
			for j := i + 1; j < len(pts); j++ {
				dist := math.Hypot(pts[i][0]-pts[j][0], pts[i][1]-pts[j][1])
				if dist < MinPlacementDist {
					t.Errorf("entities %v and %v are %v apart, minimum "+
						"is %v", i, j, dist, MinPlacementDist)
				}
			}
		}
	}
}

func TestPlacerBounds(t *testing.T) {
	field := Field1()
	placer := NewPlacer(field, 3, 3, 13)

	xBound := field.Length/2 - MinPlacementDist
	yBound := field.Width/2 - MinPlacementDist

	for trial := 0; trial < 100; trial++ {
		frame, err := placer.Start()
		if err != nil {
			t.Fatalf("start: %v", err)
		}

		for i, p := range points(frame) {
			if math.Abs(p[0]) > xBound || math.Abs(p[1]) > yBound {
				t.Errorf("entity %v placed at (%v, %v), outside "+
					"(±%v, ±%v)", i, p[0], p[1], xBound, yBound)
			}
		}
	}
}

func TestPlacerOrientations(t *testing.T) {
	placer := NewPlacer(Field1(), 3, 3, 7)
	frame, err := placer.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	robots := append(frame.RobotsBlue, frame.RobotsYellow...)
	for _, r := range robots {
		if r.Theta < 0 || r.Theta >= 360 {
			t.Errorf("robot %v has orientation %v outside [0, 360)", r.ID,
				r.Theta)
		}
	}
}

func TestPlacerIDOrder(t *testing.T) {
	placer := NewPlacer(Field1(), 3, 3, 91)
	frame, err := placer.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for i, r := range frame.RobotsBlue {
		if r.ID != i || r.Yellow {
			t.Errorf("blue slot %v holds robot id %v (yellow: %v)", i,
				r.ID, r.Yellow)
		}
	}
	for i, r := range frame.RobotsYellow {
		if r.ID != i || !r.Yellow {
			t.Errorf("yellow slot %v holds robot id %v (yellow: %v)", i,
				r.ID, r.Yellow)
		}
	}
}

func TestPlacerImpossibleGeometry(t *testing.T) {
	// The legal sampling region of this field is 2cm x 2cm, so no two
	// entities can ever be the minimum distance apart
	tiny := Field1()
	tiny.Length = 0.22
	tiny.Width = 0.22

	placer := NewPlacer(tiny, 3, 3, 3)
	if _, err := placer.Start(); err == nil {
		t.Error("expected a placement error on a field too small for its " +
			"robots")
	}
}
