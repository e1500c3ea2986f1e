package vss

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Rendering constants
const (
	// RenderScale is the number of pixels per metre
	RenderScale float64 = 400

	renderMargin float64 = 0.05
)

var (
	pitchShade  color.Color = color.RGBA{R: 20, G: 110, B: 45, A: 255}
	lineShade   color.Color = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	ballShade   color.Color = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	blueShade   color.Color = color.RGBA{R: 40, G: 80, B: 220, A: 255}
	yellowShade color.Color = color.RGBA{R: 230, G: 200, B: 30, A: 255}
)

// Render draws the current frame of the environment and saves it as a
// PNG at the given path
func (e *Env) Render(filename string) error {
	halfLength := e.field.Length / 2
	halfWidth := e.field.Width / 2
	worldW := e.field.Length + 2*e.field.GoalDepth + 2*renderMargin
	worldH := e.field.Width + 2*renderMargin

	toPixel := func(x, y float64) (float64, float64) {
		px := (x + worldW/2) * RenderScale
		py := (worldH/2 - y) * RenderScale
		return px, py
	}

	dc := gg.NewContext(int(worldW*RenderScale), int(worldH*RenderScale))
	dc.SetColor(pitchShade)
	dc.Clear()

	// Field boundary, halfway line and goal mouths
	dc.SetColor(lineShade)
	dc.SetLineWidth(2)
	x0, y0 := toPixel(-halfLength, halfWidth)
	x1, y1 := toPixel(halfLength, -halfWidth)
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	dc.Stroke()

	cx0, cy0 := toPixel(0, halfWidth)
	cx1, cy1 := toPixel(0, -halfWidth)
	dc.DrawLine(cx0, cy0, cx1, cy1)
	dc.Stroke()

	for _, side := range []float64{-1, 1} {
		gx0, gy0 := toPixel(side*halfLength, e.field.GoalWidth/2)
		gx1, gy1 := toPixel(side*(halfLength+e.field.GoalDepth),
			-e.field.GoalWidth/2)
		dc.DrawRectangle(math.Min(gx0, gx1), math.Min(gy0, gy1),
			math.Abs(gx1-gx0), math.Abs(gy1-gy0))
		dc.Stroke()
	}

	// Robots, with a heading tick on each
	drawRobot := func(r Robot, shade color.Color) {
		px, py := toPixel(r.X, r.Y)
		half := e.field.RobotRadius * RenderScale

		dc.Push()
		dc.RotateAbout(-r.Theta*math.Pi/180, px, py)
		dc.DrawRectangle(px-half, py-half, 2*half, 2*half)
		dc.SetColor(shade)
		dc.Fill()
		dc.DrawLine(px, py, px+half, py)
		dc.SetColor(lineShade)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.Pop()
	}

	for _, r := range e.frame.RobotsBlue {
		drawRobot(r, blueShade)
	}
	for _, r := range e.frame.RobotsYellow {
		drawRobot(r, yellowShade)
	}

	// Ball
	bx, by := toPixel(e.frame.Ball.X, e.frame.Ball.Y)
	dc.DrawCircle(bx, by, e.field.BallRadius*RenderScale)
	dc.SetColor(ballShade)
	dc.Fill()

	return dc.SavePNG(filename)
}
