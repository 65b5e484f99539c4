package preview

import (
	"math"

	"github.com/cockroachdb/errors"
)

const (
	minimumDelta = 0.0001
	maxArcSteps  = 100000
)

func hypot(pos1, pos2 Position) float64 {
	return math.Hypot(pos1.X-pos2.X, pos1.Y-pos2.Y)
}

// arcTo approximates an arc in the XY plane with chords no longer than step,
// calling linearTo for each chord end. The last call is always endPos. When
// curPos and endPos are the same, a full circle is drawn.
func arcTo(curPos, endPos, centerPos Position, clockwise bool, step float64,
	linearTo func(pos Position) error) error {

	radius := hypot(curPos, centerPos)
	if radius < minimumDelta {
		return errors.New("expected center point different than current for arc")
	}
	// XXX: warn if hypot(endPos, centerPos) is significantly different than radius

	angle := math.Atan2(curPos.Y-centerPos.Y, curPos.X-centerPos.X)
	if angle < 0.0 {
		angle += math.Pi * 2
	}
	endAngle := math.Atan2(endPos.Y-centerPos.Y, endPos.X-centerPos.X)
	if endAngle < 0.0 {
		endAngle += math.Pi * 2
	}

	var angleDir float64
	if clockwise {
		angleDir = -1.0
	} else {
		angleDir = 1.0
	}

	var angleTotal float64
	if hypot(curPos, endPos) < minimumDelta {
		angleTotal = math.Pi * 2
	} else if angle < endAngle {
		if clockwise {
			angleTotal = math.Pi*2 - (endAngle - angle)
		} else {
			angleTotal = endAngle - angle
		}
	} else {
		if clockwise {
			angleTotal = angle - endAngle
		} else {
			angleTotal = math.Pi*2 - (angle - endAngle)
		}
	}

	numSteps := math.Min(math.Floor(angleTotal*radius/step), maxArcSteps)
	stepAngle := angleTotal / numSteps

	for s := float64(1.0); s < numSteps; s += 1.0 {
		err := linearTo(
			Position{
				X: centerPos.X + radius*math.Cos(angle+s*stepAngle*angleDir),
				Y: centerPos.Y + radius*math.Sin(angle+s*stepAngle*angleDir),
			})
		if err != nil {
			return err
		}
	}

	return linearTo(endPos)
}
