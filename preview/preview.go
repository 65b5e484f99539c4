// Package preview replays an NCP program as a tool path for display. Arcs are
// approximated with short chords; none of this is part of the PT5 output.
package preview

import (
	"github.com/cockroachdb/errors"

	"github.com/leftmike/pt5/convert"
	"github.com/leftmike/pt5/ncp"
)

type Position = convert.Position

// Plotter receives the tool path. LinearTo is called for every straight
// segment, including the chords of an arc; Center is called with the center
// of each arc before it is drawn.
type Plotter interface {
	LinearTo(pos Position) error
	Center(pos Position) error
}

const DefaultStep = 0.1

// Replay walks prog and plots its tool path starting at the origin. step is
// the maximum chord length used for arcs, in millimeters.
func Replay(prog ncp.Program, p Plotter, step float64) error {
	if step <= 0 {
		step = DefaultStep
	}

	// The converter owns the positioning rules; borrow its cursor.
	var ends []Position
	convert.ToPT5(prog, convert.WithTrace(func(pos Position) {
		ends = append(ends, pos)
	}))

	var curPos Position
	edx := 0
	for cdx, cmd := range prog.Commands {
		switch cmd.Kind {
		case ncp.Move:
			err := p.LinearTo(ends[edx])
			if err != nil {
				return err
			}
		case ncp.ClockwiseCircle, ncp.CounterClockwiseCircle:
			centerPos := Position{
				X: curPos.X + cmd.Arg('I', 0),
				Y: curPos.Y + cmd.Arg('J', 0),
			}
			err := p.Center(centerPos)
			if err != nil {
				return err
			}
			err = arcTo(curPos, ends[edx], centerPos, cmd.Kind == ncp.ClockwiseCircle, step,
				p.LinearTo)
			if err != nil {
				return errors.Wrapf(err, "command %d: %s", cdx, cmd)
			}
		default:
			continue
		}

		curPos = ends[edx]
		edx += 1
	}

	return nil
}
