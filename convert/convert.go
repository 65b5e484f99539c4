package convert

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/leftmike/pt5/ncp"
	"github.com/leftmike/pt5/pt5"
)

// Position is a cursor position in millimeters.
type Position struct {
	X, Y float64
}

func (pos Position) String() string {
	return fmt.Sprintf("{x: %g, y: %g}", pos.X, pos.Y)
}

type Option func(c *converter)

// WithTrace sets a function that is called with the cursor position after
// every move or circle.
func WithTrace(trace func(pos Position)) Option {
	return func(c *converter) {
		c.trace = trace
	}
}

// WithLogger sets the logger used to report dropped commands.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *converter) {
		c.log = log
	}
}

type converter struct {
	log          *zap.SugaredLogger
	trace        func(pos Position)
	absoluteMode bool
	curPos       Position
	cmds         []pt5.Command
}

// ToPT5 converts an NCP program to PT5. NCP coordinates may be absolute or
// incremental; PT5 coordinates are always deltas, in micrometers.
func ToPT5(prog ncp.Program, opts ...Option) pt5.Program {
	c := converter{
		log:          zap.NewNop().Sugar(),
		absoluteMode: true,
	}
	for _, opt := range opts {
		opt(&c)
	}

	for cdx, cmd := range prog.Commands {
		switch cmd.Kind {
		case ncp.Move:
			c.move(cmd)
		case ncp.ClockwiseCircle:
			c.circle(cmd, pt5.ClockwiseCircle)
		case ncp.CounterClockwiseCircle:
			c.circle(cmd, pt5.CounterClockwiseCircle)
		case ncp.SetAbsoluteMode:
			c.absoluteMode = true
		case ncp.SetIncrementalMode:
			c.absoluteMode = false
		case ncp.Stop:
			c.emit(pt5.Stop, nil)
		case ncp.End:
			c.emit(pt5.End, nil)
		case ncp.StopAndRewind:
			c.emit(pt5.StopAndRewind, nil)
		default:
			c.log.Debugw("dropping unsupported command", "index", cdx, "code", cmd.Code)
		}
	}

	return pt5.Program{Commands: c.cmds}
}

// roundMM rounds to three decimal places. Every addition or subtraction of
// millimeters goes through here so drift does not accumulate over long
// programs.
func roundMM(mm float64) float64 {
	// FormatFloat rounds the exact binary value, ties to even.
	r, err := strconv.ParseFloat(strconv.FormatFloat(mm, 'f', 3, 64), 64)
	if err != nil {
		panic(fmt.Sprintf("unexpected rounding failure: %v: %s", mm, err))
	}
	return r
}

// toMicrometers saturates at the int64 range. Parsed values are bounded by
// ncp.MaxValue, so only a cursor driven that far by incremental moves hits it.
func toMicrometers(mm float64) int64 {
	um := math.RoundToEven(mm * 1000)
	switch {
	case um >= math.MaxInt64:
		return math.MaxInt64
	case um <= math.MinInt64:
		return math.MinInt64
	}
	return int64(um)
}

func setArg(args map[byte]int64, letter byte, mm float64) {
	if um := toMicrometers(mm); um != 0 {
		args[letter] = um
	}
}

// target returns the position a move or circle ends at and the delta from
// the current position.
func (c *converter) target(cmd ncp.Command) (Position, Position) {
	var pos, delta Position
	if c.absoluteMode {
		pos.X = cmd.Arg('X', c.curPos.X)
		pos.Y = cmd.Arg('Y', c.curPos.Y)
		delta.X = roundMM(pos.X - c.curPos.X)
		delta.Y = roundMM(pos.Y - c.curPos.Y)
	} else {
		delta.X = cmd.Arg('X', 0)
		delta.Y = cmd.Arg('Y', 0)
		pos.X = roundMM(c.curPos.X + delta.X)
		pos.Y = roundMM(c.curPos.Y + delta.Y)
	}
	return pos, delta
}

func (c *converter) move(cmd ncp.Command) {
	pos, delta := c.target(cmd)

	args := map[byte]int64{}
	setArg(args, 'X', delta.X)
	setArg(args, 'Y', delta.Y)
	c.emit(pt5.Move, args)

	c.moveTo(pos)
}

func (c *converter) circle(cmd ncp.Command, kind pt5.Kind) {
	pos, delta := c.target(cmd)

	// XXX: in absolute mode I and J are passed through unchanged, but in
	// incremental mode they are offset by the current position.
	var i, j float64
	if c.absoluteMode {
		i = cmd.Arg('I', 0)
		j = cmd.Arg('J', 0)
	} else {
		i = roundMM(c.curPos.X + cmd.Arg('I', 0))
		j = roundMM(c.curPos.Y + cmd.Arg('J', 0))
	}

	args := map[byte]int64{}
	setArg(args, 'X', delta.X)
	setArg(args, 'Y', delta.Y)
	setArg(args, 'I', i)
	setArg(args, 'J', j)
	c.emit(kind, args)

	c.moveTo(pos)
}

func (c *converter) emit(kind pt5.Kind, args map[byte]int64) {
	c.cmds = append(c.cmds, pt5.Command{Kind: kind, Args: args})
}

func (c *converter) moveTo(pos Position) {
	c.curPos = pos
	if c.trace != nil {
		c.trace(pos)
	}
}
