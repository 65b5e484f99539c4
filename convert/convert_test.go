package convert_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/pt5/convert"
	"github.com/leftmike/pt5/ncp"
	"github.com/leftmike/pt5/pt5"
)

func parse(t *testing.T, lines ...string) ncp.Program {
	t.Helper()
	prog, err := ncp.Parse(lines)
	require.NoError(t, err)
	return prog
}

func TestToPT5(t *testing.T) {
	cases := []struct {
		lines []string
		cmds  []pt5.Command
	}{
		{
			lines: []string{"N001 G01 X1 Y2", "N002 G02 X2 Y2 I0.5 J0"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 1000, 'Y': 2000}},
				{Kind: pt5.ClockwiseCircle, Args: map[byte]int64{'X': 1000, 'I': 500}},
			},
		},
		{
			lines: []string{"N001 G01 X5 Y5", "N002 G91", "N003 G01 X2"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 5000, 'Y': 5000}},
				{Kind: pt5.Move, Args: map[byte]int64{'X': 2000}},
			},
		},
		{
			lines: []string{"N001 G91 G01 X1 Y1", "N002 X-1", "N003 G90 G01 X0 Y0"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 1000, 'Y': 1000}},
				{Kind: pt5.Move, Args: map[byte]int64{'X': -1000}},
				{Kind: pt5.Move, Args: map[byte]int64{'Y': -1000}},
			},
		},
		{
			// The largest parsed values still fit in micrometers.
			lines: []string{"N001 G01 X1e9 Y-1e9", "N002 X-1e9"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 1e12, 'Y': -1e12}},
				{Kind: pt5.Move, Args: map[byte]int64{'X': -2e12}},
			},
		},
		{
			// Missing axes keep their position.
			lines: []string{"N001 G01 X3 Y4", "N002 Y4", "N003 X3"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 3000, 'Y': 4000}},
				{Kind: pt5.Move, Args: map[byte]int64{}},
				{Kind: pt5.Move, Args: map[byte]int64{}},
			},
		},
		{
			// Incremental I and J are offset by the current position.
			lines: []string{"N001 G01 X10 Y20", "N002 G91 G03 X2 Y-2 I1 J-0.5"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 10000, 'Y': 20000}},
				{Kind: pt5.CounterClockwiseCircle,
					Args: map[byte]int64{'X': 2000, 'Y': -2000, 'I': 11000, 'J': 19500}},
			},
		},
		{
			// Absolute I and J are passed through.
			lines: []string{"N001 G01 X10 Y20", "N002 G03 X12 Y18 I1 J-0.5"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 10000, 'Y': 20000}},
				{Kind: pt5.CounterClockwiseCircle,
					Args: map[byte]int64{'X': 2000, 'Y': -2000, 'I': 1000, 'J': -500}},
			},
		},
		{
			lines: []string{"N001 G01 X1 M00", "N002 G01 Y1 M30 M02"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 1000}},
				{Kind: pt5.Stop},
				{Kind: pt5.Move, Args: map[byte]int64{'Y': 1000}},
				{Kind: pt5.StopAndRewind},
				{Kind: pt5.End},
			},
		},
		{
			// Unsupported directives are dropped and do not move the cursor.
			lines: []string{"N001 G17 X5", "N002 G00 X7", "N003 G01 X1"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'X': 1000}},
			},
		},
		{
			// Sub-micrometer deltas are omitted.
			lines: []string{"N001 G91 G01 X0.0004 Y0.0006"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'Y': 1}},
			},
		},
		{
			// Half a micrometer rounds to even.
			lines: []string{"N001 G91 G01 X0.0005 Y0.0015"},
			cmds: []pt5.Command{
				{Kind: pt5.Move, Args: map[byte]int64{'Y': 2}},
			},
		},
	}

	for i, c := range cases {
		got := convert.ToPT5(parse(t, c.lines...))
		assert.Equalf(t, c.cmds, got.Commands, "ToPT5(%d) %q", i, c.lines)
	}
}

func TestToPT5Text(t *testing.T) {
	got := convert.ToPT5(parse(t, "N001 G01 X1 Y2", "N002 G02 X2 Y2 I0.5 J0")).String()
	assert.Equal(t, "N1 G01 X+1000000 Y+2000000 M91\nN2 G02 X+1000000 I+500000\n", got)
}

func TestToPT5TextLarge(t *testing.T) {
	got := convert.ToPT5(parse(t, "N001 G01 X1e9 Y-123456789.5")).String()
	assert.Equal(t, "N1 G01 X+1000000000000000 Y-123456789500000 M91\n", got)
}

func TestTrace(t *testing.T) {
	var trace []convert.Position
	convert.ToPT5(
		parse(t,
			"N001 G01 X1.5 Y1",
			"N002 G91",
			"N003 G01 X0.1",
			"N004 X0.1",
			"N005 X0.1",
			"N006 G02 Y-1 I0 J-0.5",
			"N007 M02",
			"N008 G90 G01 Y7"),
		convert.WithTrace(func(pos convert.Position) {
			trace = append(trace, pos)
		}))

	assert.Equal(t,
		[]convert.Position{
			{1.5, 1},
			{1.6, 1},
			{1.7, 1},
			{1.8, 1},
			{1.8, 0},
			{1.8, 7},
		},
		trace)
}

func TestRoundingDrift(t *testing.T) {
	lines := []string{"N001 G91 G01 X0.1"}
	for i := 2; i <= 1000; i += 1 {
		lines = append(lines, fmt.Sprintf("N%03d X0.1", i))
	}
	lines = append(lines, "N1001 G90 G01 X0")

	var last convert.Position
	got := convert.ToPT5(parse(t, lines...),
		convert.WithTrace(func(pos convert.Position) {
			if pos.X != 0 {
				last = pos
			}
		}))

	assert.Equal(t, 100.0, last.X)
	back := got.Commands[len(got.Commands)-1]
	assert.Equal(t, map[byte]int64{'X': -100000}, back.Args)
}

// randomProgram builds a program with values that have at most three
// decimal places, mixing absolute and incremental moves and circles.
func randomProgram(r *rand.Rand, n int) []string {
	value := func() string {
		return fmt.Sprintf("%.3f", float64(r.Intn(200000)-100000)/1000)
	}

	lines := []string{"%", "N000 G90"}
	for i := 1; i <= n; i += 1 {
		var parts []string
		parts = append(parts, fmt.Sprintf("N%04d", i))
		switch r.Intn(8) {
		case 0:
			parts = append(parts, "G90")
		case 1:
			parts = append(parts, "G91")
		case 2:
			parts = append(parts, "G02")
		case 3:
			parts = append(parts, "G03")
		case 4:
			parts = append(parts, "G01")
		}
		if r.Intn(4) != 0 {
			parts = append(parts, "X"+value())
		}
		if r.Intn(4) != 0 {
			parts = append(parts, "Y"+value())
		}
		if r.Intn(2) == 0 {
			parts = append(parts, "I"+value(), "J"+value())
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

func TestDeltasReconstructTrace(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for run := 0; run < 20; run += 1 {
		prog := parse(t, randomProgram(r, 200)...)

		var trace []convert.Position
		got := convert.ToPT5(prog, convert.WithTrace(func(pos convert.Position) {
			trace = append(trace, pos)
		}))

		var x, y int64
		tdx := 0
		for _, cmd := range got.Commands {
			for letter, v := range cmd.Args {
				assert.NotZerof(t, v, "run %d: zero %c argument", run, letter)
			}

			switch cmd.Kind {
			case pt5.Move, pt5.ClockwiseCircle, pt5.CounterClockwiseCircle:
				x += cmd.Args['X']
				y += cmd.Args['Y']
				require.Less(t, tdx, len(trace))
				assert.Equalf(t, x, int64(trace[tdx].X*1000+sign(trace[tdx].X)*0.5), "run %d step %d",
					run, tdx)
				assert.Equalf(t, y, int64(trace[tdx].Y*1000+sign(trace[tdx].Y)*0.5), "run %d step %d",
					run, tdx)
				tdx += 1
			}
		}
		assert.Equal(t, len(trace), tdx)
	}
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func TestDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	prog := parse(t, randomProgram(r, 500)...)

	first := convert.ToPT5(prog).String()
	for i := 0; i < 5; i += 1 {
		assert.Equal(t, first, convert.ToPT5(prog).String())
	}

	// The input program is left untouched.
	assert.Equal(t, parse(t, randomProgram(rand.New(rand.NewSource(7)), 500)...), prog)
}
