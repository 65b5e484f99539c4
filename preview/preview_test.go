package preview

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/pt5/ncp"
)

type plotter struct {
	points  []Position
	centers []Position
}

func (p *plotter) LinearTo(pos Position) error {
	p.points = append(p.points, pos)
	return nil
}

func (p *plotter) Center(pos Position) error {
	p.centers = append(p.centers, pos)
	return nil
}

func parse(t *testing.T, lines ...string) ncp.Program {
	t.Helper()
	prog, err := ncp.Parse(lines)
	require.NoError(t, err)
	return prog
}

func TestArcTo(t *testing.T) {
	cases := []struct {
		cur, end, center Position
		clockwise        bool
		angle            float64
	}{
		{Position{X: 1, Y: 0}, Position{X: 0, Y: 1}, Position{X: 0, Y: 0}, false, math.Pi / 2},
		{Position{X: 1, Y: 0}, Position{X: 0, Y: 1}, Position{X: 0, Y: 0}, true, math.Pi * 3 / 2},
		{Position{X: 0, Y: 1}, Position{X: 1, Y: 0}, Position{X: 0, Y: 0}, true, math.Pi / 2},
		{Position{X: 1, Y: 0}, Position{X: -1, Y: 0}, Position{X: 0, Y: 0}, false, math.Pi},
		{Position{X: 2, Y: 0}, Position{X: 2, Y: 0}, Position{X: 1, Y: 0}, true, math.Pi * 2},
	}

	for i, c := range cases {
		var pts []Position
		err := arcTo(c.cur, c.end, c.center, c.clockwise, 0.1, func(pos Position) error {
			pts = append(pts, pos)
			return nil
		})
		require.NoErrorf(t, err, "arcTo(%d)", i)
		require.NotEmptyf(t, pts, "arcTo(%d)", i)
		assert.Equalf(t, c.end, pts[len(pts)-1], "arcTo(%d)", i)

		radius := hypot(c.cur, c.center)
		for _, pt := range pts {
			assert.InDeltaf(t, radius, hypot(pt, c.center), 1e-9, "arcTo(%d): %v", i, pt)
		}

		want := math.Floor(c.angle * radius / 0.1)
		assert.Equalf(t, int(want), len(pts), "arcTo(%d) steps", i)
	}

	err := arcTo(Position{X: 1, Y: 1}, Position{X: 2, Y: 2}, Position{X: 1, Y: 1}, false, 0.1,
		func(pos Position) error { return nil })
	assert.Error(t, err)
}

func TestArcDirection(t *testing.T) {
	var pts []Position
	err := arcTo(Position{X: 1, Y: 0}, Position{X: -1, Y: 0}, Position{X: 0, Y: 0}, true, 0.1,
		func(pos Position) error {
			pts = append(pts, pos)
			return nil
		})
	require.NoError(t, err)
	// Clockwise from (1, 0) passes below the X axis.
	assert.Less(t, pts[len(pts)/2].Y, 0.0)
}

func TestReplay(t *testing.T) {
	prog := parse(t,
		"N001 G01 X1 Y0",
		"N002 G03 X0 Y1 I-1 J0",
		"N003 G91 G01 X-1",
		"N004 G17",
		"N005 G02 X1 Y1 I1 J0",
		"N006 M02")

	var p plotter
	require.NoError(t, Replay(prog, &p, 0.1))

	assert.Equal(t, []Position{{X: 0, Y: 0}, {X: 0, Y: 1}}, p.centers)
	assert.Equal(t, Position{X: 1, Y: 0}, p.points[0])
	assert.Equal(t, Position{X: 0, Y: 2}, p.points[len(p.points)-1])
	assert.Contains(t, p.points, Position{X: 0, Y: 1})
	assert.Contains(t, p.points, Position{X: -1, Y: 1})
}

func TestReplayBadArc(t *testing.T) {
	var p plotter
	err := Replay(parse(t, "N001 G02 X1 Y1"), &p, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "command 0")
}

func TestWriteHTML(t *testing.T) {
	prog := parse(t, "N001 G01 X4 Y2", "N002 G02 X6 Y2 I1 J0")

	var sb strings.Builder
	err := WriteHTML(&sb, prog, Options{Title: "part.ncp", Centers: true})
	require.NoError(t, err)

	s := sb.String()
	assert.Contains(t, s, `document.title = "part.ncp"`)
	assert.Contains(t, s, `width="800" height="800"`)
	assert.Contains(t, s, "{linearTo: {x: 4, y: 2}},")
	assert.Contains(t, s, "{linearTo: {x: 6, y: 2}},")
	assert.Contains(t, s, "{center: {x: 5, y: 2}},")
	assert.Contains(t, s, "zoom: 30,")
	assert.Contains(t, s, "animate: false,")
	assert.NotContains(t, s, "%!")

	sb.Reset()
	require.NoError(t, WriteHTML(&sb, prog, Options{Size: 400, Scale: 10}))
	assert.NotContains(t, sb.String(), "{center:")
	assert.Contains(t, sb.String(), `width="400" height="400"`)

	sb.Reset()
	require.NoError(t, WriteHTML(&sb, prog, Options{Animate: true}))
	assert.Contains(t, sb.String(), "animate: true,")
	assert.NotContains(t, sb.String(), "%!")
}

func TestWriteHTMLTitle(t *testing.T) {
	prog := parse(t, "N001 G01 X1 Y1")

	cases := []struct {
		title string
		want  string
	}{
		{"part.ncp", `"part.ncp"`},
		{`</script><b>"x"`, `"\u003c/script\u003e\u003cb\u003e\"x\""`},
		{"a\x07b", `"a\u0007b"`},
		{"line\u2028sep", `"line\u2028sep"`},
	}

	for _, c := range cases {
		var sb strings.Builder
		require.NoError(t, WriteHTML(&sb, prog, Options{Title: c.title}))
		assert.Contains(t, sb.String(), "document.title = "+c.want)
		assert.NotContains(t, sb.String(), "</script><b>")
	}
}
