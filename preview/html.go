package preview

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/leftmike/pt5/ncp"
)

type Options struct {
	Title   string
	Size    int     // canvas width and height in pixels
	Scale   float64 // pixels per millimeter
	Centers bool    // mark arc centers
	Step    float64 // maximum arc chord, in millimeters
	Animate bool    // draw the path progressively
}

// Segments drawn per animation frame.
const perFrame = 4

// recorder is a Plotter that collects the path as javascript objects.
type recorder struct {
	cmds     []string
	centers  bool
	min, max Position
}

func (r *recorder) extend(pos Position) {
	r.min.X = math.Min(r.min.X, pos.X)
	r.min.Y = math.Min(r.min.Y, pos.Y)
	r.max.X = math.Max(r.max.X, pos.X)
	r.max.Y = math.Max(r.max.Y, pos.Y)
}

func (r *recorder) LinearTo(pos Position) error {
	r.extend(pos)
	r.cmds = append(r.cmds, fmt.Sprintf("  {linearTo: {x: %g, y: %g}},", pos.X, pos.Y))
	return nil
}

func (r *recorder) Center(pos Position) error {
	if r.centers {
		r.cmds = append(r.cmds, fmt.Sprintf("  {center: {x: %g, y: %g}},", pos.X, pos.Y))
	}
	return nil
}

// WriteHTML writes a standalone page that draws the tool path of prog.
func WriteHTML(w io.Writer, prog ncp.Program, opts Options) error {
	if opts.Size <= 0 {
		opts.Size = 800
	}
	if opts.Scale <= 0 {
		opts.Scale = 30
	}

	r := recorder{centers: opts.Centers}
	err := Replay(prog, &r, opts.Step)
	if err != nil {
		return err
	}

	config := fmt.Sprintf(`  size: %d,
  zoom: %g,
  center: {x: %g, y: %g},
  animate: %t,
  perFrame: %d,`,
		opts.Size, opts.Scale, (r.min.X+r.max.X)/2, (r.min.Y+r.max.Y)/2, opts.Animate, perFrame)
	_, err = fmt.Fprintf(w, indexHTML, opts.Size, opts.Size, jsString(opts.Title), config,
		strings.Join(r.cmds, "\n"))
	return err
}

// jsString quotes s as a javascript string literal that is safe inside a
// script element.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return string(b)
}
