package swarm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// OutlineOptions controls how a 2D outline is lifted into world space.
type OutlineOptions struct {
	Scale    float64 // world units per path unit
	Height   float64 // world Y for every sampled point
	Centered bool    // translate so the outline's bound centre sits at the origin
}

// DefaultOutlineOptions is the lift used for the built-in outline: a 0.15
// scale at cruise height, centred on the origin.
func DefaultOutlineOptions() OutlineOptions {
	return OutlineOptions{Scale: 0.15, Height: cruiseHeight, Centered: true}
}

// Outline is an ordered 2D polyline parsed from a path description.
// Path x maps to world X and path y maps to world Z.
type Outline struct {
	path   orb.LineString
	opts   OutlineOptions
	origin orb.Point
}

// pathArity is the number of arguments consumed per segment of each command.
// Curve and arc commands are reduced to a straight segment to their end point.
var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Z': 0,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7,
}

type pathCommand struct {
	op   byte
	args []float64
}

// ParseOutline parses a move/line/horizontal/vertical path description
// ("M 0 0 h 10 v 10 Z") into an outline.
func ParseOutline(d string, opts OutlineOptions) (Outline, error) {
	cmds, err := lexPath(d)
	if err != nil {
		return Outline{}, err
	}
	path, err := tracePath(cmds)
	if err != nil {
		return Outline{}, err
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultOutlineOptions().Scale
	}
	o := Outline{path: path, opts: opts}
	if opts.Centered {
		o.origin = path.Bound().Center()
	}
	return o, nil
}

// Len is the number of polyline points.
func (o Outline) Len() int {
	return len(o.path)
}

// Path returns a copy of the parsed polyline in path units.
func (o Outline) Path() orb.LineString {
	return o.path.Clone()
}

// Perimeter is the polyline length in world units.
func (o Outline) Perimeter() float64 {
	return planar.Length(o.path) * o.opts.Scale
}

// Sample returns exactly count world positions along the outline.
//
// With fewer agents than points the polyline is downsampled by uniform index
// stride. With at least as many agents every point is used in order and the
// remainder wrap around onto the same points; nothing is interpolated.
func (o Outline) Sample(count int) []Vec3 {
	if count <= 0 {
		return []Vec3{}
	}
	out := make([]Vec3, count)
	n := len(o.path)
	if n == 0 {
		for i := range out {
			out[i] = Vec3{0, o.opts.Height, 0}
		}
		return out
	}
	if count >= n {
		for i := range out {
			out[i] = o.world(i % n)
		}
		return out
	}
	step := float64(n) / float64(count)
	for k := range out {
		out[k] = o.world(int(math.Floor(float64(k) * step)))
	}
	return out
}

func (o Outline) world(i int) Vec3 {
	p := o.path[i]
	return Vec3{
		(p.X() - o.origin.X()) * o.opts.Scale,
		o.opts.Height,
		(p.Y() - o.origin.Y()) * o.opts.Scale,
	}
}

// tracePath walks the commands and emits one polyline point per segment end.
func tracePath(cmds []pathCommand) (orb.LineString, error) {
	var (
		path           orb.LineString
		x, y           float64
		startX, startY float64
	)
	emit := func() {
		path = append(path, orb.Point{x, y})
	}

	for _, c := range cmds {
		up := c.op &^ 0x20 // ASCII upper-case
		rel := c.op != up
		n, ok := pathArity[up]
		if !ok {
			return nil, fmt.Errorf("command %q: %w", c.op, ErrMalformedPath)
		}
		if n == 0 {
			if len(c.args) != 0 {
				return nil, fmt.Errorf("command %q takes no arguments: %w", c.op, ErrMalformedPath)
			}
			x, y = startX, startY
			if len(path) > 0 && path[len(path)-1] != (orb.Point{x, y}) {
				emit()
			}
			continue
		}
		if len(c.args) == 0 || len(c.args)%n != 0 {
			return nil, fmt.Errorf("command %q with %d arguments: %w", c.op, len(c.args), ErrMalformedPath)
		}

		for k := 0; k < len(c.args); k += n {
			a := c.args[k : k+n]
			switch up {
			case 'H':
				if rel {
					x += a[0]
				} else {
					x = a[0]
				}
			case 'V':
				if rel {
					y += a[0]
				} else {
					y = a[0]
				}
			default:
				ex, ey := a[n-2], a[n-1]
				if rel {
					ex += x
					ey += y
				}
				x, y = ex, ey
			}
			if up == 'M' && k == 0 {
				startX, startY = x, y
			}
			emit()
		}
	}

	if len(path) == 0 {
		return nil, fmt.Errorf("no points: %w", ErrMalformedPath)
	}
	return path, nil
}

// lexPath splits a path description into commands with numeric arguments.
func lexPath(d string) ([]pathCommand, error) {
	var cmds []pathCommand
	for i := 0; i < len(d); {
		c := d[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isPathLetter(c):
			cmds = append(cmds, pathCommand{op: c})
			i++
		case c == '-' || c == '+' || c == '.' || isDigit(c):
			if len(cmds) == 0 {
				return nil, fmt.Errorf("number before first command: %w", ErrMalformedPath)
			}
			end := scanNumber(d, i)
			v, err := strconv.ParseFloat(d[i:end], 64)
			if err != nil {
				return nil, fmt.Errorf("number %q: %w", d[i:end], ErrMalformedPath)
			}
			last := &cmds[len(cmds)-1]
			last.args = append(last.args, v)
			i = end
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d: %w", c, i, ErrMalformedPath)
		}
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("empty path: %w", ErrMalformedPath)
	}
	return cmds, nil
}

// scanNumber returns the end offset of the number starting at i.
// A second '.' or a sign starts a new number, as in "1.5.5" or "3-2".
func scanNumber(d string, i int) int {
	j := i
	if j < len(d) && (d[j] == '-' || d[j] == '+') {
		j++
	}
	for j < len(d) && isDigit(d[j]) {
		j++
	}
	if j < len(d) && d[j] == '.' {
		j++
		for j < len(d) && isDigit(d[j]) {
			j++
		}
	}
	if j < len(d) && (d[j] == 'e' || d[j] == 'E') {
		k := j + 1
		if k < len(d) && (d[k] == '-' || d[k] == '+') {
			k++
		}
		if k < len(d) && isDigit(d[k]) {
			for k < len(d) && isDigit(d[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isPathLetter excludes e/E, which belong to exponents.
func isPathLetter(c byte) bool {
	if c == 'e' || c == 'E' {
		return false
	}
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// starPath builds a closed star outline with every edge split into steps
// straight segments, so the outline has enough points for a large swarm.
func starPath(points int, outer, inner float64, steps int) string {
	corners := 2 * points
	corner := func(c int) (float64, float64) {
		r := outer
		if c%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(c)*math.Pi/float64(points)
		return outer + r*math.Cos(a), outer + r*math.Sin(a)
	}

	var sb strings.Builder
	for c := 0; c < corners; c++ {
		x0, y0 := corner(c)
		x1, y1 := corner((c + 1) % corners)
		for k := 0; k < steps; k++ {
			t := float64(k) / float64(steps)
			op := "L"
			if c == 0 && k == 0 {
				op = "M"
			}
			fmt.Fprintf(&sb, "%s %.2f %.2f ", op, x0+(x1-x0)*t, y0+(y1-y0)*t)
		}
	}
	sb.WriteString("Z")
	return sb.String()
}

var defaultOutline = func() Outline {
	o, err := ParseOutline(starPath(5, 300, 120, 24), DefaultOutlineOptions())
	if err != nil {
		panic("swarm: built-in outline: " + err.Error())
	}
	return o
}()

// DefaultOutline is a five-point star with 241 points.
func DefaultOutline() Outline {
	return defaultOutline
}
