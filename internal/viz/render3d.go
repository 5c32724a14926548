package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

// Camera projects normalised points (roughly the [-1, 1] cube) onto a plane.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

// NewCamera returns the default oblique view used for release paths.
func NewCamera() *Camera {
	return &Camera{Distance: 6, RotX: -0.45, RotY: 0.65, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(4, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.25, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project maps p to screen coordinates in a w x h viewport, returning
// visibility.
func (c *Camera) Project(p Vec3, w, h int) (int, int, bool) {
	r := c.rotate(p)
	depth := c.Distance - r.Z
	if depth <= 0.1 {
		return 0, 0, false
	}
	scale := c.Zoom * c.Distance / depth * math.Min(float64(w), float64(h)) / 4.5
	sx := int(r.X*scale) + w/2
	sy := int(-r.Y*scale) + h/2
	return sx, sy, sx >= 0 && sx < w && sy >= 0 && sy < h
}

// Normalize rescales each axis of pts independently into [-1, 1]. A constant
// axis maps to 0.
func Normalize(pts []Vec3) []Vec3 {
	if len(pts) == 0 {
		return nil
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
		lo.Z, hi.Z = math.Min(lo.Z, p.Z), math.Max(hi.Z, p.Z)
	}
	scale := func(v, a, b float64) float64 {
		if b == a {
			return 0
		}
		return 2*(v-a)/(b-a) - 1
	}
	out := make([]Vec3, len(pts))
	for i, p := range pts {
		out[i] = Vec3{scale(p.X, lo.X, hi.X), scale(p.Y, lo.Y, hi.Y), scale(p.Z, lo.Z, hi.Z)}
	}
	return out
}

// BoxEdges returns the 12 edges of the normalised bounding cube.
func BoxEdges() [][2]Vec3 {
	v := []Vec3{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}
	idx := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	edges := make([][2]Vec3, len(idx))
	for i, e := range idx {
		edges[i] = [2]Vec3{v[e[0]], v[e[1]]}
	}
	return edges
}

// Render3D draws the bounding cube and the path through pts onto c. Points
// are normalised first, so callers pass raw data.
func Render3D(c *Canvas, pts []Vec3, cam *Camera) {
	if c == nil || cam == nil || len(pts) == 0 {
		return
	}
	w, h := c.PixelWidth(), c.PixelHeight()
	for _, e := range BoxEdges() {
		x0, y0, ok0 := cam.Project(e[0], w, h)
		x1, y1, ok1 := cam.Project(e[1], w, h)
		if ok0 && ok1 {
			dashed(c, x0, y0, x1, y1)
		}
	}
	norm := Normalize(pts)
	px, py, prevOK := cam.Project(norm[0], w, h)
	if prevOK {
		c.Set(px, py)
	}
	for _, p := range norm[1:] {
		x, y, ok := cam.Project(p, w, h)
		if ok && prevOK {
			c.DrawLine(px, py, x, y)
		} else if ok {
			c.Set(x, y)
		}
		px, py, prevOK = x, y, ok
	}
}

func dashed(c *Canvas, x0, y0, x1, y1 int) {
	n := absInt(x1-x0) + absInt(y1-y0)
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i += 3 {
		f := float64(i) / float64(n)
		c.Set(x0+int(math.Round(f*float64(x1-x0))), y0+int(math.Round(f*float64(y1-y0))))
	}
}
