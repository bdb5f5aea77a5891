package drag

// Point is a pointer position in screen cells.
type Point struct {
	X, Y int
}

// Rect is a bounding box; X/Y is the top-left cell.
type Rect struct {
	X, Y, W, H int
}

// Center returns the box center in doubled coordinates so that odd sizes
// keep an exact integer midpoint.
func (r Rect) Center() (cx2, cy2 int) {
	return 2*r.X + r.W, 2*r.Y + r.H
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Target is a visible, droppable item.
type Target struct {
	ID     string
	Bounds Rect
}

// ClosestCenter returns the target whose center is nearest p. Ties go to
// the earlier target. It returns false when there are no targets.
func ClosestCenter(p Point, targets []Target) (string, bool) {
	best := -1
	bestDist := 0
	px, py := 2*p.X+1, 2*p.Y+1
	for i, t := range targets {
		cx, cy := t.Bounds.Center()
		dx, dy := px-cx, py-cy
		d := dx*dx + dy*dy
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return "", false
	}
	return targets[best].ID, true
}

// Rows lays out one target per line, starting at top, each width cells
// wide. It matches a single-column list where row i is drawn at top+i.
func Rows(ids []string, top, width int) []Target {
	targets := make([]Target, len(ids))
	for i, id := range ids {
		targets[i] = Target{ID: id, Bounds: Rect{X: 0, Y: top + i, W: width, H: 1}}
	}
	return targets
}

// At returns the target containing p.
func At(p Point, targets []Target) (string, bool) {
	for _, t := range targets {
		if t.Bounds.Contains(p) {
			return t.ID, true
		}
	}
	return "", false
}
