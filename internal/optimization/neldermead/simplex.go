// Package neldermead implements derivative-free minimization with the
// Nelder-Mead simplex method, plus a penalty-function wrapper that adapts
// it to constrained problems.
package neldermead

import (
	"sort"

	"github.com/optimatic/AMOEBA/internal/optimization"
)

// Vertex pairs a simplex point with its objective value.
type Vertex struct {
	Point optimization.Point
	Value float64
}

// Simplex is an immutable ordered collection of exactly dimension+1
// vertices. Every mutation-shaped operation returns a new Simplex; the
// optimizer swaps its reference each step, so observers may retain past
// simplices without aliasing hazards.
type Simplex struct {
	fn       optimization.Function
	vertices []Vertex
}

// NewSimplex builds a simplex for the given objective from the supplied
// seed points, evaluating each one. When fewer than dimension+1 points are
// given the rest are generated by stepping along successive unit axes from
// the last point (from the zero point when none are given), each freshly
// evaluated.
func NewSimplex(fn optimization.Function, points ...optimization.Point) (*Simplex, error) {
	if fn == nil {
		return nil, optimization.NewError("function must not be nil").
			WithComponent("simplex")
	}
	dim := fn.Dimension()
	vertices := make([]Vertex, 0, dim+1)
	for _, p := range points {
		if p.Dimension() != dim {
			return nil, optimization.NewErrorf("point %v dimension must be %d", p, dim).
				WithComponent("simplex")
		}
		vertices = append(vertices, Vertex{Point: p, Value: fn.Evaluate(p)})
	}
	return completeSimplex(fn, vertices)
}

// NewSimplexFromVertices builds a simplex from pre-evaluated vertices,
// trusting the supplied values verbatim. Auto-completion applies as in
// NewSimplex when fewer than dimension+1 vertices are given.
func NewSimplexFromVertices(fn optimization.Function, vertices ...Vertex) (*Simplex, error) {
	if fn == nil {
		return nil, optimization.NewError("function must not be nil").
			WithComponent("simplex")
	}
	dim := fn.Dimension()
	vs := make([]Vertex, 0, dim+1)
	for _, v := range vertices {
		if v.Point.Dimension() != dim {
			return nil, optimization.NewErrorf("point %v dimension must be %d", v.Point, dim).
				WithComponent("simplex")
		}
		vs = append(vs, v)
	}
	return completeSimplex(fn, vs)
}

func completeSimplex(fn optimization.Function, vertices []Vertex) (*Simplex, error) {
	dim := fn.Dimension()
	if len(vertices) > dim+1 {
		return nil, optimization.NewErrorf("at most %d points allowed, got %d", dim+1, len(vertices)).
			WithComponent("simplex")
	}
	if len(vertices) == 0 {
		zero := optimization.Zero(dim)
		vertices = append(vertices, Vertex{Point: zero, Value: fn.Evaluate(zero)})
	}
	axis := 0
	for len(vertices) < dim+1 {
		next := vertices[len(vertices)-1].Point.Add(optimization.Unit(dim, axis))
		vertices = append(vertices, Vertex{Point: next, Value: fn.Evaluate(next)})
		axis++
		if axis >= dim {
			axis = 0
		}
	}
	return &Simplex{fn: fn, vertices: vertices}, nil
}

// Size returns the number of vertices, always dimension+1.
func (s *Simplex) Size() int {
	return len(s.vertices)
}

// Function returns the objective used to evaluate vertices.
func (s *Simplex) Function() optimization.Function {
	return s.fn
}

// Vertices returns a copy of the vertices in stored order.
func (s *Simplex) Vertices() []Vertex {
	vs := make([]Vertex, len(s.vertices))
	copy(vs, s.vertices)
	return vs
}

// Best returns the first vertex of the stored ordering. It is only
// semantically the best after Sort; that is the caller's responsibility.
func (s *Simplex) Best() Vertex {
	return s.vertices[0]
}

// Good returns the second-to-last vertex of the stored ordering.
func (s *Simplex) Good() Vertex {
	return s.vertices[len(s.vertices)-2]
}

// Worst returns the last vertex of the stored ordering.
func (s *Simplex) Worst() Vertex {
	return s.vertices[len(s.vertices)-1]
}

// Sort returns a new Simplex with vertices ordered ascending by value.
// The sort is stable, so ties keep their relative order.
func (s *Simplex) Sort() *Simplex {
	vs := s.Vertices()
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Value < vs[j].Value })
	return &Simplex{fn: s.fn, vertices: vs}
}

// Replace returns a new Simplex with the vertex at index substituted by the
// given point, whose value is computed through the objective. Index follows
// the [-n, n) convention where negative values count from the end.
func (s *Simplex) Replace(index int, point optimization.Point) (*Simplex, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	if point.Dimension() != s.fn.Dimension() {
		return nil, optimization.NewErrorf("point %v dimension must be %d", point, s.fn.Dimension()).
			WithComponent("simplex").WithOperation("Replace")
	}
	return s.replaceAt(index, Vertex{Point: point, Value: s.fn.Evaluate(point)}), nil
}

// ReplaceVertex returns a new Simplex with the vertex at index substituted
// by the given pre-evaluated vertex, trusting its value verbatim.
func (s *Simplex) ReplaceVertex(index int, v Vertex) (*Simplex, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	if v.Point.Dimension() != s.fn.Dimension() {
		return nil, optimization.NewErrorf("point %v dimension must be %d", v.Point, s.fn.Dimension()).
			WithComponent("simplex").WithOperation("ReplaceVertex")
	}
	return s.replaceAt(index, v), nil
}

// replaceAt substitutes one vertex without validation. Index must already
// lie in [-n, n).
func (s *Simplex) replaceAt(index int, v Vertex) *Simplex {
	if index < 0 {
		index += len(s.vertices)
	}
	vs := s.Vertices()
	vs[index] = v
	return &Simplex{fn: s.fn, vertices: vs}
}

func (s *Simplex) checkIndex(index int) error {
	n := len(s.vertices)
	if index < -n || index >= n {
		return optimization.NewIndexErrorf("index must be in [%d, %d), got %d", -n, n, index).
			WithComponent("simplex")
	}
	return nil
}

// centroid returns the arithmetic mean of all points except the last.
// With a sorted simplex the excluded point is the worst.
func (s *Simplex) centroid() optimization.Point {
	sum := optimization.Zero(s.fn.Dimension())
	for _, v := range s.vertices[:len(s.vertices)-1] {
		sum = sum.Add(v.Point)
	}
	return sum.Div(float64(len(s.vertices) - 1))
}
