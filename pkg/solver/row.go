package solver

import "math"

const tolerance = 1e-8

func nearZero(v float64) bool { return math.Abs(v) < tolerance }

type symbolKind int

const (
	invalidSymbol symbolKind = iota
	externalSymbol
	slackSymbol
	errorSymbol
	dummySymbol
)

// symbol is a tableau column. The zero value is the invalid symbol.
type symbol struct {
	id   uint64
	kind symbolKind
}

func (s symbol) valid() bool { return s.kind != invalidSymbol }

// restricted symbols must stay non-negative.
func (s symbol) restricted() bool { return s.kind == slackSymbol || s.kind == errorSymbol }

// less orders symbols by creation; the invalid symbol sorts last.
func (s symbol) less(o symbol) bool {
	if !o.valid() {
		return s.valid()
	}
	return s.valid() && s.id < o.id
}

// row is constant + Σ cells. Basic rows are read as "symbol = row".
type row struct {
	constant float64
	cells    map[symbol]float64
}

func newRow(constant float64) *row {
	return &row{constant: constant, cells: make(map[symbol]float64)}
}

func (r *row) copy() *row {
	c := newRow(r.constant)
	for s, v := range r.cells {
		c.cells[s] = v
	}
	return c
}

func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

func (r *row) insertSymbol(s symbol, coefficient float64) {
	v := r.cells[s] + coefficient
	if nearZero(v) {
		delete(r.cells, s)
		return
	}
	r.cells[s] = v
}

func (r *row) insertRow(o *row, coefficient float64) {
	r.constant += o.constant * coefficient
	for s, v := range o.cells {
		r.insertSymbol(s, v*coefficient)
	}
}

func (r *row) remove(s symbol) { delete(r.cells, s) }

func (r *row) reverseSign() {
	r.constant = -r.constant
	for s, v := range r.cells {
		r.cells[s] = -v
	}
}

// solveFor rewrites 0 = r as s = r', dropping s from the cells.
func (r *row) solveFor(s symbol) {
	coefficient := -1.0 / r.cells[s]
	delete(r.cells, s)
	r.constant *= coefficient
	for k, v := range r.cells {
		r.cells[k] = v * coefficient
	}
}

// solveForPair rewrites lhs = r as rhs = r'.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

func (r *row) coefficientFor(s symbol) float64 { return r.cells[s] }

func (r *row) substitute(s symbol, o *row) {
	if c, ok := r.cells[s]; ok {
		delete(r.cells, s)
		r.insertRow(o, c)
	}
}

func (r *row) allDummies() bool {
	for s := range r.cells {
		if s.kind != dummySymbol {
			return false
		}
	}
	return true
}
