package solver

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrDuplicateConstraint is returned by [Solver.AddConstraint] when the
	// constraint was already added.
	ErrDuplicateConstraint = errors.New("duplicate constraint")

	// ErrUnsatisfiableConstraint is returned by [Solver.AddConstraint] when a
	// required constraint conflicts with the required constraints already in
	// the system. The solver must be discarded afterwards.
	ErrUnsatisfiableConstraint = errors.New("unsatisfiable constraint")

	// ErrDuplicateEditVariable is returned by [Solver.AddEditVariable] when the
	// variable is already editable.
	ErrDuplicateEditVariable = errors.New("duplicate edit variable")

	// ErrUnknownEditVariable is returned by [Solver.SuggestValue] for a variable
	// that was never registered with AddEditVariable.
	ErrUnknownEditVariable = errors.New("unknown edit variable")

	// ErrBadRequiredStrength is returned by [Solver.AddEditVariable] when asked
	// for a required edit variable.
	ErrBadRequiredStrength = errors.New("edit variable strength must be below required")

	// ErrInternal reports a broken tableau invariant (unbounded objective or a
	// failed dual pivot).
	ErrInternal = errors.New("internal solver error")
)

type tag struct {
	marker symbol
	other  symbol
}

type editInfo struct {
	tag        tag
	constraint *Constraint
	constant   float64
}

// Solver holds one constraint system. The zero value is not usable; call New.
type Solver struct {
	constraints map[*Constraint]tag
	rows        map[symbol]*row
	vars        map[*Variable]symbol
	edits       map[*Variable]*editInfo
	infeasible  []symbol
	objective   *row
	artificial  *row
	ticks       uint64
	fetched     map[*Variable]float64
}

// New returns an empty solver.
func New() *Solver {
	return &Solver{
		constraints: make(map[*Constraint]tag),
		rows:        make(map[symbol]*row),
		vars:        make(map[*Variable]symbol),
		edits:       make(map[*Variable]*editInfo),
		objective:   newRow(0),
		fetched:     make(map[*Variable]float64),
	}
}

// Reset drops every constraint and edit variable.
func (s *Solver) Reset() { *s = *New() }

// NumConstraints reports how many constraints are in the system, edit
// constraints included.
func (s *Solver) NumConstraints() int { return len(s.constraints) }

// HasConstraint reports whether c was added.
func (s *Solver) HasConstraint(c *Constraint) bool {
	_, ok := s.constraints[c]
	return ok
}

// HasEditVariable reports whether v is editable.
func (s *Solver) HasEditVariable(v *Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// AddConstraint adds c and re-optimizes the system incrementally.
func (s *Solver) AddConstraint(c *Constraint) error {
	if _, ok := s.constraints[c]; ok {
		return ErrDuplicateConstraint
	}

	r, t := s.createRow(c)
	subject := chooseSubject(r, t)

	if !subject.valid() && r.allDummies() {
		if !nearZero(r.constant) {
			return ErrUnsatisfiableConstraint
		}
		subject = t.marker
	}

	if !subject.valid() {
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnsatisfiableConstraint
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.constraints[c] = t
	return s.optimize(s.objective)
}

// AddEditVariable makes v adjustable through SuggestValue at the given
// strength, which must be below Required.
func (s *Solver) AddEditVariable(v *Variable, strength Strength) error {
	if _, ok := s.edits[v]; ok {
		return ErrDuplicateEditVariable
	}
	strength = strength.clip()
	if strength == Required {
		return ErrBadRequiredStrength
	}
	c := NewConstraint(v.Expr(), Constant(0), EQ, strength)
	if err := s.AddConstraint(c); err != nil {
		return err
	}
	s.edits[v] = &editInfo{tag: s.constraints[c], constraint: c}
	return nil
}

// SuggestValue moves edit variable v towards value and re-solves with the
// dual simplex, without rebuilding the tableau.
func (s *Solver) SuggestValue(v *Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return ErrUnknownEditVariable
	}
	delta := value - info.constant
	info.constant = value

	if r, ok := s.rows[info.tag.marker]; ok {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}
	if r, ok := s.rows[info.tag.other]; ok {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}

	var negative []symbol
	for sym, r := range s.rows {
		c := r.coefficientFor(info.tag.marker)
		if c != 0 && r.add(delta*c) < 0 && sym.kind != externalSymbol {
			negative = append(negative, sym)
		}
	}
	s.pushInfeasible(negative)
	return s.dualOptimize()
}

// UpdateVariables writes the current solution into every known variable.
func (s *Solver) UpdateVariables() {
	for v, sym := range s.vars {
		if r, ok := s.rows[sym]; ok {
			v.value = r.constant
		} else {
			v.value = 0
		}
	}
}

// Value returns the solved value of v as of the last UpdateVariables call.
func (s *Solver) Value(v *Variable) float64 { return v.value }

// FetchChanges returns the variables whose value differs from the previous
// FetchChanges call (or from zero on the first call), ordered by creation.
// Call UpdateVariables first.
func (s *Solver) FetchChanges() []*Variable {
	var changed []*Variable
	for v := range s.vars {
		prev, seen := s.fetched[v]
		if (!seen && v.value != 0) || (seen && prev != v.value) {
			changed = append(changed, v)
		}
		s.fetched[v] = v.value
	}
	slices.SortFunc(changed, func(a, b *Variable) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return changed
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.ticks++
	return symbol{id: s.ticks, kind: kind}
}

func (s *Solver) varSymbol(v *Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(externalSymbol)
	s.vars[v] = sym
	return sym
}

// createRow turns c into a tableau row with basic variables substituted and
// slack, error or dummy markers attached.
func (s *Solver) createRow(c *Constraint) (*row, tag) {
	r := newRow(c.expression.Constant)
	for _, term := range c.expression.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.varSymbol(term.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coefficient)
		} else {
			r.insertSymbol(sym, term.Coefficient)
		}
	}

	var t tag
	switch c.op {
	case LE, GE:
		coefficient := 1.0
		if c.op == GE {
			coefficient = -1.0
		}
		slack := s.newSymbol(slackSymbol)
		t.marker = slack
		r.insertSymbol(slack, coefficient)
		if c.strength < Required {
			e := s.newSymbol(errorSymbol)
			t.other = e
			r.insertSymbol(e, -coefficient)
			s.objective.insertSymbol(e, float64(c.strength))
		}
	case EQ:
		if c.strength < Required {
			plus := s.newSymbol(errorSymbol)
			minus := s.newSymbol(errorSymbol)
			t.marker = plus
			t.other = minus
			r.insertSymbol(plus, -1)
			r.insertSymbol(minus, 1)
			s.objective.insertSymbol(plus, float64(c.strength))
			s.objective.insertSymbol(minus, float64(c.strength))
		} else {
			dummy := s.newSymbol(dummySymbol)
			t.marker = dummy
			r.insertSymbol(dummy, 1)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r, t
}

// chooseSubject prefers an external symbol, then a restricted marker with a
// negative coefficient.
func chooseSubject(r *row, t tag) symbol {
	var best symbol
	for sym := range r.cells {
		if sym.kind == externalSymbol && sym.less(best) {
			best = sym
		}
	}
	if best.valid() {
		return best
	}
	if t.marker.restricted() && r.coefficientFor(t.marker) < 0 {
		return t.marker
	}
	if t.other.restricted() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(slackSymbol)
	s.rows[art] = r.copy()
	s.artificial = r.copy()

	if err := s.optimize(s.artificial); err != nil {
		s.artificial = nil
		return false, err
	}
	success := nearZero(s.artificial.constant)
	s.artificial = nil

	if ar, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(ar.cells) == 0 {
			return success, nil
		}
		entering := anyPivotableSymbol(ar)
		if !entering.valid() {
			return false, nil
		}
		ar.solveForPair(art, entering)
		s.substitute(entering, ar)
		s.rows[entering] = ar
	}

	for _, other := range s.rows {
		other.remove(art)
	}
	s.objective.remove(art)
	return success, nil
}

// substitute replaces sym by r in every row and the objectives, queueing
// restricted rows that became negative.
func (s *Solver) substitute(sym symbol, r *row) {
	var negative []symbol
	for basic, other := range s.rows {
		other.substitute(sym, r)
		if basic.kind != externalSymbol && other.constant < 0 {
			negative = append(negative, basic)
		}
	}
	s.pushInfeasible(negative)
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

func (s *Solver) pushInfeasible(syms []symbol) {
	slices.SortFunc(syms, func(a, b symbol) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	s.infeasible = append(s.infeasible, syms...)
}

// optimize runs primal simplex pivots on objective until no entering symbol
// remains. Entering and leaving choices follow Bland's rule.
func (s *Solver) optimize(objective *row) error {
	for {
		entering := enteringSymbol(objective)
		if !entering.valid() {
			return nil
		}
		leaving, r := s.leavingRow(entering)
		if r == nil {
			return ErrInternal
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
}

func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		leaving := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]

		r, ok := s.rows[leaving]
		if !ok || nearZero(r.constant) || r.constant >= 0 {
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if !entering.valid() {
			return ErrInternal
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

func enteringSymbol(objective *row) symbol {
	var best symbol
	for sym, c := range objective.cells {
		if sym.kind != dummySymbol && c < 0 && sym.less(best) {
			best = sym
		}
	}
	return best
}

func (s *Solver) dualEnteringSymbol(r *row) symbol {
	var best symbol
	ratio := math.MaxFloat64
	for sym, c := range r.cells {
		if c <= 0 || sym.kind == dummySymbol {
			continue
		}
		q := s.objective.coefficientFor(sym) / c
		if q < ratio || (q == ratio && sym.less(best)) {
			ratio = q
			best = sym
		}
	}
	return best
}

func anyPivotableSymbol(r *row) symbol {
	var best symbol
	for sym := range r.cells {
		if sym.restricted() && sym.less(best) {
			best = sym
		}
	}
	return best
}

// leavingRow finds the restricted basic row that limits entering the most.
func (s *Solver) leavingRow(entering symbol) (symbol, *row) {
	ratio := math.MaxFloat64
	var leaving symbol
	var found *row
	for sym, r := range s.rows {
		if sym.kind == externalSymbol {
			continue
		}
		c := r.coefficientFor(entering)
		if c >= 0 {
			continue
		}
		q := -r.constant / c
		if q < ratio || (q == ratio && sym.less(leaving)) {
			ratio = q
			leaving = sym
			found = r
		}
	}
	return leaving, found
}
