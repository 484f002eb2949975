package solver

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var variableIDs atomic.Uint64

// Variable is a scalar unknown. Its value is written by [Solver.UpdateVariables].
type Variable struct {
	id    uint64
	name  string
	value float64
}

// NewVariable allocates a variable. The name is only used for diagnostics.
func NewVariable(name string) *Variable {
	return &Variable{id: variableIDs.Add(1), name: name}
}

// Name returns the diagnostic name given to NewVariable.
func (v *Variable) Name() string { return v.name }

// Value returns the value written by the most recent UpdateVariables call.
func (v *Variable) Value() float64 { return v.value }

// Term returns coefficient*v.
func (v *Variable) Term(coefficient float64) Term { return Term{Variable: v, Coefficient: coefficient} }

// Expr returns the expression 1*v.
func (v *Variable) Expr() Expression { return Expression{Terms: []Term{{Variable: v, Coefficient: 1}}} }

func (v *Variable) String() string { return v.name }

// Term is a variable scaled by a coefficient.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Expression is a sum of terms plus a constant.
type Expression struct {
	Terms    []Term
	Constant float64
}

// NewExpression builds constant + Σ terms.
func NewExpression(constant float64, terms ...Term) Expression {
	return Expression{Terms: append([]Term(nil), terms...), Constant: constant}
}

// Constant returns an expression without terms.
func Constant(c float64) Expression { return Expression{Constant: c} }

// Plus returns e + o.
func (e Expression) Plus(o Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expression{Terms: terms, Constant: e.Constant + o.Constant}
}

// Minus returns e - o.
func (e Expression) Minus(o Expression) Expression { return e.Plus(o.Scale(-1)) }

// Scale returns k*e.
func (e Expression) Scale(k float64) Expression {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Variable: t.Variable, Coefficient: t.Coefficient * k}
	}
	return Expression{Terms: terms, Constant: e.Constant * k}
}

// AddConstant returns e + c.
func (e Expression) AddConstant(c float64) Expression {
	return Expression{Terms: append([]Term(nil), e.Terms...), Constant: e.Constant + c}
}

// Value evaluates e with the current variable values.
func (e Expression) Value() float64 {
	v := e.Constant
	for _, t := range e.Terms {
		v += t.Coefficient * t.Variable.value
	}
	return v
}

// reduce merges terms on the same variable, keeping first-appearance order.
func (e Expression) reduce() Expression {
	index := make(map[*Variable]int, len(e.Terms))
	terms := make([]Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		if i, ok := index[t.Variable]; ok {
			terms[i].Coefficient += t.Coefficient
			continue
		}
		index[t.Variable] = len(terms)
		terms = append(terms, t)
	}
	return Expression{Terms: terms, Constant: e.Constant}
}

func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*%s", t.Coefficient, t.Variable.name)
	}
	if len(e.Terms) == 0 || e.Constant != 0 {
		if len(e.Terms) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", e.Constant)
	}
	return b.String()
}

// Operator is the relation of a constraint.
type Operator int

const (
	LE Operator = iota // ≤
	EQ                 // =
	GE                 // ≥
)

func (op Operator) String() string {
	switch op {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Constraint is the relation expression op 0 at a strength.
// Constraints are compared by identity; add each one at most once.
type Constraint struct {
	expression Expression
	op         Operator
	strength   Strength
}

// NewConstraint builds lhs op rhs.
func NewConstraint(lhs, rhs Expression, op Operator, strength Strength) *Constraint {
	return &Constraint{
		expression: lhs.Minus(rhs).reduce(),
		op:         op,
		strength:   strength.clip(),
	}
}

// LessEq builds lhs ≤ rhs.
func LessEq(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs, rhs, LE, strength)
}

// Equal builds lhs = rhs.
func Equal(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs, rhs, EQ, strength)
}

// GreaterEq builds lhs ≥ rhs.
func GreaterEq(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs, rhs, GE, strength)
}

// Expression returns the reduced left-hand side of expression op 0.
func (c *Constraint) Expression() Expression { return c.expression }

// Op returns the relation.
func (c *Constraint) Op() Operator { return c.op }

// Strength returns the clipped strength.
func (c *Constraint) Strength() Strength { return c.strength }

// Satisfied reports whether the constraint holds for the current variable
// values, within the solver tolerance.
func (c *Constraint) Satisfied() bool {
	v := c.expression.Value()
	switch c.op {
	case LE:
		return v <= tolerance
	case GE:
		return v >= -tolerance
	default:
		return nearZero(v)
	}
}

func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s 0 | %s", c.expression, c.op, c.strength)
}
