package cursorpager

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Condition is a single comparison of the form Operator(Column, Value).
type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

// ToSQL converts a condition to an SQL clause of the form
// "Column Operator ?" with the corresponding placeholder value.
//
// Example:
//
//	Condition{Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c Condition) ToSQL() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), parseAnyValue(c.Value)
}

func (c Condition) equality() Condition {
	return Condition{
		Column:   c.Column,
		Operator: operatorEq,
		Value:    c.Value,
	}
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// Predicate is the seek predicate in disjunctive normal form (DNF). Each
// disjunct is joined by OR and consists of conditions joined by AND:
//
//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
type Predicate struct {
	disjuncts [][]Condition
}

// SeekPredicate builds the composite predicate selecting rows strictly after
// (or before) a cursor position under a multi-column order. The conditions
// arrive in order-column sequence with operators matching the query
// directions:
//
//	[(C1, O1, V1), (C2, O2, V2)... (Cn, On, Vn)]
//
// and inflate into the DNF equivalent of the lexicographic comparison:
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ... OR (C1 = V1 AND ... AND Cn On Vn)
func SeekPredicate(conditions []Condition) *Predicate {
	disjuncts := make([][]Condition, 0, len(conditions))
	for i := range conditions {
		disjunct := make([]Condition, 0, i+1)
		for _, preceding := range conditions[:i] {
			disjunct = append(disjunct, preceding.equality())
		}
		disjunct = append(disjunct, conditions[i])

		disjuncts = append(disjuncts, disjunct)
	}

	return &Predicate{disjuncts: disjuncts}
}

// Disjuncts exposes the DNF structure for Relation implementations that
// translate the predicate into their own expression model.
func (p *Predicate) Disjuncts() [][]Condition {
	if p == nil {
		return nil
	}

	return p.disjuncts
}

func (p *Predicate) IsEmpty() bool {
	return p == nil || len(p.disjuncts) == 0
}

// ToSQL converts the predicate into an SQL condition with "?" placeholders
// and the corresponding values.
//
// Example:
//
//	Predicate of [{id > 10}, {id = 10 AND created_at > t}]
//
// Result:
//
//	("((id > ?) OR (id = ? AND created_at > ?))", [10, 10, t])
func (p *Predicate) ToSQL() (string, []driver.Value) {
	orClauses := make([]string, 0, len(p.Disjuncts()))
	values := make([]driver.Value, 0, len(p.Disjuncts()))

	for _, disjunct := range p.Disjuncts() {
		orClause, orValues := disjunctToSQL(disjunct)
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}

// disjunctToSQL converts a disjunct (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values.
func disjunctToSQL(disjunct []Condition) (string, []driver.Value) {
	andClauses := make([]string, 0, len(disjunct))
	andValues := make([]driver.Value, 0, len(disjunct))

	for _, condition := range disjunct {
		andClause, andValue := condition.ToSQL()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}
