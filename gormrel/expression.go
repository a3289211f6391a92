package gormrel

import (
	"gorm.io/gorm/clause"

	"github.com/healthie/cursorpager"
)

// toExpression converts a seek predicate into a GORM clause.Expression: each
// condition becomes "Column Operator ?" with a placeholder, conditions inside
// a disjunct are joined with AND and disjuncts with OR.
//
// Example:
//
//	Predicate of [{id > 10}, {id = 10 AND created_at > t}]
//
// Result:
//
//	(id > ? OR (id = ? AND created_at > ?)) with vars [10, 10, t]
func toExpression(p *cursorpager.Predicate) clause.Expression {
	if p.IsEmpty() {
		return nil
	}

	orExpressions := make([]clause.Expression, 0, len(p.Disjuncts()))
	for _, disjunct := range p.Disjuncts() {
		andExpressions := make([]clause.Expression, 0, len(disjunct))
		for _, condition := range disjunct {
			sql, arg := condition.ToSQL()
			andExpressions = append(andExpressions, clause.Expr{
				SQL:  sql,
				Vars: []any{arg},
			})
		}

		if len(andExpressions) == 1 {
			orExpressions = append(orExpressions, andExpressions[0])
		} else if len(andExpressions) > 1 {
			orExpressions = append(orExpressions, clause.And(andExpressions...))
		}
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}
