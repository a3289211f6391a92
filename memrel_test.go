package cursorpager

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// memRow is a map-backed record used by the in-memory relation below.
type memRow map[string]any

func (r memRow) Column(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// memRelation is an in-memory Relation used to exercise full multi-page
// traversals without a database. It understands plain column references only,
// which is all the traversal scenarios need.
type memRelation struct {
	rows     []memRow
	pks      []string
	pkErr    error
	order    Orderings
	pred     *Predicate
	limit    int
	hasLimit bool
}

func newMemRelation(pks []string, rows ...memRow) *memRelation {
	return &memRelation{rows: rows, pks: pks}
}

func (m *memRelation) Select(_ []string, _ bool) Relation {
	next := *m
	return &next
}

func (m *memRelation) Where(predicate *Predicate) Relation {
	next := *m
	next.pred = predicate
	return &next
}

func (m *memRelation) Reorder(order Orderings) Relation {
	next := *m
	next.order = order
	return &next
}

func (m *memRelation) Limit(n int) Relation {
	next := *m
	next.limit = n
	next.hasLimit = true
	return &next
}

func (m *memRelation) Execute(_ context.Context) ([]Record, error) {
	matched := make([]memRow, 0, len(m.rows))
	for _, row := range m.rows {
		if evalPredicate(m.pred, row) {
			matched = append(matched, row)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		for _, ordering := range m.order {
			a, _ := matched[i].Column(ordering.Column)
			b, _ := matched[j].Column(ordering.Column)
			if c := compareValues(a, b); c != 0 {
				if ordering.Direction == DirectionASC {
					return c < 0
				}
				return c > 0
			}
		}
		return false
	})

	if m.hasLimit && len(matched) > m.limit {
		matched = matched[:m.limit]
	}

	records := make([]Record, 0, len(matched))
	for _, row := range matched {
		records = append(records, row)
	}

	return records, nil
}

func (m *memRelation) PrimaryKeyColumns() ([]string, error) {
	if m.pkErr != nil {
		return nil, m.pkErr
	}

	return slices.Clone(m.pks), nil
}

func evalPredicate(p *Predicate, row memRow) bool {
	if p.IsEmpty() {
		return true
	}

	for _, disjunct := range p.Disjuncts() {
		holds := true
		for _, condition := range disjunct {
			v, ok := row.Column(condition.Column)
			if !ok {
				holds = false
				break
			}

			c := compareValues(v, condition.Value)
			switch condition.Operator {
			case OperatorGT:
				holds = c > 0
			case OperatorLT:
				holds = c < 0
			default:
				holds = c == 0
			}
			if !holds {
				break
			}
		}
		if holds {
			return true
		}
	}

	return false
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		return av.Compare(b.(time.Time))
	case string:
		return strings.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	default:
		af, bf := toFloat(a), toFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case float64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		panic(fmt.Errorf("cannot compare value of type %T", v))
	}
}
