package cursorpager

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

// Flip inverts the direction. Backward traversal runs the physical query in
// flipped per-column directions and re-reverses the page afterwards.
func (o Direction) Flip() Direction {
	switch o {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		panic(fmt.Errorf("cannot flip direction '%s'", o))
	}
}

type (
	Orderings []OrderBy

	// OrderBy is a single (column reference, direction) pair. Column is a
	// plain identifier ("id"), a qualified identifier ("users.id") or, when
	// Expression is set, an arbitrary SQL expression ("LOWER(name)").
	OrderBy struct {
		Column    string
		Direction Direction
		// Expression marks Column as a caller-trusted SQL expression. It is
		// exempt from the identifier charset guard and is projected under a
		// synthetic alias so its value can be read back from result rows.
		Expression bool
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

// Expr builds an expression ordering. The SQL is passed through verbatim, so
// it must come from code, never from request input.
func Expr(sql string, direction Direction) OrderBy {
	return OrderBy{Column: sql, Direction: direction, Expression: true}
}

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	if o.Column == "" {
		return fmt.Errorf("empty ordering column name")
	}

	// Guard against SQL injection by restricting allowed characters in column
	// names. Expressions are exempt: they never come from request input.
	if !o.Expression && !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	return nil
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return ErrEmptyOrdering
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// withUniquifyingKeys appends the given key columns with ascending direction
// unless the requested order already references them (directly or through a
// table-qualified form).
func (o Orderings) withUniquifyingKeys(keys []string) Orderings {
	ret := o
	for _, key := range keys {
		present := slices.ContainsFunc(ret, func(ordering OrderBy) bool {
			return !ordering.Expression &&
				(ordering.Column == key || unqualifyColumn(ordering.Column) == key)
		})
		if !present {
			ret = append(ret, OrderBy{Column: key, Direction: DirectionASC})
		}
	}

	return ret
}

// OrderColumns normalizes the accepted order shapes into canonical Orderings:
//
//   - string: "name" or "name desc"
//   - []string: each element as above, default ascending
//   - OrderBy / []OrderBy / Orderings: taken as-is
//   - map[string]Direction: keys sorted lexicographically, since Go map
//     iteration order is undefined
//
// A later occurrence of a column replaces an earlier one, preserving the
// position of the later occurrence.
func OrderColumns(order any) (Orderings, error) {
	var ret Orderings

	switch v := order.(type) {
	case nil:
	case string:
		ordering, err := parseOrderString(v)
		if err != nil {
			return nil, err
		}
		ret = Orderings{ordering}
	case []string:
		ret = make(Orderings, 0, len(v))
		for _, s := range v {
			ordering, err := parseOrderString(s)
			if err != nil {
				return nil, err
			}
			ret = append(ret, ordering)
		}
	case OrderBy:
		ret = Orderings{v}
	case []OrderBy:
		ret = Orderings(v)
	case Orderings:
		ret = v
	case map[string]Direction:
		columns := lo.Keys(v)
		sort.Strings(columns)
		ret = make(Orderings, 0, len(columns))
		for _, column := range columns {
			ret = append(ret, OrderBy{Column: column, Direction: v[column]})
		}
	default:
		return nil, fmt.Errorf("unsupported order shape %T", order)
	}

	return dedupOrderings(ret), nil
}

// dedupOrderings removes earlier occurrences of repeated columns, keeping the
// position of the last occurrence.
func dedupOrderings(orderings Orderings) Orderings {
	var ret Orderings
	for _, o := range orderings {
		idx := slices.IndexFunc(ret, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			ret = slices.Delete(ret, idx, idx+1)
		}

		ret = append(ret, o)
	}

	return ret
}

func parseOrderString(s string) (OrderBy, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	switch len(parts) {
	case 1:
		return OrderBy{Column: parts[0], Direction: DirectionASC}, nil
	case 2:
		direction := Direction(strings.ToUpper(parts[1]))
		if !direction.Valid() {
			return OrderBy{}, fmt.Errorf("invalid ordering direction '%s'", parts[1])
		}
		return OrderBy{Column: parts[0], Direction: direction}, nil
	default:
		return OrderBy{}, fmt.Errorf("invalid ordering string format '%s'", s)
	}
}

// unqualifyColumn strips a table-qualification prefix and surrounding quotes
// from a column reference: `"users"."id"` and "users.id" both become "id".
func unqualifyColumn(column string) string {
	if idx := strings.LastIndex(column, "."); idx != -1 {
		column = column[idx+1:]
	}

	return strings.Trim(column, "`'\"")
}

// ParseSort builds Orderings from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Split(strings.TrimSpace(stringOrdering), " ")
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("invalid column alias. closest: '%s'", closestAlias(columnAlias, aliases))
		}

		ret = append(ret, OrderBy{
			Column:    columnName,
			Direction: direction,
		})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
