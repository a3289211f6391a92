// Package gormrel binds the cursorpager Relation capability to GORM.
package gormrel

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/healthie/cursorpager"
)

// Row is one fetched row as returned by GORM's map scanning.
type Row map[string]any

// Column - implements cursorpager.Record.
func (r Row) Column(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

var _ cursorpager.Record = (Row)(nil)

// relation adapts a *gorm.DB to cursorpager.Relation. Builder methods
// accumulate pagination state and Execute applies it to a fresh session, so
// derived relations never mutate each other or the base query.
type relation struct {
	db       *gorm.DB
	selects  []string
	preserve bool
	pred     *cursorpager.Predicate
	order    cursorpager.Orderings
	limit    int
	hasLimit bool
}

// New wraps a GORM query as a paginatable relation. The query must carry a
// model or a table so rows can be fetched; primary key resolution
// additionally requires a model. Returns nil (not a relation) for a nil db,
// which cursorpager.New rejects as ErrInvalidRelation.
func New(db *gorm.DB) cursorpager.Relation {
	if db == nil {
		return nil
	}

	return &relation{db: db}
}

// Select - implements cursorpager.Relation.
func (r *relation) Select(exprs []string, preserveExisting bool) cursorpager.Relation {
	next := *r
	next.selects = append(slices.Clone(r.selects), exprs...)
	next.preserve = preserveExisting

	return &next
}

// Where - implements cursorpager.Relation.
func (r *relation) Where(predicate *cursorpager.Predicate) cursorpager.Relation {
	next := *r
	next.pred = predicate

	return &next
}

// Reorder - implements cursorpager.Relation. The ordering overrides any prior
// ORDER BY on the underlying query.
func (r *relation) Reorder(order cursorpager.Orderings) cursorpager.Relation {
	next := *r
	next.order = order

	return &next
}

// Limit - implements cursorpager.Relation.
func (r *relation) Limit(n int) cursorpager.Relation {
	next := *r
	next.limit = n
	next.hasLimit = true

	return &next
}

// Execute - implements cursorpager.Relation. Runs the accumulated query and
// returns the rows in query order.
func (r *relation) Execute(ctx context.Context) ([]cursorpager.Record, error) {
	tx := r.db.WithContext(ctx)

	// WithContext cloned the statement, so dropping the caller's ORDER BY
	// here only affects this execution.
	if len(r.order) > 0 {
		delete(tx.Statement.Clauses, "ORDER BY")
	}

	if len(r.selects) > 0 {
		fields := slices.Clone(r.selects)
		if r.preserve {
			base := r.db.Statement.Selects
			if len(base) == 0 {
				base = []string{"*"}
			}
			fields = append(slices.Clone(base), r.selects...)
		}
		tx = tx.Select(fields)
	}

	if expr := toExpression(r.pred); expr != nil {
		tx = tx.Clauses(expr)
	}

	if len(r.order) > 0 {
		tx = tx.Order(r.order.ToSQL())
	}

	if r.hasLimit {
		tx = tx.Limit(r.limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cannot execute relation query: %w", err)
	}

	records := make([]cursorpager.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Row(row))
	}

	return records, nil
}

// PrimaryKeyColumns - implements cursorpager.Relation. Resolves the primary
// key column names from the query's model schema.
func (r *relation) PrimaryKeyColumns() ([]string, error) {
	model := r.db.Statement.Model
	if model == nil {
		return nil, fmt.Errorf("relation has no model to resolve primary key columns from")
	}

	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("cannot parse model schema: %w", err)
	}

	return stmt.Schema.PrimaryFieldDBNames, nil
}

var _ cursorpager.Relation = (*relation)(nil)
