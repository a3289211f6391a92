package cursorpager

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Paginator owns the state of one logical traversal over a relation. It is an
// intentional single-consumer iterator: the active cursor is read and written
// by Fetch without synchronization, so a Paginator must not be shared between
// concurrent callers. Instances are cheap; use one per traversal.
type Paginator struct {
	rel     Relation
	columns []orderColumn
	keys    []string
	limit   int
	forward bool
	cursor  string
}

// orderColumn is one resolved order column. Plain identifiers are read off
// records directly; qualified identifiers and expressions are projected under
// a synthetic alias and read back via that alias.
type orderColumn struct {
	ref   OrderBy
	key   string
	alias string
}

type paginatorOptions struct {
	after    string
	before   string
	limit    int
	order    any
	appendPK bool
	cfg      Config
}

type Option func(*paginatorOptions)

// WithAfter resumes forward traversal after the given cursor token. Mutually
// exclusive with WithBefore.
func WithAfter(token string) Option {
	return func(o *paginatorOptions) { o.after = token }
}

// WithBefore starts backward traversal before the given cursor token.
// Mutually exclusive with WithAfter.
func WithBefore(token string) Option {
	return func(o *paginatorOptions) { o.before = token }
}

// WithLimit sets the page size. Non-positive falls back to the configured
// default; an over-large value is silently clamped to the configured maximum.
func WithLimit(limit int) Option {
	return func(o *paginatorOptions) { o.limit = limit }
}

// WithOrder sets the requested order. Accepted shapes are those of
// OrderColumns: a single column, a list of columns (default ascending), an
// explicit column-to-direction mapping, or OrderBy values (including Expr).
func WithOrder(order any) Option {
	return func(o *paginatorOptions) { o.order = order }
}

// WithoutPrimaryKey disables uniquifying-key auto-injection. The caller then
// accepts that the ordering may not be unique and pages may skip or repeat
// rows on ties.
func WithoutPrimaryKey() Option {
	return func(o *paginatorOptions) { o.appendPK = false }
}

// WithConfig overrides the default/max page-size configuration.
func WithConfig(cfg Config) Option {
	return func(o *paginatorOptions) { o.cfg = cfg }
}

// New builds a Paginator over the relation. All construction validation
// happens here, never deferred to Fetch: a nil relation, conflicting cursor
// anchors and an empty effective order fail immediately.
func New(rel Relation, opts ...Option) (*Paginator, error) {
	if rel == nil {
		return nil, ErrInvalidRelation
	}

	o := paginatorOptions{
		appendPK: true,
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.after != "" && o.before != "" {
		return nil, ErrConflictingCursors
	}

	order, err := OrderColumns(o.order)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize order: %w", err)
	}

	if o.appendPK {
		keys, err := rel.PrimaryKeyColumns()
		if err != nil {
			if len(order) == 0 {
				return nil, fmt.Errorf("%w: %v", ErrEmptyOrdering, err)
			}

			return nil, fmt.Errorf("cannot resolve uniquifying key: %w", err)
		}

		order = order.withUniquifyingKeys(keys)
	}

	if len(order) == 0 {
		return nil, ErrEmptyOrdering
	}
	if err = order.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	columns := resolveOrderColumns(order)

	cursor, forward := o.after, true
	if o.before != "" {
		cursor, forward = o.before, false
	}

	return &Paginator{
		rel:     rel,
		columns: columns,
		keys:    cursorKeys(columns),
		limit:   normalizeLimitWith(o.limit, o.cfg.withDefaults()),
		forward: forward,
		cursor:  cursor,
	}, nil
}

func resolveOrderColumns(order Orderings) []orderColumn {
	ret := make([]orderColumn, 0, len(order))
	for i, ordering := range order {
		column := orderColumn{ref: ordering, key: ordering.Column}
		if ordering.Expression || strings.Contains(ordering.Column, ".") {
			column.alias = fmt.Sprintf("cursor_column_%d", i+1)
			column.key = column.alias
		}

		ret = append(ret, column)
	}

	return ret
}

func cursorKeys(columns []orderColumn) []string {
	ret := make([]string, 0, len(columns))
	for _, column := range columns {
		ret = append(ret, column.key)
	}

	return ret
}

// Fetch executes one page fetch against the relation and advances the
// traversal cursor past the returned page. An empty page leaves the cursor
// untouched, so repeated calls after exhaustion keep returning empty pages.
func (p *Paginator) Fetch(ctx context.Context) (*Page, error) {
	rel := p.rel

	// Qualified and expression order columns are materialized as aliased
	// output columns alongside the caller's existing selection, so their
	// values can be read back from result rows.
	var projected []string
	for _, column := range p.columns {
		if column.alias != "" {
			projected = append(projected, fmt.Sprintf("(%s) AS %s", column.ref.Column, column.alias))
		}
	}
	if len(projected) > 0 {
		rel = rel.Select(projected, true)
	}

	queryOrder := p.queryOrder()
	rel = rel.Reorder(queryOrder)

	if p.cursor != "" {
		cursor, err := DecodeCursor(p.cursor, p.keys)
		if err != nil {
			return nil, err
		}

		conditions := make([]Condition, 0, len(p.columns))
		for i, column := range p.columns {
			conditions = append(conditions, Condition{
				Column:   column.ref.Column,
				Operator: queryOrder[i].Direction.ForOperator(),
				Value:    cursor.Values()[i],
			})
		}

		rel = rel.Where(SeekPredicate(conditions))
	}

	// Fetch one extra record to detect whether more rows exist beyond this
	// page without a second query.
	records, err := rel.Limit(p.limit + 1).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	hasAdditional := len(records) > p.limit
	if hasAdditional {
		records = records[:p.limit]
	}

	// The physical query ran in flipped order purely to select the correct
	// window; expose the page in the original order.
	if !p.forward {
		records = slices.Clone(records)
		slices.Reverse(records)
	}

	// The presence of an anchoring cursor is itself proof that more data
	// exists on the side opposite to the traversal direction.
	hasNext, hasPrevious := hasAdditional, p.cursor != ""
	if !p.forward {
		hasNext, hasPrevious = p.cursor != "", hasAdditional
	}

	page := newPage(records, p.keys, hasNext, hasPrevious)

	if !page.IsEmpty() {
		token, err := p.advanceCursor(page)
		if err != nil {
			return nil, err
		}

		p.cursor = token
	}

	return page, nil
}

// NextPage is a single-page accessor, an alias for Fetch.
func (p *Paginator) NextPage(ctx context.Context) (*Page, error) {
	return p.Fetch(ctx)
}

// Pages returns a lazy, finite, forward-only sequence of pages produced by
// repeatedly calling Fetch. Every fetched page is yielded, including the
// final empty one, after which the sequence terminates; an immediately-empty
// relation yields exactly one empty page. The sequence shares the paginator's
// cursor state and is not restartable: build a fresh Paginator to traverse
// again.
func (p *Paginator) Pages(ctx context.Context) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		for {
			page, err := p.Fetch(ctx)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(page, nil) {
				return
			}
			if page.IsEmpty() {
				return
			}
		}
	}
}

// queryOrder computes the physical query directions: equal to the requested
// directions for forward traversal, flipped for backward traversal.
func (p *Paginator) queryOrder() Orderings {
	ret := make(Orderings, 0, len(p.columns))
	for _, column := range p.columns {
		direction := column.ref.Direction
		if !p.forward {
			direction = direction.Flip()
		}

		ret = append(ret, OrderBy{
			Column:     column.ref.Column,
			Direction:  direction,
			Expression: column.ref.Expression,
		})
	}

	return ret
}

func (p *Paginator) advanceCursor(page *Page) (string, error) {
	if p.forward {
		return page.NextCursor()
	}

	return page.PreviousCursor()
}

// GetLimit returns the resolved page size.
func (p *Paginator) GetLimit() int {
	return p.limit
}

// GetCursor returns the active cursor token as-is: the caller-supplied anchor
// before the first fetch, then the boundary of the last non-empty page.
func (p *Paginator) GetCursor() string {
	return p.cursor
}

// IsForward reports the traversal direction fixed at construction.
func (p *Paginator) IsForward() bool {
	return p.forward
}

// OrderColumnKeys returns the cursor column names in order: plain identifiers
// as-is, qualified identifiers and expressions by their synthetic alias.
func (p *Paginator) OrderColumnKeys() []string {
	return slices.Clone(p.keys)
}

// RawPageRequest is intended for API payloads. For proper code generation,
// inline it:
//
//	type MyFilter struct {
//	    Paging RawPageRequest `json:",inline"`
//	}
type RawPageRequest struct {
	// Limit - maximum number of records to return in the response.
	Limit int `json:"limit"`
	// After - cursor token obtained via Page.NextCursor. If empty and Before
	// is empty, the first page with Limit records is returned.
	After string `json:"after"`
	// Before - cursor token obtained via Page.PreviousCursor.
	Before string `json:"before"`
}

// Paginator converts the request into a *Paginator over the relation,
// normalizing Limit and validating the cursor anchors.
func (r RawPageRequest) Paginator(rel Relation, opts ...Option) (*Paginator, error) {
	base := []Option{WithLimit(r.Limit)}
	if r.After != "" {
		base = append(base, WithAfter(r.After))
	}
	if r.Before != "" {
		base = append(base, WithBefore(r.Before))
	}

	return New(rel, append(base, opts...)...)
}
