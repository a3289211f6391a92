package cursorpager

import "context"

// Record is one fetched row. Column values are accessed by name, including
// through joined or aliased selections.
type Record interface {
	// Column returns the value of the named column and whether it exists.
	Column(name string) (any, bool)
}

// Relation is the capability the data store must provide for pagination.
// Builder methods return derived relations and must not mutate the receiver;
// Execute performs the single blocking query. Cancellation and timeouts are
// the relation's own responsibility, driven by the context passed to Execute.
type Relation interface {
	// Select adds output expressions to the query. When preserveExisting is
	// true the expressions are added alongside any selection the caller has
	// already configured, never replacing it.
	Select(exprs []string, preserveExisting bool) Relation

	// Where filters the relation by a composite boolean predicate.
	Where(predicate *Predicate) Relation

	// Reorder applies the given ordering, overriding any prior ordering on
	// the relation.
	Reorder(order Orderings) Relation

	// Limit bounds the result count.
	Limit(n int) Relation

	// Execute runs the query and returns the rows in query order.
	Execute(ctx context.Context) ([]Record, error)

	// PrimaryKeyColumns returns the relation's primary key column names,
	// used for default ordering and uniquifying-key injection.
	PrimaryKeyColumns() ([]string, error)
}
