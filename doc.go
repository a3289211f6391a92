package cursorpager

// Package cursorpager implements keyset (cursor-based) pagination over an
// ordered, queryable record set.
//
// Overview
//
// cursorpager walks a relation in stable pages addressed by opaque cursor
// tokens instead of offsets, so pages stay correct while the underlying data
// set mutates between requests:
//   - Cursor / EncodeCursor / DecodeCursor: lossless round-trip between a
//     position in a multi-column ordering and a URL-safe token.
//   - Paginator: orchestrates one traversal. It normalizes the requested
//     order, appends a uniquifying primary key, builds the seek predicate
//     from the active cursor and fetches limit+1 rows to detect whether more
//     pages exist.
//   - Page: one fetched page with per-record cursors and forward/backward
//     navigation metadata.
//
// Key concepts
//   - Relation: the capability the data store must provide (select, where,
//     reorder, limit, execute). The gormrel subpackage binds it to GORM.
//   - Orderings: multi-column ordering with explicit directions; backward
//     traversal queries in flipped directions and re-reverses the page.
//
// See README for examples and usage details.
