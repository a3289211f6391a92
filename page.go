package cursorpager

// Page is one fetched page of records in caller-facing order (backward
// traversal re-reverses rows before exposing them here). It is created fresh
// on every fetch and never mutated afterwards.
type Page struct {
	records     []Record
	columns     []string
	hasNext     bool
	hasPrevious bool
}

func newPage(records []Record, columns []string, hasNext, hasPrevious bool) *Page {
	return &Page{
		records:     records,
		columns:     columns,
		hasNext:     hasNext,
		hasPrevious: hasPrevious,
	}
}

// Records returns the page's records in caller-facing order.
func (p *Page) Records() []Record {
	return p.records
}

// OrderColumns returns the cursor column names used to build per-record
// cursors.
func (p *Page) OrderColumns() []string {
	return p.columns
}

func (p *Page) Count() int {
	return len(p.records)
}

func (p *Page) IsEmpty() bool {
	return len(p.records) == 0
}

// HasNext reports whether records exist after this page under the original
// order.
func (p *Page) HasNext() bool {
	return p.hasNext
}

// HasPrevious reports whether records exist before this page under the
// original order.
func (p *Page) HasPrevious() bool {
	return p.hasPrevious
}

// CursorFor encodes the cursor of one specific record of this page.
func (p *Page) CursorFor(record Record) (string, error) {
	cursor, err := CursorFromRecord(record, p.columns)
	if err != nil {
		return "", err
	}

	return EncodeCursor(cursor), nil
}

// Cursors returns one opaque cursor per record, in page order.
func (p *Page) Cursors() ([]string, error) {
	ret := make([]string, 0, len(p.records))
	for _, record := range p.records {
		token, err := p.CursorFor(record)
		if err != nil {
			return nil, err
		}

		ret = append(ret, token)
	}

	return ret, nil
}

// NextCursor returns the cursor positioned just after the last record. Use it
// with WithAfter to request the following page, e.g. across separate requests
// in a stateless request/response cycle. Empty page yields an empty token.
func (p *Page) NextCursor() (string, error) {
	if p.IsEmpty() {
		return "", nil
	}

	return p.CursorFor(p.records[len(p.records)-1])
}

// PreviousCursor returns the cursor positioned just before the first record.
// Use it with WithBefore to request the preceding page. Empty page yields an
// empty token.
func (p *Page) PreviousCursor() (string, error) {
	if p.IsEmpty() {
		return "", nil
	}

	return p.CursorFor(p.records[0])
}
