package datatable

// Column describes one column of a table over rows of type R.
type Column[R any] struct {
	// ID identifies the column in sort, facet and visibility state.
	ID string
	// Header is the column label.
	Header string
	// Accessor reads the cell value. A nil accessor yields an empty cell.
	Accessor func(R) any
	// Format overrides the display text of the cell.
	Format func(R) string
	// Compare overrides the sort comparison for this column.
	Compare func(a, b R) int

	Sortable   bool
	Hideable   bool
	Searchable bool
	// Hidden starts a hideable column hidden.
	Hidden bool

	// Width is a layout hint passed through to the presentation layer.
	Width string
}

// Value returns the raw cell value for a row.
func (c Column[R]) Value(r R) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(r)
}

// Text returns the display text for a row's cell.
func (c Column[R]) Text(r R) string {
	if c.Format != nil {
		return c.Format(r)
	}
	return Display(c.Value(r))
}

// Columns is an ordered column list with lookup helpers.
type Columns[R any] []Column[R]

// Find returns the column with the given id.
func (cs Columns[R]) Find(id string) (Column[R], bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Column[R]{}, false
}

// Searchable returns the columns included in the global filter.
func (cs Columns[R]) Searchable() Columns[R] {
	out := make(Columns[R], 0, len(cs))
	for _, c := range cs {
		if c.Searchable {
			out = append(out, c)
		}
	}
	return out
}

// ColumnBuilder assembles a column list for a screen. Screens that need a
// per-row actions column receive the action renderer when the builder is
// created, so the finished list never has to be patched afterwards.
type ColumnBuilder[R any] struct {
	cols Columns[R]
}

// NewColumnBuilder starts an empty column list.
func NewColumnBuilder[R any]() *ColumnBuilder[R] {
	return &ColumnBuilder[R]{}
}

// Add appends columns in order.
func (b *ColumnBuilder[R]) Add(cols ...Column[R]) *ColumnBuilder[R] {
	b.cols = append(b.cols, cols...)
	return b
}

// Text appends a sortable, searchable text column backed by accessor.
func (b *ColumnBuilder[R]) Text(id, header string, accessor func(R) any) *ColumnBuilder[R] {
	return b.Add(Column[R]{
		ID:         id,
		Header:     header,
		Accessor:   accessor,
		Sortable:   true,
		Hideable:   true,
		Searchable: true,
	})
}

// Build returns the finished column list.
func (b *ColumnBuilder[R]) Build() Columns[R] {
	out := make(Columns[R], len(b.cols))
	copy(out, b.cols)
	return out
}
