// Package screens defines the back-office list screens: their columns,
// facets, cards and row styling on top of the generic data table.
package screens

import (
	"context"
	"maps"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// ActionsColumn is the id of the per-row actions column.
const ActionsColumn = "actions"

// Source provides the rows and facet values of every screen.
type Source interface {
	Brands() datatable.Fetcher[domain.Brand]
	Residences() datatable.Fetcher[domain.Residence]
	Users() datatable.Fetcher[domain.User]
	Leads() datatable.Fetcher[domain.Lead]
	Amenities() datatable.Fetcher[domain.Amenity]
	BrandTypes() datatable.Fetcher[domain.BrandType]
	FacetValues(ctx context.Context, screen, column string) ([]string, error)
}

// Actions renders the actions cell of a row.
type Actions[R datatable.Row] func(R) templ.Component

// Definition is one list screen.
type Definition[R datatable.Row] struct {
	Name  string
	Title string

	Columns datatable.Columns[R]
	Facets  []datatable.Facet[R]
	// Statuses are the values offered by the status action.
	Statuses []string

	Cells    map[string]func(R) templ.Component
	Card     func(R) templ.Component
	RowClass func(R) string

	// Fetcher selects the screen's rows from a source.
	Fetcher func(Source) datatable.Fetcher[R]
}

// Spec returns the render spec of the screen.
func (d Definition[R]) Spec() render.Spec[R] {
	return render.Spec[R]{
		ID:       d.Name + "-table",
		Base:     "/" + d.Name,
		Cells:    d.Cells,
		Card:     d.Card,
		RowClass: d.RowClass,
	}
}

// DataColumns returns the columns without the actions column.
func (d Definition[R]) DataColumns() datatable.Columns[R] {
	out := make(datatable.Columns[R], 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.ID != ActionsColumn {
			out = append(out, c)
		}
	}
	return out
}

// FacetLabel returns the display label of a facet column.
func (d Definition[R]) FacetLabel(column string) string {
	for _, f := range d.Facets {
		if f.Column == column && f.Label != "" {
			return f.Label
		}
	}
	if c, ok := d.Columns.Find(column); ok && c.Header != "" {
		return c.Header
	}
	return Label(column)
}

// Label turns a camelCase column id into a header, e.g. "developmentStatus"
// becomes "Development Status".
func Label(id string) string {
	var b strings.Builder
	for i, r := range id {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(strings.ReplaceAll(b.String(), "-", " "))
}

// StatusClass maps a status onto a CSS modifier, e.g. "Under Construction"
// becomes "status-under-construction".
func StatusClass(status string) string {
	if status == "" {
		return ""
	}
	return "status-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "-")
}

// Badge renders a status badge.
func Badge(status string) templ.Component {
	if status == "" {
		return templ.NopComponent
	}
	return render.Element("span", render.Attrs{render.Attr("class", "badge "+StatusClass(status))}, render.Text(status))
}

// Status values offered by the status actions.
var (
	PublicationStatuses = stringsOf(domain.Statuses)
	LeadStatuses        = stringsOf(domain.LeadStatuses)
)

func stringsOf[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// builder wraps the column builder with the conventions shared by screens.
// The actions renderer is fixed at construction and its column closes the list.
type builder[R datatable.Row] struct {
	*datatable.ColumnBuilder[R]
	actions Actions[R]
}

func newBuilder[R datatable.Row](actions Actions[R]) *builder[R] {
	return &builder[R]{ColumnBuilder: datatable.NewColumnBuilder[R](), actions: actions}
}

func (b *builder[R]) build() datatable.Columns[R] {
	if b.actions != nil {
		b.Add(datatable.Column[R]{ID: ActionsColumn, Header: "Actions", Width: "12rem"})
	}
	return b.Build()
}

// cells returns the cell renderers with the actions cell bound.
func (b *builder[R]) cells(extra map[string]func(R) templ.Component) map[string]func(R) templ.Component {
	out := make(map[string]func(R) templ.Component, len(extra)+1)
	maps.Copy(out, extra)
	if b.actions != nil {
		out[ActionsColumn] = b.actions
	}
	return out
}

// text adds a searchable text column labelled from its id unless header is given.
func (b *builder[R]) text(id, header string, accessor func(R) any) *builder[R] {
	if header == "" {
		header = Label(id)
	}
	b.Text(id, header, accessor)
	return b
}

// hiddenText adds a searchable text column that starts hidden.
func (b *builder[R]) hiddenText(id, header string, accessor func(R) any) *builder[R] {
	if header == "" {
		header = Label(id)
	}
	b.Add(datatable.Column[R]{
		ID:         id,
		Header:     header,
		Accessor:   accessor,
		Sortable:   true,
		Hideable:   true,
		Searchable: true,
		Hidden:     true,
	})
	return b
}

// value adds a sortable, non-searchable column.
func (b *builder[R]) value(id, header string, accessor func(R) any) *builder[R] {
	if header == "" {
		header = Label(id)
	}
	b.Add(datatable.Column[R]{ID: id, Header: header, Accessor: accessor, Sortable: true, Hideable: true, Width: "7rem"})
	return b
}
