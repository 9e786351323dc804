package render

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Table renders the desktop presentation of a view.
func Table[R datatable.Row](v datatable.View[R], s Spec[R], opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		writeTable(h, v, s, opts)
		return h.err
	})
}

func writeTable[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R], opts Options) {
	h.open("table", templ.OrderedAttributes{
		attr("class", "dt-table"),
		attr("aria-busy", strconv.FormatBool(opts.Loading)),
	})

	h.open("thead", nil)
	h.open("tr", nil)
	if opts.Selectable {
		h.open("th", templ.OrderedAttributes{attr("class", "dt-select"), attr("scope", "col")})
		writeCheckbox(h, "Select page", pageSelected(v), s.route("select"))
		h.close("th")
	}
	for _, col := range v.Columns {
		writeHeader(h, col, v.Sort, s)
	}
	h.close("tr")
	h.close("thead")

	span := len(v.Columns)
	if opts.Selectable {
		span++
	}

	h.open("tbody", templ.OrderedAttributes{attr("id", s.containerID()+"-body")})
	switch {
	case opts.Loading:
		writeSkeletonRows(h, skeletonCount(v), span)
	case v.Empty():
		h.open("tr", templ.OrderedAttributes{attr("class", "dt-empty-row")})
		h.element("td", templ.OrderedAttributes{attr("class", "dt-empty"), attr("colspan", span)}, EmptyMessage)
		h.close("tr")
	default:
		for _, r := range v.Rows {
			writeRow(h, r, v, s, opts)
		}
	}
	h.close("tbody")
	h.close("table")
}

func writeHeader[R datatable.Row](h *htmlWriter, col datatable.Column[R], sort datatable.SortState, s Spec[R]) {
	attrs := templ.OrderedAttributes{
		attr("scope", "col"),
		attr("data-column", col.ID),
	}
	if col.Width != "" {
		attrs = append(attrs, attr("style", "width: "+col.Width))
	}
	if !col.Sortable {
		h.element("th", attrs, col.Header)
		return
	}

	dir := sort.Direction(col.ID)
	attrs = append(attrs, attr("aria-sort", ariaSort(dir)))
	h.open("th", attrs)
	h.open("button", templ.OrderedAttributes{
		attr("type", "button"),
		attr("class", "dt-sort"),
		attr("data-on:click", post(s.route("sort", col.ID))),
	})
	h.text(col.Header)
	h.element("span", templ.OrderedAttributes{attr("class", "dt-sort-indicator"), attr("aria-hidden", "true")}, sortIndicator(dir))
	h.close("button")
	h.close("th")
}

func writeRow[R datatable.Row](h *htmlWriter, r R, v datatable.View[R], s Spec[R], opts Options) {
	id := r.RowID()
	selected := v.IsSelected(id)
	h.open("tr", templ.OrderedAttributes{
		attr("id", RowKey(id)),
		attr("data-key", RowKey(id)),
		attr("class", s.rowClass(r, selected)),
	})
	if opts.Selectable {
		h.open("td", templ.OrderedAttributes{attr("class", "dt-select")})
		writeCheckbox(h, "Select row", selected, s.route("select", id))
		h.close("td")
	}
	for _, col := range v.Columns {
		h.open("td", templ.OrderedAttributes{attr("data-column", col.ID)})
		writeCell(h, col, r, s)
		h.close("td")
	}
	h.close("tr")
}

func writeCell[R datatable.Row](h *htmlWriter, col datatable.Column[R], r R, s Spec[R]) {
	if cell, ok := s.Cells[col.ID]; ok && cell != nil {
		h.component(cell(r))
		return
	}
	h.text(col.Text(r))
}

func writeCheckbox(h *htmlWriter, label string, checked bool, action string) {
	h.open("input", templ.OrderedAttributes{
		attr("type", "checkbox"),
		attr("aria-label", label),
		attr("checked", checked),
		attr("data-on:click", post(action)),
	})
}

func pageSelected[R datatable.Row](v datatable.View[R]) bool {
	if v.Empty() {
		return false
	}
	for _, r := range v.Rows {
		if !v.IsSelected(r.RowID()) {
			return false
		}
	}
	return true
}

func ariaSort(dir string) string {
	switch dir {
	case "asc":
		return "ascending"
	case "desc":
		return "descending"
	default:
		return "none"
	}
}

func sortIndicator(dir string) string {
	switch dir {
	case "asc":
		return "▲"
	case "desc":
		return "▼"
	default:
		return "↕"
	}
}
