package render

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Cards renders the mobile presentation of a view: one card per row, with a
// sort bar in place of the column headers.
func Cards[R datatable.Row](v datatable.View[R], s Spec[R], opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		writeCards(h, v, s, opts)
		return h.err
	})
}

func writeCards[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R], opts Options) {
	writeSortBar(h, v, s)

	h.open("div", templ.OrderedAttributes{
		attr("id", s.containerID()+"-body"),
		attr("class", "dt-cards"),
		attr("role", "list"),
		attr("aria-busy", strconv.FormatBool(opts.Loading)),
	})
	switch {
	case opts.Loading:
		for range skeletonCount(v) {
			h.open("article", templ.OrderedAttributes{
				attr("class", "dt-card dt-skeleton"),
				attr("role", "listitem"),
				attr("aria-hidden", "true"),
			})
			for range 3 {
				h.element("span", templ.OrderedAttributes{attr("class", "dt-skeleton-line")}, "")
			}
			h.close("article")
		}
	case v.Empty():
		h.element("p", templ.OrderedAttributes{attr("class", "dt-empty")}, EmptyMessage)
	default:
		for _, r := range v.Rows {
			writeCard(h, r, v, s, opts)
		}
	}
	h.close("div")
}

func writeCard[R datatable.Row](h *htmlWriter, r R, v datatable.View[R], s Spec[R], opts Options) {
	id := r.RowID()
	selected := v.IsSelected(id)
	h.open("article", templ.OrderedAttributes{
		attr("id", RowKey(id)),
		attr("data-key", RowKey(id)),
		attr("class", "dt-card "+s.rowClass(r, selected)),
		attr("role", "listitem"),
	})
	if opts.Selectable {
		writeCheckbox(h, "Select row", selected, s.route("select", id))
	}
	if s.Card != nil {
		h.component(s.Card(r))
		h.close("article")
		return
	}

	h.open("dl", templ.OrderedAttributes{attr("class", "dt-card-fields")})
	for _, col := range v.Columns {
		h.open("div", templ.OrderedAttributes{attr("class", "dt-card-field"), attr("data-column", col.ID)})
		h.element("dt", nil, col.Header)
		h.open("dd", nil)
		writeCell(h, col, r, s)
		h.close("dd")
		h.close("div")
	}
	h.close("dl")
	h.close("article")
}

func writeSortBar[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R]) {
	var sortable datatable.Columns[R]
	for _, col := range v.Columns {
		if col.Sortable {
			sortable = append(sortable, col)
		}
	}
	if len(sortable) == 0 {
		return
	}

	h.open("div", templ.OrderedAttributes{attr("class", "dt-sortbar"), attr("role", "toolbar"), attr("aria-label", "Sort")})
	for _, col := range sortable {
		dir := v.Sort.Direction(col.ID)
		h.open("button", templ.OrderedAttributes{
			attr("type", "button"),
			attr("class", "dt-sort"),
			attr("data-column", col.ID),
			attr("aria-pressed", strconv.FormatBool(dir != "")),
			attr("data-on:click", post(s.route("sort", col.ID))),
		})
		h.text(col.Header)
		h.element("span", templ.OrderedAttributes{attr("class", "dt-sort-indicator"), attr("aria-hidden", "true")}, sortIndicator(dir))
		h.close("button")
	}
	h.close("div")
}
