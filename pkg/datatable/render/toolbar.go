package render

import (
	"context"
	"io"
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// FacetGroup is one facet column offered in the toolbar with its distinct values.
type FacetGroup struct {
	Column string
	Label  string
	Values []string
}

// Toolbar renders the search box, the facet checkboxes and the column
// visibility menu. The search box is bound to the "query" signal.
func Toolbar[R datatable.Row](v datatable.View[R], s Spec[R], groups []FacetGroup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		writeToolbar(h, v, s, groups)
		return h.err
	})
}

func writeToolbar[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R], groups []FacetGroup) {
	h.open("div", templ.OrderedAttributes{
		attr("id", s.containerID()+"-toolbar"),
		attr("class", "dt-toolbar"),
		attr("data-signals:query", strconv.Quote(v.Filter.Query)),
	})

	h.open("input", templ.OrderedAttributes{
		attr("type", "search"),
		attr("name", "query"),
		attr("class", "dt-search"),
		attr("placeholder", "Search"),
		attr("aria-label", "Search"),
		attr("value", v.Filter.Query),
		attr("data-bind:query", true),
		attr("data-on:input", post(s.route("search"))),
	})

	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		h.open("fieldset", templ.OrderedAttributes{attr("class", "dt-facet"), attr("data-column", g.Column)})
		h.element("legend", nil, g.Label)
		for _, value := range g.Values {
			q := url.Values{"column": {g.Column}, "value": {value}}
			h.open("label", templ.OrderedAttributes{attr("class", "dt-facet-option")})
			h.open("input", templ.OrderedAttributes{
				attr("type", "checkbox"),
				attr("value", value),
				attr("checked", v.Filter.Facets.IsSelected(g.Column, value)),
				attr("data-on:change", post(s.route("facets")+"?"+q.Encode())),
			})
			h.text(value)
			h.close("label")
		}
		h.close("fieldset")
	}

	if !v.Filter.Empty() {
		h.element("button", templ.OrderedAttributes{
			attr("type", "button"),
			attr("class", "dt-clear"),
			attr("data-on:click", post(s.route("facets"))),
		}, "Clear filters")
	}

	writeColumnMenu(h, v, s)
	h.close("div")
}

func writeColumnMenu[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R]) {
	var hideable datatable.Columns[R]
	for _, col := range v.AllColumns {
		if col.Hideable {
			hideable = append(hideable, col)
		}
	}
	if len(hideable) == 0 {
		return
	}

	h.open("details", templ.OrderedAttributes{attr("class", "dt-columns")})
	h.element("summary", nil, "Columns")
	for _, col := range hideable {
		h.open("label", nil)
		h.open("input", templ.OrderedAttributes{
			attr("type", "checkbox"),
			attr("checked", !v.Hidden[col.ID]),
			attr("data-on:change", post(s.route("columns", col.ID))),
		})
		h.text(col.Header)
		h.close("label")
	}
	h.close("details")
}

// FacetGroups builds the toolbar groups for a table's facets from the rows
// the values should be drawn from.
func FacetGroups[R datatable.Row](rows []R, facets []datatable.Facet[R], selected datatable.FacetState) []FacetGroup {
	groups := make([]FacetGroup, 0, len(facets))
	for _, f := range facets {
		values := datatable.FacetValues(rows, f)
		// keep selected values visible even when the current rows lack them
		for _, sel := range selected.Selected(f.Column) {
			if !slices.Contains(values, sel) {
				values = append(values, sel)
			}
		}
		label := f.Label
		if label == "" {
			label = f.Column
		}
		groups = append(groups, FacetGroup{Column: f.Column, Label: label, Values: values})
	}
	return groups
}
