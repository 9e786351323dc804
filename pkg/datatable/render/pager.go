package render

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// PageSizes are the page sizes offered by the pager.
var PageSizes = []int{10, 25, 50, 100}

// Pager renders previous/next controls, a window of page links and the page
// size selector.
func Pager[R datatable.Row](v datatable.View[R], s Spec[R], opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		writePager(h, v, s, opts)
		return h.err
	})
}

func writePager[R datatable.Row](h *htmlWriter, v datatable.View[R], s Spec[R], opts Options) {
	p := v.Pagination
	h.open("nav", templ.OrderedAttributes{
		attr("id", s.containerID()+"-pager"),
		attr("class", "dt-pager"),
		attr("aria-label", "Pagination"),
	})

	h.element("span", templ.OrderedAttributes{attr("class", "dt-pager-summary")}, summary(p))

	h.element("button", templ.OrderedAttributes{
		attr("type", "button"),
		attr("class", "dt-pager-prev"),
		attr("disabled", opts.Loading || !v.CanPrevious),
		attr("data-on:click", post(s.route("prev"))),
	}, "Previous")

	window := opts.PagerWindow
	if window <= 0 {
		window = 5
	}
	for _, n := range p.Window(window) {
		attrs := templ.OrderedAttributes{
			attr("type", "button"),
			attr("class", "dt-pager-page"),
		}
		if n == p.Page {
			attrs = append(attrs, attr("aria-current", "page"))
		}
		attrs = append(attrs,
			attr("disabled", opts.Loading),
			attr("data-on:click", post(s.route("page", strconv.Itoa(n)))),
		)
		h.element("button", attrs, strconv.Itoa(n))
	}

	h.element("button", templ.OrderedAttributes{
		attr("type", "button"),
		attr("class", "dt-pager-next"),
		attr("disabled", opts.Loading || !v.CanNext),
		attr("data-on:click", post(s.route("next"))),
	}, "Next")

	sizes := PageSizes
	if p.PageSize > 0 && !slices.Contains(sizes, p.PageSize) {
		sizes = append(slices.Clone(sizes), p.PageSize)
		slices.Sort(sizes)
	}
	h.open("select", templ.OrderedAttributes{
		attr("class", "dt-pager-size"),
		attr("aria-label", "Rows per page"),
		attr("data-on:change", fmt.Sprintf("@post('%s/' + evt.target.value)", s.route("size"))),
	})
	for _, size := range sizes {
		h.element("option", templ.OrderedAttributes{
			attr("value", strconv.Itoa(size)),
			attr("selected", size == p.PageSize),
		}, strconv.Itoa(size))
	}
	h.close("select")

	h.close("nav")
}

func summary(p datatable.Pagination) string {
	records := "records"
	if p.TotalItems == 1 {
		records = "record"
	}
	if p.TotalPages == 0 {
		return fmt.Sprintf("%d %s", p.TotalItems, records)
	}
	return fmt.Sprintf("Page %d of %d, %d %s", p.Page, p.TotalPages, p.TotalItems, records)
}
