package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Adaptive renders the whole data table container: the notice slot, the
// table or card list chosen by opts.Layout, and the pager. The container id
// is stable so that a re-render morphs in place when the layout changes.
func Adaptive[R datatable.Row](v datatable.View[R], s Spec[R], opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.open("section", templ.OrderedAttributes{
			attr("id", s.containerID()),
			attr("class", "dt dt-layout-"+opts.Layout.String()),
			attr("data-layout", opts.Layout.String()),
		})
		writeNotice(h, s.containerID(), opts.Notice)
		if opts.Layout == LayoutCards {
			writeCards(h, v, s, opts)
		} else {
			writeTable(h, v, s, opts)
		}
		writePager(h, v, s, opts)
		h.close("section")
		return h.err
	})
}
