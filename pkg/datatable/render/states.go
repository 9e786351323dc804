package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// Notice renders the error notification slot of a container. An empty
// message renders the hidden slot so that a patch clears a previous notice.
func Notice(containerID, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		writeNotice(h, containerID, message)
		return h.err
	})
}

// NoticeID is the element id of a container's notice slot.
func NoticeID(containerID string) string {
	return containerID + "-notice"
}

func writeNotice(h *htmlWriter, containerID, message string) {
	if message == "" {
		h.element("div", templ.OrderedAttributes{
			attr("id", NoticeID(containerID)),
			attr("class", "dt-notice"),
			attr("hidden", true),
		}, "")
		return
	}
	h.open("div", templ.OrderedAttributes{
		attr("id", NoticeID(containerID)),
		attr("class", "dt-notice dt-notice-error"),
		attr("role", "alert"),
	})
	h.element("span", nil, message)
	h.element("button", templ.OrderedAttributes{
		attr("type", "button"),
		attr("class", "dt-notice-dismiss"),
		attr("data-on:click", "el.parentElement.hidden = true"),
	}, "Dismiss")
	h.close("div")
}

func writeSkeletonRows(h *htmlWriter, rows, span int) {
	for range rows {
		h.open("tr", templ.OrderedAttributes{attr("class", "dt-skeleton"), attr("aria-hidden", "true")})
		for range max(span, 1) {
			h.open("td", nil)
			h.element("span", templ.OrderedAttributes{attr("class", "dt-skeleton-line")}, "")
			h.close("td")
		}
		h.close("tr")
	}
}

func skeletonCount[R datatable.Row](v datatable.View[R]) int {
	if v.Pagination.PageSize > 0 {
		return v.Pagination.PageSize
	}
	return datatable.DefaultPageSize
}
