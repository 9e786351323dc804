package screens

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// RowPath is the UI route of one record, e.g. /brands/b-1.
func RowPath(screen, id string) string {
	return "/" + screen + "/" + url.PathEscape(id)
}

// StatusActions renders a status picker and a delete button per row.
func StatusActions[R datatable.Row](screen string, statuses []string, status func(R) string) Actions[R] {
	return func(r R) templ.Component {
		path := RowPath(screen, r.RowID())
		current := status(r)

		options := make([]templ.Component, 0, len(statuses))
		for _, s := range statuses {
			options = append(options, render.Element("option", render.Attrs{
				render.Attr("value", s),
				render.Attr("selected", s == current),
			}, render.Text(s)))
		}
		picker := render.Element("select", render.Attrs{
			render.Attr("class", "status-select"),
			render.Attr("aria-label", "Status"),
			render.Attr("data-on:change", fmt.Sprintf("@patch('%s/status?status=' + encodeURIComponent(evt.target.value))", path)),
		}, options...)

		return render.Element("div", render.Attrs{render.Attr("class", "row-actions")}, picker, deleteButton(path))
	}
}

// DeleteAction renders only a delete button per row.
func DeleteAction[R datatable.Row](screen string) Actions[R] {
	return func(r R) templ.Component {
		return render.Element("div", render.Attrs{render.Attr("class", "row-actions")},
			deleteButton(RowPath(screen, r.RowID())))
	}
}

func deleteButton(path string) templ.Component {
	return render.Element("button", render.Attrs{
		render.Attr("type", "button"),
		render.Attr("class", "danger"),
		render.Attr("data-on:click", fmt.Sprintf("confirm('Delete this record?') && @delete('%s')", path)),
	}, render.Text("Delete"))
}
