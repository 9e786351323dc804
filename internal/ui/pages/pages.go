// Package pages renders the full HTML documents of the back office.
package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/brandedliving/backoffice/internal/ui/resources"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// DatastarScript is the datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// AppName is appended to every page title.
const AppName = "Back Office"

var (
	el   = render.Element
	void = render.Void
	text = render.Text
	a    = render.Attr
)

type attrs = render.Attrs

// Document renders the HTML document around body.
func Document(title string, dev bool, body ...templ.Component) templ.Component {
	head := el("head", nil,
		void("meta", attrs{a("charset", "utf-8")}),
		void("meta", attrs{a("name", "viewport"), a("content", "width=device-width, initial-scale=1")}),
		el("title", nil, text(title+" - "+AppName)),
		void("link", attrs{a("rel", "stylesheet"), a("href", resources.StaticPath(resources.Stylesheet))}),
		el("script", attrs{a("type", "module"), a("src", DatastarScript)}),
	)

	children := []templ.Component{
		el("header", attrs{a("class", "topbar")},
			el("a", attrs{a("href", "/"), a("class", "topbar-home")}, text(AppName))),
	}
	children = append(children, body...)
	if dev {
		children = append(children, el("div", attrs{a("data-init", "@get('/reload')"), a("hidden", true)}))
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html>"); err != nil {
			return err
		}
		return el("html", attrs{a("lang", "en")}, head, el("body", nil, children...)).Render(ctx, w)
	})
}

// ListPage renders a list screen. The content subscribes to the screen's
// update stream and reports the viewport so the server picks the layout.
func ListPage(title, screen string, dev bool, content templ.Component) templ.Component {
	base := "/" + screen
	layout := fmt.Sprintf("@post('%s/layout/' + (window.matchMedia('(max-width: 768px)').matches ? 'cards' : 'table'))", base)

	main := el("main", attrs{
		a("id", "content"),
		a("class", "content"),
		a("data-init", fmt.Sprintf("@get('%s/updates')", base)),
	},
		el("h1", nil, text(title)),
		el("div", attrs{
			a("class", "layout-probe"),
			a("data-init", layout),
			a("data-on:resize__window__debounce.250ms", layout),
		}),
		content,
	)
	return Document(title, dev, main)
}

// ScreenLink is one screen on the dashboard.
type ScreenLink struct {
	Screen string
	Title  string
	Count  int
}

// DashboardID is the element id of the dashboard body.
const DashboardID = "dashboard"

// Dashboard renders the record counts of every screen.
func Dashboard(links []ScreenLink, notice string) templ.Component {
	cards := make([]templ.Component, 0, len(links)+1)
	if notice != "" {
		cards = append(cards, el("p", attrs{a("class", "dt-notice dt-notice-error"), a("role", "alert")}, text(notice)))
	}
	for _, l := range links {
		cards = append(cards, el("a", attrs{
			a("class", "stat-card"),
			a("href", "/"+l.Screen),
			a("data-screen", l.Screen),
		},
			el("span", attrs{a("class", "stat-value")}, text(strconv.Itoa(l.Count))),
			el("span", attrs{a("class", "stat-label")}, text(l.Title)),
		))
	}
	return el("section", attrs{a("id", DashboardID), a("class", "stats")}, cards...)
}

// DashboardPage renders the landing page.
func DashboardPage(dev bool, links []ScreenLink, notice string) templ.Component {
	main := el("main", attrs{
		a("id", "content"),
		a("class", "content"),
		a("data-init", "@get('/updates')"),
	},
		el("h1", nil, text("Dashboard")),
		Dashboard(links, notice),
	)
	return Document("Dashboard", dev, main)
}
