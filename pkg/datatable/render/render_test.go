package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type listing struct {
	ID     string
	Name   string
	Status string
}

func (l listing) RowID() string { return l.ID }

func listingColumns() datatable.Columns[listing] {
	return datatable.NewColumnBuilder[listing]().
		Text("name", "Name", func(l listing) any { return l.Name }).
		Text("status", "Status", func(l listing) any { return l.Status }).
		Add(datatable.Column[listing]{ID: "actions", Header: "Actions"}).
		Build()
}

func listingSpec() Spec[listing] {
	return Spec[listing]{
		ID:   "brands-table",
		Base: "/brands",
		Cells: map[string]func(listing) templ.Component{
			"actions": func(l listing) templ.Component {
				return templ.Raw(`<button class="delete" data-id="` + templ.EscapeString(l.ID) + `">Delete</button>`)
			},
		},
		RowClass: func(l listing) string {
			if l.Status == "Draft" {
				return "is-draft"
			}
			return ""
		},
	}
}

func listingView(rows []listing, size int) datatable.View[listing] {
	tbl := datatable.New(rows, datatable.Options[listing]{Columns: listingColumns(), PageSize: size})
	return tbl.View()
}

func renderDoc(t *testing.T, c templ.Component) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := html.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return doc
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attrOf(n, "class")
	return slices.Contains(strings.Fields(v), class)
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func sampleRows() []listing {
	return []listing{
		{ID: "b1", Name: "Ritz", Status: "Active"},
		{ID: "b2", Name: "Aman <Tokyo>", Status: "Draft"},
		{ID: "b3", Name: "Armani", Status: "Active"},
	}
}

func TestTable_RowsAreKeyedByID(t *testing.T) {
	doc := renderDoc(t, Table(listingView(sampleRows(), 10), listingSpec(), Options{}))

	rows := findAll(doc, byClass("dt-row"))
	require.Len(t, rows, 3)
	for i, want := range []string{"row-b1", "row-b2", "row-b3"} {
		id, _ := attrOf(rows[i], "id")
		key, _ := attrOf(rows[i], "data-key")
		assert.Equal(t, want, id)
		assert.Equal(t, want, key)
	}
	assert.True(t, hasClass(rows[1], "is-draft"))
	assert.False(t, hasClass(rows[0], "is-draft"))
	assert.Contains(t, textOf(rows[1]), "Aman <Tokyo>", "cell text is escaped, not parsed as markup")
	assert.Len(t, findAll(doc, byClass("delete")), 3)
}

func TestTable_SortableHeaders(t *testing.T) {
	tbl := datatable.New(sampleRows(), datatable.Options[listing]{Columns: listingColumns()})
	tbl.ToggleSort("name", false)
	doc := renderDoc(t, Table(tbl.View(), listingSpec(), Options{}))

	headers := findAll(doc, byTag("th"))
	require.Len(t, headers, 3)
	sort, _ := attrOf(headers[0], "aria-sort")
	assert.Equal(t, "ascending", sort)
	sort, _ = attrOf(headers[1], "aria-sort")
	assert.Equal(t, "none", sort)
	_, ok := attrOf(headers[2], "aria-sort")
	assert.False(t, ok, "actions column is not sortable")

	buttons := findAll(headers[0], byTag("button"))
	require.Len(t, buttons, 1)
	action, _ := attrOf(buttons[0], "data-on:click")
	assert.Equal(t, "@post('/brands/sort/name')", action)
}

func TestTable_EmptyStateIsNotSkeleton(t *testing.T) {
	doc := renderDoc(t, Table(listingView(nil, 10), listingSpec(), Options{}))
	empty := findAll(doc, byClass("dt-empty"))
	require.Len(t, empty, 1)
	assert.Equal(t, EmptyMessage, textOf(empty[0]))
	colspan, _ := attrOf(empty[0], "colspan")
	assert.Equal(t, "3", colspan)
	assert.Empty(t, findAll(doc, byClass("dt-skeleton")))
}

func TestTable_LoadingRendersPageSizeSkeletons(t *testing.T) {
	doc := renderDoc(t, Table(listingView(sampleRows(), 7), listingSpec(), Options{Loading: true}))
	assert.Len(t, findAll(doc, byClass("dt-skeleton")), 7)
	assert.Empty(t, findAll(doc, byClass("dt-row")))
	assert.Empty(t, findAll(doc, byClass("dt-empty")))
}

func TestTable_Selection(t *testing.T) {
	tbl := datatable.New(sampleRows(), datatable.Options[listing]{Columns: listingColumns()})
	tbl.ToggleSelected("b2")
	doc := renderDoc(t, Table(tbl.View(), listingSpec(), Options{Selectable: true}))

	rows := findAll(doc, byClass("dt-row"))
	require.Len(t, rows, 3)
	assert.True(t, hasClass(rows[1], "dt-selected"))
	assert.False(t, hasClass(rows[0], "dt-selected"))

	boxes := findAll(rows[1], byTag("input"))
	require.Len(t, boxes, 1)
	_, checked := attrOf(boxes[0], "checked")
	assert.True(t, checked)
	action, _ := attrOf(boxes[0], "data-on:click")
	assert.Equal(t, "@post('/brands/select/b2')", action)
}

func TestCards_SameKeysAsTable(t *testing.T) {
	doc := renderDoc(t, Cards(listingView(sampleRows(), 10), listingSpec(), Options{Layout: LayoutCards}))
	cards := findAll(doc, byClass("dt-card"))
	require.Len(t, cards, 3)
	id, _ := attrOf(cards[0], "id")
	assert.Equal(t, "row-b1", id)
	assert.Len(t, findAll(cards[0], byClass("dt-card-field")), 3)
	assert.Len(t, findAll(doc, byClass("dt-sortbar")), 1)
}

func TestCards_EmptyAndLoading(t *testing.T) {
	doc := renderDoc(t, Cards(listingView(nil, 10), listingSpec(), Options{}))
	assert.Len(t, findAll(doc, byClass("dt-empty")), 1)

	doc = renderDoc(t, Cards(listingView(nil, 4), listingSpec(), Options{Layout: LayoutCards, Loading: true}))
	assert.Len(t, findAll(doc, byClass("dt-skeleton")), 4)
	assert.Empty(t, findAll(doc, byClass("dt-empty")))
}

func TestAdaptive_SwitchesLayoutOverSameView(t *testing.T) {
	v := listingView(sampleRows(), 10)

	desktop := renderDoc(t, Adaptive(v, listingSpec(), Options{Layout: LayoutTable}))
	mobile := renderDoc(t, Adaptive(v, listingSpec(), Options{Layout: LayoutCards}))

	assert.Len(t, findAll(desktop, byTag("table")), 1)
	assert.Empty(t, findAll(mobile, byTag("table")))

	keys := func(doc *html.Node) []string {
		var out []string
		for _, n := range findAll(doc, byClass("dt-row")) {
			k, _ := attrOf(n, "data-key")
			out = append(out, k)
		}
		return out
	}
	assert.Equal(t, keys(desktop), keys(mobile))

	section := findAll(desktop, byTag("section"))
	require.Len(t, section, 1)
	id, _ := attrOf(section[0], "id")
	assert.Equal(t, "brands-table", id)
}

func TestAdaptive_NoticeKeepsRows(t *testing.T) {
	doc := renderDoc(t, Adaptive(listingView(sampleRows(), 10), listingSpec(), Options{Notice: "could not load page 2"}))
	alerts := findAll(doc, func(n *html.Node) bool {
		role, _ := attrOf(n, "role")
		return role == "alert"
	})
	require.Len(t, alerts, 1)
	assert.Contains(t, textOf(alerts[0]), "could not load page 2")
	assert.Len(t, findAll(doc, byClass("dt-row")), 3)
}

func TestNotice_EmptyMessageIsHidden(t *testing.T) {
	doc := renderDoc(t, Notice("brands-table", ""))
	slots := findAll(doc, byClass("dt-notice"))
	require.Len(t, slots, 1)
	_, hidden := attrOf(slots[0], "hidden")
	assert.True(t, hidden)
	id, _ := attrOf(slots[0], "id")
	assert.Equal(t, "brands-table-notice", id)
}

func TestPager(t *testing.T) {
	tbl := datatable.New(make25(), datatable.Options[listing]{Columns: listingColumns(), PageSize: 10})
	tbl.SetPage(3)
	doc := renderDoc(t, Pager(tbl.View(), listingSpec(), Options{}))

	next := findAll(doc, byClass("dt-pager-next"))
	require.Len(t, next, 1)
	_, disabled := attrOf(next[0], "disabled")
	assert.True(t, disabled, "next is disabled on the last page")

	prev := findAll(doc, byClass("dt-pager-prev"))
	require.Len(t, prev, 1)
	_, disabled = attrOf(prev[0], "disabled")
	assert.False(t, disabled)

	pages := findAll(doc, byClass("dt-pager-page"))
	require.Len(t, pages, 3)
	current, _ := attrOf(pages[2], "aria-current")
	assert.Equal(t, "page", current)

	summary := findAll(doc, byClass("dt-pager-summary"))
	require.Len(t, summary, 1)
	assert.Equal(t, "Page 3 of 3, 25 records", textOf(summary[0]))
}

func TestToolbar(t *testing.T) {
	tbl := datatable.New(sampleRows(), datatable.Options[listing]{Columns: listingColumns()})
	tbl.SetFacet("status", []string{"Active"})
	tbl.SetColumnVisible("status", false)
	facets := []datatable.Facet[listing]{datatable.FieldFacet("status", func(l listing) any { return l.Status })}
	groups := FacetGroups(sampleRows(), facets, tbl.Filter().Facets)

	doc := renderDoc(t, Toolbar(tbl.View(), listingSpec(), groups))

	options := findAll(doc, byClass("dt-facet-option"))
	require.Len(t, options, 2)
	active := findAll(options[0], byTag("input"))[0]
	_, checked := attrOf(active, "checked")
	assert.True(t, checked)
	action, _ := attrOf(active, "data-on:change")
	assert.Equal(t, "@post('/brands/facets?column=status&value=Active')", action)

	assert.Len(t, findAll(doc, byClass("dt-clear")), 1)

	menu := findAll(doc, byClass("dt-columns"))
	require.Len(t, menu, 1)
	boxes := findAll(menu[0], byTag("input"))
	require.Len(t, boxes, 2)
	_, checked = attrOf(boxes[1], "checked")
	assert.False(t, checked, "hidden status column is unchecked")
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("Cards")
	require.NoError(t, err)
	assert.Equal(t, LayoutCards, l)

	_, err = ParseLayout("grid")
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestTable_WriteErrorIsReturned(t *testing.T) {
	err := Table(listingView(sampleRows(), 10), listingSpec(), Options{}).Render(context.Background(), failingWriter{})
	assert.EqualError(t, err, "broken pipe")
}

func make25() []listing {
	out := make([]listing, 25)
	for i := range out {
		out[i] = listing{ID: fmt.Sprintf("l-%02d", i+1), Name: fmt.Sprintf("Tower %d", i+1), Status: "Active"}
	}
	return out
}

func TestElement(t *testing.T) {
	c := Element("div", Attrs{Attr("id", "x"), Attr("hidden", false)},
		Element("b", nil, Text("<a & b>")),
		nil,
		Void("input", Attrs{Attr("disabled", true)}),
	)
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	assert.Equal(t, `<div id="x"><b>&lt;a &amp; b&gt;</b><input disabled></div>`, sb.String())
}
