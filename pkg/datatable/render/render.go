// Package render turns a datatable.View into HTML. Components are plain
// templ components: a desktop table, a mobile card list, loading skeletons,
// the empty state, a pager and an error notice. Interactive elements carry
// datastar attributes that post back to the screen's routes under Spec.Base.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// EmptyMessage is shown when a loaded view has no rows.
const EmptyMessage = "No records found"

// Layout selects the table or the card presentation.
type Layout int

const (
	// LayoutTable is the desktop presentation.
	LayoutTable Layout = iota
	// LayoutCards is the mobile presentation.
	LayoutCards
)

func (l Layout) String() string {
	if l == LayoutCards {
		return "cards"
	}
	return "table"
}

// ParseLayout parses "table" or "cards".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "desktop":
		return LayoutTable, nil
	case "cards", "card", "mobile":
		return LayoutCards, nil
	default:
		return LayoutTable, fmt.Errorf("unknown layout %q", s)
	}
}

// Options are the per-render inputs that do not live in the view.
type Options struct {
	Layout Layout
	// Loading renders skeleton placeholders instead of rows.
	Loading bool
	// Notice is an error message shown above the rows.
	Notice string
	// Selectable adds a selection checkbox per row.
	Selectable bool
	// PagerWindow is the number of page links in the pager; zero means 5.
	PagerWindow int
}

// Spec describes how one screen renders its rows. Cell renderers, including
// the actions cell, are supplied by the screen that builds it.
type Spec[R datatable.Row] struct {
	// ID is the container element id, e.g. "brands-table".
	ID string
	// Base is the URL prefix of the screen's routes, e.g. "/brands".
	Base string
	// Cells overrides the rendering of individual columns by column id.
	Cells map[string]func(R) templ.Component
	// Card renders the body of a mobile card. Nil lists the visible columns.
	Card func(R) templ.Component
	// RowClass returns extra CSS classes for a row or card.
	RowClass func(R) string
}

// RowKey is the element key of a row or card.
func RowKey(id string) string {
	return "row-" + id
}

func (s Spec[R]) containerID() string {
	if s.ID != "" {
		return s.ID
	}
	return "datatable"
}

func (s Spec[R]) route(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.TrimRight(s.Base, "/") + "/" + strings.Join(escaped, "/")
}

func (s Spec[R]) rowClass(r R, selected bool) string {
	classes := []string{"dt-row"}
	if s.RowClass != nil {
		if c := strings.TrimSpace(s.RowClass(r)); c != "" {
			classes = append(classes, c)
		}
	}
	if selected {
		classes = append(classes, "dt-selected")
	}
	return strings.Join(classes, " ")
}

// post builds a datastar click action.
func post(path string) string {
	return fmt.Sprintf("@post('%s')", path)
}
