package commands

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandedliving/backoffice/internal/cli/output"
	"github.com/brandedliving/backoffice/internal/config"
	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/screens"
	"github.com/brandedliving/backoffice/internal/urlstate"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// CardWidth is the terminal width below which auto layout prints cards.
const CardWidth = 100

// ListOptions holds options for the list command.
type ListOptions struct {
	Page   int
	Size   int
	Query  string
	Facets []string
	Sorts  []string
	Layout string
}

// ListResult is the JSON output of the list command.
type ListResult struct {
	Screen     string               `json:"screen"`
	Data       []map[string]string  `json:"data"`
	Pagination datatable.Pagination `json:"pagination"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <screen>",
		Short: "Print one page of a list screen",
		Long: `Print one page of a list screen with the same search, facets,
sorting and paging as the web screens.

Screens: ` + strings.Join(domain.Screens, ", "),
		Example: `  # First page of brands
  backoffice list brands

  # Active residences in Italy sorted by rank, as JSON
  backoffice list residences --facet status=Active --facet country=Italy --sort rank:asc -o json

  # Fuzzy search over leads, second page of five
  backoffice list leads --query "jhn" --page 2 --size 5`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: domain.Screens,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "Rows per page (default: table.page_size)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search text")
	cmd.Flags().StringArrayVar(&opts.Facets, "facet", nil, "Facet filter as column=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Sorts, "sort", nil, "Sort key as column:asc|desc (repeatable)")
	cmd.Flags().StringVar(&opts.Layout, "layout", "auto", "Text layout (auto|table|cards)")

	_ = cmd.RegisterFlagCompletionFunc("layout", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "table", "cards"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, screen string, opts *ListOptions) error {
	c, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if !domain.ValidScreen(screen) {
		return fmt.Errorf("unknown screen %q (expected one of %s)", screen, strings.Join(domain.Screens, ", "))
	}
	req, err := opts.request(c.Cfg.Table.PageSize)
	if err != nil {
		return err
	}
	layout, err := listLayout(opts.Layout, c.Renderer.Width())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backend, _, cleanup, err := c.OpenBackend(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	l := &lister{ctx: ctx, source: backend, req: req, maxGap: c.Cfg.Table.FuzzyMaxGap, renderer: c.Renderer, layout: layout}
	switch screen {
	case domain.ScreenBrands:
		return listScreen(l, screens.Brands(nil))
	case domain.ScreenResidences:
		return listScreen(l, screens.Residences(nil))
	case domain.ScreenUsers:
		return listScreen(l, screens.Users(nil))
	case domain.ScreenLeads:
		return listScreen(l, screens.Leads(nil))
	case domain.ScreenAmenities:
		return listScreen(l, screens.Amenities(nil))
	default:
		return listScreen(l, screens.BrandTypes(nil))
	}
}

// request turns the flags into a page request through the API codec so the
// command accepts exactly what the JSON API accepts.
func (o *ListOptions) request(defaultSize int) (datatable.PageRequest, error) {
	if o.Page < 1 {
		return datatable.PageRequest{}, fmt.Errorf("--page must be at least 1")
	}
	size := o.Size
	if size == 0 {
		size = defaultSize
	}
	if size < 1 || size > config.MaxPageSize {
		return datatable.PageRequest{}, fmt.Errorf("--size must be between 1 and %d", config.MaxPageSize)
	}

	v := url.Values{}
	v.Set(urlstate.API.PageKey, strconv.Itoa(o.Page))
	v.Set(urlstate.API.SizeKey, strconv.Itoa(size))
	if q := strings.TrimSpace(o.Query); q != "" {
		v.Set(urlstate.API.QueryKey, q)
	}
	for _, f := range o.Facets {
		column, value, ok := strings.Cut(f, "=")
		if !ok || column == "" || value == "" {
			return datatable.PageRequest{}, fmt.Errorf("invalid --facet %q (expected column=value)", f)
		}
		v.Add(column, value)
	}
	for _, s := range o.Sorts {
		_, dir, _ := strings.Cut(s, ":")
		if _, ok := urlstate.ParseSortKey(s); !ok || (dir != "" && !strings.EqualFold(dir, "asc") && !strings.EqualFold(dir, "desc")) {
			return datatable.PageRequest{}, fmt.Errorf("invalid --sort %q (expected column:asc or column:desc)", s)
		}
		v.Add(urlstate.API.SortKey, s)
	}
	return urlstate.API.Decode(v), nil
}

func listLayout(s string, width int) (render.Layout, error) {
	if strings.EqualFold(strings.TrimSpace(s), "auto") {
		if width < CardWidth {
			return render.LayoutCards, nil
		}
		return render.LayoutTable, nil
	}
	return render.ParseLayout(s)
}

type lister struct {
	ctx      context.Context
	source   screens.Source
	req      datatable.PageRequest
	maxGap   int
	renderer *output.Renderer
	layout   render.Layout
}

func listScreen[R datatable.Row](l *lister, def screens.Definition[R]) error {
	columns := def.DataColumns()
	table := datatable.New[R](nil, datatable.Options[R]{
		Columns:          columns,
		Facets:           def.Facets,
		Sort:             l.req.Sort,
		PageSize:         l.req.Limit,
		MaxGap:           l.maxGap,
		ManualPagination: true,
		ManualFiltering:  true,
	})
	table.SetFilter(datatable.FilterState{Query: l.req.Query, Facets: l.req.Facets})

	coord := datatable.NewCoordinator(table, def.Fetcher(l.source), nil)
	defer coord.Close()
	if err := coord.GoToPage(l.ctx, l.req.Page); err != nil {
		return err
	}
	view := table.View()

	if l.renderer.EffectiveMode() == output.ModeJSON {
		data := make([]map[string]string, len(view.Rows))
		for i, r := range view.Rows {
			m := make(map[string]string, len(columns)+1)
			m["id"] = r.RowID()
			for _, col := range columns {
				m[col.ID] = col.Text(r)
			}
			data[i] = m
		}
		return l.renderer.JSON(ListResult{Screen: def.Name, Data: data, Pagination: view.Pagination})
	}

	l.renderer.Header(def.Title)
	if view.Empty() {
		l.renderer.Muted("No results.")
		return nil
	}

	visible := view.Columns
	if l.layout == render.LayoutCards {
		for _, r := range view.Rows {
			fields := make([]output.Field, 0, len(visible))
			for _, col := range visible[1:] {
				fields = append(fields, output.Field{Label: col.Header, Value: col.Text(r)})
			}
			l.renderer.Card(visible[0].Text(r), fields)
		}
	} else {
		headers := make([]string, len(visible))
		for i, col := range visible {
			headers[i] = col.Header
		}
		rows := make([][]string, len(view.Rows))
		for i, r := range view.Rows {
			row := make([]string, len(visible))
			for j, col := range visible {
				row[j] = col.Text(r)
			}
			rows[i] = row
		}
		l.renderer.Table(headers, rows)
	}

	p := view.Pagination
	l.renderer.Muted(fmt.Sprintf("Page %d of %d (%d total)", p.Page, p.TotalPages, p.TotalItems))
	return nil
}
