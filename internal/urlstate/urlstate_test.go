package urlstate

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Name   string
	Status string
}

func (r row) RowID() string { return r.ID }

func newTable() *datatable.Table[row] {
	rows := make([]row, 30)
	for i := range rows {
		rows[i] = row{ID: string(rune('a' + i%26)), Name: "Tower", Status: "Active"}
	}
	cols := datatable.NewColumnBuilder[row]().
		Text("name", "Name", func(r row) any { return r.Name }).
		Text("status", "Status", func(r row) any { return r.Status }).
		Build()
	return datatable.New(rows, datatable.Options[row]{Columns: cols})
}

func TestCodec_RoundTrip(t *testing.T) {
	req := datatable.PageRequest{
		Page:   3,
		Limit:  25,
		Query:  "armani casa",
		Facets: datatable.FacetState{"status": {"Active", "Draft"}, "role": {"Admin"}},
		Sort:   datatable.SortState{{Column: "name", Desc: true}, {Column: "units"}},
	}
	for _, codec := range []Codec{Browser, API} {
		v := codec.Encode(req)
		got := codec.Decode(v)
		assert.Equal(t, req, got)

		parsed, err := url.ParseQuery(v.Encode())
		require.NoError(t, err)
		assert.Equal(t, req, codec.Decode(parsed))
	}
}

func TestCodec_Decode(t *testing.T) {
	v, err := url.ParseQuery("page=abc&limit=10&sort=name:desc,-units&sort=status&status=Active&status=&developmentStatus=Planned")
	require.NoError(t, err)
	req := API.Decode(v)

	assert.Equal(t, 0, req.Page)
	assert.Equal(t, 10, req.Limit)
	assert.Equal(t, datatable.SortState{{Column: "name", Desc: true}, {Column: "units", Desc: true}, {Column: "status"}}, req.Sort)
	assert.Equal(t, datatable.FacetState{"status": {"Active"}, "developmentStatus": {"Planned"}}, req.Facets)

	browser := Browser.Decode(v)
	assert.Equal(t, []string{"10"}, browser.Facets.Selected("limit"), "limit is a facet under the browser codec")
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want datatable.SortKey
		ok   bool
	}{
		{"name", datatable.SortKey{Column: "name"}, true},
		{"name:asc", datatable.SortKey{Column: "name"}, true},
		{"name:DESC", datatable.SortKey{Column: "name", Desc: true}, true},
		{"-rank", datatable.SortKey{Column: "rank", Desc: true}, true},
		{":desc", datatable.SortKey{Desc: true}, false},
		{"", datatable.SortKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSortKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynchronizer_RestoreAndHref(t *testing.T) {
	tbl := newTable()
	s := New(tbl, Options{DefaultPageSize: datatable.DefaultPageSize})
	defer s.Close()

	v, err := url.ParseQuery("page=2&size=5&query=tow&sort=name:desc&status=Active")
	require.NoError(t, err)
	page := s.Restore(v)
	tbl.SetPage(page)

	assert.Equal(t, 2, page)
	assert.Equal(t, 5, tbl.PageSize())
	assert.Equal(t, "tow", tbl.Filter().Query)
	assert.Equal(t, []string{"Active"}, tbl.Filter().Facets.Selected("status"))
	assert.Equal(t, "desc", tbl.Sort().Direction("name"))

	assert.Equal(t, "/brands?page=2&query=tow&size=5&sort=name%3Adesc&status=Active", s.Href("/brands"))

	empty := New(newTable(), Options{DefaultPageSize: datatable.DefaultPageSize})
	defer empty.Close()
	assert.Equal(t, "/brands", empty.Href("/brands"))
}

// recorder counts commits.
type recorder struct {
	mu      sync.Mutex
	commits []string
}

func (r *recorder) record(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, q)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commits...)
}

func TestSynchronizer_DebouncesTyping(t *testing.T) {
	tbl := newTable()
	tbl.SetPage(3)
	rec := &recorder{}
	s := New(tbl, Options{Debounce: 30 * time.Millisecond, MaxWait: time.Minute, OnCommit: rec.record})
	defer s.Close()

	for _, q := range []string{"a", "ar", "arm"} {
		s.Type(q)
	}
	assert.Equal(t, "", tbl.Filter().Query, "nothing is applied while typing")
	q, waiting := s.Pending()
	assert.Equal(t, "arm", q)
	assert.True(t, waiting)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"arm"}, rec.snapshot())
	assert.Equal(t, "arm", tbl.Filter().Query)
	assert.Equal(t, 1, tbl.Page(), "a committed query returns to the first page")

	_, waiting = s.Pending()
	assert.False(t, waiting)
}

func TestSynchronizer_FlushAndClose(t *testing.T) {
	tbl := newTable()
	rec := &recorder{}
	s := New(tbl, Options{Debounce: time.Hour, OnCommit: rec.record})

	s.Type("ritz")
	s.Flush()
	assert.Equal(t, "ritz", tbl.Filter().Query)
	assert.Equal(t, []string{"ritz"}, rec.snapshot())

	s.Flush()
	assert.Len(t, rec.snapshot(), 1, "flushing twice commits once")

	s.Type("aman")
	s.Close()
	s.Flush()
	s.Type("bulgari")
	assert.Equal(t, "ritz", tbl.Filter().Query)
	assert.Len(t, rec.snapshot(), 1)
}
