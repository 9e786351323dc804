package screens

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func columnIDs[R any](cols datatable.Columns[R]) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

func TestLabel(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"name", "Name"},
		{"developmentStatus", "Development Status"},
		{"residenceCount", "Residence Count"},
		{"brand-types", "Brand Types"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.id))
		})
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "status-active", StatusClass("Active"))
	assert.Equal(t, "status-under-construction", StatusClass("Under Construction"))
	assert.Equal(t, "", StatusClass(""))
}

func TestActionsColumnComesFromConstructor(t *testing.T) {
	plain := Brands(nil)
	assert.NotContains(t, columnIDs(plain.Columns), ActionsColumn)
	assert.NotContains(t, plain.Cells, ActionsColumn)

	withActions := Brands(StatusActions(domain.ScreenBrands, plain.Statuses, func(b domain.Brand) string { return string(b.Status) }))
	ids := columnIDs(withActions.Columns)
	assert.Equal(t, ActionsColumn, ids[len(ids)-1])
	assert.Contains(t, withActions.Cells, ActionsColumn)
	assert.Equal(t, columnIDs(plain.Columns), columnIDs(withActions.DataColumns()))
}

func TestEveryScreenIsDefined(t *testing.T) {
	names := []string{
		Brands(nil).Name,
		Residences(nil).Name,
		Users(nil).Name,
		Leads(nil).Name,
		Amenities(nil).Name,
		BrandTypes(nil).Name,
	}
	assert.Equal(t, domain.Screens, names)
}

func TestSpec(t *testing.T) {
	spec := Leads(nil).Spec()
	assert.Equal(t, "leads-table", spec.ID)
	assert.Equal(t, "/leads", spec.Base)
}

func TestStatusActions(t *testing.T) {
	actions := StatusActions(domain.ScreenLeads, LeadStatuses, func(l domain.Lead) string { return string(l.Status) })
	out := renderString(t, actions(domain.Lead{ID: "l-1", Status: domain.LeadQualified}))

	assert.Contains(t, out, `<option value="Qualified" selected>Qualified</option>`)
	assert.Contains(t, out, `<option value="New">New</option>`)
	assert.Contains(t, out, "@patch(&#39;/leads/l-1/status?status=")
	assert.Contains(t, out, "@delete(&#39;/leads/l-1&#39;)")
}

func TestDeleteAction(t *testing.T) {
	out := renderString(t, DeleteAction[domain.BrandType](domain.ScreenBrandTypes)(domain.BrandType{ID: "bt 1"}))
	assert.Contains(t, out, "/brand-types/bt%201")
	assert.NotContains(t, out, "<select")
}

func TestUsersRoleFacetAndColumn(t *testing.T) {
	def := Users(nil)
	rows := []domain.User{
		{ID: "u-1", Role: &domain.Role{Name: "Admin"}},
		{ID: "u-2", Role: &domain.Role{Name: "Buyer"}},
		{ID: "u-3"},
		{ID: "u-4", Role: &domain.Role{Name: "Admin"}},
	}
	assert.Equal(t, []string{"Admin", "Buyer"}, datatable.FacetValues(rows, def.Facets[0]))

	role, ok := def.Columns.Find("role")
	require.True(t, ok)
	assert.Equal(t, "Admin", role.Text(rows[0]))
	assert.Equal(t, "", role.Text(rows[2]), "missing role renders an empty cell")
}

func TestFacetLabel(t *testing.T) {
	def := Residences(nil)
	assert.Equal(t, "Development", def.FacetLabel("developmentStatus"))
	assert.Equal(t, "City", def.FacetLabel("city"))
	assert.Equal(t, "Nope Column", def.FacetLabel("nopeColumn"))
}

func TestResidenceCardAndRows(t *testing.T) {
	def := Residences(DeleteAction[domain.Residence](domain.ScreenResidences))
	rows := []domain.Residence{{
		ID: "r-1", Name: "Aman Tokyo", City: "Tokyo", Country: "Japan", BrandName: "Aman",
		Status: domain.StatusActive, DevelopmentStatus: domain.DevelopmentUnderConstruction, Units: 40,
	}}
	tbl := datatable.New(rows, datatable.Options[domain.Residence]{Columns: def.Columns, Facets: def.Facets})

	cards := renderString(t, render.Cards(tbl.View(), def.Spec(), render.Options{Layout: render.LayoutCards}))
	assert.Contains(t, cards, `<h3 class="dt-card-title">Aman Tokyo</h3>`)
	assert.Contains(t, cards, "Tokyo, Japan")
	assert.Contains(t, cards, "40 units")
	assert.Contains(t, cards, "status-active status-under-construction")
	assert.Contains(t, cards, "/residences/r-1")

	table := renderString(t, render.Table(tbl.View(), def.Spec(), render.Options{}))
	assert.Contains(t, table, `<span class="badge status-under-construction">Under Construction</span>`)
}

func TestUnitsText(t *testing.T) {
	assert.Equal(t, "1 unit", unitsText(1))
	assert.Equal(t, "0 units", unitsText(0))
}
