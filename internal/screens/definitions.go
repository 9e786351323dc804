package screens

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
	"github.com/brandedliving/backoffice/pkg/datatable/render"
)

// Brands defines the brands screen.
func Brands(actions Actions[domain.Brand]) Definition[domain.Brand] {
	b := newBuilder(actions).
		text("name", "", func(r domain.Brand) any { return r.Name }).
		hiddenText("slug", "", func(r domain.Brand) any { return r.Slug }).
		text("brandType", "Type", func(r domain.Brand) any { return r.BrandType }).
		text("country", "", func(r domain.Brand) any { return r.Country }).
		text("status", "", func(r domain.Brand) any { return r.Status }).
		value("residenceCount", "Residences", func(r domain.Brand) any { return r.ResidenceCount }).
		value("createdAt", "Created", func(r domain.Brand) any { return r.CreatedAt })

	return Definition[domain.Brand]{
		Name:    domain.ScreenBrands,
		Title:   "Brands",
		Columns: b.build(),
		Facets: []datatable.Facet[domain.Brand]{
			labelled(datatable.FieldFacet("status", func(r domain.Brand) any { return r.Status }), "Status"),
			labelled(datatable.FieldFacet("brandType", func(r domain.Brand) any { return r.BrandType }), "Type"),
			labelled(datatable.FieldFacet("country", func(r domain.Brand) any { return r.Country }), "Country"),
		},
		Statuses: PublicationStatuses,
		Cells: b.cells(map[string]func(domain.Brand) templ.Component{
			"status": func(r domain.Brand) templ.Component { return Badge(string(r.Status)) },
		}),
		RowClass: func(r domain.Brand) string { return StatusClass(string(r.Status)) },
		Fetcher:  func(s Source) datatable.Fetcher[domain.Brand] { return s.Brands() },
	}
}

// Residences defines the residences screen.
func Residences(actions Actions[domain.Residence]) Definition[domain.Residence] {
	b := newBuilder(actions).
		text("name", "", func(r domain.Residence) any { return r.Name }).
		text("brandName", "Brand", func(r domain.Residence) any { return r.BrandName }).
		text("city", "", func(r domain.Residence) any { return r.City }).
		text("country", "", func(r domain.Residence) any { return r.Country }).
		text("developmentStatus", "Development", func(r domain.Residence) any { return r.DevelopmentStatus }).
		text("status", "", func(r domain.Residence) any { return r.Status }).
		value("units", "", func(r domain.Residence) any { return r.Units }).
		value("rank", "", func(r domain.Residence) any { return r.Rank })

	return Definition[domain.Residence]{
		Name:    domain.ScreenResidences,
		Title:   "Residences",
		Columns: b.build(),
		Facets: []datatable.Facet[domain.Residence]{
			labelled(datatable.FieldFacet("status", func(r domain.Residence) any { return r.Status }), "Status"),
			labelled(datatable.FieldFacet("developmentStatus", func(r domain.Residence) any { return r.DevelopmentStatus }), "Development"),
			labelled(datatable.FieldFacet("brandName", func(r domain.Residence) any { return r.BrandName }), "Brand"),
			labelled(datatable.FieldFacet("country", func(r domain.Residence) any { return r.Country }), "Country"),
		},
		Statuses: PublicationStatuses,
		Cells: b.cells(map[string]func(domain.Residence) templ.Component{
			"status":            func(r domain.Residence) templ.Component { return Badge(string(r.Status)) },
			"developmentStatus": func(r domain.Residence) templ.Component { return Badge(string(r.DevelopmentStatus)) },
		}),
		Card: residenceCard(actions),
		RowClass: func(r domain.Residence) string {
			return strings.TrimSpace(StatusClass(string(r.Status)) + " " + StatusClass(string(r.DevelopmentStatus)))
		},
		Fetcher: func(s Source) datatable.Fetcher[domain.Residence] { return s.Residences() },
	}
}

func residenceCard(actions Actions[domain.Residence]) func(domain.Residence) templ.Component {
	return func(r domain.Residence) templ.Component {
		place := strings.Trim(r.City+", "+r.Country, ", ")
		children := []templ.Component{
			render.Element("h3", render.Attrs{render.Attr("class", "dt-card-title")}, render.Text(r.Name)),
			render.Element("p", render.Attrs{render.Attr("class", "dt-card-subtitle")}, render.Text(place)),
			render.Element("p", render.Attrs{render.Attr("class", "dt-card-meta")},
				Badge(string(r.Status)),
				Badge(string(r.DevelopmentStatus)),
				render.Text(unitsText(r.Units)),
			),
		}
		if r.BrandName != "" {
			children = append(children, render.Element("p", render.Attrs{render.Attr("class", "dt-card-brand")}, render.Text(r.BrandName)))
		}
		if actions != nil {
			children = append(children, actions(r))
		}
		return templ.Join(children...)
	}
}

func unitsText(n int) string {
	if n == 1 {
		return "1 unit"
	}
	return strconv.Itoa(n) + " units"
}

// Users defines the users screen.
func Users(actions Actions[domain.User]) Definition[domain.User] {
	b := newBuilder(actions).
		text("fullName", "Name", func(r domain.User) any { return r.FullName }).
		text("email", "", func(r domain.User) any { return r.Email }).
		text("role", "", datatable.Path[domain.User]("role")).
		text("status", "", func(r domain.User) any { return r.Status }).
		value("createdAt", "Created", func(r domain.User) any { return r.CreatedAt })

	return Definition[domain.User]{
		Name:    domain.ScreenUsers,
		Title:   "Users",
		Columns: b.build(),
		Facets: []datatable.Facet[domain.User]{
			labelled(datatable.PathFacet[domain.User]("role", "role.name", true), "Role"),
			labelled(datatable.FieldFacet("status", func(r domain.User) any { return r.Status }), "Status"),
		},
		Statuses: PublicationStatuses,
		Cells: b.cells(map[string]func(domain.User) templ.Component{
			"status": func(r domain.User) templ.Component { return Badge(string(r.Status)) },
			"email": func(r domain.User) templ.Component {
				return render.Element("a", render.Attrs{render.Attr("href", "mailto:"+r.Email)}, render.Text(r.Email))
			},
		}),
		RowClass: func(r domain.User) string { return StatusClass(string(r.Status)) },
		Fetcher:  func(s Source) datatable.Fetcher[domain.User] { return s.Users() },
	}
}

// Leads defines the leads screen.
func Leads(actions Actions[domain.Lead]) Definition[domain.Lead] {
	b := newBuilder(actions).
		text("fullName", "Name", func(r domain.Lead) any { return r.FullName }).
		text("email", "", func(r domain.Lead) any { return r.Email }).
		text("phone", "", func(r domain.Lead) any { return r.Phone }).
		text("source", "", func(r domain.Lead) any { return r.Source }).
		text("residenceName", "Residence", func(r domain.Lead) any { return r.ResidenceName }).
		text("status", "", func(r domain.Lead) any { return r.Status }).
		value("createdAt", "Received", func(r domain.Lead) any { return r.CreatedAt })

	return Definition[domain.Lead]{
		Name:    domain.ScreenLeads,
		Title:   "Leads",
		Columns: b.build(),
		Facets: []datatable.Facet[domain.Lead]{
			labelled(datatable.FieldFacet("status", func(r domain.Lead) any { return r.Status }), "Status"),
			labelled(datatable.FieldFacet("source", func(r domain.Lead) any { return r.Source }), "Source"),
			labelled(datatable.FieldFacet("residenceName", func(r domain.Lead) any { return r.ResidenceName }), "Residence"),
		},
		Statuses: LeadStatuses,
		Cells: b.cells(map[string]func(domain.Lead) templ.Component{
			"status": func(r domain.Lead) templ.Component { return Badge(string(r.Status)) },
		}),
		RowClass: func(r domain.Lead) string { return StatusClass(string(r.Status)) },
		Fetcher:  func(s Source) datatable.Fetcher[domain.Lead] { return s.Leads() },
	}
}

// Amenities defines the amenities screen.
func Amenities(actions Actions[domain.Amenity]) Definition[domain.Amenity] {
	b := newBuilder(actions).
		text("name", "", func(r domain.Amenity) any { return r.Name }).
		text("category", "", func(r domain.Amenity) any { return r.Category }).
		text("status", "", func(r domain.Amenity) any { return r.Status })

	return Definition[domain.Amenity]{
		Name:    domain.ScreenAmenities,
		Title:   "Amenities",
		Columns: b.build(),
		Facets: []datatable.Facet[domain.Amenity]{
			labelled(datatable.FieldFacet("category", func(r domain.Amenity) any { return r.Category }), "Category"),
			labelled(datatable.FieldFacet("status", func(r domain.Amenity) any { return r.Status }), "Status"),
		},
		Statuses: PublicationStatuses,
		Cells: b.cells(map[string]func(domain.Amenity) templ.Component{
			"status": func(r domain.Amenity) templ.Component { return Badge(string(r.Status)) },
		}),
		RowClass: func(r domain.Amenity) string { return StatusClass(string(r.Status)) },
		Fetcher:  func(s Source) datatable.Fetcher[domain.Amenity] { return s.Amenities() },
	}
}

// BrandTypes defines the brand types screen.
func BrandTypes(actions Actions[domain.BrandType]) Definition[domain.BrandType] {
	b := newBuilder(actions).
		text("name", "", func(r domain.BrandType) any { return r.Name }).
		text("description", "", func(r domain.BrandType) any { return r.Description })

	return Definition[domain.BrandType]{
		Name:    domain.ScreenBrandTypes,
		Title:   "Brand Types",
		Columns: b.build(),
		Cells:   b.cells(nil),
		Fetcher: func(s Source) datatable.Fetcher[domain.BrandType] { return s.BrandTypes() },
	}
}

func labelled[R any](f datatable.Facet[R], label string) datatable.Facet[R] {
	f.Label = label
	return f
}
