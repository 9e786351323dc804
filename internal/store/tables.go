package store

import (
	"fmt"
	"slices"

	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

type scanner interface {
	Scan(dest ...any) error
}

// tableDef maps one screen onto SQL.
type tableDef struct {
	screen string
	table  string
	alias  string
	joins  []string
	// sortable maps column ids onto ORDER BY expressions.
	sortable map[string]string
	// facets maps facet columns onto the expression they compare.
	facets map[string]string
	// search lists the text expressions matched by the free-text query.
	search []string
	order  []string
	// validStatus is nil for screens without a status column.
	validStatus func(string) bool
}

func (d *tableDef) idExpr() string {
	return d.alias + ".id"
}

// entity binds a tableDef to its row type.
type entity[R datatable.Row] struct {
	def     *tableDef
	selects []string
	scan    func(scanner) (R, error)
	// columns are the searchable texts the exact fuzzy pass runs over; they
	// mirror def.search and the searchable columns of the screen.
	columns datatable.Columns[R]
}

func columnIDs[R any](cs datatable.Columns[R]) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func text[R any](id string, accessor func(R) any) datatable.Column[R] {
	return datatable.Column[R]{ID: id, Accessor: accessor, Searchable: true}
}

var brandsDef = &tableDef{
	screen: domain.ScreenBrands,
	table:  "brands",
	alias:  "b",
	sortable: map[string]string{
		"name":           "b.name",
		"slug":           "b.slug",
		"status":         "b.status",
		"brandType":      "b.brand_type",
		"country":        "b.country",
		"residenceCount": "residence_count",
		"createdAt":      "b.created_at",
	},
	facets: map[string]string{
		"status":    "b.status",
		"brandType": "b.brand_type",
		"country":   "b.country",
	},
	search:      []string{"b.name", "b.slug", "b.status", "b.brand_type", "b.country"},
	order:       []string{"b.name ASC", "b.id ASC"},
	validStatus: domain.ValidStatus,
}

var brandEntity = &entity[domain.Brand]{
	def: brandsDef,
	selects: []string{
		"b.id", "b.name", "b.slug", "b.status", "b.brand_type", "b.country",
		"(SELECT COUNT(*) FROM residences r WHERE r.brand_id = b.id) AS residence_count",
		"b.created_at",
	},
	scan: func(sc scanner) (domain.Brand, error) {
		var b domain.Brand
		var created timeValue
		err := sc.Scan(&b.ID, &b.Name, &b.Slug, &b.Status, &b.BrandType, &b.Country, &b.ResidenceCount, &created)
		b.CreatedAt = created.Time
		return b, err
	},
	columns: datatable.Columns[domain.Brand]{
		text("name", func(b domain.Brand) any { return b.Name }),
		text("slug", func(b domain.Brand) any { return b.Slug }),
		text("status", func(b domain.Brand) any { return b.Status }),
		text("brandType", func(b domain.Brand) any { return b.BrandType }),
		text("country", func(b domain.Brand) any { return b.Country }),
	},
}

var residencesDef = &tableDef{
	screen: domain.ScreenResidences,
	table:  "residences",
	alias:  "r",
	joins:  []string{"LEFT JOIN brands b ON b.id = r.brand_id"},
	sortable: map[string]string{
		"name":              "r.name",
		"brandName":         "b.name",
		"city":              "r.city",
		"country":           "r.country",
		"developmentStatus": "r.development_status",
		"status":            "r.status",
		"units":             "r.units",
		"rank":              "r.ranking",
		"createdAt":         "r.created_at",
	},
	facets: map[string]string{
		"status":            "r.status",
		"developmentStatus": "r.development_status",
		"brandName":         "b.name",
		"country":           "r.country",
	},
	search:      []string{"r.name", "b.name", "r.city", "r.country", "r.status", "r.development_status"},
	order:       []string{"r.ranking ASC", "r.name ASC", "r.id ASC"},
	validStatus: domain.ValidStatus,
}

var residenceEntity = &entity[domain.Residence]{
	def: residencesDef,
	selects: []string{
		"r.id", "r.name", "COALESCE(r.brand_id, '')", "COALESCE(b.name, '')", "r.city", "r.country",
		"r.development_status", "r.status", "r.units", "r.ranking", "r.created_at",
	},
	scan: func(sc scanner) (domain.Residence, error) {
		var r domain.Residence
		var created timeValue
		err := sc.Scan(&r.ID, &r.Name, &r.BrandID, &r.BrandName, &r.City, &r.Country,
			&r.DevelopmentStatus, &r.Status, &r.Units, &r.Rank, &created)
		r.CreatedAt = created.Time
		return r, err
	},
	columns: datatable.Columns[domain.Residence]{
		text("name", func(r domain.Residence) any { return r.Name }),
		text("brandName", func(r domain.Residence) any { return r.BrandName }),
		text("city", func(r domain.Residence) any { return r.City }),
		text("country", func(r domain.Residence) any { return r.Country }),
		text("status", func(r domain.Residence) any { return r.Status }),
		text("developmentStatus", func(r domain.Residence) any { return r.DevelopmentStatus }),
	},
}

var usersDef = &tableDef{
	screen: domain.ScreenUsers,
	table:  "users",
	alias:  "u",
	joins:  []string{"LEFT JOIN roles ro ON ro.id = u.role_id"},
	sortable: map[string]string{
		"fullName":  "u.full_name",
		"email":     "u.email",
		"role":      "ro.name",
		"status":    "u.status",
		"createdAt": "u.created_at",
	},
	facets: map[string]string{
		"role":   "ro.name",
		"status": "u.status",
	},
	search:      []string{"u.full_name", "u.email", "ro.name", "u.status"},
	order:       []string{"u.full_name ASC", "u.id ASC"},
	validStatus: domain.ValidStatus,
}

var userEntity = &entity[domain.User]{
	def: usersDef,
	selects: []string{
		"u.id", "u.full_name", "u.email", "COALESCE(ro.id, '')", "COALESCE(ro.name, '')", "u.status", "u.created_at",
	},
	scan: func(sc scanner) (domain.User, error) {
		var u domain.User
		var roleID, roleName string
		var created timeValue
		err := sc.Scan(&u.ID, &u.FullName, &u.Email, &roleID, &roleName, &u.Status, &created)
		if roleID != "" {
			u.Role = &domain.Role{ID: roleID, Name: roleName}
		}
		u.CreatedAt = created.Time
		return u, err
	},
	columns: datatable.Columns[domain.User]{
		text("fullName", func(u domain.User) any { return u.FullName }),
		text("email", func(u domain.User) any { return u.Email }),
		text("role", datatable.Path[domain.User]("role.name")),
		text("status", func(u domain.User) any { return u.Status }),
	},
}

var leadsDef = &tableDef{
	screen: domain.ScreenLeads,
	table:  "leads",
	alias:  "l",
	joins:  []string{"LEFT JOIN residences r ON r.id = l.residence_id"},
	sortable: map[string]string{
		"fullName":      "l.full_name",
		"email":         "l.email",
		"source":        "l.source",
		"status":        "l.status",
		"residenceName": "r.name",
		"createdAt":     "l.created_at",
	},
	facets: map[string]string{
		"status":        "l.status",
		"source":        "l.source",
		"residenceName": "r.name",
	},
	search:      []string{"l.full_name", "l.email", "l.phone", "l.source", "l.status", "r.name"},
	order:       []string{"l.created_at DESC", "l.id ASC"},
	validStatus: domain.ValidLeadStatus,
}

var leadEntity = &entity[domain.Lead]{
	def: leadsDef,
	selects: []string{
		"l.id", "l.full_name", "l.email", "l.phone", "l.source", "l.status",
		"COALESCE(l.residence_id, '')", "COALESCE(r.name, '')", "l.created_at",
	},
	scan: func(sc scanner) (domain.Lead, error) {
		var l domain.Lead
		var created timeValue
		err := sc.Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.Source, &l.Status,
			&l.ResidenceID, &l.ResidenceName, &created)
		l.CreatedAt = created.Time
		return l, err
	},
	columns: datatable.Columns[domain.Lead]{
		text("fullName", func(l domain.Lead) any { return l.FullName }),
		text("email", func(l domain.Lead) any { return l.Email }),
		text("phone", func(l domain.Lead) any { return l.Phone }),
		text("source", func(l domain.Lead) any { return l.Source }),
		text("status", func(l domain.Lead) any { return l.Status }),
		text("residenceName", func(l domain.Lead) any { return l.ResidenceName }),
	},
}

var amenitiesDef = &tableDef{
	screen: domain.ScreenAmenities,
	table:  "amenities",
	alias:  "a",
	sortable: map[string]string{
		"name":     "a.name",
		"category": "a.category",
		"status":   "a.status",
	},
	facets: map[string]string{
		"category": "a.category",
		"status":   "a.status",
	},
	search:      []string{"a.name", "a.category", "a.status"},
	order:       []string{"a.name ASC", "a.id ASC"},
	validStatus: domain.ValidStatus,
}

var amenityEntity = &entity[domain.Amenity]{
	def:     amenitiesDef,
	selects: []string{"a.id", "a.name", "a.category", "a.status"},
	scan: func(sc scanner) (domain.Amenity, error) {
		var a domain.Amenity
		err := sc.Scan(&a.ID, &a.Name, &a.Category, &a.Status)
		return a, err
	},
	columns: datatable.Columns[domain.Amenity]{
		text("name", func(a domain.Amenity) any { return a.Name }),
		text("category", func(a domain.Amenity) any { return a.Category }),
		text("status", func(a domain.Amenity) any { return a.Status }),
	},
}

var brandTypesDef = &tableDef{
	screen: domain.ScreenBrandTypes,
	table:  "brand_types",
	alias:  "bt",
	sortable: map[string]string{
		"name":        "bt.name",
		"description": "bt.description",
	},
	search: []string{"bt.name", "bt.description"},
	order:  []string{"bt.name ASC", "bt.id ASC"},
}

var brandTypeEntity = &entity[domain.BrandType]{
	def:     brandTypesDef,
	selects: []string{"bt.id", "bt.name", "bt.description"},
	scan: func(sc scanner) (domain.BrandType, error) {
		var t domain.BrandType
		err := sc.Scan(&t.ID, &t.Name, &t.Description)
		return t, err
	},
	columns: datatable.Columns[domain.BrandType]{
		text("name", func(t domain.BrandType) any { return t.Name }),
		text("description", func(t domain.BrandType) any { return t.Description }),
	},
}

var tableDefs = map[string]*tableDef{
	domain.ScreenBrands:     brandsDef,
	domain.ScreenResidences: residencesDef,
	domain.ScreenUsers:      usersDef,
	domain.ScreenLeads:      leadsDef,
	domain.ScreenAmenities:  amenitiesDef,
	domain.ScreenBrandTypes: brandTypesDef,
}

var searchColumns = map[string][]string{
	domain.ScreenBrands:     columnIDs(brandEntity.columns),
	domain.ScreenResidences: columnIDs(residenceEntity.columns),
	domain.ScreenUsers:      columnIDs(userEntity.columns),
	domain.ScreenLeads:      columnIDs(leadEntity.columns),
	domain.ScreenAmenities:  columnIDs(amenityEntity.columns),
	domain.ScreenBrandTypes: columnIDs(brandTypeEntity.columns),
}

// SearchColumns returns the ids of the columns a server-side query matches
// on a screen. A screen's searchable columns must list the same ids for
// server and in-memory search to agree.
func SearchColumns(screen string) ([]string, error) {
	if _, err := lookupDef(screen); err != nil {
		return nil, err
	}
	return slices.Clone(searchColumns[screen]), nil
}

func lookupDef(screen string) (*tableDef, error) {
	d, ok := tableDefs[screen]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}
	return d, nil
}
