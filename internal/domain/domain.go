// Package domain defines the records listed by the back-office screens.
package domain

import (
	"slices"
	"time"
)

// Status is the publication status shared by brands, residences, amenities and users.
type Status string

// Publication statuses.
const (
	StatusActive   Status = "Active"
	StatusDraft    Status = "Draft"
	StatusPending  Status = "Pending"
	StatusInactive Status = "Inactive"
	StatusDeleted  Status = "Deleted"
)

// Statuses lists every publication status in display order.
var Statuses = []Status{StatusActive, StatusDraft, StatusPending, StatusInactive, StatusDeleted}

// LeadStatus tracks a sales lead through the pipeline.
type LeadStatus string

// Lead statuses.
const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadQualified LeadStatus = "Qualified"
	LeadLost      LeadStatus = "Lost"
	LeadWon       LeadStatus = "Won"
)

// LeadStatuses lists every lead status in pipeline order.
var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadLost, LeadWon}

// DevelopmentStatus is the construction stage of a residence.
type DevelopmentStatus string

// Development statuses.
const (
	DevelopmentPlanned           DevelopmentStatus = "Planned"
	DevelopmentUnderConstruction DevelopmentStatus = "Under Construction"
	DevelopmentCompleted         DevelopmentStatus = "Completed"
)

// DevelopmentStatuses lists every development status in order.
var DevelopmentStatuses = []DevelopmentStatus{DevelopmentPlanned, DevelopmentUnderConstruction, DevelopmentCompleted}

// ValidStatus reports whether s is a publication status.
func ValidStatus(s string) bool {
	return slices.Contains(Statuses, Status(s))
}

// ValidLeadStatus reports whether s is a lead status.
func ValidLeadStatus(s string) bool {
	return slices.Contains(LeadStatuses, LeadStatus(s))
}

// Brand is a hospitality or fashion brand that lends its name to residences.
type Brand struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Slug           string    `json:"slug" yaml:"slug"`
	Status         Status    `json:"status" yaml:"status"`
	BrandType      string    `json:"brandType" yaml:"brandType"`
	Country        string    `json:"country" yaml:"country"`
	ResidenceCount int       `json:"residenceCount" yaml:"residenceCount"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
}

// RowID implements datatable.Row.
func (b Brand) RowID() string { return b.ID }

// BrandType groups brands, e.g. "Hotel" or "Fashion".
type BrandType struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// RowID implements datatable.Row.
func (t BrandType) RowID() string { return t.ID }

// Residence is a branded residential development.
type Residence struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	BrandID           string            `json:"brandId" yaml:"brandId"`
	BrandName         string            `json:"brandName" yaml:"brandName"`
	City              string            `json:"city" yaml:"city"`
	Country           string            `json:"country" yaml:"country"`
	DevelopmentStatus DevelopmentStatus `json:"developmentStatus" yaml:"developmentStatus"`
	Status            Status            `json:"status" yaml:"status"`
	Units             int               `json:"units" yaml:"units"`
	Rank              int               `json:"rank" yaml:"rank"`
	CreatedAt         time.Time         `json:"createdAt" yaml:"createdAt"`
}

// RowID implements datatable.Row.
func (r Residence) RowID() string { return r.ID }

// Role is the access role of a back-office user.
type Role struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DisplayString renders a role by its name in cells and facets.
func (r Role) DisplayString() string { return r.Name }

// User is a back-office or buyer account.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	FullName  string    `json:"fullName" yaml:"fullName"`
	Email     string    `json:"email" yaml:"email"`
	Role      *Role     `json:"role,omitempty" yaml:"role"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// RowID implements datatable.Row.
func (u User) RowID() string { return u.ID }

// Lead is an enquiry about a residence.
type Lead struct {
	ID            string     `json:"id" yaml:"id"`
	FullName      string     `json:"fullName" yaml:"fullName"`
	Email         string     `json:"email" yaml:"email"`
	Phone         string     `json:"phone" yaml:"phone"`
	Source        string     `json:"source" yaml:"source"`
	Status        LeadStatus `json:"status" yaml:"status"`
	ResidenceID   string     `json:"residenceId" yaml:"residenceId"`
	ResidenceName string     `json:"residenceName" yaml:"residenceName"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"createdAt"`
}

// RowID implements datatable.Row.
func (l Lead) RowID() string { return l.ID }

// Amenity is a facility that residences can offer.
type Amenity struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Status   Status `json:"status" yaml:"status"`
}

// RowID implements datatable.Row.
func (a Amenity) RowID() string { return a.ID }

// Screen names, used in URLs, API paths and CLI arguments.
const (
	ScreenBrands     = "brands"
	ScreenResidences = "residences"
	ScreenUsers      = "users"
	ScreenLeads      = "leads"
	ScreenAmenities  = "amenities"
	ScreenBrandTypes = "brand-types"
)

// Screens lists every list screen in navigation order.
var Screens = []string{ScreenBrands, ScreenResidences, ScreenUsers, ScreenLeads, ScreenAmenities, ScreenBrandTypes}

// ValidScreen reports whether name is a list screen.
func ValidScreen(name string) bool {
	return slices.Contains(Screens, name)
}

// related lists the screens that display records of another screen: brands
// show residence counts, residences show brand names, leads show residence
// names and residence cards list amenities.
var related = map[string][]string{
	ScreenBrands:     {ScreenResidences},
	ScreenBrandTypes: {ScreenBrands},
	ScreenResidences: {ScreenBrands, ScreenLeads},
	ScreenAmenities:  {ScreenResidences},
}

// Affected returns the screens to reload after records of screen changed,
// starting with screen itself.
func Affected(screen string) []string {
	return append([]string{screen}, related[screen]...)
}
