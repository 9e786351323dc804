package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brandedliving/backoffice/internal/domain"
)

// Fixtures is the layout of a YAML seed file. Relations may reference records
// by id or by name: a residence's brandName, a lead's residenceName and a
// user's role name are resolved against the records of the same file.
type Fixtures struct {
	BrandTypes []domain.BrandType `yaml:"brandTypes"`
	Brands     []domain.Brand     `yaml:"brands"`
	Residences []domain.Residence `yaml:"residences"`
	Roles      []domain.Role      `yaml:"roles"`
	Users      []domain.User      `yaml:"users"`
	Leads      []domain.Lead      `yaml:"leads"`
	Amenities  []domain.Amenity   `yaml:"amenities"`
	// ResidenceAmenities maps a residence id or name onto amenity ids or names.
	ResidenceAmenities map[string][]string `yaml:"residenceAmenities"`
}

// LoadFixtures reads a YAML seed file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := ParseFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFixtures decodes YAML seed data. Unknown keys are rejected.
func ParseFixtures(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &f, nil
}

// seeder inserts fixtures inside one transaction and resolves names to ids.
type seeder struct {
	s   *Store
	tx  *sql.Tx
	ctx context.Context
	now time.Time

	brands     map[string]string
	residences map[string]string
	roles      map[string]string
	amenities  map[string]string
}

func (sd *seeder) insert(table string, columns []string, values ...any) error {
	query, args, err := sd.s.builder.Insert(table).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return err
	}
	if _, err := sd.tx.ExecContext(sd.ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (sd *seeder) id(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (sd *seeder) created(t time.Time) time.Time {
	if t.IsZero() {
		return sd.now
	}
	return t.UTC().Round(0)
}

// resolve maps a reference onto a known id. A reference that is already an
// id resolves to itself; unknown references resolve to nil.
func resolve(index map[string]string, ids map[string]bool, ref string) any {
	if ref == "" {
		return nil
	}
	if ids[ref] {
		return ref
	}
	if id, ok := index[strings.ToLower(ref)]; ok {
		return id
	}
	return nil
}

func orDefault[S ~string](v, def S) S {
	if v == "" {
		return def
	}
	return v
}

// Seed replaces every record with the fixtures.
func (s *Store) Seed(ctx context.Context, f *Fixtures) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"residence_amenities", "leads", "users", "roles", "residences", "brands", "brand_types", "amenities"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	sd := &seeder{
		s:          s,
		tx:         tx,
		ctx:        ctx,
		now:        time.Now().UTC().Round(0),
		brands:     map[string]string{},
		residences: map[string]string{},
		roles:      map[string]string{},
		amenities:  map[string]string{},
	}
	steps := []func(*Fixtures) error{
		sd.brandTypes, sd.brandsAndResidences, sd.usersAndRoles, sd.leads, sd.amenityLinks,
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	s.logger.Info("seeded database",
		"brands", len(f.Brands),
		"residences", len(f.Residences),
		"users", len(f.Users),
		"leads", len(f.Leads),
		"amenities", len(f.Amenities),
	)
	return nil
}

func (sd *seeder) brandTypes(f *Fixtures) error {
	for i, t := range f.BrandTypes {
		if t.Name == "" {
			return fmt.Errorf("brandTypes[%d]: name is required", i)
		}
		if err := sd.insert("brand_types", []string{"id", "name", "description"}, sd.id(t.ID), t.Name, t.Description); err != nil {
			return err
		}
	}
	return nil
}

func (sd *seeder) brandsAndResidences(f *Fixtures) error {
	brandIDs := map[string]bool{}
	for i, b := range f.Brands {
		if b.Name == "" {
			return fmt.Errorf("brands[%d]: name is required", i)
		}
		id := sd.id(b.ID)
		brandIDs[id] = true
		sd.brands[strings.ToLower(b.Name)] = id
		slug := b.Slug
		if slug == "" {
			slug = strings.ToLower(strings.Join(strings.Fields(b.Name), "-"))
		}
		err := sd.insert("brands",
			[]string{"id", "name", "slug", "status", "brand_type", "country", "created_at"},
			id, b.Name, slug, string(orDefault(b.Status, domain.StatusDraft)), b.BrandType, b.Country, sd.created(b.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	for i, r := range f.Residences {
		if r.Name == "" {
			return fmt.Errorf("residences[%d]: name is required", i)
		}
		id := sd.id(r.ID)
		sd.residences[strings.ToLower(r.Name)] = id
		sd.residences[strings.ToLower(id)] = id
		ref := r.BrandID
		if ref == "" {
			ref = r.BrandName
		}
		err := sd.insert("residences",
			[]string{"id", "name", "brand_id", "city", "country", "development_status", "status", "units", "ranking", "created_at"},
			id, r.Name, resolve(sd.brands, brandIDs, ref), r.City, r.Country,
			string(orDefault(r.DevelopmentStatus, domain.DevelopmentPlanned)),
			string(orDefault(r.Status, domain.StatusDraft)),
			r.Units, r.Rank, sd.created(r.CreatedAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sd *seeder) usersAndRoles(f *Fixtures) error {
	roleIDs := map[string]bool{}
	addRole := func(r domain.Role) error {
		if r.Name == "" {
			return nil
		}
		if _, ok := sd.roles[strings.ToLower(r.Name)]; ok {
			return nil
		}
		id := sd.id(r.ID)
		roleIDs[id] = true
		sd.roles[strings.ToLower(r.Name)] = id
		return sd.insert("roles", []string{"id", "name"}, id, r.Name)
	}

	for _, r := range f.Roles {
		if err := addRole(r); err != nil {
			return err
		}
	}
	for _, u := range f.Users {
		if u.Role != nil {
			if err := addRole(*u.Role); err != nil {
				return err
			}
		}
	}

	for i, u := range f.Users {
		if u.FullName == "" || u.Email == "" {
			return fmt.Errorf("users[%d]: fullName and email are required", i)
		}
		var role any
		if u.Role != nil {
			role = resolve(sd.roles, roleIDs, u.Role.Name)
		}
		err := sd.insert("users",
			[]string{"id", "full_name", "email", "role_id", "status", "created_at"},
			sd.id(u.ID), u.FullName, u.Email, role, string(orDefault(u.Status, domain.StatusPending)), sd.created(u.CreatedAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sd *seeder) leads(f *Fixtures) error {
	for i, l := range f.Leads {
		if l.FullName == "" {
			return fmt.Errorf("leads[%d]: fullName is required", i)
		}
		ref := l.ResidenceID
		if ref == "" {
			ref = l.ResidenceName
		}
		var residence any
		if id, ok := sd.residences[strings.ToLower(ref)]; ok {
			residence = id
		}
		err := sd.insert("leads",
			[]string{"id", "full_name", "email", "phone", "source", "status", "residence_id", "created_at"},
			sd.id(l.ID), l.FullName, l.Email, l.Phone, l.Source, string(orDefault(l.Status, domain.LeadNew)), residence, sd.created(l.CreatedAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sd *seeder) amenityLinks(f *Fixtures) error {
	for i, a := range f.Amenities {
		if a.Name == "" {
			return fmt.Errorf("amenities[%d]: name is required", i)
		}
		id := sd.id(a.ID)
		sd.amenities[strings.ToLower(a.Name)] = id
		sd.amenities[strings.ToLower(id)] = id
		if err := sd.insert("amenities", []string{"id", "name", "category", "status"}, id, a.Name, a.Category, string(orDefault(a.Status, domain.StatusActive))); err != nil {
			return err
		}
	}

	for residence, amenities := range f.ResidenceAmenities {
		rid, ok := sd.residences[strings.ToLower(residence)]
		if !ok {
			return fmt.Errorf("residenceAmenities: unknown residence %q", residence)
		}
		seen := map[string]bool{}
		for _, amenity := range amenities {
			aid, ok := sd.amenities[strings.ToLower(amenity)]
			if !ok {
				return fmt.Errorf("residenceAmenities: unknown amenity %q", amenity)
			}
			if seen[aid] {
				continue
			}
			seen[aid] = true
			if err := sd.insert("residence_amenities", []string{"residence_id", "amenity_id"}, rid, aid); err != nil {
				return err
			}
		}
	}
	return nil
}
