package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/pkg/datatable"
)

// SetStatus changes the status of one record.
func (s *Store) SetStatus(ctx context.Context, screen, id, status string) error {
	d, err := lookupDef(screen)
	if err != nil {
		return err
	}
	if d.validStatus == nil || !d.validStatus(status) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidStatus, status, screen)
	}

	query, args, err := s.builder.Update(d.table).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	return s.execOne(ctx, query, args, screen, id)
}

// Delete removes one record together with the links that reference it.
func (s *Store) Delete(ctx context.Context, screen, id string) error {
	d, err := lookupDef(screen)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cleanup []squirrel.Sqlizer
	switch screen {
	case domain.ScreenResidences:
		cleanup = append(cleanup,
			s.builder.Delete("residence_amenities").Where(squirrel.Eq{"residence_id": id}),
			s.builder.Update("leads").Set("residence_id", nil).Where(squirrel.Eq{"residence_id": id}),
		)
	case domain.ScreenAmenities:
		cleanup = append(cleanup, s.builder.Delete("residence_amenities").Where(squirrel.Eq{"amenity_id": id}))
	case domain.ScreenBrands:
		cleanup = append(cleanup, s.builder.Update("residences").Set("brand_id", nil).Where(squirrel.Eq{"brand_id": id}))
	}
	for _, stmt := range cleanup {
		query, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build cleanup: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to unlink %s %s: %w", screen, id, err)
		}
	}

	query, args, err := s.builder.Delete(d.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", screen, id, err)
	}
	if err := expectOne(res, screen, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	s.logger.Info("deleted record", "screen", screen, "id", id)
	return nil
}

// AddAmenity links an amenity to a residence. Linking twice is a no-op.
func (s *Store) AddAmenity(ctx context.Context, residenceID, amenityID string) error {
	for _, check := range []struct{ screen, id string }{
		{domain.ScreenResidences, residenceID},
		{domain.ScreenAmenities, amenityID},
	} {
		ok, err := s.exists(ctx, tableDefs[check.screen].table, check.id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrNotFound, check.screen, check.id)
		}
	}

	linked, err := s.linked(ctx, residenceID, amenityID)
	if err != nil || linked {
		return err
	}
	query, args, err := s.builder.Insert("residence_amenities").
		Columns("residence_id", "amenity_id").
		Values(residenceID, amenityID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link amenity: %w", err)
	}
	return nil
}

// ResidenceAmenities lists the amenities linked to a residence by name.
func (s *Store) ResidenceAmenities(ctx context.Context, residenceID string) ([]domain.Amenity, error) {
	q := amenitiesDef.selectFrom(s.builder, amenityEntity.selects...).
		Join("residence_amenities ra ON ra.amenity_id = a.id").
		Where(squirrel.Eq{"ra.residence_id": residenceID}).
		OrderBy("a.name ASC")
	return queryAll(ctx, s.db, q, amenityEntity.scan)
}

// Counts returns the number of records per screen.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tableDefs))
	for _, screen := range domain.Screens {
		n, err := s.count(ctx, tableDefs[screen], nil)
		if err != nil {
			return nil, err
		}
		counts[screen] = n
	}
	return counts, nil
}

// FacetValues returns the distinct non-empty values of a facet column in
// natural order.
func (s *Store) FacetValues(ctx context.Context, screen, column string) ([]string, error) {
	d, err := lookupDef(screen)
	if err != nil {
		return nil, err
	}
	expr, ok := d.facets[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnknownColumn, column, screen)
	}

	q := d.selectFrom(s.builder, "DISTINCT "+expr).
		Where(squirrel.And{squirrel.NotEq{expr: nil}, squirrel.NotEq{expr: ""}})
	values, err := queryAll(ctx, s.db, q, func(sc scanner) (string, error) {
		var v string
		err := sc.Scan(&v)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	slices.SortFunc(values, datatable.NaturalCompare)
	return values, nil
}

func (s *Store) exists(ctx context.Context, table, id string) (bool, error) {
	query, args, err := s.builder.Select("1").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) linked(ctx context.Context, residenceID, amenityID string) (bool, error) {
	query, args, err := s.builder.Select("1").From("residence_amenities").
		Where(squirrel.Eq{"residence_id": residenceID, "amenity_id": amenityID}).
		ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) execOne(ctx context.Context, query string, args []any, screen, id string) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", screen, id, err)
	}
	return expectOne(res, screen, id)
}

func expectOne(res sql.Result, screen, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, screen, id)
	}
	return nil
}
