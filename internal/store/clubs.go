package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
)

// timeArg converts a timestamp into the representation each backend stores.
func (s *Store) timeArg(t time.Time) any {
	t = t.UTC()
	if s.driver == config.DriverSQLite {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// Find returns clubs matching filter ordered by ID. Name matches are exact
// and case-insensitive.
func (s *Store) Find(ctx context.Context, filter entity.Filter) ([]entity.Entity, error) {
	ctx = ensureContext(ctx)
	sb := s.flavor.NewSelectBuilder()
	sb.Select(clubColumns...).From("clubs")
	var where []string
	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, sb.Equal("LOWER(name)", strings.ToLower(name)))
	}
	if filter.Status != "" {
		where = append(where, sb.Equal("status", string(filter.Status)))
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
	sb.OrderBy("id").Asc()
	query, args := sb.Build()

	var rows []clubRow
	if err := retryOnBusy(ctx, func() error {
		rows = rows[:0]
		return s.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("find clubs: %w", err)
	}
	out := make([]entity.Entity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entity())
	}
	return out, nil
}

// Get returns the club with id.
func (s *Store) Get(ctx context.Context, id int64) (*entity.Entity, error) {
	ctx = ensureContext(ctx)
	sb := s.flavor.NewSelectBuilder()
	sb.Select(clubColumns...).From("clubs").Where(sb.Equal("id", id))
	query, args := sb.Build()

	var row clubRow
	err := retryOnBusy(ctx, func() error {
		return s.db.GetContext(ctx, &row, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get club %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get club %d: %w", id, err)
	}
	e := row.entity()
	return &e, nil
}

// Create inserts a validated club and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, data entity.NewEntity) (*entity.Entity, error) {
	ctx = ensureContext(ctx)
	data, err := entity.ValidateNew(data)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ib := s.flavor.NewInsertBuilder()
	ib.InsertInto("clubs")
	ib.Cols("name", "location", "asset_ref", "status", "created_at", "updated_at")
	ib.Values(data.Name, data.Location, data.AssetRef, string(data.Status), s.timeArg(now), s.timeArg(now))
	ib.SQL("RETURNING " + strings.Join(clubColumns, ", "))
	query, args := ib.Build()

	var row clubRow
	if err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	}); err != nil {
		return nil, fmt.Errorf("create club %q: %w", data.Name, err)
	}
	e := row.entity()
	s.logger.Debug("club created", logging.Club(e.ID, e.Name))
	return &e, nil
}

// Update applies the non-nil fields of data to club id.
func (s *Store) Update(ctx context.Context, id int64, data entity.Update) (*entity.Entity, error) {
	ctx = ensureContext(ctx)
	data, err := entity.ValidateUpdate(data)
	if err != nil {
		return nil, err
	}
	if data.Empty() {
		return s.Get(ctx, id)
	}

	ub := s.flavor.NewUpdateBuilder()
	ub.Update("clubs")
	assignments := make([]string, 0, 5)
	if data.Name != nil {
		assignments = append(assignments, ub.Assign("name", *data.Name))
	}
	if data.Location != nil {
		assignments = append(assignments, ub.Assign("location", *data.Location))
	}
	if data.AssetRef != nil {
		assignments = append(assignments, ub.Assign("asset_ref", *data.AssetRef))
	}
	if data.Status != nil {
		assignments = append(assignments, ub.Assign("status", string(*data.Status)))
	}
	assignments = append(assignments, ub.Assign("updated_at", s.timeArg(s.now())))
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))
	ub.SQL("RETURNING " + strings.Join(clubColumns, ", "))
	query, args := ub.Build()

	var row clubRow
	err = retryOnBusy(ctx, func() error {
		return s.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update club %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update club %d: %w", id, err)
	}
	e := row.entity()
	return &e, nil
}

// Delete removes club id. It returns entity.ErrReferentialIntegrity when
// bookings still reference the club and entity.ErrNotFound when no row was
// removed.
func (s *Store) Delete(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	del := s.flavor.NewDeleteBuilder()
	del.DeleteFrom("clubs").Where(del.Equal("id", id))
	query, args := del.Build()

	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete club %d: %w", id, entity.ErrReferentialIntegrity)
		}
		return fmt.Errorf("delete club %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete club %d: %w", id, entity.ErrNotFound)
	}
	return nil
}

// AddBooking records a dependent booking for a club. Clubs with bookings
// cannot be deleted.
func (s *Store) AddBooking(ctx context.Context, clubID int64, reference string) (int64, error) {
	ctx = ensureContext(ctx)
	ib := s.flavor.NewInsertBuilder()
	ib.InsertInto("bookings")
	ib.Cols("club_id", "reference", "created_at")
	ib.Values(clubID, reference, s.timeArg(s.now()))
	ib.SQL("RETURNING id")
	query, args := ib.Build()

	var id int64
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowxContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("add booking: club %d: %w", clubID, entity.ErrNotFound)
		}
		return 0, fmt.Errorf("add booking: %w", err)
	}
	return id, nil
}

// Count returns the number of stored clubs.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	sb := s.flavor.NewSelectBuilder()
	sb.Select("COUNT(1)").From("clubs")
	query, args := sb.Build()

	var n int
	if err := retryOnBusy(ctx, func() error {
		return s.db.GetContext(ctx, &n, query, args...)
	}); err != nil {
		return 0, fmt.Errorf("count clubs: %w", err)
	}
	return n, nil
}

var _ entity.Repository = (*Store)(nil)
