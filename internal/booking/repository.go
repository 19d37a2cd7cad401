package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/errs"
)

// Repository stores bookings. It enforces no business rules.
type Repository interface {
	Insert(ctx context.Context, d Draft) (int64, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*Booking, error)
	ListAll(ctx context.Context) ([]*Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*Booking, error)
	ListByResource(ctx context.Context, resourceID int64) ([]*Booking, error)
	// ListByResourceOnDate returns bookings of the resource starting in [dayStart, dayEnd).
	ListByResourceOnDate(ctx context.Context, resourceID int64, dayStart, dayEnd time.Time) ([]*Booking, error)
	// ListByDate returns bookings starting in [dayStart, dayEnd).
	ListByDate(ctx context.Context, dayStart, dayEnd time.Time) ([]*Booking, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{"id", "user_id", "resource_id", "start_time", "end_time"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Insert(ctx context.Context, d Draft) (int64, error) {
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "resource_id", "start_time", "end_time").
		Values(d.UserID, d.ResourceID, d.StartTime, d.EndTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errs.Wrap(err, "build insert booking query")
	}

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return 0, mapped
		}
		return 0, errs.Wrap(err, "insert booking")
	}
	return id, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("resource_id", b.ResourceID).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return errs.Wrap(err, "build update booking query")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return errs.Wrapf(err, "update booking %d", b.ID)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errs.Wrap(err, "build delete booking query")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errs.Wrapf(err, "delete booking %d", id)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build get booking query")
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errs.Wrapf(err, "get booking %d", id)
	}
	return &b, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Booking, error) {
	return r.list(ctx, psql.Select(bookingColumns...).From("public.bookings"))
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID int64) ([]*Booking, error) {
	return r.list(ctx, psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"user_id": userID}))
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID int64) ([]*Booking, error) {
	return r.list(ctx, psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceID}))
}

func (r *pgxRepository) ListByResourceOnDate(ctx context.Context, resourceID int64, dayStart, dayEnd time.Time) ([]*Booking, error) {
	return r.list(ctx, psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}))
}

func (r *pgxRepository) ListByDate(ctx context.Context, dayStart, dayEnd time.Time) ([]*Booking, error) {
	return r.list(ctx, psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}))
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Booking, error) {
	query, args, err := q.OrderBy("start_time ASC", "id ASC").ToSql()
	if err != nil {
		return nil, errs.Wrap(err, "build list bookings query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(err, "list bookings")
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime); err != nil {
			return nil, errs.Wrap(err, "scan booking")
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate bookings")
	}
	return bookings, nil
}

// mapConstraintError turns foreign-key and check violations into domain errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "bookings_user_id_fkey":
			return ErrUserNotFound
		case "bookings_resource_id_fkey":
			return ErrResourceNotFound
		}
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == "bookings_time_order" {
			return ErrInvalidTimeRange
		}
	}
	return nil
}
