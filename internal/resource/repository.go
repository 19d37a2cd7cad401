package resource

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/errs"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	ListAll(ctx context.Context) ([]*Resource, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id int64) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	const query = `
		INSERT INTO public.resources (name, capacity, kind)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, res.Name, res.Capacity, string(res.Kind)).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return errs.Wrap(err, "create resource")
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	const query = `
		SELECT id, name, capacity, kind, created_at
		FROM public.resources
		WHERE id = $1
	`
	var res Resource
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Name, &res.Capacity, &res.Kind, &res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errs.Wrapf(err, "get resource %d", id)
	}
	return &res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	q := psql.Select("id", "name", "capacity", "kind", "created_at", "count(*) OVER() AS total_count").
		From("public.resources")
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}
	offset := (filter.Page - 1) * filter.PageSize
	q = q.OrderBy("id ASC").Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, errs.Wrap(err, "build list resources query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errs.Wrap(err, "list resources")
	}
	defer rows.Close()

	resources := []*Resource{}
	var total int
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Capacity, &res.Kind, &res.CreatedAt, &total); err != nil {
			return nil, 0, errs.Wrap(err, "scan resource")
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errs.Wrap(err, "iterate resources")
	}
	return resources, total, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Resource, error) {
	const query = `
		SELECT id, name, capacity, kind, created_at
		FROM public.resources
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errs.Wrap(err, "list all resources")
	}
	defer rows.Close()

	resources := []*Resource{}
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Capacity, &res.Kind, &res.CreatedAt); err != nil {
			return nil, errs.Wrap(err, "scan resource")
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate resources")
	}
	return resources, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	const query = `
		UPDATE public.resources
		SET name = $1, capacity = $2, kind = $3
		WHERE id = $4
	`
	ct, err := r.pool.Exec(ctx, query, res.Name, res.Capacity, string(res.Kind), res.ID)
	if err != nil {
		return errs.Wrapf(err, "update resource %d", res.ID)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the resource; its bookings are removed by the foreign key cascade.
func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.resources WHERE id = $1`, id)
	if err != nil {
		return errs.Wrapf(err, "delete resource %d", id)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
