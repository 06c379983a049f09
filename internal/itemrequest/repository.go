package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*ItemRequest, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	query, args, err := psql.Insert("public.item_requests").
		Columns("requester_id", "description", "created_at").
		Values(req.RequesterID, req.Description, req.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return ErrUserNotFound
		}
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	query, args, err := psql.Select("id", "requester_id", "description", "created_at").
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&req.ID, &req.RequesterID, &req.Description, &req.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM public.item_requests WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*ItemRequest, int, error) {
	where := squirrel.And{}
	if filter.RequesterID != "" {
		where = append(where, squirrel.Eq{"requester_id": filter.RequesterID})
	}
	if filter.ExcludeRequesterID != "" {
		where = append(where, squirrel.NotEq{"requester_id": filter.ExcludeRequesterID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := psql.Select("id", "requester_id", "description", "created_at", "count(*) OVER() as total_count").
		From("public.item_requests").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	var total int
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.Description, &req.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate requests failed: %w", err)
	}

	// A page past the end has no row to carry count(*) OVER().
	if len(requests) == 0 && offset > 0 {
		query, args, err := psql.Select("count(*)").From("public.item_requests").Where(where).ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("build count requests query failed: %w", err)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count requests failed: %w", err)
		}
	}

	return requests, total, nil
}
