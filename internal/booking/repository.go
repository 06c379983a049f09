package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, q Query) ([]*Booking, int, error)

	// Apply moves the booking from t.From to t.To and sets the item's availability
	// in one atomic unit. It returns ErrConflict if the booking no longer has t.From.
	Apply(ctx context.Context, t Transition) (*Booking, error)

	// FindApproved returns the approved bookings bookerID holds on itemID.
	FindApproved(ctx context.Context, itemID, bookerID string) ([]*Booking, error)
	Schedule(ctx context.Context, itemID string, now time.Time) (Schedule, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookerForeignKey = "bookings_booker_id_fkey"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status", "created_at", "updated_at").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status, b.CreatedAt, b.CreatedAt).
		Suffix("RETURNING id, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			if e.ConstraintName == bookerForeignKey {
				return ErrUserNotFound
			}
			return ErrItemNotFound
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, q Query) ([]*Booking, int, error) {
	where := listCondition(q)

	query := selectBookings().
		Column("count(*) OVER() as total_count").
		Where(where).
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
			&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		if !b.Status.IsValid() {
			return nil, 0, fmt.Errorf("booking %s has unknown status %q", b.ID, b.Status)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	// A page past the end has no row to carry count(*) OVER().
	if len(bookings) == 0 && q.Offset() > 0 {
		total, err = r.count(ctx, where)
		if err != nil {
			return nil, 0, err
		}
	}

	return bookings, total, nil
}

func (r *pgxRepository) count(ctx context.Context, where squirrel.Sqlizer) (int, error) {
	sql, args, err := psql.Select("count(*)").
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return total, nil
}

// listCondition scopes a listing to the viewer's role and the requested state.
func listCondition(q Query) squirrel.And {
	where := squirrel.And{}
	switch q.Role {
	case RoleOwner:
		where = append(where, squirrel.Eq{"i.owner_id": q.ViewerID})
	default:
		where = append(where, squirrel.Eq{"b.booker_id": q.ViewerID})
	}

	if cond := stateCondition(q.State, q.Now); cond != nil {
		where = append(where, cond)
	}
	return where
}

// stateCondition renders State.Matches as SQL. ALL has no condition.
func stateCondition(s State, now time.Time) squirrel.Sqlizer {
	switch s {
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_time": now}
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}
	case StateWaiting:
		return squirrel.Eq{"b.status": StatusWaiting}
	case StateRejected:
		return squirrel.Eq{"b.status": StatusRejected}
	default:
		return nil
	}
}

func (r *pgxRepository) Apply(ctx context.Context, t Transition) (*Booking, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Update("public.bookings").
			Set("status", t.To).
			Set("updated_at", t.At).
			Where(squirrel.Eq{"id": t.BookingID, "status": t.From}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update booking status query failed: %w", err)
		}

		ct, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update booking status failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)`, t.BookingID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check booking exists failed: %w", err)
			}
			if !exists {
				return ErrNotFound
			}
			return ErrConflict
		}

		query, args, err = psql.Update("public.items").
			Set("available", t.ItemAvailable).
			Where(squirrel.Eq{"id": t.ItemID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update item availability query failed: %w", err)
		}

		ct, err = tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update item availability failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, t.BookingID)
}

func (r *pgxRepository) FindApproved(ctx context.Context, itemID, bookerID string) ([]*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{
			"b.item_id":   itemID,
			"b.booker_id": bookerID,
			"b.status":    StatusApproved,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find approved bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find approved bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) Schedule(ctx context.Context, itemID string, now time.Time) (Schedule, error) {
	const query = `
		SELECT
			(SELECT MAX(end_time) FROM public.bookings
			 WHERE item_id = $1 AND status = $2 AND end_time < $3),
			(SELECT MIN(start_time) FROM public.bookings
			 WHERE item_id = $1 AND status = $2 AND start_time > $3)
	`

	var s Schedule
	if err := r.pool.QueryRow(ctx, query, itemID, StatusApproved, now).Scan(&s.LastEnd, &s.NextStart); err != nil {
		return Schedule{}, fmt.Errorf("get item schedule failed: %w", err)
	}
	return s, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if !b.Status.IsValid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", b.ID, b.Status)
	}
	return &b, nil
}
