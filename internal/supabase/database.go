package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"print-order-backend/internal/models"
)

const uniqueViolation = "23505"

const orderColumns = `id, order_search_id, user_id, username, email, name, phone, is_guest,
	file_name, file_id, pages, color_mode, sides, paper_size, orientation, pages_per_side, copies,
	amount, status, delivery_method, building, mailbox_number, notes,
	created_at, updated_at, completed_at`

const userColumns = `id, username, email, hashed_password, full_name, phone, building,
	mailbox_number, role, is_active, created_at, updated_at`

// DatabaseClient stores orders and users in the project's Postgres
// database.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderSearchID, &o.UserID, &o.Username, &o.Email, &o.Name, &o.Phone, &o.IsGuest,
		&o.FileName, &o.FileID, &o.Pages, &o.ColorMode, &o.Sides, &o.PaperSize, &o.Orientation,
		&o.PagesPerSide, &o.Copies,
		&o.Amount, &o.Status, &o.DeliveryMethod, &o.Building, &o.MailboxNumber, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.FullName, &u.Phone, &u.Building,
		&u.MailboxNumber, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (d *DatabaseClient) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26)
	`,
		o.ID, o.OrderSearchID, o.UserID, o.Username, o.Email, o.Name, o.Phone, o.IsGuest,
		o.FileName, o.FileID, o.Pages, o.ColorMode, o.Sides, o.PaperSize, o.Orientation,
		o.PagesPerSide, o.Copies,
		o.Amount, string(o.Status), o.DeliveryMethod, o.Building, o.MailboxNumber, o.Notes,
		o.CreatedAt, o.UpdatedAt, o.CompletedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, err
}

// GetOrderBySearchID returns the newest order when search ids collide.
func (d *DatabaseClient) GetOrderBySearchID(ctx context.Context, searchID string) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE order_search_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, searchID))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, err
}

func (d *DatabaseClient) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return d.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (d *DatabaseClient) ListOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	return d.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE phone = $1
		ORDER BY created_at DESC
	`, phone)
}

func (d *DatabaseClient) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, int, error) {
	var total int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders, err := d.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (d *DatabaseClient) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (d *DatabaseClient) SetOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time, completedAt *time.Time) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3, completed_at = COALESCE($4, completed_at)
		WHERE id = $1
		RETURNING `+orderColumns,
		id, string(status), at, completedAt,
	))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, err
}

// TransitionOrderStatus relies on the row lock taken by UPDATE, so of two
// concurrent callers only one observes the old status.
func (d *DatabaseClient) TransitionOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, at time.Time) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}
	return n == 1, nil
}

func (d *DatabaseClient) CreateUser(ctx context.Context, u *models.User) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, hashed_password, full_name, phone, building,
			mailbox_number, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		u.Username, u.Email, u.HashedPassword, u.FullName, u.Phone, u.Building,
		u.MailboxNumber, u.Role, u.IsActive, u.CreatedAt,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return d.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (d *DatabaseClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (d *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (d *DatabaseClient) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(d.db.QueryRowContext(ctx, query, arg))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, err
}

func (d *DatabaseClient) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, hashed_password = $3, full_name = $4, phone = $5, building = $6,
			mailbox_number = $7, role = $8, is_active = $9, updated_at = $10
		WHERE id = $1
	`,
		u.ID, u.Email, u.HashedPassword, u.FullName, u.Phone, u.Building,
		u.MailboxNumber, u.Role, u.IsActive, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
