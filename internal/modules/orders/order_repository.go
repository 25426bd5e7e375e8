package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"kitchen-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the order intake repository.
type RepositoryInterface interface {
	Create(ctx context.Context, order *models.KitchenOrder) (*models.KitchenOrder, error)
	NextTakeawaySequence(ctx context.Context) (int64, error)
	HasActiveTableOrder(ctx context.Context, tableNumber int) (bool, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order intake repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// Create inserts a new POS or kiosk order into the database.
func (r *Repository) Create(ctx context.Context, order *models.KitchenOrder) (*models.KitchenOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: marshal items: %w", err)
	}

	query := `
		INSERT INTO orders (id, order_source, display_code, code_type, table_number, items, total, customer_name, customer_phone, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, order_source, display_code, code_type, table_number, items, total, customer_name, customer_phone, note, status, created_at, updated_at`

	row := r.db.QueryRow(ctx, query,
		order.ID,
		order.OrderSource,
		order.DisplayCode,
		order.CodeType,
		order.TableNumber,
		items,
		order.Total,
		order.CustomerName,
		order.CustomerPhone,
		order.Note,
		order.Status,
	)

	created, err := r.scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return created, nil
}

// scanOrder is a helper function to scan a row into a KitchenOrder model.
func (r *Repository) scanOrder(row pgx.Row) (*models.KitchenOrder, error) {
	var order models.KitchenOrder
	var items []byte
	err := row.Scan(
		&order.ID,
		&order.OrderSource,
		&order.DisplayCode,
		&order.CodeType,
		&order.TableNumber,
		&items,
		&order.Total,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.Note,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return &order, nil
}

// NextTakeawaySequence atomically reserves the next takeaway queue number.
// A database sequence serializes concurrent creations; no count-then-insert
// race is possible.
func (r *Repository) NextTakeawaySequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `SELECT nextval('takeaway_code_seq')`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("repository.NextTakeawaySequence: %w", err)
	}
	return seq, nil
}

// HasActiveTableOrder reports whether the table still holds a non-terminal
// order. Its display code stays reserved until that order completes.
func (r *Repository) HasActiveTableOrder(ctx context.Context, tableNumber int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE code_type = 'table' AND table_number = $1
			  AND status NOT IN ('served', 'delivered', 'cancelled', 'rejected')
		)`
	if err := r.db.QueryRow(ctx, query, tableNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("repository.HasActiveTableOrder: %w", err)
	}
	return exists, nil
}
