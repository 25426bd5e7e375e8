package kitchen

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"kitchen-dispatch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusCount is one row of the stats aggregation: how many orders a given
// source has in a given state.
type StatusCount struct {
	Source string
	Status models.Status
	Count  int
}

// RepositoryInterface defines the contract for the kitchen view repository.
type RepositoryInterface interface {
	FindByID(ctx context.Context, orderID string) (*models.KitchenOrder, error)
	List(ctx context.Context, status *models.Status) ([]*models.KitchenOrder, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	UpdateStatus(ctx context.Context, orderID string, status models.Status) (*models.KitchenOrder, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new kitchen repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `id, order_source, platform, external_id, display_code, code_type, table_number,
	items, total, delivery_fee, payment_method, customer_name, customer_phone, customer_address, note,
	status, raw_data, created_at, updated_at, accepted_at, rejected_at, cancelled_at`

// FindByID retrieves a single order by its ID.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.KitchenOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	row := r.db.QueryRow(ctx, query, orderID)
	order, err := r.scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// List retrieves all orders, optionally filtered to one status, oldest
// first. The kitchen works the queue in arrival order regardless of source.
func (r *Repository) List(ctx context.Context, status *models.Status) ([]*models.KitchenOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.List.Query: %w", err)
	}
	defer rows.Close()

	var orders []*models.KitchenOrder
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.List.scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// CountByStatus aggregates live order counts per source and status.
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	query := `
		SELECT order_source, status, COUNT(*)
		FROM orders
		WHERE status IN ('new', 'preparing', 'ready')
		GROUP BY order_source, status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.CountByStatus: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Source, &sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("repository.CountByStatus.Scan: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// UpdateStatus applies a status change and stamps the bookkeeping
// timestamps. accepted_at is written once, on the first move into
// preparing; rejected_at and cancelled_at on entering their states;
// updated_at on every accepted transition.
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, status models.Status) (*models.KitchenOrder, error) {
	stamp := ""
	switch status {
	case models.StatusPreparing:
		stamp = `, accepted_at = COALESCE(accepted_at, NOW())`
	case models.StatusRejected:
		stamp = `, rejected_at = COALESCE(rejected_at, NOW())`
	case models.StatusCancelled:
		stamp = `, cancelled_at = COALESCE(cancelled_at, NOW())`
	}

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()` + stamp + `
		WHERE id = $2
		RETURNING ` + orderColumns

	row := r.db.QueryRow(ctx, query, status, orderID)
	order, err := r.scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	return order, nil
}

// scanOrder is a helper function to scan a row into a KitchenOrder model.
func (r *Repository) scanOrder(row pgx.Row) (*models.KitchenOrder, error) {
	var order models.KitchenOrder
	var platform, externalID, paymentMethod sql.NullString
	var tableNumber sql.NullInt32
	var items, rawData []byte
	var acceptedAt, rejectedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderSource,
		&platform,
		&externalID,
		&order.DisplayCode,
		&order.CodeType,
		&tableNumber,
		&items,
		&order.Total,
		&order.DeliveryFee,
		&paymentMethod,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.Note,
		&order.Status,
		&rawData,
		&order.CreatedAt,
		&order.UpdatedAt,
		&acceptedAt,
		&rejectedAt,
		&cancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Platform = platform.String
	order.ExternalID = externalID.String
	order.PaymentMethod = paymentMethod.String
	order.TableNumber = int(tableNumber.Int32)
	order.RawData = rawData
	if acceptedAt.Valid {
		order.AcceptedAt = &acceptedAt.Time
	}
	if rejectedAt.Valid {
		order.RejectedAt = &rejectedAt.Time
	}
	if cancelledAt.Valid {
		order.CancelledAt = &cancelledAt.Time
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	return &order, nil
}
