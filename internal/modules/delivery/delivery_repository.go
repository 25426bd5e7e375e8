package delivery

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

// RepositoryInterface defines the contract for the delivery order repository.
type RepositoryInterface interface {
	Create(ctx context.Context, order *models.KitchenOrder) (*models.KitchenOrder, error)
	FindByID(ctx context.Context, orderID string) (*models.KitchenOrder, error)
	FindByExternalID(ctx context.Context, platform, externalID string) (*models.KitchenOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status models.Status) (*models.KitchenOrder, error)
	NextDeliverySequence(ctx context.Context) (int64, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new delivery order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `id, order_source, platform, external_id, display_code, code_type,
	items, total, delivery_fee, payment_method, customer_name, customer_phone, customer_address, note,
	status, raw_data, created_at, updated_at, accepted_at, rejected_at, cancelled_at`

// Create inserts a normalized delivery order.
func (r *Repository) Create(ctx context.Context, order *models.KitchenOrder) (*models.KitchenOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: marshal items: %w", err)
	}

	query := `
		INSERT INTO orders (id, order_source, platform, external_id, display_code, code_type, items, total,
			delivery_fee, payment_method, customer_name, customer_phone, customer_address, note, status, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + orderColumns

	row := r.db.QueryRow(ctx, query,
		order.ID,
		order.OrderSource,
		order.Platform,
		order.ExternalID,
		order.DisplayCode,
		order.CodeType,
		items,
		order.Total,
		order.DeliveryFee,
		order.PaymentMethod,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		order.Note,
		order.Status,
		[]byte(order.RawData),
	)

	created, err := r.scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return created, nil
}

// FindByID retrieves a delivery order by its ID.
func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.KitchenOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND order_source = 'delivery'`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// FindByExternalID correlates an inbound webhook event with a stored order.
func (r *Repository) FindByExternalID(ctx context.Context, platform, externalID string) (*models.KitchenOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE platform = $1 AND external_id = $2`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, platform, externalID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByExternalID: %w", err)
	}
	return order, nil
}

// UpdateStatus applies a status change with the same timestamp bookkeeping
// as the kitchen side: transition stamps are written once, updated_at always.
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

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, status, orderID))
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	return order, nil
}

// NextDeliverySequence atomically reserves the next delivery queue number.
func (r *Repository) NextDeliverySequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `SELECT nextval('delivery_code_seq')`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("repository.NextDeliverySequence: %w", err)
	}
	return seq, nil
}

// scanOrder is a helper function to scan a row into a KitchenOrder model.
func (r *Repository) scanOrder(row pgx.Row) (*models.KitchenOrder, error) {
	var order models.KitchenOrder
	var platform, externalID, paymentMethod sql.NullString
	var items, rawData []byte
	var acceptedAt, rejectedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderSource,
		&platform,
		&externalID,
		&order.DisplayCode,
		&order.CodeType,
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
