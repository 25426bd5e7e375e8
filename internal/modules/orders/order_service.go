package orders

import (
	"context"
	"fmt"

	"kitchen-dispatch/internal/models"

	"github.com/google/uuid"
)

// ServiceInterface defines the contract for the order intake service.
type ServiceInterface interface {
	CreatePOSOrder(ctx context.Context, req models.CreateOrderRequest) (*models.KitchenOrder, error)
	CreateKioskOrder(ctx context.Context, req models.CreateOrderRequest) (*models.KitchenOrder, error)
}

// Service turns POS and kiosk submissions into normalized kitchen orders:
// it computes the total from the line items, allocates the display code for
// the chosen scheme, and inserts the order with status "new".
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new order intake service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreatePOSOrder creates a dine-in or takeaway order from a POS terminal.
func (s *Service) CreatePOSOrder(ctx context.Context, req models.CreateOrderRequest) (*models.KitchenOrder, error) {
	return s.create(ctx, models.SourcePOS, req)
}

// CreateKioskOrder creates a self-service kiosk order. Kiosk orders are
// always takeaway regardless of what the terminal sent.
func (s *Service) CreateKioskOrder(ctx context.Context, req models.CreateOrderRequest) (*models.KitchenOrder, error) {
	req.OrderType = "takeaway"
	return s.create(ctx, models.SourceKiosk, req)
}

func (s *Service) create(ctx context.Context, source string, req models.CreateOrderRequest) (*models.KitchenOrder, error) {
	order := &models.KitchenOrder{
		ID:            uuid.NewString(),
		OrderSource:   source,
		Items:         req.Items,
		Total:         computeTotal(req.Items),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Note:          req.Note,
		Status:        models.StatusNew,
	}

	if err := s.allocateDisplayCode(ctx, order, req); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("service.create: %w", err)
	}
	return created, nil
}

// allocateDisplayCode assigns the queue code exactly once, at insertion time.
// The code and its scheme are stored on the order and never recomputed.
func (s *Service) allocateDisplayCode(ctx context.Context, order *models.KitchenOrder, req models.CreateOrderRequest) error {
	switch req.OrderType {
	case "table":
		occupied, err := s.repo.HasActiveTableOrder(ctx, req.TableNumber)
		if err != nil {
			return fmt.Errorf("service.allocateDisplayCode: %w", err)
		}
		if occupied {
			return models.ErrTableOccupied
		}
		order.TableNumber = req.TableNumber
		order.DisplayCode = models.TableCode(req.TableNumber)
		order.CodeType = models.CodeTypeTable
	default:
		seq, err := s.repo.NextTakeawaySequence(ctx)
		if err != nil {
			return fmt.Errorf("service.allocateDisplayCode: %w", err)
		}
		order.DisplayCode = models.TakeawayCode(seq)
		order.CodeType = models.CodeTypeTakeaway
	}
	return nil
}

func computeTotal(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
