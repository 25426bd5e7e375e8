package kitchen

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/models"
)

// DispatcherInterface is the outbound platform-notification collaborator.
// All of its methods are best-effort and never return an error.
type DispatcherInterface interface {
	Accept(ctx context.Context, order *models.KitchenOrder)
	Reject(ctx context.Context, order *models.KitchenOrder, reason string)
	NotifyStatus(ctx context.Context, order *models.KitchenOrder, status models.Status)
}

// PrinterInterface is the ticket printer collaborator.
type PrinterInterface interface {
	PrintTicket(ctx context.Context, order *models.KitchenOrder) error
}

// ServiceInterface defines the contract for the kitchen service.
type ServiceInterface interface {
	GetOrders(ctx context.Context, statusFilter string) ([]*models.KitchenOrder, error)
	GetStats(ctx context.Context) (*models.StatsResponse, error)
	GetReadyOrders(ctx context.Context) ([]*models.KitchenOrder, error)
	GetSalonDisplay(ctx context.Context) (*models.SalonDisplayResponse, error)
	UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.KitchenOrder, error)
	PrintTicket(ctx context.Context, orderID string) error
}

// Service implements the unified kitchen worklist: aggregation across POS,
// kiosk and delivery sources, the status state machine, and the public
// salon projection.
type Service struct {
	repo       RepositoryInterface
	dispatcher DispatcherInterface
	printer    PrinterInterface
}

// NewService creates a new kitchen service.
func NewService(repo RepositoryInterface, dispatcher DispatcherInterface, printer PrinterInterface) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		printer:    printer,
	}
}

// GetOrders returns the merged worklist, optionally filtered to one status.
// An empty filter means everything; an unknown status is a client error.
func (s *Service) GetOrders(ctx context.Context, statusFilter string) ([]*models.KitchenOrder, error) {
	var filter *models.Status
	if statusFilter != "" {
		st, ok := models.ParseStatus(statusFilter)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrMalformedPayload, statusFilter)
		}
		filter = &st
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.GetOrders: %w", err)
	}
	return orders, nil
}

// GetStats returns live counts per status with a per-source breakdown.
// Top-level counts are the sums over the breakdown.
func (s *Service) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GetStats: %w", err)
	}

	stats := &models.StatsResponse{
		Breakdown: map[string]models.SourceCounts{
			models.SourcePOS:      {},
			models.SourceKiosk:    {},
			models.SourceDelivery: {},
		},
	}
	for _, sc := range counts {
		bucket := stats.Breakdown[sc.Source]
		switch sc.Status {
		case models.StatusNew:
			stats.Pending += sc.Count
			bucket.Pending += sc.Count
		case models.StatusPreparing:
			stats.Preparing += sc.Count
			bucket.Preparing += sc.Count
		case models.StatusReady:
			stats.Ready += sc.Count
			bucket.Ready += sc.Count
		}
		stats.Breakdown[sc.Source] = bucket
	}
	return stats, nil
}

// GetReadyOrders returns the full ready set for kitchen screens.
func (s *Service) GetReadyOrders(ctx context.Context) ([]*models.KitchenOrder, error) {
	ready := models.StatusReady
	orders, err := s.repo.List(ctx, &ready)
	if err != nil {
		return nil, fmt.Errorf("service.GetReadyOrders: %w", err)
	}
	return orders, nil
}

// GetSalonDisplay projects the ready set down to display codes for the
// public screens. Nothing else leaves this method: no names, no phones, no
// addresses, no line items.
func (s *Service) GetSalonDisplay(ctx context.Context) (*models.SalonDisplayResponse, error) {
	orders, err := s.GetReadyOrders(ctx)
	if err != nil {
		return nil, err
	}

	display := &models.SalonDisplayResponse{
		ReadyOrders: make([]models.SalonOrder, 0, len(orders)),
		Timestamp:   time.Now().UTC(),
	}
	for _, order := range orders {
		display.ReadyOrders = append(display.ReadyOrders, models.SalonOrder{
			DisplayCode: order.DisplayCode,
			ReadySince:  order.UpdatedAt,
		})
	}
	return display, nil
}

// UpdateStatus runs the state machine for one order. Re-issuing the current
// status is an accepted no-op and does not restamp anything. Transitions out
// of a terminal state, and any move the transition table does not list, are
// rejected with a TransitionError. For delivery orders the originating
// platform is notified after the local commit; notification failure is the
// dispatcher's problem, never this caller's.
func (s *Service) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.KitchenOrder, error) {
	next, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrMalformedPayload, rawStatus)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}

	if order.Status == next {
		return order, nil
	}
	if !models.CanTransition(order.Status, next) {
		return nil, &models.TransitionError{From: order.Status, To: next}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}

	switch next {
	case models.StatusPreparing, models.StatusReady, models.StatusDelivered:
		s.dispatcher.NotifyStatus(ctx, updated, next)
	}

	return updated, nil
}

// PrintTicket sends an order to the ticket printer collaborator.
func (s *Service) PrintTicket(ctx context.Context, orderID string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("service.PrintTicket: %w", err)
	}
	if err := s.printer.PrintTicket(ctx, order); err != nil {
		return fmt.Errorf("service.PrintTicket: %w", err)
	}
	return nil
}
