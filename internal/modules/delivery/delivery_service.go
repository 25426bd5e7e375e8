package delivery

import (
	"context"
	"errors"
	"fmt"

	"kitchen-dispatch/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DispatcherInterface is the outbound platform-notification collaborator.
type DispatcherInterface interface {
	Accept(ctx context.Context, order *models.KitchenOrder)
	Reject(ctx context.Context, order *models.KitchenOrder, reason string)
	NotifyStatus(ctx context.Context, order *models.KitchenOrder, status models.Status)
}

// ServiceInterface defines the contract for the delivery order service.
type ServiceInterface interface {
	HandleWebhook(ctx context.Context, platform string, body []byte) error
	CreateManual(ctx context.Context, req models.CreateDeliveryOrderRequest) (*models.KitchenOrder, error)
	Accept(ctx context.Context, orderID string) (*models.KitchenOrder, error)
	Reject(ctx context.Context, orderID, reason string) (*models.KitchenOrder, error)
	UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.KitchenOrder, error)
}

// Service is the delivery-platform side of the house: webhook ingestion
// through the per-platform adapters, cancellation correlation, and the
// accept/reject flow that answers back to the platform.
type Service struct {
	repo       RepositoryInterface
	dispatcher DispatcherInterface
	log        *zap.Logger
}

// NewService creates a new delivery order service.
func NewService(repo RepositoryInterface, dispatcher DispatcherInterface, log *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
	}
}

// HandleWebhook ingests one platform event. The caller acknowledges the
// webhook with 200 regardless of the outcome here; the returned error is
// for server-side logging only and must never reach the platform.
func (s *Service) HandleWebhook(ctx context.Context, platform string, body []byte) error {
	norm, err := Normalize(platform, body)
	if err != nil {
		if errors.Is(err, models.ErrMalformedPayload) || errors.Is(err, models.ErrUnknownPlatform) {
			s.log.Warn("webhook payload dropped",
				zap.String("platform", platform),
				zap.Error(err))
			return nil
		}
		return fmt.Errorf("service.HandleWebhook: %w", err)
	}

	if norm.Cancelled {
		return s.handleCancellation(ctx, platform, norm.ExternalID)
	}

	// Idempotency: a replayed webhook for an order already on file is
	// acknowledged without creating a duplicate.
	if norm.ExternalID != "" {
		if _, err := s.repo.FindByExternalID(ctx, platform, norm.ExternalID); err == nil {
			s.log.Info("webhook replay ignored, order exists",
				zap.String("platform", platform),
				zap.String("external_id", norm.ExternalID))
			return nil
		} else if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("service.HandleWebhook: %w", err)
		}
	}

	_, err = s.insert(ctx, platform, norm, body)
	if err != nil {
		return fmt.Errorf("service.HandleWebhook: %w", err)
	}
	return nil
}

// handleCancellation correlates a platform cancellation with the stored
// order. No match is a logged no-op, not an error; so is a cancellation for
// an order already in a terminal state.
func (s *Service) handleCancellation(ctx context.Context, platform, externalID string) error {
	order, err := s.repo.FindByExternalID(ctx, platform, externalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.log.Warn("cancellation for unknown order ignored",
				zap.String("platform", platform),
				zap.String("external_id", externalID))
			return nil
		}
		return fmt.Errorf("service.handleCancellation: %w", err)
	}

	if !models.CanTransition(order.Status, models.StatusCancelled) {
		s.log.Warn("cancellation ignored, order not cancellable",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)))
		return nil
	}

	if _, err := s.repo.UpdateStatus(ctx, order.ID, models.StatusCancelled); err != nil {
		return fmt.Errorf("service.handleCancellation: %w", err)
	}
	return nil
}

// CreateManual enters a delivery order by hand, used when an operator types
// in an order from the platform portal.
func (s *Service) CreateManual(ctx context.Context, req models.CreateDeliveryOrderRequest) (*models.KitchenOrder, error) {
	norm := &NormalizedOrder{
		ExternalID:      req.ExternalID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		Total:           req.Total,
		DeliveryFee:     req.DeliveryFee,
		PaymentMethod:   req.PaymentMethod,
		Note:            req.Note,
	}
	if norm.PaymentMethod == "" {
		norm.PaymentMethod = "online"
	}
	return s.insert(ctx, req.Platform, norm, nil)
}

func (s *Service) insert(ctx context.Context, platform string, norm *NormalizedOrder, raw []byte) (*models.KitchenOrder, error) {
	seq, err := s.repo.NextDeliverySequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.insert: %w", err)
	}

	order := &models.KitchenOrder{
		ID:              uuid.NewString(),
		OrderSource:     models.SourceDelivery,
		Platform:        platform,
		ExternalID:      norm.ExternalID,
		DisplayCode:     models.DeliveryCode(seq),
		CodeType:        models.CodeTypeDelivery,
		Items:           norm.Items,
		Total:           norm.Total, // the platform total is authoritative
		DeliveryFee:     norm.DeliveryFee,
		PaymentMethod:   norm.PaymentMethod,
		CustomerName:    norm.CustomerName,
		CustomerPhone:   norm.CustomerPhone,
		CustomerAddress: norm.CustomerAddress,
		Note:            norm.Note,
		Status:          models.StatusNew,
		RawData:         raw,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("service.insert: %w", err)
	}
	return created, nil
}

// Accept moves a delivery order into preparation and answers the platform.
// The local transition commits first; the platform call is best-effort.
func (s *Service) Accept(ctx context.Context, orderID string) (*models.KitchenOrder, error) {
	updated, err := s.transition(ctx, orderID, models.StatusPreparing)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Accept(ctx, updated)
	return updated, nil
}

// Reject declines a delivery order and relays the reason to the platform.
func (s *Service) Reject(ctx context.Context, orderID, reason string) (*models.KitchenOrder, error) {
	updated, err := s.transition(ctx, orderID, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Reject(ctx, updated, reason)
	return updated, nil
}

// UpdateStatus runs a generic transition on a delivery order and notifies
// the platform of externally visible states.
func (s *Service) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.KitchenOrder, error) {
	next, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrMalformedPayload, rawStatus)
	}

	updated, err := s.transition(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	switch next {
	case models.StatusPreparing, models.StatusReady, models.StatusDelivered:
		s.dispatcher.NotifyStatus(ctx, updated, next)
	}
	return updated, nil
}

func (s *Service) transition(ctx context.Context, orderID string, next models.Status) (*models.KitchenOrder, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.transition: %w", err)
	}
	if order.Status == next {
		return order, nil
	}
	if !models.CanTransition(order.Status, next) {
		return nil, &models.TransitionError{From: order.Status, To: next}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, fmt.Errorf("service.transition: %w", err)
	}
	return updated, nil
}
