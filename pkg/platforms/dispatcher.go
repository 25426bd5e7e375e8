package platforms

import (
	"context"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"

	"go.uber.org/zap"
)

// clientFactory builds a platform client; swapped out in tests.
type clientFactory func(platform string, creds config.PlatformCredentials) (Client, error)

// Dispatcher relays local status changes of delivery orders back to the
// originating platform. Every call is best-effort: a fresh client is built
// from stored credentials, the call runs under a bounded timeout, and any
// failure is logged and swallowed. Callers never see an error and the local
// transition is never rolled back. No retry is attempted; the kitchen UI has
// no surface for retry state.
type Dispatcher struct {
	cfg       *config.Config
	log       *zap.Logger
	newClient clientFactory
}

func NewDispatcher(cfg *config.Config, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{cfg: cfg, log: log}
	d.newClient = func(platform string, creds config.PlatformCredentials) (Client, error) {
		return NewClient(platform, creds, cfg.NotifyTimeout())
	}
	return d
}

// Accept tells the platform the restaurant took the order.
func (d *Dispatcher) Accept(ctx context.Context, order *models.KitchenOrder) {
	d.call(ctx, order, "accept", func(ctx context.Context, c Client) error {
		return c.AcceptOrder(ctx, order.ExternalID)
	})
}

// Reject tells the platform the restaurant declined the order.
func (d *Dispatcher) Reject(ctx context.Context, order *models.KitchenOrder, reason string) {
	d.call(ctx, order, "reject", func(ctx context.Context, c Client) error {
		return c.RejectOrder(ctx, order.ExternalID, reason)
	})
}

// NotifyStatus relays a lifecycle transition. A state-specific endpoint is
// used when the platform client has one, otherwise the generic status update.
func (d *Dispatcher) NotifyStatus(ctx context.Context, order *models.KitchenOrder, status models.Status) {
	d.call(ctx, order, string(status), func(ctx context.Context, c Client) error {
		switch status {
		case models.StatusPreparing:
			if m, ok := c.(PreparingMarker); ok {
				return m.MarkPreparing(ctx, order.ExternalID)
			}
		case models.StatusReady:
			if m, ok := c.(ReadyMarker); ok {
				return m.MarkReady(ctx, order.ExternalID)
			}
		}
		return c.UpdateStatus(ctx, order.ExternalID, status)
	})
}

func (d *Dispatcher) call(ctx context.Context, order *models.KitchenOrder, action string, fn func(context.Context, Client) error) {
	if order.OrderSource != models.SourceDelivery || order.ExternalID == "" {
		return
	}

	creds, ok := d.cfg.PlatformFor(order.Platform)
	if !ok {
		d.log.Warn("platform notification skipped, no credentials",
			zap.String("platform", order.Platform),
			zap.String("order_id", order.ID))
		return
	}

	client, err := d.newClient(order.Platform, creds)
	if err != nil {
		d.log.Warn("platform notification skipped",
			zap.String("platform", order.Platform),
			zap.String("order_id", order.ID),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.NotifyTimeout())
	defer cancel()

	if err := fn(ctx, client); err != nil {
		d.log.Warn("platform notification failed",
			zap.String("platform", order.Platform),
			zap.String("order_id", order.ID),
			zap.String("external_id", order.ExternalID),
			zap.String("action", action),
			zap.Error(err))
	}
}
