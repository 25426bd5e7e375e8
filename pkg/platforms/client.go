package platforms

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"
)

// Client is the contract every delivery-platform API client satisfies.
// All calls are best-effort from the caller's point of view: a returned
// error is logged by the dispatcher, never propagated further.
type Client interface {
	AcceptOrder(ctx context.Context, externalID string) error
	RejectOrder(ctx context.Context, externalID, reason string) error
	UpdateStatus(ctx context.Context, externalID string, status models.Status) error
}

// PreparingMarker is implemented by clients whose platform exposes a
// dedicated "preparing" endpoint. The dispatcher prefers it over the
// generic UpdateStatus when present.
type PreparingMarker interface {
	MarkPreparing(ctx context.Context, externalID string) error
}

// ReadyMarker is the dedicated "ready for pickup" endpoint, where available.
type ReadyMarker interface {
	MarkReady(ctx context.Context, externalID string) error
}

// NewClient builds a client for the given platform tag from stored
// credentials. Clients are cheap and constructed per call; none of them
// keeps a pooled connection.
func NewClient(platform string, creds config.PlatformCredentials, timeout time.Duration) (Client, error) {
	switch platform {
	case models.PlatformYemeksepeti:
		return newYemeksepetiClient(creds, timeout), nil
	case models.PlatformGetir:
		return newGetirClient(creds, timeout), nil
	case models.PlatformTrendyol:
		return newTrendyolClient(creds, timeout), nil
	case models.PlatformMigros:
		return newMigrosClient(creds, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownPlatform, platform)
	}
}
