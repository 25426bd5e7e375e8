package platforms

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"

	"github.com/go-resty/resty/v2"
)

const migrosBaseURL = "https://rest.migrosyemek.com.tr/api/v1"

// migrosClient covers Migros Yemek, the narrowest of the four integrations:
// a single status endpoint for the whole lifecycle.
type migrosClient struct {
	http    *resty.Client
	storeID string
}

func newMigrosClient(creds config.PlatformCredentials, timeout time.Duration) *migrosClient {
	return &migrosClient{
		http: resty.New().
			SetBaseURL(migrosBaseURL).
			SetTimeout(timeout).
			SetHeader("x-api-key", creds.APIKey),
		storeID: creds.RemoteID,
	}
}

func (c *migrosClient) AcceptOrder(ctx context.Context, externalID string) error {
	return c.updateRemote(ctx, externalID, "APPROVED", "")
}

func (c *migrosClient) RejectOrder(ctx context.Context, externalID, reason string) error {
	return c.updateRemote(ctx, externalID, "REJECTED", reason)
}

func (c *migrosClient) UpdateStatus(ctx context.Context, externalID string, status models.Status) error {
	return c.updateRemote(ctx, externalID, string(status), "")
}

func (c *migrosClient) updateRemote(ctx context.Context, externalID, status, note string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"storeId": c.storeID,
			"orderId": externalID,
			"status":  status,
			"note":    note,
		}).
		Post("/orders/status")
	if err != nil {
		return fmt.Errorf("migros: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("migros: status update returned %d", resp.StatusCode())
	}
	return nil
}
