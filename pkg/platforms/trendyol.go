package platforms

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"

	"github.com/go-resty/resty/v2"
)

const trendyolBaseURL = "https://api.tgoapis.com/integrator/order/meal/suppliers"

// trendyolClient covers Trendyol Yemek. Everything past accept/reject goes
// through the one PUT status endpoint, so there are no marker methods and
// the dispatcher falls back to UpdateStatus.
type trendyolClient struct {
	http       *resty.Client
	supplierID string
}

// Trendyol status vocabulary for the generic endpoint.
var trendyolStatuses = map[models.Status]string{
	models.StatusPreparing: "Preparing",
	models.StatusReady:     "Prepared",
	models.StatusDelivered: "Delivered",
}

func newTrendyolClient(creds config.PlatformCredentials, timeout time.Duration) *trendyolClient {
	return &trendyolClient{
		http: resty.New().
			SetBaseURL(trendyolBaseURL).
			SetTimeout(timeout).
			SetBasicAuth(creds.APIKey, creds.APISecret),
		supplierID: creds.RemoteID,
	}
}

func (c *trendyolClient) AcceptOrder(ctx context.Context, externalID string) error {
	return c.put(ctx, fmt.Sprintf("/%s/packages/%s/accepted", c.supplierID, externalID), nil)
}

func (c *trendyolClient) RejectOrder(ctx context.Context, externalID, reason string) error {
	return c.put(ctx, fmt.Sprintf("/%s/packages/%s/unsupplied", c.supplierID, externalID), map[string]string{
		"reason": reason,
	})
}

func (c *trendyolClient) UpdateStatus(ctx context.Context, externalID string, status models.Status) error {
	remote, ok := trendyolStatuses[status]
	if !ok {
		remote = string(status)
	}
	return c.put(ctx, fmt.Sprintf("/%s/packages/%s/status", c.supplierID, externalID), map[string]string{
		"status": remote,
	})
}

func (c *trendyolClient) put(ctx context.Context, path string, body any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Put(path)
	if err != nil {
		return fmt.Errorf("trendyol: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("trendyol: %s returned %d", path, resp.StatusCode())
	}
	return nil
}
