package platforms

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"

	"github.com/go-resty/resty/v2"
)

const getirBaseURL = "https://food-external-api-gateway.getirapi.com"

// getirClient drives the GetirFood restaurant API. Getir models the kitchen
// flow with verb endpoints (verify, prepare, handover), so the specific
// marker methods map onto those.
type getirClient struct {
	http *resty.Client
}

func newGetirClient(creds config.PlatformCredentials, timeout time.Duration) *getirClient {
	return &getirClient{
		http: resty.New().
			SetBaseURL(getirBaseURL).
			SetTimeout(timeout).
			SetHeader("token", creds.APIKey).
			SetHeader("restaurantSecretKey", creds.APISecret),
	}
}

func (c *getirClient) AcceptOrder(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/food-orders/%s/verify", externalID), nil)
}

func (c *getirClient) RejectOrder(ctx context.Context, externalID, reason string) error {
	return c.post(ctx, fmt.Sprintf("/food-orders/%s/cancel", externalID), map[string]string{
		"cancelNote": reason,
	})
}

func (c *getirClient) MarkPreparing(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/food-orders/%s/prepare", externalID), nil)
}

func (c *getirClient) MarkReady(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/food-orders/%s/handover", externalID), nil)
}

func (c *getirClient) UpdateStatus(ctx context.Context, externalID string, status models.Status) error {
	return c.post(ctx, fmt.Sprintf("/food-orders/%s/status", externalID), map[string]string{
		"status": string(status),
	})
}

func (c *getirClient) post(ctx context.Context, path string, body any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("getir: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("getir: %s returned %d", path, resp.StatusCode())
	}
	return nil
}
