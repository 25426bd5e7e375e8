package platforms

import (
	"context"
	"fmt"
	"time"

	"kitchen-dispatch/internal/config"
	"kitchen-dispatch/internal/models"

	"github.com/go-resty/resty/v2"
)

const yemeksepetiBaseURL = "https://integration-middleware.me.restaurant-partners.com/v2"

// yemeksepetiClient talks to the Yemeksepeti partner middleware. The
// platform exposes dedicated preparation/pickup endpoints, so it implements
// PreparingMarker and ReadyMarker in addition to the generic Client.
type yemeksepetiClient struct {
	http     *resty.Client
	remoteID string
}

func newYemeksepetiClient(creds config.PlatformCredentials, timeout time.Duration) *yemeksepetiClient {
	return &yemeksepetiClient{
		http: resty.New().
			SetBaseURL(yemeksepetiBaseURL).
			SetTimeout(timeout).
			SetHeader("Authorization", "Bearer "+creds.APIKey),
		remoteID: creds.RemoteID,
	}
}

func (c *yemeksepetiClient) AcceptOrder(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/orders/%s/status", externalID), map[string]string{
		"status":       "order_accepted",
		"remoteId":     c.remoteID,
		"acceptedTime": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *yemeksepetiClient) RejectOrder(ctx context.Context, externalID, reason string) error {
	return c.post(ctx, fmt.Sprintf("/orders/%s/status", externalID), map[string]string{
		"status":   "order_rejected",
		"reason":   reason,
		"remoteId": c.remoteID,
	})
}

func (c *yemeksepetiClient) MarkPreparing(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/orders/%s/preparation-started", externalID), map[string]string{
		"remoteId": c.remoteID,
	})
}

func (c *yemeksepetiClient) MarkReady(ctx context.Context, externalID string) error {
	return c.post(ctx, fmt.Sprintf("/orders/%s/preparation-completed", externalID), map[string]string{
		"remoteId": c.remoteID,
	})
}

func (c *yemeksepetiClient) UpdateStatus(ctx context.Context, externalID string, status models.Status) error {
	return c.post(ctx, fmt.Sprintf("/orders/%s/status", externalID), map[string]string{
		"status":   string(status),
		"remoteId": c.remoteID,
	})
}

func (c *yemeksepetiClient) post(ctx context.Context, path string, body any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("yemeksepeti: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("yemeksepeti: %s returned %d", path, resp.StatusCode())
	}
	return nil
}
