package delivery

import (
	"errors"
	"io"
	"net/http"

	"kitchen-dispatch/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for delivery platform integration.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new delivery handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterWebhookRoutes mounts the platform-trusted webhook receiver. No
// auth: the platforms sign nothing useful and retry aggressively, so the
// receiver always acknowledges.
func (h *Handler) RegisterWebhookRoutes(g *echo.Group) {
	g.POST("/webhook/:platform", h.Webhook)
}

// RegisterRoutes mounts the authenticated delivery management routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.CreateOrder)
	g.PUT("/orders/:orderId/accept", h.AcceptOrder)
	g.PUT("/orders/:orderId/reject", h.RejectOrder)
	g.PUT("/orders/:orderId/status", h.UpdateStatus)
}

// Webhook ingests one platform event and always answers 200 {"status":"ok"},
// even when the payload was dropped. Internal failures are logged server-side
// only; surfacing them would trigger platform retry storms.
func (h *Handler) Webhook(c echo.Context) error {
	platform := c.Param("platform")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Logger().Error("Handler.Webhook: read body: ", err)
		return c.JSON(http.StatusOK, models.WebhookAck{Status: "ok"})
	}

	if err := h.svc.HandleWebhook(c.Request().Context(), platform, body); err != nil {
		c.Logger().Error("Handler.Webhook: ", err)
	}
	return c.JSON(http.StatusOK, models.WebhookAck{Status: "ok"})
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateDeliveryOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.CreateManual(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create delivery order"})
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) AcceptOrder(c echo.Context) error {
	order, err := h.svc.Accept(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return h.transitionError(c, "Handler.AcceptOrder", err)
	}
	return c.JSON(http.StatusOK, models.UpdateStatusResponse{ID: order.ID, NewStatus: order.Status})
}

func (h *Handler) RejectOrder(c echo.Context) error {
	var req models.RejectOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}

	order, err := h.svc.Reject(c.Request().Context(), c.Param("orderId"), req.Reason)
	if err != nil {
		return h.transitionError(c, "Handler.RejectOrder", err)
	}
	return c.JSON(http.StatusOK, models.UpdateStatusResponse{ID: order.ID, NewStatus: order.Status})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("orderId"), req.Status)
	if err != nil {
		return h.transitionError(c, "Handler.UpdateStatus", err)
	}
	return c.JSON(http.StatusOK, models.UpdateStatusResponse{ID: order.ID, NewStatus: order.Status})
}

func (h *Handler) transitionError(c echo.Context, op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
	}
	if errors.Is(err, models.ErrMalformedPayload) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown status value"})
	}
	var te *models.TransitionError
	if errors.As(err, &te) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: te.Error()})
	}
	c.Logger().Error(op+": ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update delivery order"})
}
