package orders

import (
	"context"
	"errors"
	"net/http"

	"kitchen-dispatch/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for POS and kiosk order intake.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new order intake handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the intake routes on an authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.CreateOrder)
	g.POST("/kiosk/orders", h.CreateKioskOrder)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	return h.create(c, h.svc.CreatePOSOrder)
}

func (h *Handler) CreateKioskOrder(c echo.Context) error {
	return h.create(c, h.svc.CreateKioskOrder)
}

func (h *Handler) create(c echo.Context, createFn func(context.Context, models.CreateOrderRequest) (*models.KitchenOrder, error)) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := createFn(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrTableOccupied) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Table already has an active order"})
		}
		c.Logger().Error("Handler.CreateOrder: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, models.CreateOrderResponse{
		ID:          order.ID,
		QueueNumber: order.DisplayCode,
		CodeType:    order.CodeType,
		Total:       order.Total,
		Status:      order.Status,
	})
}
