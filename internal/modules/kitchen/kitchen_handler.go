package kitchen

import (
	"errors"
	"net/http"

	"kitchen-dispatch/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the kitchen display and salon screens.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new kitchen handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the authenticated kitchen routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.GetOrders)
	g.GET("/orders/ready", h.GetReadyOrders)
	g.GET("/stats", h.GetStats)
	g.PUT("/orders/:orderId/status", h.UpdateStatus)
	g.POST("/print", h.PrintTicket)
}

// RegisterPublicRoutes mounts the unauthenticated salon display.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/salon-display", h.GetSalonDisplay)
}

func (h *Handler) GetOrders(c echo.Context) error {
	orders, err := h.svc.GetOrders(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		if errors.Is(err, models.ErrMalformedPayload) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown status filter"})
		}
		c.Logger().Error("Handler.GetOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders, "total": len(orders)})
}

func (h *Handler) GetReadyOrders(c echo.Context) error {
	orders, err := h.svc.GetReadyOrders(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetReadyOrders: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve ready orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders, "total": len(orders)})
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.GetStats(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetStats: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	orderID := c.Param("orderId")

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.UpdateStatus(c.Request().Context(), orderID, req.Status)
	if err != nil {
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
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, models.UpdateStatusResponse{ID: order.ID, NewStatus: order.Status})
}

func (h *Handler) GetSalonDisplay(c echo.Context) error {
	display, err := h.svc.GetSalonDisplay(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.GetSalonDisplay: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve salon display"})
	}
	return c.JSON(http.StatusOK, display)
}

func (h *Handler) PrintTicket(c echo.Context) error {
	var req models.PrintTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	if err := h.svc.PrintTicket(c.Request().Context(), req.OrderID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		}
		c.Logger().Error("Handler.PrintTicket: ", err)
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "Failed to print ticket"})
	}
	return c.NoContent(http.StatusAccepted)
}
