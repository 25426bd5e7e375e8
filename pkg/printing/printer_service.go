package printing

import (
	"context"
	"fmt"

	"kitchen-dispatch/internal/models"
)

// ServiceInterface defines the contract for a kitchen ticket printer.
type ServiceInterface interface {
	PrintTicket(ctx context.Context, order *models.KitchenOrder) error
}

// EscposService is a stand-in for the thermal printer integration (replace
// with the real ESC/POS driver calls in production).
type EscposService struct {
	// Add printer address/config fields here if needed
}

func NewEscposService() *EscposService {
	return &EscposService{}
}

// PrintTicket simulates sending a ticket to the kitchen printer.
func (s *EscposService) PrintTicket(ctx context.Context, order *models.KitchenOrder) error {
	if order.DisplayCode == "" {
		return fmt.Errorf("order has no display code")
	}
	// Here you would render the ticket and push it to the device.
	return nil
}
