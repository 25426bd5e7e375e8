package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kitchen-dispatch/internal/models"
)

// ----------------------------------------------------------------------------
// fakeRepo: in-memory intake store with a strictly increasing takeaway
// sequence, matching the database sequence the real repository uses.
// ----------------------------------------------------------------------------
type fakeRepo struct {
	created     []*models.KitchenOrder
	takeawaySeq int64
	activeTable map[int]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{activeTable: make(map[int]bool)}
}

func (f *fakeRepo) Create(ctx context.Context, order *models.KitchenOrder) (*models.KitchenOrder, error) {
	cp := *order
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeRepo) NextTakeawaySequence(ctx context.Context) (int64, error) {
	f.takeawaySeq++
	return f.takeawaySeq, nil
}

func (f *fakeRepo) HasActiveTableOrder(ctx context.Context, tableNumber int) (bool, error) {
	return f.activeTable[tableNumber], nil
}

// ----------------------------------------------------------------------------
// Tests
// ----------------------------------------------------------------------------

func TestCreateTakeawayOrder(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	order, err := svc.CreatePOSOrder(context.Background(), models.CreateOrderRequest{
		OrderType: "takeaway",
		Items:     []models.OrderItem{{Name: "Burger", Price: 150, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreatePOSOrder error: %v", err)
	}

	if !strings.HasPrefix(order.DisplayCode, models.TakeawayCodePrefix) {
		t.Errorf("display code %s; want prefix %s", order.DisplayCode, models.TakeawayCodePrefix)
	}
	if order.CodeType != models.CodeTypeTakeaway {
		t.Errorf("code type = %s; want takeaway", order.CodeType)
	}
	if order.OrderSource != models.SourcePOS {
		t.Errorf("order source = %s; want pos", order.OrderSource)
	}
	if order.Status != models.StatusNew {
		t.Errorf("status = %s; want new", order.Status)
	}
	if order.Total != 150 {
		t.Errorf("total = %.2f; want 150.00", order.Total)
	}
	if order.ID == "" {
		t.Error("order id not assigned")
	}
}

func TestCreateTableOrder(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	order, err := svc.CreatePOSOrder(context.Background(), models.CreateOrderRequest{
		OrderType:   "table",
		TableNumber: 1,
		Items: []models.OrderItem{
			{Name: "Lahmacun", Price: 90, Quantity: 2},
			{Name: "Ayran", Price: 25, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreatePOSOrder error: %v", err)
	}

	if order.DisplayCode != "MASA-1" {
		t.Errorf("display code = %s; want MASA-1", order.DisplayCode)
	}
	if order.CodeType != models.CodeTypeTable {
		t.Errorf("code type = %s; want table", order.CodeType)
	}
	if order.Total != 230 {
		t.Errorf("total = %.2f; want 230.00", order.Total)
	}
}

func TestCreateTableOrderOccupied(t *testing.T) {
	fr := newFakeRepo()
	fr.activeTable[4] = true
	svc := NewService(fr)

	_, err := svc.CreatePOSOrder(context.Background(), models.CreateOrderRequest{
		OrderType:   "table",
		TableNumber: 4,
		Items:       []models.OrderItem{{Name: "Çay", Price: 15, Quantity: 1}},
	})
	if !errors.Is(err, models.ErrTableOccupied) {
		t.Errorf("expected ErrTableOccupied, got %v", err)
	}
	if len(fr.created) != 0 {
		t.Errorf("order created despite occupied table")
	}
}

func TestKioskOrdersAreAlwaysTakeaway(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	// the kiosk terminal claims a table; the service overrides it
	order, err := svc.CreateKioskOrder(context.Background(), models.CreateOrderRequest{
		OrderType:   "table",
		TableNumber: 9,
		Items:       []models.OrderItem{{Name: "Menemen", Price: 120, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateKioskOrder error: %v", err)
	}
	if order.OrderSource != models.SourceKiosk {
		t.Errorf("order source = %s; want kiosk", order.OrderSource)
	}
	if order.CodeType != models.CodeTypeTakeaway {
		t.Errorf("code type = %s; want takeaway", order.CodeType)
	}
}

func TestTakeawaySequenceIncreases(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	req := models.CreateOrderRequest{
		OrderType: "takeaway",
		Items:     []models.OrderItem{{Name: "Tost", Price: 60, Quantity: 1}},
	}
	first, err := svc.CreatePOSOrder(ctx, req)
	if err != nil {
		t.Fatalf("CreatePOSOrder error: %v", err)
	}
	second, err := svc.CreatePOSOrder(ctx, req)
	if err != nil {
		t.Fatalf("CreatePOSOrder error: %v", err)
	}

	if first.DisplayCode != "PKT-001" || second.DisplayCode != "PKT-002" {
		t.Errorf("codes = %s, %s; want PKT-001, PKT-002", first.DisplayCode, second.DisplayCode)
	}
}
