package kitchen

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitchen-dispatch/internal/models"
)

// ----------------------------------------------------------------------------
// fakeRepo: in-memory stand-in for the order store. Mirrors the timestamp
// bookkeeping of the real repository so stamping rules can be asserted.
// ----------------------------------------------------------------------------
type fakeRepo struct {
	orders map[string]*models.KitchenOrder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*models.KitchenOrder)}
}

func (f *fakeRepo) add(o *models.KitchenOrder) {
	cp := *o
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = cp.CreatedAt
	}
	f.orders[cp.ID] = &cp
}

func (f *fakeRepo) FindByID(ctx context.Context, orderID string) (*models.KitchenOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, status *models.Status) ([]*models.KitchenOrder, error) {
	var out []*models.KitchenOrder
	for _, o := range f.orders {
		if status != nil && o.Status != *status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	acc := map[string]map[models.Status]int{}
	for _, o := range f.orders {
		switch o.Status {
		case models.StatusNew, models.StatusPreparing, models.StatusReady:
			if acc[o.OrderSource] == nil {
				acc[o.OrderSource] = map[models.Status]int{}
			}
			acc[o.OrderSource][o.Status]++
		}
	}
	var counts []StatusCount
	for source, byStatus := range acc {
		for status, n := range byStatus {
			counts = append(counts, StatusCount{Source: source, Status: status, Count: n})
		}
	}
	return counts, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, orderID string, status models.Status) (*models.KitchenOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	now := time.Now()
	o.Status = status
	o.UpdatedAt = now
	switch status {
	case models.StatusPreparing:
		if o.AcceptedAt == nil {
			o.AcceptedAt = &now
		}
	case models.StatusRejected:
		if o.RejectedAt == nil {
			o.RejectedAt = &now
		}
	case models.StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	}
	cp := *o
	return &cp, nil
}

// fakeDispatcher records notification calls.
type fakeDispatcher struct {
	accepted []string
	rejected []string
	notified []string // "<order-id>:<status>"
}

func (f *fakeDispatcher) Accept(ctx context.Context, order *models.KitchenOrder) {
	f.accepted = append(f.accepted, order.ID)
}

func (f *fakeDispatcher) Reject(ctx context.Context, order *models.KitchenOrder, reason string) {
	f.rejected = append(f.rejected, order.ID)
}

func (f *fakeDispatcher) NotifyStatus(ctx context.Context, order *models.KitchenOrder, status models.Status) {
	f.notified = append(f.notified, order.ID+":"+string(status))
}

type fakePrinter struct {
	printed []string
	err     error
}

func (f *fakePrinter) PrintTicket(ctx context.Context, order *models.KitchenOrder) error {
	if f.err != nil {
		return f.err
	}
	f.printed = append(f.printed, order.ID)
	return nil
}

func newTestService(fr *fakeRepo) (*Service, *fakeDispatcher, *fakePrinter) {
	fd := &fakeDispatcher{}
	fp := &fakePrinter{}
	return NewService(fr, fd, fp), fd, fp
}

// ----------------------------------------------------------------------------
// Tests
// ----------------------------------------------------------------------------

func TestUpdateStatusLifecycle(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "o1", OrderSource: models.SourcePOS, DisplayCode: "MASA-1", Status: models.StatusNew})
	svc, _, _ := newTestService(fr)
	ctx := context.Background()

	// preparing → ready → served, each call confirms the requested state
	for _, want := range []models.Status{models.StatusPreparing, models.StatusReady, models.StatusServed} {
		got, err := svc.UpdateStatus(ctx, "o1", string(want))
		if err != nil {
			t.Fatalf("UpdateStatus(%s) error: %v", want, err)
		}
		if got.Status != want {
			t.Errorf("UpdateStatus returned status %s; want %s", got.Status, want)
		}
	}

	// served is terminal, nothing moves out of it
	if _, err := svc.UpdateStatus(ctx, "o1", string(models.StatusPreparing)); err == nil {
		t.Error("expected transition out of served to fail")
	} else {
		var te *models.TransitionError
		if !errors.As(err, &te) {
			t.Errorf("expected TransitionError, got %v", err)
		}
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newTestService(newFakeRepo())
	_, err := svc.UpdateStatus(context.Background(), "missing", string(models.StatusPreparing))
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "o1", Status: models.StatusNew})
	svc, _, _ := newTestService(fr)

	_, err := svc.UpdateStatus(context.Background(), "o1", "exploded")
	if !errors.Is(err, models.ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "o1", OrderSource: models.SourceDelivery, Platform: models.PlatformGetir, ExternalID: "g-1", Status: models.StatusNew})
	svc, fd, _ := newTestService(fr)
	ctx := context.Background()

	first, err := svc.UpdateStatus(ctx, "o1", string(models.StatusPreparing))
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	stamped := first.AcceptedAt
	if stamped == nil {
		t.Fatal("accepted_at not stamped on first transition to preparing")
	}

	// re-issuing the same status is a no-op: same state, no restamping,
	// no second platform notification
	second, err := svc.UpdateStatus(ctx, "o1", string(models.StatusPreparing))
	if err != nil {
		t.Fatalf("repeated UpdateStatus error: %v", err)
	}
	if second.Status != models.StatusPreparing {
		t.Errorf("repeated UpdateStatus status = %s; want preparing", second.Status)
	}
	if !second.AcceptedAt.Equal(*stamped) {
		t.Errorf("accepted_at restamped on no-op update: %v vs %v", second.AcceptedAt, stamped)
	}
	if len(fd.notified) != 1 {
		t.Errorf("dispatcher notified %d times; want 1", len(fd.notified))
	}
}

func TestUpdateStatusNotifiesDeliveryPlatform(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "d1", OrderSource: models.SourceDelivery, Platform: models.PlatformTrendyol, ExternalID: "t-9", Status: models.StatusNew})
	fr.add(&models.KitchenOrder{ID: "p1", OrderSource: models.SourcePOS, Status: models.StatusNew})
	svc, fd, _ := newTestService(fr)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, "d1", string(models.StatusPreparing)); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "p1", string(models.StatusPreparing)); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	// the dispatcher is invoked for both; it decides internally that only
	// delivery orders go out, so the service hands it everything
	if len(fd.notified) != 2 {
		t.Fatalf("dispatcher calls = %d; want 2", len(fd.notified))
	}
	if fd.notified[0] != "d1:preparing" {
		t.Errorf("first notification = %s; want d1:preparing", fd.notified[0])
	}
}

func TestGetStatsBreakdown(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "a", OrderSource: models.SourcePOS, Status: models.StatusNew})
	fr.add(&models.KitchenOrder{ID: "b", OrderSource: models.SourceKiosk, Status: models.StatusNew})
	fr.add(&models.KitchenOrder{ID: "c", OrderSource: models.SourceDelivery, Status: models.StatusPreparing})
	fr.add(&models.KitchenOrder{ID: "d", OrderSource: models.SourcePOS, Status: models.StatusReady})
	fr.add(&models.KitchenOrder{ID: "e", OrderSource: models.SourcePOS, Status: models.StatusServed}) // terminal, not counted
	svc, _, _ := newTestService(fr)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}

	if stats.Pending != 2 || stats.Preparing != 1 || stats.Ready != 1 {
		t.Errorf("top-level counts = %d/%d/%d; want 2/1/1", stats.Pending, stats.Preparing, stats.Ready)
	}

	sumPending := 0
	sumPreparing := 0
	sumReady := 0
	for _, bucket := range stats.Breakdown {
		sumPending += bucket.Pending
		sumPreparing += bucket.Preparing
		sumReady += bucket.Ready
	}
	if sumPending != stats.Pending || sumPreparing != stats.Preparing || sumReady != stats.Ready {
		t.Errorf("breakdown sums %d/%d/%d do not match top-level %d/%d/%d",
			sumPending, sumPreparing, sumReady, stats.Pending, stats.Preparing, stats.Ready)
	}
	if got := stats.Breakdown[models.SourcePOS].Pending; got != 1 {
		t.Errorf("pos pending = %d; want 1", got)
	}
	if got := stats.Breakdown[models.SourceDelivery].Preparing; got != 1 {
		t.Errorf("delivery preparing = %d; want 1", got)
	}
}

func TestSalonDisplayShowsOnlyReadyCodes(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{
		ID: "r1", OrderSource: models.SourceDelivery, DisplayCode: "ONLNPKT-004", Status: models.StatusReady,
		CustomerName: "Ayşe", CustomerPhone: "+905551112233", CustomerAddress: "Some Street 5",
		Items: []models.OrderItem{{Name: "Burger", Price: 150, Quantity: 1}},
	})
	fr.add(&models.KitchenOrder{ID: "n1", DisplayCode: "PKT-001", Status: models.StatusNew})
	svc, _, _ := newTestService(fr)
	ctx := context.Background()

	display, err := svc.GetSalonDisplay(ctx)
	if err != nil {
		t.Fatalf("GetSalonDisplay error: %v", err)
	}
	if len(display.ReadyOrders) != 1 {
		t.Fatalf("ready orders = %d; want 1", len(display.ReadyOrders))
	}
	if display.ReadyOrders[0].DisplayCode != "ONLNPKT-004" {
		t.Errorf("display code = %s; want ONLNPKT-004", display.ReadyOrders[0].DisplayCode)
	}
	if display.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	// once served, the code disappears from the salon screen
	if _, err := svc.UpdateStatus(ctx, "r1", string(models.StatusServed)); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	display, err = svc.GetSalonDisplay(ctx)
	if err != nil {
		t.Fatalf("GetSalonDisplay error: %v", err)
	}
	if len(display.ReadyOrders) != 0 {
		t.Errorf("ready orders after served = %d; want 0", len(display.ReadyOrders))
	}
}

func TestGetOrdersStatusFilter(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "a", Status: models.StatusNew})
	fr.add(&models.KitchenOrder{ID: "b", Status: models.StatusReady})
	svc, _, _ := newTestService(fr)
	ctx := context.Background()

	all, err := svc.GetOrders(ctx, "")
	if err != nil {
		t.Fatalf("GetOrders error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered orders = %d; want 2", len(all))
	}

	ready, err := svc.GetOrders(ctx, "ready")
	if err != nil {
		t.Fatalf("GetOrders(ready) error: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != "b" {
		t.Errorf("filtered orders = %v; want just b", ready)
	}

	if _, err := svc.GetOrders(ctx, "bogus"); !errors.Is(err, models.ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload for bogus filter, got %v", err)
	}
}

func TestPrintTicket(t *testing.T) {
	fr := newFakeRepo()
	fr.add(&models.KitchenOrder{ID: "o1", DisplayCode: "PKT-007", Status: models.StatusNew})
	svc, _, fp := newTestService(fr)
	ctx := context.Background()

	if err := svc.PrintTicket(ctx, "o1"); err != nil {
		t.Fatalf("PrintTicket error: %v", err)
	}
	if len(fp.printed) != 1 || fp.printed[0] != "o1" {
		t.Errorf("printed = %v; want [o1]", fp.printed)
	}

	if err := svc.PrintTicket(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
