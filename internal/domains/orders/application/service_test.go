package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

type fakeCatalog struct {
	mu       sync.Mutex
	listings map[string]*ports.Listing
	// purchases counts successful reservations minus releases, standing in
	// for the listing's purchase counter.
	purchases map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		listings:  map[string]*ports.Listing{},
		purchases: map[string]int{},
	}
}

func (f *fakeCatalog) add(listing ports.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := listing
	f.listings[listing.ID] = &copy
}

func (f *fakeCatalog) Lookup(_ context.Context, foodID string) (*ports.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[foodID]
	if !ok {
		return nil, ports.ErrListingNotFound
	}
	copy := *listing
	return &copy, nil
}

func (f *fakeCatalog) Reserve(_ context.Context, foodID string, quantity int) (*ports.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[foodID]
	if !ok {
		return nil, ports.ErrListingNotFound
	}
	if listing.Quantity < quantity {
		return nil, ports.ErrInsufficientStock
	}
	listing.Quantity -= quantity
	f.purchases[foodID]++
	copy := *listing
	return &copy, nil
}

func (f *fakeCatalog) Release(_ context.Context, foodID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[foodID]
	if !ok {
		return ports.ErrListingNotFound
	}
	listing.Quantity += quantity
	f.purchases[foodID]--
	return nil
}

type fakeLedger struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	seq       int
	insertErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{orders: map[string]*domain.Order{}}
}

func (f *fakeLedger) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	copy := *order
	if copy.ID == "" {
		f.seq++
		copy.ID = fmt.Sprintf("order-%d", f.seq)
	} else if _, exists := f.orders[copy.ID]; exists {
		return nil, ports.ErrDuplicateID
	}
	f.orders[copy.ID] = &copy
	result := copy
	return &result, nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[id]; ok {
		copy := *order
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeLedger) ListByBuyer(_ context.Context, buyer string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Order
	for _, order := range f.orders {
		if order.Buyer == buyer {
			copy := *order
			list = append(list, &copy)
		}
	}
	return list, nil
}

func (f *fakeLedger) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderPlaced
	err    error
}

func (c *capturingPublisher) PublishOrderPlaced(_ context.Context, event ports.OrderPlaced) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, event)
	return nil
}

func ramenListing() ports.Listing {
	return ports.Listing{
		ID:             "food-1",
		Name:           "Ramen",
		UnitPriceCents: 1250,
		Quantity:       10,
		Owner:          "chef@x.com",
	}
}

func TestPurchase_RecordsSnapshotAndDecrementsStock(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	events := &capturingPublisher{}
	svc := NewService(ledger, catalog, WithEventPublisher(events))

	buyer := identity.Principal("buyer@x.com")
	result, err := svc.Purchase(context.Background(), buyer, ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 3,
		Buyer:    "buyer@x.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Order.ID)
	require.Equal(t, "Ramen", result.Order.FoodName)
	require.Equal(t, int64(1250), result.Order.UnitPriceCents)
	require.Equal(t, "buyer@x.com", result.Order.Buyer)
	require.Equal(t, 7, result.RemainingQuantity)

	require.Len(t, events.events, 1)
	require.Equal(t, result.Order.ID, events.events[0].OrderID)

	listing, err := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, err)
	require.Equal(t, 7, listing.Quantity)
	require.Equal(t, 1, catalog.purchases["food-1"])
}

func TestPurchase_RejectsMismatchedBuyer(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	svc := NewService(newFakeLedger(), catalog)

	_, err := svc.Purchase(context.Background(), identity.Principal("buyer@x.com"), ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 1,
		Buyer:    "victim@x.com",
	})
	require.ErrorIs(t, err, identity.ErrNotOwner)
}

func TestPurchase_RejectsNonPositiveQuantity(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	svc := NewService(newFakeLedger(), catalog)
	buyer := identity.Principal("buyer@x.com")

	for _, quantity := range []int{0, -2} {
		_, err := svc.Purchase(context.Background(), buyer, ordertypes.PurchaseInput{
			FoodID:   "food-1",
			Quantity: quantity,
			Buyer:    "buyer@x.com",
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestPurchase_RejectsOwnListing(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)

	chef := identity.Principal("chef@x.com")
	_, err := svc.Purchase(context.Background(), chef, ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 1,
		Buyer:    "chef@x.com",
	})
	require.ErrorIs(t, err, ErrOwnPurchase)
	require.Empty(t, ledger.orders)

	listing, err := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, err)
	require.Equal(t, 10, listing.Quantity)
}

func TestPurchase_UnknownListing(t *testing.T) {
	svc := NewService(newFakeLedger(), newFakeCatalog())

	_, err := svc.Purchase(context.Background(), identity.Principal("buyer@x.com"), ordertypes.PurchaseInput{
		FoodID:   "missing",
		Quantity: 1,
		Buyer:    "buyer@x.com",
	})
	require.ErrorIs(t, err, ports.ErrListingNotFound)
}

func TestPurchase_InsufficientStockLeavesStateUntouched(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)

	_, err := svc.Purchase(context.Background(), identity.Principal("buyer@x.com"), ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 11,
		Buyer:    "buyer@x.com",
	})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	require.Empty(t, ledger.orders)

	listing, err := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, err)
	require.Equal(t, 10, listing.Quantity)
	require.Equal(t, 0, catalog.purchases["food-1"])
}

func TestPurchase_ReleasesReservationWhenRecordingFails(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	ledger.insertErr = errors.New("ledger unavailable")
	svc := NewService(ledger, catalog)

	_, err := svc.Purchase(context.Background(), identity.Principal("buyer@x.com"), ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 4,
		Buyer:    "buyer@x.com",
	})
	require.ErrorContains(t, err, "ledger unavailable")

	// Both the stock and the purchase counter are back where they started.
	listing, lookupErr := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, lookupErr)
	require.Equal(t, 10, listing.Quantity)
	require.Equal(t, 0, catalog.purchases["food-1"])
	require.Empty(t, ledger.orders)
}

func TestPurchase_RedeliveredOrderIDReservesOnce(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)

	buyer := identity.Principal("buyer@x.com")
	input := ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 3,
		Buyer:    "buyer@x.com",
		OrderID:  "run-abc123",
	}
	first, err := svc.Purchase(context.Background(), buyer, input)
	require.NoError(t, err)
	require.Equal(t, "run-abc123", first.Order.ID)

	// The same command again, as a redelivered attempt whose first result
	// was lost: the recorded order comes back and stock moves only once.
	second, err := svc.Purchase(context.Background(), buyer, input)
	require.NoError(t, err)
	require.Equal(t, first.Order.ID, second.Order.ID)
	require.Equal(t, first.Order.PurchasedAt, second.Order.PurchasedAt)

	listing, err := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, err)
	require.Equal(t, 7, listing.Quantity)
	require.Equal(t, 1, catalog.purchases["food-1"])
	require.Len(t, ledger.orders, 1)

	// A different principal cannot read someone else's order through the key.
	_, err = svc.Purchase(context.Background(), identity.Principal("intruder@x.com"), ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 3,
		Buyer:    "intruder@x.com",
		OrderID:  "run-abc123",
	})
	require.ErrorIs(t, err, identity.ErrNotOwner)
}

func TestPurchase_ConcurrentBuyersNeverOversell(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing()) // stock 10
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)

	const buyers = 25
	const each = 3

	var wg sync.WaitGroup
	results := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := fmt.Sprintf("buyer%d@x.com", i)
			_, err := svc.Purchase(context.Background(), identity.Principal(buyer), ordertypes.PurchaseInput{
				FoodID:   "food-1",
				Quantity: each,
				Buyer:    buyer,
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ports.ErrInsufficientStock)
		}
	}
	require.Equal(t, 3, wins)
	require.Len(t, ledger.orders, 3)

	listing, err := catalog.Lookup(context.Background(), "food-1")
	require.NoError(t, err)
	require.Equal(t, 1, listing.Quantity)
	require.Equal(t, 3, catalog.purchases["food-1"])
}

func TestListByBuyer_ScopedToActor(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)
	buyer := identity.Principal("buyer@x.com")

	_, err := svc.Purchase(context.Background(), buyer, ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 2,
		Buyer:    "buyer@x.com",
	})
	require.NoError(t, err)

	_, err = svc.ListByBuyer(context.Background(), identity.Principal("snoop@x.com"), "buyer@x.com")
	require.ErrorIs(t, err, identity.ErrNotOwner)

	orders, err := svc.ListByBuyer(context.Background(), buyer, "buyer@x.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestCancel_ChecksStoredBuyer(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	svc := NewService(ledger, catalog)
	buyer := identity.Principal("buyer@x.com")

	result, err := svc.Purchase(context.Background(), buyer, ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 1,
		Buyer:    "buyer@x.com",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Cancel(context.Background(), identity.Principal("snoop@x.com"), result.Order.ID), identity.ErrNotOwner)
	require.NoError(t, svc.Cancel(context.Background(), buyer, result.Order.ID))
	require.ErrorIs(t, svc.Cancel(context.Background(), buyer, result.Order.ID), ports.ErrNotFound)
}

func TestPurchase_PublishFailureDoesNotFailPurchase(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(ramenListing())
	ledger := newFakeLedger()
	events := &capturingPublisher{err: errors.New("broker down")}
	svc := NewService(ledger, catalog, WithEventPublisher(events))

	result, err := svc.Purchase(context.Background(), identity.Principal("buyer@x.com"), ordertypes.PurchaseInput{
		FoodID:   "food-1",
		Quantity: 1,
		Buyer:    "buyer@x.com",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	require.Len(t, ledger.orders, 1)
}
