package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

// Service runs the purchase workflow and the order-history use cases. A
// purchase moves through validation, stock reservation, and ledger recording;
// a reservation whose recording fails is released so the listing's stock and
// purchase counter match the ledger again.
type Service struct {
	ledger  ports.Repository
	catalog ports.Catalog
	events  ports.EventPublisher
	logger  *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithEventPublisher emits an event after each committed purchase.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithLogger sets the logger used for compensation and publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the orders service with its ledger and the catalog port.
func NewService(ledger ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		ledger:  ledger,
		catalog: catalog,
		events:  ports.NoopPublisher{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Purchase validates the request, reserves stock on the listing, and records
// the order. The body's asserted buyer must match the verified principal, and
// a principal never buys their own listing. Stock is reserved with a single
// conditional decrement, so concurrent purchases can never oversell.
func (s *Service) Purchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	if err := identity.Authorize(actor, input.Buyer); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	if input.OrderID != "" {
		if replay, err := s.replayed(ctx, actor, input.OrderID); replay != nil || err != nil {
			return replay, err
		}
	}

	listing, err := s.catalog.Lookup(ctx, input.FoodID)
	if err != nil {
		return nil, err
	}
	if actor.Matches(listing.Owner) {
		return nil, ErrOwnPurchase
	}

	order, err := domain.NewOrder(listing.ID, listing.Name, listing.UnitPriceCents, input.Quantity, actor.String())
	if err != nil {
		return nil, mapError(err)
	}
	order.ID = input.OrderID

	// The reservation is the commit point against stock: it either moves the
	// listing atomically or fails without touching it. A listing deleted
	// since the lookup surfaces here as not found.
	reserved, err := s.catalog.Reserve(ctx, listing.ID, input.Quantity)
	if err != nil {
		return nil, err
	}

	recorded, err := s.ledger.Insert(ctx, order)
	if err != nil {
		s.release(ctx, listing.ID, input.Quantity)
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	s.publish(ctx, recorded)
	return &ordertypes.PurchaseResult{Order: recorded, RemainingQuantity: reserved.Quantity}, nil
}

// ListByBuyer returns the acting principal's own order history.
func (s *Service) ListByBuyer(ctx context.Context, actor identity.Principal, buyer string) ([]*domain.Order, error) {
	if err := identity.Authorize(actor, buyer); err != nil {
		return nil, err
	}
	return s.ledger.ListByBuyer(ctx, buyer)
}

// Cancel removes an order the actor placed. The ledger entry is the sole
// authority for who may cancel it. Stock already sold stays sold.
func (s *Service) Cancel(ctx context.Context, actor identity.Principal, id string) error {
	order, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := identity.Authorize(actor, order.Buyer); err != nil {
		return err
	}
	return s.ledger.Delete(ctx, id)
}

// replayed returns the already-recorded order when a purchase carrying an
// idempotency key runs a second time, so a redelivered attempt never reserves
// stock again. A missing order means this is the first delivery.
func (s *Service) replayed(ctx context.Context, actor identity.Principal, orderID string) (*ordertypes.PurchaseResult, error) {
	existing, err := s.ledger.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("check recorded purchase: %w", err)
	}
	if err := identity.Authorize(actor, existing.Buyer); err != nil {
		return nil, err
	}
	remaining := 0
	if listing, err := s.catalog.Lookup(ctx, existing.FoodID); err == nil {
		remaining = listing.Quantity
	}
	return &ordertypes.PurchaseResult{Order: existing, RemainingQuantity: remaining}, nil
}

// release compensates a reservation that could not be recorded. A failed
// release leaves the listing short; it is logged loudly for manual repair
// rather than surfaced to the buyer, who already gets the recording error.
func (s *Service) release(ctx context.Context, foodID string, quantity int) {
	if err := s.catalog.Release(ctx, foodID, quantity); err != nil {
		s.logger.ErrorContext(ctx, "failed to release reserved stock",
			slog.String("food_id", foodID),
			slog.Int("quantity", quantity),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) publish(ctx context.Context, order *domain.Order) {
	event := ports.OrderPlaced{
		OrderID:        order.ID,
		FoodID:         order.FoodID,
		FoodName:       order.FoodName,
		UnitPriceCents: order.UnitPriceCents,
		Quantity:       order.Quantity,
		Buyer:          order.Buyer,
		PurchasedAt:    order.PurchasedAt,
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

var _ ports.Service = (*Service)(nil)
