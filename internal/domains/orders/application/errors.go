package application

import (
	"errors"
	"fmt"

	"github.com/nexyn/foods-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a purchase invariant.
	ErrInvalidInput = errors.New("invalid purchase input")
	// ErrOwnPurchase rejects a buyer purchasing their own listing.
	ErrOwnPurchase = errors.New("cannot purchase your own listing")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingFoodID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidBuyer) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
