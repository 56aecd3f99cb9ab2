package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName        = errors.New("food name is required")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrInvalidOwner     = errors.New("owner must be an email address")
)

// Food models a marketplace listing. Quantity is the available stock and may
// never go negative; PurchaseCount grows by one per committed purchase. Owner
// is fixed at creation.
type Food struct {
	ID            string
	Name          string
	Category      string
	PriceCents    int64
	Origin        string
	Description   string
	ImageURL      string
	Ingredients   []string
	Quantity      int
	PurchaseCount int64
	Owner         string
	OwnerName     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewFood validates and constructs a new listing. The id is assigned by the
// store on creation and the purchase counter always starts at zero.
func NewFood(name string, priceCents int64, quantity int, owner, ownerName string) (*Food, error) {
	food := &Food{
		PurchaseCount: 0,
		OwnerName:     strings.TrimSpace(ownerName),
	}
	if err := food.Rename(name); err != nil {
		return nil, err
	}
	if err := food.UpdatePrice(priceCents); err != nil {
		return nil, err
	}
	if err := food.UpdateQuantity(quantity); err != nil {
		return nil, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" || !strings.Contains(owner, "@") {
		return nil, ErrInvalidOwner
	}
	food.Owner = owner
	return food, nil
}

// Rename trims and validates the display name.
func (f *Food) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	f.Name = name
	return nil
}

// UpdatePrice enforces a non-negative price.
func (f *Food) UpdatePrice(priceCents int64) error {
	if priceCents < 0 {
		return ErrInvalidPrice
	}
	f.PriceCents = priceCents
	return nil
}

// UpdateQuantity sets the available stock; owners may restock or zero out a
// listing but never take it negative.
func (f *Food) UpdateQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	f.Quantity = quantity
	return nil
}

// UpdateDetails applies the optional descriptive fields.
func (f *Food) UpdateDetails(category, origin, description, imageURL string, ingredients []string) {
	f.Category = strings.TrimSpace(category)
	f.Origin = strings.TrimSpace(origin)
	f.Description = strings.TrimSpace(description)
	f.ImageURL = strings.TrimSpace(imageURL)
	if ingredients == nil {
		f.Ingredients = nil
		return
	}
	f.Ingredients = append([]string(nil), ingredients...)
}

// Validate re-applies core invariants for persistence.
func (f *Food) Validate() error {
	if err := f.Rename(f.Name); err != nil {
		return err
	}
	if err := f.UpdatePrice(f.PriceCents); err != nil {
		return err
	}
	if err := f.UpdateQuantity(f.Quantity); err != nil {
		return err
	}
	if f.Owner == "" || !strings.Contains(f.Owner, "@") {
		return ErrInvalidOwner
	}
	return nil
}
