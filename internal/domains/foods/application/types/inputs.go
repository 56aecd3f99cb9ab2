// Package types carries the use-case input shapes for the foods context.
package types

// CreateFoodInput is the command for listing a new food item. Owner is the
// caller-asserted owner; the service requires it to match the verified
// principal before anything is written.
type CreateFoodInput struct {
	Name        string
	Category    string
	PriceCents  int64
	Origin      string
	Description string
	ImageURL    string
	Ingredients []string
	Quantity    int
	Owner       string
	OwnerName   string
}

// UpdateFoodInput carries the mutable fields of a listing. Nil pointers leave
// the stored value untouched. The owner is not part of the input: it is
// immutable after creation.
type UpdateFoodInput struct {
	Name        *string
	Category    *string
	PriceCents  *int64
	Origin      *string
	Description *string
	ImageURL    *string
	Ingredients *[]string
	Quantity    *int
}

// ListFoodsInput carries raw, unvalidated sort parameters from the transport.
type ListFoodsInput struct {
	SortField string
	SortOrder string
}
