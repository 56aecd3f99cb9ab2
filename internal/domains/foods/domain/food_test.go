package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFood_Defaults(t *testing.T) {
	food, err := NewFood("Ramen", 1250, 5, "a@x.com", "Aki")
	require.NoError(t, err)
	require.Equal(t, "Ramen", food.Name)
	require.Equal(t, int64(0), food.PurchaseCount)
	require.Equal(t, 5, food.Quantity)
	require.Equal(t, "a@x.com", food.Owner)
}

func TestNewFood_Invariants(t *testing.T) {
	_, err := NewFood("  ", 100, 1, "a@x.com", "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewFood("Ramen", -1, 1, "a@x.com", "")
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewFood("Ramen", 100, -1, "a@x.com", "")
	require.ErrorIs(t, err, ErrNegativeQuantity)

	_, err = NewFood("Ramen", 100, 1, "nobody", "")
	require.ErrorIs(t, err, ErrInvalidOwner)
}

func TestUpdateQuantity_RejectsNegative(t *testing.T) {
	food, err := NewFood("Ramen", 1250, 5, "a@x.com", "")
	require.NoError(t, err)

	require.ErrorIs(t, food.UpdateQuantity(-3), ErrNegativeQuantity)
	require.Equal(t, 5, food.Quantity)
	require.NoError(t, food.UpdateQuantity(0))
}

func TestUpdateDetails_CopiesIngredients(t *testing.T) {
	food, err := NewFood("Ramen", 1250, 5, "a@x.com", "")
	require.NoError(t, err)

	ingredients := []string{"noodles", "broth"}
	food.UpdateDetails("Japanese", "Tokyo", "rich broth", "", ingredients)
	ingredients[0] = "mutated"
	require.Equal(t, "noodles", food.Ingredients[0])
}
