package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecount_DerivesCountersFromItems(t *testing.T) {
	list := &ShoppingList{
		// Deliberately wrong counters; Recount must not trust them.
		TotalItems:     99,
		CompletedItems: 99,
		Items: []Item{
			{ID: "1", Name: "Leite", Completed: true},
			{ID: "2", Name: "Arroz"},
			{ID: "3", Name: "Feijão", Completed: true},
		},
	}

	list.Recount()
	assert.Equal(t, 3, list.TotalItems)
	assert.Equal(t, 2, list.CompletedItems)

	list.Items = nil
	list.Recount()
	assert.Equal(t, 0, list.TotalItems)
	assert.Equal(t, 0, list.CompletedItems)
}

func TestCanRead_OwnerAndSharedOnly(t *testing.T) {
	list := &ShoppingList{OwnerID: "alice", SharedWith: []string{"bob"}}

	assert.True(t, list.CanRead("alice"))
	assert.True(t, list.CanRead("bob"))
	assert.False(t, list.CanRead("mallory"))
}

func TestLowStock_InclusiveThreshold(t *testing.T) {
	p := &Product{Quantity: 2, MinQuantity: 2}
	assert.True(t, p.LowStock())

	p.Quantity = 2.5
	assert.False(t, p.LowStock())

	p.Quantity = 0
	assert.True(t, p.LowStock())
}
