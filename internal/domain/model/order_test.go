package model_test

import (
	"testing"

	"bakery/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeItemsPrice_Exact(t *testing.T) {
	items := []model.OrderItem{
		{Name: "chocolate cake", UnitPrice: 100, Quantity: 2},
		{Name: "croissant", UnitPrice: 50, Quantity: 1},
	}

	// integer currency units, no drift across recomputation
	for i := 0; i < 3; i++ {
		assert.Equal(t, int64(250), model.ComputeItemsPrice(items))
	}
}

func TestValidateAmounts(t *testing.T) {
	items := []model.OrderItem{
		{Name: "chocolate cake", UnitPrice: 100, Quantity: 2},
		{Name: "croissant", UnitPrice: 50, Quantity: 1},
	}

	o := model.Order{
		Items:      items,
		ItemsPrice: 250,
		TotalPrice: 250,
	}
	assert.NoError(t, o.ValidateAmounts())

	o.TotalPrice = 260
	assert.ErrorIs(t, o.ValidateAmounts(), model.ErrTotalMismatch)

	o = model.Order{
		Items:         items,
		ItemsPrice:    250,
		ShippingPrice: 40,
		TaxPrice:      10,
		Discount:      25,
		TotalPrice:    275,
	}
	assert.NoError(t, o.ValidateAmounts())

	o.Items = nil
	assert.ErrorIs(t, o.ValidateAmounts(), model.ErrNoItems)

	o.Items = []model.OrderItem{{Name: "bad", UnitPrice: 10, Quantity: 0}}
	assert.ErrorIs(t, o.ValidateAmounts(), model.ErrBadItem)
}

func TestEffectiveDeliveryFee(t *testing.T) {
	o := model.Order{DeliveryFee: 80}
	assert.Equal(t, int64(80), o.EffectiveDeliveryFee(model.DefaultDeliveryFee))

	o = model.Order{}
	assert.Equal(t, model.DefaultDeliveryFee, o.EffectiveDeliveryFee(model.DefaultDeliveryFee))
}
