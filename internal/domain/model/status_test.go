package model_test

import (
	"testing"

	"bakery/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestTransitionOrderStatus_HappyPath(t *testing.T) {
	steps := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusProcessing,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
	}

	for i := 0; i < len(steps)-1; i++ {
		err := model.TransitionOrderStatus(steps[i], steps[i+1])
		assert.NoError(t, err, "%s -> %s should be allowed", steps[i], steps[i+1])
	}
}

func TestTransitionOrderStatus_CancelFromNonTerminal(t *testing.T) {
	for _, from := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusProcessing,
		model.OrderStatusOutForDelivery,
	} {
		assert.NoError(t, model.TransitionOrderStatus(from, model.OrderStatusCancelled))
	}
}

func TestTransitionOrderStatus_Illegal(t *testing.T) {
	cases := []struct {
		from, to model.OrderStatus
	}{
		{model.OrderStatusDelivered, model.OrderStatusPending},
		{model.OrderStatusDelivered, model.OrderStatusCancelled},
		{model.OrderStatusCancelled, model.OrderStatusConfirmed},
		{model.OrderStatusPending, model.OrderStatusDelivered},
		{model.OrderStatusProcessing, model.OrderStatusConfirmed},
		{model.OrderStatusPending, model.OrderStatus("unknown")},
	}

	for _, c := range cases {
		err := model.TransitionOrderStatus(c.from, c.to)
		assert.Error(t, err, "%s -> %s should be rejected", c.from, c.to)

		var invalid *model.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestTransitionDeliveryStatus(t *testing.T) {
	assert.NoError(t, model.TransitionDeliveryStatus(model.DeliveryStatusPending, model.DeliveryStatusAssigned))
	assert.NoError(t, model.TransitionDeliveryStatus(model.DeliveryStatusAssigned, model.DeliveryStatusPickedUp))
	assert.NoError(t, model.TransitionDeliveryStatus(model.DeliveryStatusPickedUp, model.DeliveryStatusInTransit))
	assert.NoError(t, model.TransitionDeliveryStatus(model.DeliveryStatusInTransit, model.DeliveryStatusDelivered))
	assert.NoError(t, model.TransitionDeliveryStatus(model.DeliveryStatusAssigned, model.DeliveryStatusCancelled))

	// delivered is terminal, skipping steps is not allowed
	assert.Error(t, model.TransitionDeliveryStatus(model.DeliveryStatusDelivered, model.DeliveryStatusPending))
	assert.Error(t, model.TransitionDeliveryStatus(model.DeliveryStatusPending, model.DeliveryStatusDelivered))
	assert.Error(t, model.TransitionDeliveryStatus(model.DeliveryStatusAssigned, model.DeliveryStatusInTransit))
}
