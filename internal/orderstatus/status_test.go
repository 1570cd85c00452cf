package orderstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := Parse("in_production")
	require.NoError(t, err)
	assert.Equal(t, StatusInProduction, s)

	_, err = Parse("shipped") // not part of the lifecycle
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCanTransition(t *testing.T) {
	t.Run("happy path through the lifecycle", func(t *testing.T) {
		path := []Status{
			StatusPlaced, StatusConfirmed, StatusPreviewPending, StatusPreviewReady,
			StatusPreviewApproved, StatusInProduction, StatusProductionComplete,
			StatusReadyForPickup, StatusPickedUp, StatusOutForDelivery, StatusDelivered,
		}
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
		}
	})

	t.Run("non-preview orders skip straight to production", func(t *testing.T) {
		assert.True(t, CanTransition(StatusConfirmed, StatusInProduction))
	})

	t.Run("revision loops back through preview", func(t *testing.T) {
		assert.True(t, CanTransition(StatusPreviewReady, StatusRevisionRequested))
		assert.True(t, CanTransition(StatusRevisionRequested, StatusPreviewPending))
		assert.True(t, CanTransition(StatusPreviewPending, StatusPreviewReady))
	})

	t.Run("return flow", func(t *testing.T) {
		assert.True(t, CanTransition(StatusDelivered, StatusReturnRequested))
		assert.True(t, CanTransition(StatusReturnRequested, StatusDelivered)) // return withdrawn
		assert.True(t, CanTransition(StatusReturnRequested, StatusReturnPickedUp))
		assert.True(t, CanTransition(StatusReturnPickedUp, StatusReturned))
		assert.True(t, CanTransition(StatusReturned, StatusRefunded))
	})

	t.Run("illegal moves", func(t *testing.T) {
		assert.False(t, CanTransition(StatusPlaced, StatusDelivered))
		assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
		assert.False(t, CanTransition(StatusPickedUp, StatusCancelled)) // too late to cancel
		assert.False(t, CanTransition(StatusRefunded, StatusPlaced))   // terminal
		assert.False(t, CanTransition(StatusInProduction, StatusPreviewPending))
	})
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(StatusPlaced, StatusConfirmed))

	err := ValidateTransition(StatusDelivered, StatusInProduction)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "delivered")
	assert.Contains(t, err.Error(), "in_production")
}

func TestGetDisplay(t *testing.T) {
	t.Run("internal preview states collapse for customers", func(t *testing.T) {
		assert.Equal(t, "In production", GetDisplay(StatusPreviewApproved).Label)
		assert.Equal(t, "In production", GetDisplay(StatusRevisionRequested).Label)
	})

	t.Run("every status has a display entry", func(t *testing.T) {
		for s := range transitions {
			d := GetDisplay(s)
			assert.NotEmpty(t, d.Label, "status %s", s)
			assert.NotEmpty(t, d.Color, "status %s", s)
		}
	})

	t.Run("unknown tags fall back gracefully", func(t *testing.T) {
		d := GetDisplay(Status("legacy_state"))
		assert.Equal(t, "legacy_state", d.Label)
		assert.Equal(t, "gray", d.Color)
	})
}
