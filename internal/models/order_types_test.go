package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
)

func TestOrderItemPreviewState(t *testing.T) {
	plain := OrderItem{PreviewStatus: nil}
	assert.Equal(t, orderstatus.PreviewNone, plain.PreviewState())
	assert.True(t, plain.PreviewState().IsResolved())

	pending := "pending"
	customized := OrderItem{PreviewStatus: &pending}
	assert.Equal(t, orderstatus.PreviewPending, customized.PreviewState())
	assert.False(t, customized.PreviewState().IsResolved())
}
