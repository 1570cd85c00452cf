package orderstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionPreview(t *testing.T) {
	t.Run("upload, review, approve", func(t *testing.T) {
		assert.True(t, CanTransitionPreview(PreviewPending, PreviewReady))
		assert.True(t, CanTransitionPreview(PreviewReady, PreviewApproved))
		assert.True(t, CanTransitionPreview(PreviewReady, PreviewRevisionRequested))
		assert.True(t, CanTransitionPreview(PreviewRevisionRequested, PreviewReady))
	})

	t.Run("approval is terminal", func(t *testing.T) {
		assert.False(t, CanTransitionPreview(PreviewApproved, PreviewReady))
		assert.False(t, CanTransitionPreview(PreviewApproved, PreviewRevisionRequested))
	})

	t.Run("no skipping review", func(t *testing.T) {
		assert.False(t, CanTransitionPreview(PreviewPending, PreviewApproved))
		assert.False(t, CanTransitionPreview(PreviewPending, PreviewRevisionRequested))
		assert.False(t, CanTransitionPreview(PreviewRevisionRequested, PreviewApproved))
	})

	t.Run("items without a preview have no moves", func(t *testing.T) {
		assert.False(t, CanTransitionPreview(PreviewNone, PreviewReady))
		assert.False(t, CanTransitionPreview(PreviewNone, PreviewApproved))
	})
}

func TestValidatePreviewTransition(t *testing.T) {
	assert.NoError(t, ValidatePreviewTransition(PreviewReady, PreviewApproved))

	err := ValidatePreviewTransition(PreviewPending, PreviewApproved)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestIsResolved(t *testing.T) {
	assert.True(t, PreviewNone.IsResolved())
	assert.True(t, PreviewApproved.IsResolved())
	assert.False(t, PreviewPending.IsResolved())
	assert.False(t, PreviewReady.IsResolved())
	assert.False(t, PreviewRevisionRequested.IsResolved())
}

func TestCanAcceptOrder(t *testing.T) {
	for _, tc := range []struct {
		name     string
		statuses []PreviewStatus
		want     bool
	}{
		{"empty order", nil, true},
		{"no items need previews", []PreviewStatus{PreviewNone, PreviewNone}, true},
		{"all previews approved", []PreviewStatus{PreviewApproved, PreviewApproved}, true},
		{"mixed plain and approved", []PreviewStatus{PreviewNone, PreviewApproved}, true},
		{"one preview still pending", []PreviewStatus{PreviewApproved, PreviewPending}, false},
		{"one awaiting customer review", []PreviewStatus{PreviewNone, PreviewReady}, false},
		{"revision in flight", []PreviewStatus{PreviewApproved, PreviewRevisionRequested}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAcceptOrder(tc.statuses))
		})
	}
}

func TestGetPreviewBadge(t *testing.T) {
	assert.Equal(t, PreviewBadge{Label: "Preview Pending", Severity: "warning"}, GetPreviewBadge(PreviewPending))
	assert.Equal(t, PreviewBadge{Label: "Under Review", Severity: "info"}, GetPreviewBadge(PreviewReady))
	assert.Equal(t, PreviewBadge{Label: "Approved", Severity: "success"}, GetPreviewBadge(PreviewApproved))
	assert.Equal(t, PreviewBadge{Label: "Revision", Severity: "warning"}, GetPreviewBadge(PreviewRevisionRequested))

	// No badge for items that never needed a preview.
	assert.Equal(t, PreviewBadge{}, GetPreviewBadge(PreviewNone))
}
