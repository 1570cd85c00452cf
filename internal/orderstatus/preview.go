package orderstatus

import "fmt"

//
// --- Per-item preview approval ---
//
// Customized items carry a preview (proof) the customer must approve before
// production starts. Items without customization never enter the preview
// flow and carry no preview status at all.
//

// PreviewStatus is the preview lifecycle tag on an order item. The zero
// value PreviewNone means the item never required a preview.
type PreviewStatus string

const (
	PreviewNone              PreviewStatus = ""
	PreviewPending           PreviewStatus = "pending"
	PreviewReady             PreviewStatus = "preview_ready"
	PreviewApproved          PreviewStatus = "preview_approved"
	PreviewRevisionRequested PreviewStatus = "revision_requested"
)

// previewTransitions is the per-item lifecycle: partner uploads a proof
// (pending → preview_ready), the customer approves it or sends it back, and
// a rejected proof loops through re-upload. Revisions are unbounded.
var previewTransitions = map[PreviewStatus][]PreviewStatus{
	PreviewPending:           {PreviewReady},
	PreviewReady:             {PreviewApproved, PreviewRevisionRequested},
	PreviewRevisionRequested: {PreviewReady},
	PreviewApproved:          {},
}

// CanTransitionPreview reports whether from -> to is a legal preview move.
func CanTransitionPreview(from, to PreviewStatus) bool {
	for _, next := range previewTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidatePreviewTransition returns a descriptive error for an illegal move.
func ValidatePreviewTransition(from, to PreviewStatus) error {
	if !CanTransitionPreview(from, to) {
		return fmt.Errorf("%w: preview %s → %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsResolved reports whether a preview status no longer blocks acceptance.
func (s PreviewStatus) IsResolved() bool {
	return s == PreviewNone || s == PreviewApproved
}

// CanAcceptOrder reports whether a partner may accept an order: every item
// that required a preview must have reached preview_approved. Items with no
// preview requirement never block.
func CanAcceptOrder(statuses []PreviewStatus) bool {
	for _, s := range statuses {
		if !s.IsResolved() {
			return false
		}
	}
	return true
}

// PreviewBadge is the partner-dashboard rendering of a preview status.
type PreviewBadge struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

var previewBadges = map[PreviewStatus]PreviewBadge{
	PreviewPending:           {Label: "Preview Pending", Severity: "warning"},
	PreviewReady:             {Label: "Under Review", Severity: "info"},
	PreviewApproved:          {Label: "Approved", Severity: "success"},
	PreviewRevisionRequested: {Label: "Revision", Severity: "warning"},
}

// GetPreviewBadge returns the badge for a preview status. PreviewNone yields
// an empty badge: items without customization show nothing.
func GetPreviewBadge(s PreviewStatus) PreviewBadge {
	return previewBadges[s]
}
