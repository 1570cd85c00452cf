// Package orderstatus models the order lifecycle as a closed enumeration with
// an exhaustive transition table, and classifies per-item preview approval
// for the partner acceptance gate.
package orderstatus

import (
	"errors"
	"fmt"
)

// Status is an internal order status tag as persisted on the orders table.
type Status string

const (
	StatusPlaced             Status = "placed"
	StatusConfirmed          Status = "confirmed"
	StatusPreviewPending     Status = "preview_pending"
	StatusPreviewReady       Status = "preview_ready"
	StatusPreviewApproved    Status = "preview_approved"
	StatusRevisionRequested  Status = "revision_requested"
	StatusInProduction       Status = "in_production"
	StatusProductionComplete Status = "production_complete"
	StatusReadyForPickup     Status = "ready_for_pickup"
	StatusPickedUp           Status = "picked_up"
	StatusOutForDelivery     Status = "out_for_delivery"
	StatusDeliveryAttempted  Status = "delivery_attempted"
	StatusDelivered          Status = "delivered"
	StatusCancelled          Status = "cancelled"
	StatusReturnRequested    Status = "return_requested"
	StatusReturnPickedUp     Status = "return_picked_up"
	StatusReturned           Status = "returned"
	StatusRefunded           Status = "refunded"
)

// ErrInvalidTransition is wrapped by ValidateTransition for illegal moves.
var ErrInvalidTransition = errors.New("orderstatus: invalid status transition")

// ErrUnknownStatus is returned when a tag read from the database is not part
// of the enumeration.
var ErrUnknownStatus = errors.New("orderstatus: unknown status")

// transitions is the exhaustive table of legal moves. A status absent from a
// target list cannot be reached from that source, full stop.
var transitions = map[Status][]Status{
	StatusPlaced:             {StatusConfirmed, StatusCancelled},
	StatusConfirmed:          {StatusPreviewPending, StatusInProduction, StatusCancelled},
	StatusPreviewPending:     {StatusPreviewReady, StatusCancelled},
	StatusPreviewReady:       {StatusPreviewApproved, StatusRevisionRequested, StatusCancelled},
	StatusRevisionRequested:  {StatusPreviewPending, StatusCancelled},
	StatusPreviewApproved:    {StatusInProduction, StatusCancelled},
	StatusInProduction:       {StatusProductionComplete, StatusCancelled},
	StatusProductionComplete: {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:     {StatusPickedUp, StatusCancelled},
	StatusPickedUp:           {StatusOutForDelivery},
	StatusOutForDelivery:     {StatusDeliveryAttempted, StatusDelivered},
	StatusDeliveryAttempted:  {StatusOutForDelivery, StatusCancelled},
	StatusDelivered:          {StatusReturnRequested},
	StatusCancelled:          {StatusRefunded},
	StatusReturnRequested:    {StatusReturnPickedUp, StatusDelivered},
	StatusReturnPickedUp:     {StatusReturned},
	StatusReturned:           {StatusRefunded},
	StatusRefunded:           {},
}

// Parse checks a raw tag against the enumeration.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal move.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Display is the customer-facing rendering of a status.
type Display struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// displayMap collapses internal statuses to the simplified customer view
// (a customer sees "In production", not "revision_requested").
var displayMap = map[Status]Display{
	StatusPlaced:             {Label: "Order placed", Color: "blue"},
	StatusConfirmed:          {Label: "Order confirmed", Color: "blue"},
	StatusPreviewPending:     {Label: "Awaiting preview", Color: "orange"},
	StatusPreviewReady:       {Label: "Preview ready", Color: "orange"},
	StatusPreviewApproved:    {Label: "In production", Color: "blue"},
	StatusRevisionRequested:  {Label: "In production", Color: "blue"},
	StatusInProduction:       {Label: "In production", Color: "blue"},
	StatusProductionComplete: {Label: "Out for delivery", Color: "green"},
	StatusReadyForPickup:     {Label: "Out for delivery", Color: "green"},
	StatusPickedUp:           {Label: "Out for delivery", Color: "green"},
	StatusOutForDelivery:     {Label: "Out for delivery", Color: "green"},
	StatusDeliveryAttempted:  {Label: "Out for delivery", Color: "orange"},
	StatusDelivered:          {Label: "Delivered", Color: "green"},
	StatusCancelled:          {Label: "Cancelled", Color: "red"},
	StatusReturnRequested:    {Label: "Return requested", Color: "orange"},
	StatusReturnPickedUp:     {Label: "Return in progress", Color: "orange"},
	StatusReturned:           {Label: "Returned", Color: "gray"},
	StatusRefunded:           {Label: "Refunded", Color: "gray"},
}

// GetDisplay returns the customer-facing label for a status, with a neutral
// fallback for tags written before the enumeration was introduced.
func GetDisplay(s Status) Display {
	if d, ok := displayMap[s]; ok {
		return d
	}
	return Display{Label: string(s), Color: "gray"}
}
