package models

import (
	"time"

	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
)

// Order is the model for the 'orders' table. All amounts are integers in
// paise; formatting happens only at the presentation edge.
type Order struct {
	ID        int64              `json:"id" db:"id"`
	UserID    int64              `json:"userId" db:"user_id"`    // the customer
	PartnerID int64              `json:"partnerId" db:"partner_id"`
	Status    orderstatus.Status `json:"status" db:"status"`

	SubtotalPaise    int64 `json:"subtotal" db:"subtotal_paise"`
	AddOnsPaise      int64 `json:"addOnsTotal" db:"add_ons_paise"`
	DeliveryFeePaise int64 `json:"deliveryFee" db:"delivery_fee_paise"`
	PlatformFeePaise int64 `json:"platformFee" db:"platform_fee_paise"`
	GSTPaise         int64 `json:"gst" db:"gst_paise"`
	CommissionPaise  int64 `json:"-" db:"commission_paise"`
	TotalPaise       int64 `json:"total" db:"total_paise"`

	DistanceKm float64 `json:"distanceKm" db:"distance_km"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Tracking  *string   `json:"tracking,omitempty" db:"tracking"`
}

// OrderItem is the model for the 'order_items' table. Prices are snapshotted
// at purchase time so later tier edits never change a placed order.
//
// PreviewStatus is NULL for items that never required a preview; the
// orderstatus package treats the empty string the same way.
type OrderItem struct {
	ID             int64 `json:"id" db:"id"`
	OrderID        int64 `json:"orderId" db:"order_id"`
	ProductID      int64 `json:"productId" db:"product_id"`
	Quantity       int   `json:"quantity" db:"quantity"`
	UnitPricePaise int64 `json:"unitPrice" db:"unit_price_paise"`
	TotalPaise     int64 `json:"totalPrice" db:"total_paise"`
	AddOnsPaise    int64 `json:"addOnsTotal" db:"add_ons_paise"`

	CustomizationData string `json:"customizationData,omitempty" db:"customization_data"`

	PreviewStatus     *string    `json:"previewStatus,omitempty" db:"preview_status"`
	PreviewURL        *string    `json:"previewUrl,omitempty" db:"preview_url"`
	PreviewDeadline   *time.Time `json:"previewDeadline,omitempty" db:"preview_deadline"`
	PreviewApprovedAt *time.Time `json:"previewApprovedAt,omitempty" db:"preview_approved_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PreviewState maps the nullable database tag to the closed enumeration.
func (i OrderItem) PreviewState() orderstatus.PreviewStatus {
	if i.PreviewStatus == nil {
		return orderstatus.PreviewNone
	}
	return orderstatus.PreviewStatus(*i.PreviewStatus)
}
