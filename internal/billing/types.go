// Package billing implements the charge aggregation for bookings: parsing
// the backend-encoded additional-charges string and computing the itemized
// invoice breakdown. Everything in this package is pure computation with no
// I/O; it is safe to call from any goroutine.
package billing

// BookingCharges carries the raw charge fields of one booking. Amounts are
// rupees with fractional paise allowed; rounding to whole rupees happens
// per component inside ComputeBreakdown.
type BookingCharges struct {
	Charges         float64 // base rental
	GST             float64 // tax on base rental
	DeliveryCharges float64
	LateFeeCharges  float64
	LateChargesKM   float64 // extra-km charge
	CouponAmount    float64 // discount
	AdvanceAmount   float64 // prepayment

	// Encoded extension/manual-charge entries as emitted by the backend.
	// Never written by this service.
	AdditionalChargesDetails string
}

// AdditionalCharge is one persisted ad-hoc charge line. These never accrue GST.
type AdditionalCharge struct {
	Type   string
	Amount float64
}

// ExtensionRecord is a trip extension parsed out of the encoded details string
type ExtensionRecord struct {
	FromDate    string
	ToDate      string
	BaseAmount  float64
	GSTAmount   float64 // 5% of base by backend convention
	TotalAmount float64 // base + gst, informational
}

// ManualChargeRecord is an operator-entered charge parsed out of the encoded
// details string. Not taxed.
type ManualChargeRecord struct {
	Name   string
	Amount float64
}

// LineItem is one display row of the breakdown
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// InvoiceBreakdown is the computed, never-persisted output of the aggregator.
// GrandTotal includes the advance amount and FinalAmountPayable deducts it in
// full; GrandTotal is a displayed intermediate with its own contract and must
// not be read as the amount still owed.
type InvoiceBreakdown struct {
	LineItems []LineItem `json:"line_items"`

	BaseRentalPrice    float64 `json:"base_rental_price"`
	BaseRentalGST      float64 `json:"base_rental_gst"`
	DeliveryCharges    float64 `json:"delivery_charges"`
	CouponDiscount     float64 `json:"coupon_discount"`
	LateFee            float64 `json:"late_fee"`
	ExtraKMCharges     float64 `json:"extra_km_charges"`
	AdvanceAmount      float64 `json:"advance_amount"`
	ExtensionBaseTotal float64 `json:"extension_base_total"`
	ExtensionGSTTotal  float64 `json:"extension_gst_total"`
	ManualChargesTotal float64 `json:"manual_charges_total"`

	// Sum of persisted additional-charge rows (challan, damage, …).
	// Untaxed, like manual charges.
	AdditionalChargesTotal float64 `json:"additional_charges_total"`

	SubtotalBeforeGST  float64 `json:"subtotal_before_gst"`
	TotalGSTAmount     float64 `json:"total_gst_amount"`
	GrandTotal         float64 `json:"grand_total"`
	FinalAmountPayable float64 `json:"final_amount_payable"`

	Extensions    []ExtensionRecord    `json:"extensions"`
	ManualCharges []ManualChargeRecord `json:"manual_charges"`
}
