package billing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBreakdownEndToEnd(t *testing.T) {
	b := BookingCharges{
		Charges:         1000,
		GST:             50,
		DeliveryCharges: 100,
		LateFeeCharges:  0,
		LateChargesKM:   0,
		CouponAmount:    200,
		AdvanceAmount:   300,
	}

	bd := ComputeBreakdown(b, nil)

	assert.Equal(t, 900.0, bd.SubtotalBeforeGST)
	assert.Equal(t, 50.0, bd.TotalGSTAmount)
	assert.Equal(t, 1250.0, bd.GrandTotal)
	assert.Equal(t, 950.0, bd.FinalAmountPayable)
}

func TestComputeBreakdownComponentsAreWholeRupees(t *testing.T) {
	b := BookingCharges{
		Charges:         999.49,
		GST:             49.975,
		DeliveryCharges: 100.5,
		LateFeeCharges:  33.33,
		LateChargesKM:   12.12,
		CouponAmount:    150.75,
		AdvanceAmount:   299.99,
		AdditionalChargesDetails: "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=166.66, gst(5%)=8.33, total=174.99" +
			" | Manual charges: Helmet=99.49",
	}
	charges := []AdditionalCharge{{Type: "Damage", Amount: 700.51}}

	bd := ComputeBreakdown(b, charges)

	components := map[string]float64{
		"base_rental":        bd.BaseRentalPrice,
		"base_gst":           bd.BaseRentalGST,
		"delivery":           bd.DeliveryCharges,
		"coupon":             bd.CouponDiscount,
		"late_fee":           bd.LateFee,
		"extra_km":           bd.ExtraKMCharges,
		"advance":            bd.AdvanceAmount,
		"extension_base":     bd.ExtensionBaseTotal,
		"extension_gst":      bd.ExtensionGSTTotal,
		"manual_charges":     bd.ManualChargesTotal,
		"additional_charges": bd.AdditionalChargesTotal,
	}
	for name, v := range components {
		assert.Equal(t, math.Trunc(v), v, "%s must be a whole rupee amount", name)
	}
}

func TestComputeBreakdownNonNegativePayable(t *testing.T) {
	// Coupon far exceeds the gross charges: payable clamps at zero.
	b := BookingCharges{
		Charges:       100,
		GST:           5,
		CouponAmount:  10000,
		AdvanceAmount: 50,
	}

	bd := ComputeBreakdown(b, nil)

	assert.GreaterOrEqual(t, bd.FinalAmountPayable, 0.0)
	assert.Equal(t, 0.0, bd.FinalAmountPayable)
}

func TestComputeBreakdownAdvanceInGrandTotal(t *testing.T) {
	// The advance is shown inside the gross total and then deducted in
	// full. Both figures are part of the output contract.
	b := BookingCharges{Charges: 500, GST: 25, AdvanceAmount: 200}

	bd := ComputeBreakdown(b, nil)

	assert.Equal(t, 725.0, bd.GrandTotal)
	assert.Equal(t, 525.0, bd.FinalAmountPayable)
}

func TestComputeBreakdownManualChargesNotTaxed(t *testing.T) {
	base := BookingCharges{
		Charges: 1000,
		GST:     50,
		AdditionalChargesDetails: "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=200.00, gst(5%)=10.00, total=210.00" +
			" | Manual charges: Helmet=100",
	}
	bumped := base
	bumped.AdditionalChargesDetails = "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=200.00, gst(5%)=10.00, total=210.00" +
		" | Manual charges: Helmet=5000"

	a := ComputeBreakdown(base, nil)
	b := ComputeBreakdown(bumped, nil)

	assert.Equal(t, a.TotalGSTAmount, b.TotalGSTAmount)
	assert.Equal(t, b.SubtotalBeforeGST-a.SubtotalBeforeGST, 4900.0)
}

func TestComputeBreakdownPersistedChargesNotTaxed(t *testing.T) {
	b := BookingCharges{Charges: 1000, GST: 50}

	without := ComputeBreakdown(b, nil)
	with := ComputeBreakdown(b, []AdditionalCharge{
		{Type: "Challan", Amount: 500},
		{Type: "Damage", Amount: 1200},
	})

	assert.Equal(t, without.TotalGSTAmount, with.TotalGSTAmount)
	assert.Equal(t, 1700.0, with.AdditionalChargesTotal)
	assert.Equal(t, without.SubtotalBeforeGST+1700, with.SubtotalBeforeGST)
}

func TestComputeBreakdownExtensionTotals(t *testing.T) {
	b := BookingCharges{
		AdditionalChargesDetails: "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=100.00, gst(5%)=5.00, total=105.00" +
			" | Extend Trip 02 Jan 2025 -> 03 Jan 2025: base=150.00, gst(5%)=7.50, total=157.50",
	}

	bd := ComputeBreakdown(b, nil)

	assert.Equal(t, 250.0, bd.ExtensionBaseTotal)
	// 5.00 + 7.50 rounds to 13 as a single component
	assert.Equal(t, 13.0, bd.ExtensionGSTTotal)
	assert.Equal(t, 13.0, bd.TotalGSTAmount)
	for _, ext := range bd.Extensions {
		assert.InDelta(t, ext.TotalAmount, ext.BaseAmount+ext.GSTAmount, 1.0)
	}
}

func TestComputeBreakdownPerComponentRounding(t *testing.T) {
	// Components are rounded before summation, so the subtotal may drift
	// from the unrounded sum by up to one rupee per component.
	b := BookingCharges{
		Charges:         100.4, // rounds to 100
		DeliveryCharges: 100.4, // rounds to 100
	}

	bd := ComputeBreakdown(b, nil)

	assert.Equal(t, 200.0, bd.SubtotalBeforeGST)
}

func TestComputeBreakdownLineItemOrder(t *testing.T) {
	b := BookingCharges{
		Charges:                  1000,
		GST:                      50,
		DeliveryCharges:          100,
		CouponAmount:             200,
		AdvanceAmount:            300,
		AdditionalChargesDetails: "Manual charges: Helmet=100",
	}

	bd := ComputeBreakdown(b, []AdditionalCharge{{Type: "Challan", Amount: 500}})

	labels := make([]string, 0, len(bd.LineItems))
	for _, item := range bd.LineItems {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{
		"Base Rental",
		"Delivery Charges",
		"Helmet",
		"Challan",
		"Coupon Discount",
		"GST",
		"Advance Received",
	}, labels)

	// Coupon renders as a negative row
	for _, item := range bd.LineItems {
		if item.Label == "Coupon Discount" {
			assert.Equal(t, -200.0, item.Amount)
		}
	}
}

func TestComputeBreakdownNonFiniteManualAmountsDropped(t *testing.T) {
	// Non-finite pairs in the details string are parse noise; every total
	// stays finite and the breakdown still encodes to JSON.
	b := BookingCharges{
		Charges:                  1000,
		GST:                      50,
		AdvanceAmount:            300,
		AdditionalChargesDetails: "Manual charges: Helmet=100, Fuel=nan, Damage=inf",
	}

	bd := ComputeBreakdown(b, nil)

	assert.Equal(t, 100.0, bd.ManualChargesTotal)
	assert.Equal(t, 1100.0, bd.SubtotalBeforeGST)
	assert.Equal(t, 1150.0, bd.FinalAmountPayable)
	assert.False(t, math.IsNaN(bd.GrandTotal))
	assert.False(t, math.IsInf(bd.GrandTotal, 0))

	_, err := json.Marshal(bd)
	assert.NoError(t, err)
}

func TestComputeBreakdownZeroBooking(t *testing.T) {
	bd := ComputeBreakdown(BookingCharges{}, nil)

	assert.Equal(t, 0.0, bd.SubtotalBeforeGST)
	assert.Equal(t, 0.0, bd.GrandTotal)
	assert.Equal(t, 0.0, bd.FinalAmountPayable)
	assert.Empty(t, bd.Extensions)
	assert.Empty(t, bd.ManualCharges)
}
