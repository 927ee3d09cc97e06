package billing

import (
	"fmt"
	"math"
)

// roundRupees rounds to the nearest whole rupee, matching the backend
// convention. Every component is rounded independently before summation;
// the resulting ±1 drift versus rounding once at the end is deliberate and
// keeps totals bit-compatible with issued invoices.
func roundRupees(v float64) float64 {
	return math.Round(v)
}

// ComputeBreakdown produces the itemized breakdown and payable total for a
// booking. Pure: no I/O, no mutation of inputs. The encoded details string
// on b is parsed here and does not escape this package.
//
// The advance amount is added into GrandTotal and then deducted in full for
// FinalAmountPayable. The two terms do not algebraically cancel in the
// output contract: GrandTotal is the displayed gross booking value
// including the advance already received.
func ComputeBreakdown(b BookingCharges, charges []AdditionalCharge) InvoiceBreakdown {
	extensions, manualCharges := ParseChargeDetails(b.AdditionalChargesDetails)

	var extensionBase, extensionGST float64
	for _, ext := range extensions {
		extensionBase += ext.BaseAmount
		extensionGST += ext.GSTAmount
	}

	var manualTotal float64
	for _, mc := range manualCharges {
		manualTotal += mc.Amount
	}

	var additionalTotal float64
	for _, ac := range charges {
		additionalTotal += ac.Amount
	}

	bd := InvoiceBreakdown{
		BaseRentalPrice:        roundRupees(b.Charges),
		BaseRentalGST:          roundRupees(b.GST),
		DeliveryCharges:        roundRupees(b.DeliveryCharges),
		CouponDiscount:         roundRupees(b.CouponAmount),
		LateFee:                roundRupees(b.LateFeeCharges),
		ExtraKMCharges:         roundRupees(b.LateChargesKM),
		AdvanceAmount:          roundRupees(b.AdvanceAmount),
		ExtensionBaseTotal:     roundRupees(extensionBase),
		ExtensionGSTTotal:      roundRupees(extensionGST),
		ManualChargesTotal:     roundRupees(manualTotal),
		AdditionalChargesTotal: roundRupees(additionalTotal),
		Extensions:             extensions,
		ManualCharges:          manualCharges,
	}

	bd.SubtotalBeforeGST = bd.BaseRentalPrice + bd.DeliveryCharges + bd.LateFee +
		bd.ExtraKMCharges + bd.ExtensionBaseTotal + bd.ManualChargesTotal +
		bd.AdditionalChargesTotal - bd.CouponDiscount

	bd.TotalGSTAmount = bd.BaseRentalGST + bd.ExtensionGSTTotal

	bd.GrandTotal = bd.SubtotalBeforeGST + bd.TotalGSTAmount + bd.AdvanceAmount

	bd.FinalAmountPayable = math.Max(0, bd.GrandTotal-bd.AdvanceAmount)

	bd.LineItems = buildLineItems(bd, charges)

	return bd
}

// buildLineItems renders the ordered display rows. Zero-amount optional rows
// are omitted; the base rental row always appears.
func buildLineItems(bd InvoiceBreakdown, charges []AdditionalCharge) []LineItem {
	items := []LineItem{
		{Label: "Base Rental", Amount: bd.BaseRentalPrice},
	}

	if bd.DeliveryCharges != 0 {
		items = append(items, LineItem{Label: "Delivery Charges", Amount: bd.DeliveryCharges})
	}
	if bd.LateFee != 0 {
		items = append(items, LineItem{Label: "Late Fee", Amount: bd.LateFee})
	}
	if bd.ExtraKMCharges != 0 {
		items = append(items, LineItem{Label: "Extra KM Charges", Amount: bd.ExtraKMCharges})
	}

	for _, ext := range bd.Extensions {
		items = append(items, LineItem{
			Label:  fmt.Sprintf("Trip Extension %s -> %s", ext.FromDate, ext.ToDate),
			Amount: roundRupees(ext.BaseAmount),
		})
	}

	for _, mc := range bd.ManualCharges {
		items = append(items, LineItem{Label: mc.Name, Amount: roundRupees(mc.Amount)})
	}

	for _, ac := range charges {
		items = append(items, LineItem{Label: ac.Type, Amount: roundRupees(ac.Amount)})
	}

	if bd.CouponDiscount != 0 {
		items = append(items, LineItem{Label: "Coupon Discount", Amount: -bd.CouponDiscount})
	}

	items = append(items, LineItem{Label: "GST", Amount: bd.TotalGSTAmount})

	if bd.AdvanceAmount != 0 {
		items = append(items, LineItem{Label: "Advance Received", Amount: bd.AdvanceAmount})
	}

	return items
}
