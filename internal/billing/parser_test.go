package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChargeDetailsEmpty(t *testing.T) {
	ext, manual := ParseChargeDetails("")
	assert.Empty(t, ext)
	assert.Empty(t, manual)

	ext, manual = ParseChargeDetails("   ")
	assert.Empty(t, ext)
	assert.Empty(t, manual)
}

func TestParseChargeDetailsSampleRoundTrip(t *testing.T) {
	// Backend-emitted sample: one extension, one manual charge plus a
	// pre-computed total line that must be discarded.
	input := "Extend Trip 01 Jan 2025 -> 05 Jan 2025: base=500.00, gst(5%)=25.00, total=525.00 | Manual charges: Helmet=100, Total=100"

	ext, manual := ParseChargeDetails(input)

	require.Len(t, ext, 1)
	assert.Equal(t, "01 Jan 2025", ext[0].FromDate)
	assert.Equal(t, "05 Jan 2025", ext[0].ToDate)
	assert.Equal(t, 500.0, ext[0].BaseAmount)
	assert.Equal(t, 25.0, ext[0].GSTAmount)
	assert.Equal(t, 525.0, ext[0].TotalAmount)

	require.Len(t, manual, 1)
	assert.Equal(t, "Helmet", manual[0].Name)
	assert.Equal(t, 100.0, manual[0].Amount)
}

func TestParseChargeDetailsTotalPairDiscarded(t *testing.T) {
	// "Total", "total", "TOTAL Amount" are all summary artifacts.
	input := "Manual charges: Helmet=100, total=100, TOTAL Amount=100, Fuel=50"

	ext, manual := ParseChargeDetails(input)

	assert.Empty(t, ext)
	require.Len(t, manual, 2)
	assert.Equal(t, "Helmet", manual[0].Name)
	assert.Equal(t, "Fuel", manual[1].Name)
}

func TestParseChargeDetailsExtensionArithmetic(t *testing.T) {
	input := "Extend Trip 10 Feb 2025 -> 12 Feb 2025: base=333.33, gst(5%)=16.67, total=350.00"

	ext, _ := ParseChargeDetails(input)

	require.Len(t, ext, 1)
	assert.InDelta(t, ext[0].TotalAmount, ext[0].BaseAmount+ext[0].GSTAmount, 1.0)
}

func TestParseChargeDetailsMalformedNumericSkipsEntry(t *testing.T) {
	// Bad base amount in the first extension must not abort the parse of
	// the second one.
	input := "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=abc, gst(5%)=25.00, total=525.00" +
		" | Extend Trip 03 Jan 2025 -> 04 Jan 2025: base=200.00, gst(5%)=10.00, total=210.00"

	ext, manual := ParseChargeDetails(input)

	require.Len(t, ext, 1)
	assert.Equal(t, 200.0, ext[0].BaseAmount)
	assert.Empty(t, manual)
}

func TestParseChargeDetailsUnrecognizedEntriesIgnored(t *testing.T) {
	input := "Refund processed on 02 Jan | Manual charges: Damage=700 | operator note"

	ext, manual := ParseChargeDetails(input)

	assert.Empty(t, ext)
	require.Len(t, manual, 1)
	assert.Equal(t, "Damage", manual[0].Name)
	assert.Equal(t, 700.0, manual[0].Amount)
}

func TestParseChargeDetailsMalformedManualPair(t *testing.T) {
	input := "Manual charges: Helmet=100, brokenpair, Fuel=nan, =50, Damage=250"

	_, manual := ParseChargeDetails(input)

	require.Len(t, manual, 2)
	assert.Equal(t, "Helmet", manual[0].Name)
	assert.Equal(t, "Damage", manual[1].Name)
}

func TestParseChargeDetailsNonFiniteAmountsSkipped(t *testing.T) {
	// ParseFloat parses "nan", "inf" and "infinity" without error; a pair
	// carrying one must be dropped like any other malformed amount.
	input := "Manual charges: Helmet=100, Fuel=nan, Damage=inf, Challan=-inf, Cleaning=infinity, Battery=250"

	ext, manual := ParseChargeDetails(input)

	assert.Empty(t, ext)
	require.Len(t, manual, 2)
	assert.Equal(t, "Helmet", manual[0].Name)
	assert.Equal(t, "Battery", manual[1].Name)
}

func TestParseChargeDetailsMultipleExtensions(t *testing.T) {
	input := "Extend Trip 01 Jan 2025 -> 02 Jan 2025: base=100.00, gst(5%)=5.00, total=105.00" +
		" | Extend Trip 02 Jan 2025 -> 03 Jan 2025: base=150.00, gst(5%)=7.50, total=157.50" +
		" | Manual charges: Challan=500"

	ext, manual := ParseChargeDetails(input)

	require.Len(t, ext, 2)
	assert.Equal(t, 100.0, ext[0].BaseAmount)
	assert.Equal(t, 150.0, ext[1].BaseAmount)
	require.Len(t, manual, 1)
}
