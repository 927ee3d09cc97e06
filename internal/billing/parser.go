package billing

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// entryDelimiter separates entries in the encoded details string. The
// surrounding spaces are part of the wire format.
const entryDelimiter = " | "

// Extension entries look like:
//
//	Extend Trip 01 Jan 2025 -> 05 Jan 2025: base=500.00, gst(5%)=25.00, total=525.00
var extensionPattern = regexp.MustCompile(`^Extend Trip (.+) -> (.+): base=([0-9.]+), gst\(5%\)=([0-9.]+), total=([0-9.]+)$`)

// Manual entries look like:
//
//	Manual charges: Helmet=100, Fuel=250.50, Total=350.50
const manualPrefix = "Manual charges:"

// ParseChargeDetails decodes the backend-encoded additional-charges string
// into extension and manual-charge records. The format is a backend wire
// contract; this service only ever reads it. The parse fails soft: an entry
// that matches neither pattern is ignored, and a malformed numeric field
// skips only the entry carrying it.
func ParseChargeDetails(details string) ([]ExtensionRecord, []ManualChargeRecord) {
	var extensions []ExtensionRecord
	var manual []ManualChargeRecord

	details = strings.TrimSpace(details)
	if details == "" {
		return extensions, manual
	}

	for _, entry := range strings.Split(details, entryDelimiter) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if m := extensionPattern.FindStringSubmatch(entry); m != nil {
			ext, ok := parseExtension(m)
			if !ok {
				slog.Warn("skipping malformed extension entry", "entry", entry)
				continue
			}
			extensions = append(extensions, ext)
			continue
		}

		if rest, ok := strings.CutPrefix(entry, manualPrefix); ok {
			manual = append(manual, parseManualCharges(rest)...)
			continue
		}

		// Unrecognized entries are display artifacts; not ours to interpret.
	}

	return extensions, manual
}

func parseExtension(m []string) (ExtensionRecord, bool) {
	base, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return ExtensionRecord{}, false
	}
	gst, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return ExtensionRecord{}, false
	}
	total, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return ExtensionRecord{}, false
	}

	return ExtensionRecord{
		FromDate:    strings.TrimSpace(m[1]),
		ToDate:      strings.TrimSpace(m[2]),
		BaseAmount:  base,
		GSTAmount:   gst,
		TotalAmount: total,
	}, true
}

// parseManualCharges splits a "name=amount, name=amount" list. Pairs whose
// name starts with "total" (any case) are pre-computed summary artifacts
// emitted by the backend, not real charge lines, and are discarded.
func parseManualCharges(list string) []ManualChargeRecord {
	var records []ManualChargeRecord

	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, amountStr, ok := strings.Cut(pair, "=")
		if !ok {
			slog.Warn("skipping malformed manual charge pair", "pair", pair)
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(strings.ToLower(name), "total") {
			continue
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			// ParseFloat accepts "nan" and "inf"; a non-finite amount would
			// poison every downstream total, so it counts as malformed.
			slog.Warn("skipping manual charge with malformed amount", "pair", pair)
			continue
		}

		records = append(records, ManualChargeRecord{Name: name, Amount: amount})
	}

	return records
}
