// Package pricing computes booking charges. The same constants are used by
// the booking client and the server, which recomputes the amount on create.
package pricing

const (
	// Currency is the ISO code charges are expressed in.
	Currency = "UGX"

	BaseCharge        float64 = 20000
	FragileSurcharge  float64 = 5000
	TrackingSurcharge float64 = 5000
)

// Amount returns the charge for a package with the given options.
func Amount(isFragile, hasTracking bool) float64 {
	amount := BaseCharge
	if isFragile {
		amount += FragileSurcharge
	}
	if hasTracking {
		amount += TrackingSurcharge
	}
	return amount
}

// Line is one row of a charge breakdown.
type Line struct {
	Label  string
	Amount float64
}

// Breakdown itemizes Amount for receipts.
func Breakdown(isFragile, hasTracking bool) []Line {
	lines := []Line{{Label: "Base charge", Amount: BaseCharge}}
	if isFragile {
		lines = append(lines, Line{Label: "Fragile handling", Amount: FragileSurcharge})
	}
	if hasTracking {
		lines = append(lines, Line{Label: "Tracking", Amount: TrackingSurcharge})
	}
	return lines
}
