package mesh

import "sort"

// Band colors everything at or above Threshold altitude, unless a higher
// band applies.
type Band struct {
	Threshold float64
	Color     Color
}

// Bands is a band list ordered highest threshold first.
type Bands []Band

// NewBands copies bands and orders them highest threshold first. Bands with
// equal thresholds keep their relative order.
func NewBands(bands []Band) Bands {
	out := append(Bands(nil), bands...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Threshold > out[j].Threshold
	})
	return out
}

// ColorAt returns the color of the highest band whose threshold does not
// exceed altitude, or White when none does.
func (b Bands) ColorAt(altitude float64) Color {
	for _, band := range b {
		if altitude >= band.Threshold {
			return band.Color
		}
	}
	return White
}
